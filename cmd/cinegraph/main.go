// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	cinegraph "github.com/poiesic/cinegraph"
	"github.com/poiesic/cinegraph/ai"
	"github.com/poiesic/cinegraph/graph/neo4j"
	"github.com/poiesic/cinegraph/metadata/tmdb"
	"github.com/poiesic/cinegraph/server"
	"github.com/poiesic/cinegraph/vectorindex/qdrant"
)

func main() {
	// Missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "cinegraph",
		Usage: "Hybrid movie recommendation engine over vector search and a relationship graph",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the recommendation HTTP server",
				Action: serveCommand,
				Flags: append(engineFlags(),
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Listen address",
						Value:   ":8080",
						EnvVars: []string{"CINEGRAPH_ADDR"},
					},
				),
			},
			{
				Name:      "index",
				Usage:     "Load a movie dataset into the vector index and the graph",
				ArgsUsage: "<dataset.json>",
				Action:    indexCommand,
				Flags: append(engineFlags(),
					&cli.BoolFlag{
						Name:  "clear-graph",
						Usage: "Clear the relationship graph before loading",
					},
				),
			},
			{
				Name:   "trending",
				Usage:  "Print currently trending movies as JSON",
				Action: trendingCommand,
				Flags: append(engineFlags(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of trending titles",
						Value: 6,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "qdrant-url",
			Usage:   "Qdrant endpoint",
			Value:   "http://localhost:6334",
			EnvVars: []string{"QDRANT_URL"},
		},
		&cli.StringFlag{
			Name:    "qdrant-api-key",
			Usage:   "Qdrant credential",
			EnvVars: []string{"QDRANT_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "collection",
			Usage:   "Qdrant collection name",
			Value:   "movies",
			EnvVars: []string{"QDRANT_COLLECTION"},
		},
		&cli.StringFlag{
			Name:    "neo4j-uri",
			Usage:   "Neo4j Bolt endpoint",
			Value:   "neo4j://localhost:7687",
			EnvVars: []string{"NEO4J_URI"},
		},
		&cli.StringFlag{
			Name:    "neo4j-user",
			Usage:   "Neo4j user",
			Value:   "neo4j",
			EnvVars: []string{"NEO4J_USERNAME"},
		},
		&cli.StringFlag{
			Name:    "neo4j-password",
			Usage:   "Neo4j credential",
			EnvVars: []string{"NEO4J_PASSWORD"},
		},
		&cli.StringFlag{
			Name:    "tmdb-api-key",
			Usage:   "TMDB credential (empty disables enrichment)",
			EnvVars: []string{"TMDB_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "cache-path",
			Usage:   "Metadata lookup cache directory (empty disables caching)",
			EnvVars: []string{"CINEGRAPH_CACHE_PATH"},
		},
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "all-minilm",
			EnvVars: []string{"EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "embedding-api-key",
			Usage:   "Embedding service credential",
			EnvVars: []string{"EMBEDDING_API_KEY"},
		},
	}
}

func newEngine(c *cli.Context) (*cinegraph.Engine, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
		ai.WithAPIKey(c.String("embedding-api-key")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid embedding configuration: %w", err)
	}

	config := cinegraph.EngineConfig{
		Qdrant: qdrant.Config{
			URL:        c.String("qdrant-url"),
			APIKey:     c.String("qdrant-api-key"),
			Collection: c.String("collection"),
		},
		Neo4j: neo4j.Config{
			URI:      c.String("neo4j-uri"),
			User:     c.String("neo4j-user"),
			Password: c.String("neo4j-password"),
		},
		TMDB: tmdb.Config{
			APIKey: c.String("tmdb-api-key"),
		},
		CachePath: c.String("cache-path"),
	}

	return cinegraph.NewEngine(config, cinegraph.WithAIConfig(aiConfig))
}

func serveCommand(c *cli.Context) error {
	engine, err := newEngine(c)
	if err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}
	defer engine.Close()

	srv, err := server.New(engine)
	if err != nil {
		return err
	}
	return srv.Run(c.String("addr"))
}

func indexCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one dataset path argument")
	}

	engine, err := newEngine(c)
	if err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}
	defer engine.Close()

	pipeline, err := engine.NewIngestPipeline()
	if err != nil {
		return err
	}

	if err := pipeline.RunFile(context.Background(), c.Args().First(), c.Bool("clear-graph")); err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	return nil
}

func trendingCommand(c *cli.Context) error {
	engine, err := newEngine(c)
	if err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}
	defer engine.Close()

	trending := engine.Trending(context.Background(), c.Int("limit"))

	out, err := json.MarshalIndent(trending, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
