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

package cinegraph

import (
	"context"
	"log/slog"

	"github.com/poiesic/cinegraph/ai"
	"github.com/poiesic/cinegraph/ai/openai"
	"github.com/poiesic/cinegraph/core"
	"github.com/poiesic/cinegraph/graph/neo4j"
	"github.com/poiesic/cinegraph/ingest"
	"github.com/poiesic/cinegraph/metadata"
	"github.com/poiesic/cinegraph/metadata/badgercache"
	"github.com/poiesic/cinegraph/metadata/tmdb"
	"github.com/poiesic/cinegraph/recommend"
	"github.com/poiesic/cinegraph/search"
	"github.com/poiesic/cinegraph/vectorindex/qdrant"
)

// EngineConfig holds the connection settings for every backing service.
type EngineConfig struct {
	// Qdrant is the vector index configuration.
	Qdrant qdrant.Config

	// Neo4j is the relationship graph configuration.
	Neo4j neo4j.Config

	// TMDB is the metadata provider configuration. An empty APIKey is
	// valid: enrichment degrades to a passthrough.
	TMDB tmdb.Config

	// CachePath is the on-disk location of the metadata lookup cache.
	// Empty disables caching.
	CachePath string
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig *ai.Config
}

// WithAIConfig overrides the embedding service configuration.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// Engine wires the embedding service, vector index, relationship graph and
// metadata provider into one recommendation surface.
type Engine struct {
	index       *qdrant.Index
	graph       *neo4j.Client
	enricher    *tmdb.Client
	cache       metadata.LookupCache
	searcher    *search.Service
	recommender *recommend.Recommender
	logger      *slog.Logger
}

// NewEngine connects to every backing service and assembles the pipeline.
// Connections are lazy where the client libraries allow it; failures surface
// on first use rather than here.
func NewEngine(config EngineConfig, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	embedder, err := openai.NewEmbedder(options.aiConfig)
	if err != nil {
		return nil, err
	}

	index, err := qdrant.New(config.Qdrant)
	if err != nil {
		return nil, err
	}

	graphClient, err := neo4j.New(config.Neo4j)
	if err != nil {
		index.Close()
		return nil, err
	}

	var cache metadata.LookupCache
	if config.CachePath != "" {
		cache, err = badgercache.Open(config.CachePath)
		if err != nil {
			graphClient.Close(context.Background())
			index.Close()
			return nil, err
		}
	}

	tmdbConfig := config.TMDB
	tmdbConfig.Cache = cache
	enricher, err := tmdb.New(tmdbConfig)
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		graphClient.Close(context.Background())
		index.Close()
		return nil, err
	}

	searcher, err := search.NewService(embedder, index)
	if err != nil {
		enricher.Close()
		if cache != nil {
			cache.Close()
		}
		graphClient.Close(context.Background())
		index.Close()
		return nil, err
	}

	recommender, err := recommend.NewRecommender(searcher, graphClient, enricher)
	if err != nil {
		enricher.Close()
		if cache != nil {
			cache.Close()
		}
		graphClient.Close(context.Background())
		index.Close()
		return nil, err
	}

	return &Engine{
		index:       index,
		graph:       graphClient,
		enricher:    enricher,
		cache:       cache,
		searcher:    searcher,
		recommender: recommender,
		logger:      slog.Default(),
	}, nil
}

// Recommend runs the hybrid pipeline for a free-text query.
func (e *Engine) Recommend(ctx context.Context, query string, vectorLimit, graphLimit int) ([]core.Candidate, error) {
	return e.recommender.Recommend(ctx, query, vectorLimit, graphLimit)
}

// Trending returns currently popular titles.
func (e *Engine) Trending(ctx context.Context, limit int) []core.Candidate {
	return e.recommender.Trending(ctx, limit)
}

// NewIngestPipeline builds an ingestion pipeline over the engine's stores.
func (e *Engine) NewIngestPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	return ingest.NewPipeline(e.searcher, e.graph, opts...)
}

// Close releases every backing connection.
func (e *Engine) Close() error {
	if err := e.enricher.Close(); err != nil {
		e.logger.Error("error closing metadata provider", "err", err)
	}
	if e.cache != nil {
		if err := e.cache.Close(); err != nil {
			e.logger.Error("error closing lookup cache", "err", err)
		}
	}
	if err := e.graph.Close(context.Background()); err != nil {
		e.logger.Error("error closing graph driver", "err", err)
		return err
	}
	if err := e.index.Close(); err != nil {
		e.logger.Error("error closing vector index", "err", err)
		return err
	}
	return nil
}
