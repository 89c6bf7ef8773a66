package neo4j

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/poiesic/cinegraph/core"
	"github.com/poiesic/cinegraph/graph"
)

// relatedQuery unions three independent relationship paths from the seed
// movie: same director, shared cast member, same genre. The seed excludes
// itself and results are deduplicated before truncation.
const relatedQuery = `
MATCH (m:Movie {title: $title})
CALL {
    WITH m
    MATCH (m)-[:DIRECTED_BY]->(:Director)<-[:DIRECTED_BY]-(r:Movie)
    WHERE r <> m
    RETURN r
    UNION
    WITH m
    MATCH (m)<-[:ACTED_IN]-(:Actor)-[:ACTED_IN]->(r:Movie)
    WHERE r <> m
    RETURN r
    UNION
    WITH m
    MATCH (m)-[:HAS_GENRE]->(:Genre)<-[:HAS_GENRE]-(r:Movie)
    WHERE r <> m
    RETURN r
}
RETURN DISTINCT
    r.title AS title,
    r.genre AS genre,
    r.release_year AS year
LIMIT $limit
`

// loadQuery upserts a batch of movies with their attribute nodes and
// relationships. Genre strings may encode several genres delimited by
// comma or semicolon; each piece becomes its own Genre node.
const loadQuery = `
UNWIND $batch AS m
MERGE (mov:Movie {id: m.id})
SET mov.title = m.title,
    mov.release_year = m.release_year,
    mov.genre = m.genre

MERGE (dir:Director {name: m.director})
MERGE (mov)-[:DIRECTED_BY]->(dir)

FOREACH (actorName IN m.cast |
    MERGE (act:Actor {name: actorName})
    MERGE (act)-[:ACTED_IN]->(mov)
)

FOREACH (g IN m.genres |
    MERGE (gen:Genre {name: g})
    MERGE (mov)-[:HAS_GENRE]->(gen)
)
`

const clearQuery = `MATCH (n) DETACH DELETE n`

// loadBatchSize bounds the size of a single write transaction.
const loadBatchSize = 50

// Config holds connection settings for a Neo4j deployment.
type Config struct {
	// URI is the Bolt endpoint, e.g. "neo4j+s://xyz.databases.neo4j.io".
	URI string

	// User is the database user. Defaults to "neo4j" when empty.
	User string

	// Password is the database credential.
	Password string
}

// Client implements graph.Expander and graph.Loader on the Neo4j Bolt driver.
// The driver is safe for concurrent use and held for the life of the process.
type Client struct {
	driver neo4j.DriverWithContext
	logger *slog.Logger
}

var (
	_ graph.Expander = (*Client)(nil)
	_ graph.Loader   = (*Client)(nil)
)

// New connects to Neo4j with the given configuration.
func New(config Config) (*Client, error) {
	if config.URI == "" {
		return nil, graph.ErrURIRequired
	}
	if config.Password == "" {
		return nil, graph.ErrCredentialsRequired
	}
	if config.User == "" {
		config.User = "neo4j"
	}

	driver, err := neo4j.NewDriverWithContext(config.URI, neo4j.BasicAuth(config.User, config.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("connecting to neo4j: %w", err)
	}

	return &Client{
		driver: driver,
		logger: slog.Default().With("component", "neo4j-graph"),
	}, nil
}

// Close releases the underlying driver.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Related returns up to limit movies related to the given title through a
// shared director, cast member or genre.
func (c *Client) Related(ctx context.Context, title string, limit int) ([]core.Candidate, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	records, err := neo4j.ExecuteRead(ctx, session, func(tx neo4j.ManagedTransaction) ([]core.Candidate, error) {
		result, err := tx.Run(ctx, relatedQuery, map[string]any{
			"title": title,
			"limit": limit,
		})
		if err != nil {
			return nil, err
		}

		var candidates []core.Candidate
		for result.Next(ctx) {
			record := result.Record()
			candidates = append(candidates, core.Candidate{
				Title:  stringValue(record, "title"),
				Genre:  stringValue(record, "genre"),
				Year:   yearValue(record),
				Source: core.SourceGraph,
			})
		}
		return candidates, result.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("expanding %q: %w", title, err)
	}
	return records, nil
}

// LoadMovies upserts movies into the graph in bounded write batches.
func (c *Client) LoadMovies(ctx context.Context, movies []core.Movie) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	for start := 0; start < len(movies); start += loadBatchSize {
		end := start + loadBatchSize
		if end > len(movies) {
			end = len(movies)
		}
		batch := makeBatch(movies[start:end])

		_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
			return tx.Run(ctx, loadQuery, map[string]any{"batch": batch})
		})
		if err != nil {
			return fmt.Errorf("loading movies %d-%d: %w", start, end, err)
		}
		c.logger.Info("loaded graph batch", "from", start, "to", end, "total", len(movies))
	}
	return nil
}

// Clear removes all nodes and relationships.
func (c *Client) Clear(ctx context.Context) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, clearQuery, nil)
	})
	if err != nil {
		return fmt.Errorf("clearing graph: %w", err)
	}
	c.logger.Warn("cleared knowledge graph")
	return nil
}

// makeBatch converts movies to the parameter shape the load query expects.
func makeBatch(movies []core.Movie) []map[string]any {
	batch := make([]map[string]any, 0, len(movies))
	for _, m := range movies {
		batch = append(batch, map[string]any{
			"id":           int64(m.ID),
			"title":        m.Title,
			"genre":        m.Genre,
			"director":     m.Director,
			"cast":         m.Cast,
			"release_year": m.Year,
			"genres":       SplitGenres(m.Genre),
		})
	}
	return batch
}

// SplitGenres splits a genre string on comma and semicolon, trimming
// whitespace and dropping empty or unknown entries.
func SplitGenres(genre string) []string {
	cleaned := strings.ReplaceAll(genre, ";", ",")
	parts := strings.Split(cleaned, ",")

	genres := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" || strings.EqualFold(trimmed, "unknown") {
			continue
		}
		genres = append(genres, trimmed)
	}
	return genres
}

func stringValue(record *neo4j.Record, key string) string {
	value, ok := record.Get(key)
	if !ok || value == nil {
		return ""
	}
	s, _ := value.(string)
	return s
}

// yearValue reads the release year, tolerating integer, float and string
// typed properties from older ingests.
func yearValue(record *neo4j.Record) int {
	value, ok := record.Get("year")
	if !ok || value == nil {
		return 0
	}
	switch v := value.(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		return core.ParseYear(v)
	default:
		return 0
	}
}
