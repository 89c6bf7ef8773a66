package graph

import (
	"context"

	"github.com/poiesic/cinegraph/core"
)

// Expander traverses the knowledge graph from a seed movie to related movies.
// Two movies are related when they share a director, a cast member, or a
// genre. Implementations must be thread-safe for concurrent use.
type Expander interface {
	// Related returns up to limit movies related to the movie with the given
	// title, excluding the seed itself and already deduplicated within the
	// traversal. Returned candidates carry Source=graph and no similarity
	// score: graph hits are not comparable to vector scores.
	Related(ctx context.Context, title string, limit int) ([]core.Candidate, error)
}

// Loader populates the knowledge graph during ingestion.
// The recommendation pipeline never writes to the graph; only the ingest
// pipeline uses this interface.
type Loader interface {
	// LoadMovies upserts movies plus their director, cast and genre nodes
	// and the DIRECTED_BY / ACTED_IN / HAS_GENRE relationships between them.
	// Multi-genre strings are split on comma and semicolon.
	LoadMovies(ctx context.Context, movies []core.Movie) error

	// Clear removes all nodes and relationships. Used before a full
	// re-ingestion run.
	Clear(ctx context.Context) error
}
