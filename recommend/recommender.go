package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/cinegraph/core"
	"github.com/poiesic/cinegraph/graph"
	"github.com/poiesic/cinegraph/metadata"
)

const (
	// DefaultVectorLimit is the number of semantic seeds retrieved when the
	// caller does not specify one.
	DefaultVectorLimit = 4

	// DefaultGraphLimit is the number of related titles fetched per seed when
	// the caller does not specify one.
	DefaultGraphLimit = 4

	// DefaultTrendingLimit is the number of trending titles returned when the
	// caller does not specify one.
	DefaultTrendingLimit = 6
)

// Searcher is the semantic retrieval stage: it turns a free-text query into
// ranked seed candidates.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]core.Candidate, error)
}

// Recommender combines semantic retrieval with graph traversal. Vector search
// produces seed candidates, each seed is expanded through the relationship
// graph, and the merged set is enriched with presentation metadata in a single
// pass.
type Recommender struct {
	searcher Searcher
	expander graph.Expander
	enricher metadata.Enricher
	poolSize int
	logger   *slog.Logger
}

// Option configures a Recommender.
type Option func(*Recommender) error

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recommender) error {
		if logger != nil {
			r.logger = logger
		}
		return nil
	}
}

// WithPoolSize sets the number of workers used for per-seed graph expansion.
func WithPoolSize(size int) Option {
	return func(r *Recommender) error {
		if size > 0 {
			r.poolSize = size
		}
		return nil
	}
}

// NewRecommender creates a recommender over the given stages.
func NewRecommender(searcher Searcher, expander graph.Expander, enricher metadata.Enricher, opts ...Option) (*Recommender, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if expander == nil {
		return nil, ErrExpanderRequired
	}
	if enricher == nil {
		return nil, ErrEnricherRequired
	}

	r := &Recommender{
		searcher: searcher,
		expander: expander,
		enricher: enricher,
		poolSize: max(runtime.NumCPU()/2, 1),
		logger:   slog.Default().With("component", "recommender"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Recommend runs the full pipeline for a free-text query. Vector results come
// first in rank order, then graph expansions in seed order, with duplicate
// titles dropped on first-occurrence-wins terms. An empty vector stage
// short-circuits the pipeline: no graph traversal and no enrichment happen,
// and an empty slice is returned.
//
// A failed expansion for one seed never fails the request; the seed simply
// contributes nothing.
func (r *Recommender) Recommend(ctx context.Context, query string, vectorLimit, graphLimit int) ([]core.Candidate, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if vectorLimit <= 0 {
		vectorLimit = DefaultVectorLimit
	}
	if graphLimit <= 0 {
		graphLimit = DefaultGraphLimit
	}

	seeds, err := r.searcher.Search(ctx, query, vectorLimit)
	if err != nil {
		return nil, fmt.Errorf("vector stage: %w", err)
	}
	if len(seeds) == 0 {
		r.logger.Debug("vector stage empty, skipping graph expansion", "query", query)
		return []core.Candidate{}, nil
	}

	set := core.NewCandidateSet()
	set.AddAll(seeds...)

	for _, related := range r.expandSeeds(ctx, seeds, graphLimit) {
		set.AddAll(related...)
	}

	r.logger.Debug("pipeline complete",
		"query", query,
		"seeds", len(seeds),
		"candidates", set.Len())

	return r.enricher.Enrich(ctx, set.Items()), nil
}

// Trending returns currently popular titles from the metadata provider.
func (r *Recommender) Trending(ctx context.Context, limit int) []core.Candidate {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	return r.enricher.Trending(ctx, limit)
}

// expandSeeds traverses the graph for every seed concurrently. Results are
// written to fixed slice positions so the merge order matches seed order
// regardless of completion order.
func (r *Recommender) expandSeeds(ctx context.Context, seeds []core.Candidate, limit int) [][]core.Candidate {
	out := make([][]core.Candidate, len(seeds))

	pool, err := ants.NewPool(r.poolSize)
	if err != nil {
		r.logger.Warn("worker pool unavailable, expanding sequentially", "error", err)
		for i, seed := range seeds {
			out[i] = r.expandOne(ctx, seed.Title, limit)
		}
		return out
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, seed := range seeds {
		idx, title := i, seed.Title
		wg.Add(1)
		task := func() {
			defer wg.Done()
			out[idx] = r.expandOne(ctx, title, limit)
		}
		if err := pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	return out
}

func (r *Recommender) expandOne(ctx context.Context, title string, limit int) []core.Candidate {
	related, err := r.expander.Related(ctx, title, limit)
	if err != nil {
		r.logger.Warn("graph expansion failed", "seed", title, "error", err)
		return nil
	}
	return related
}
