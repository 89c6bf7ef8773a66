package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	json "github.com/goccy/go-json"

	"github.com/poiesic/cinegraph/core"
	"github.com/poiesic/cinegraph/graph"
)

// Indexer is the vector side of ingestion. search.Service satisfies it.
type Indexer interface {
	Index(ctx context.Context, movies []core.Movie) error
}

// Pipeline loads a movie dataset into both backing stores: plot embeddings
// into the vector index and title relationships into the graph.
type Pipeline struct {
	indexer Indexer
	loader  graph.Loader
	logger  *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger != nil {
			p.logger = logger
		}
		return nil
	}
}

// NewPipeline creates an ingestion pipeline over the given stores.
func NewPipeline(indexer Indexer, loader graph.Loader, opts ...Option) (*Pipeline, error) {
	if indexer == nil {
		return nil, ErrIndexerRequired
	}
	if loader == nil {
		return nil, ErrLoaderRequired
	}

	p := &Pipeline{
		indexer: indexer,
		loader:  loader,
		logger:  slog.Default().With("component", "ingest"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ReadDataset parses a JSON movie dataset from disk.
func ReadDataset(path string) ([]core.Movie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	var movies []core.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}
	if len(movies) == 0 {
		return nil, ErrEmptyDataset
	}
	return movies, nil
}

// Run ingests the given movies. The graph is populated first so that
// traversal data exists for any title the vector stage can return. When reset
// is true the graph is cleared before loading.
func (p *Pipeline) Run(ctx context.Context, movies []core.Movie, reset bool) error {
	if len(movies) == 0 {
		return ErrEmptyDataset
	}

	if reset {
		p.logger.Info("clearing graph before load")
		if err := p.loader.Clear(ctx); err != nil {
			return fmt.Errorf("clearing graph: %w", err)
		}
	}

	p.logger.Info("loading graph", "movies", len(movies))
	if err := p.loader.LoadMovies(ctx, movies); err != nil {
		return fmt.Errorf("loading graph: %w", err)
	}

	p.logger.Info("indexing embeddings", "movies", len(movies))
	if err := p.indexer.Index(ctx, movies); err != nil {
		return fmt.Errorf("indexing embeddings: %w", err)
	}

	p.logger.Info("ingestion complete", "movies", len(movies))
	return nil
}

// RunFile reads a JSON dataset from disk and ingests it.
func (p *Pipeline) RunFile(ctx context.Context, path string, reset bool) error {
	movies, err := ReadDataset(path)
	if err != nil {
		return err
	}
	return p.Run(ctx, movies, reset)
}
