package search

import (
	"context"
	"log/slog"
	"math"
	"os"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/poiesic/cinegraph/ai"
	"github.com/poiesic/cinegraph/core"
	"github.com/poiesic/cinegraph/vectorindex"
)

const (
	// DefaultDimension is the fallback vector dimensionality used when the
	// active embedding model's dimension cannot be determined.
	DefaultDimension = 384

	// indexBatchSize bounds the size of one upload request so large ingests
	// don't time out.
	indexBatchSize = 50

	// uploadMaxAttempts and uploadRetryDelay define the bounded retry policy
	// around each batch upload.
	uploadMaxAttempts = 3
	uploadRetryDelay  = 3 * time.Second
)

// Service maps free text to ranked, metadata-bearing candidates by composing
// an embedder with a vector index.
//
// The backing collection is provisioned lazily on first use: the service
// probes the embedding model for its dimensionality (falling back to
// DefaultDimension) and creates the collection for cosine ranking if it does
// not exist. Callers never need a separate provisioning step.
type Service struct {
	embedder   ai.Embedder
	index      vectorindex.Index
	retryDelay time.Duration
	logger     *slog.Logger

	mu          sync.Mutex
	provisioned bool
}

// Option configures a Service.
type Option func(*Service) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithUploadRetryDelay overrides the pause between upload retry attempts.
// Default is 3 seconds. Tests shorten it.
func WithUploadRetryDelay(delay time.Duration) Option {
	return func(s *Service) error {
		if delay > 0 {
			s.retryDelay = delay
		}
		return nil
	}
}

// NewService creates a semantic search service.
func NewService(embedder ai.Embedder, index vectorindex.Index, opts ...Option) (*Service, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}

	s := &Service{
		embedder:   embedder,
		index:      index,
		retryDelay: uploadRetryDelay,
		logger:     slog.Default().With("component", "semantic-search"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// ensureProvisioned creates the backing collection on first use.
// Idempotent and self-healing: a failed attempt is retried on the next call.
func (s *Service) ensureProvisioned(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.provisioned {
		return nil
	}

	exists, err := s.index.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		dimension := s.detectDimension(ctx)
		s.logger.Info("creating vector collection", "dimension", dimension)
		if err := s.index.Create(ctx, dimension); err != nil {
			return err
		}
	}

	s.provisioned = true
	return nil
}

// detectDimension determines the embedding model's vector dimensionality by
// probing it with a short text. Falls back to DefaultDimension when the
// probe fails or returns an empty vector.
func (s *Service) detectDimension(ctx context.Context) int {
	probe, err := s.embedder.EmbedText(ctx, "dimension probe")
	if err != nil || len(probe) == 0 {
		s.logger.Warn("could not determine embedding dimension, using default",
			"default", DefaultDimension, "err", err)
		return DefaultDimension
	}
	return len(probe)
}

// Index computes one embedding per movie from its plot text and upserts the
// points in fixed-size batches. Movies without plot text are skipped: no
// vector can be computed for them.
//
// Ingestion is best effort. Each batch upload is retried up to 3 times with
// a fixed delay; a batch that still fails is logged and skipped while the
// remaining batches proceed.
func (s *Service) Index(ctx context.Context, movies []core.Movie) error {
	if err := s.ensureProvisioned(ctx); err != nil {
		return err
	}

	indexable := make([]core.Movie, 0, len(movies))
	for _, movie := range movies {
		if movie.Plot == "" {
			s.logger.Debug("skipping movie without plot", "title", movie.Title)
			continue
		}
		indexable = append(indexable, movie)
	}

	s.logger.Info("indexing movies", "total", len(movies), "indexable", len(indexable))

	batches := (len(indexable) + indexBatchSize - 1) / indexBatchSize
	for start := 0; start < len(indexable); start += indexBatchSize {
		end := start + indexBatchSize
		if end > len(indexable) {
			end = len(indexable)
		}
		batchNum := start/indexBatchSize + 1

		points, err := s.buildPoints(ctx, indexable[start:end])
		if err != nil {
			s.logger.Error("skipping batch, embedding failed", "batch", batchNum, "of", batches, "err", err)
			continue
		}

		err = RetryFixedDelay(ctx, func() error {
			return s.index.Upsert(ctx, points)
		}, uploadMaxAttempts, s.retryDelay)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Error("skipping batch after retries exhausted",
				"batch", batchNum, "of", batches, "attempts", uploadMaxAttempts, "err", err)
			continue
		}

		s.logger.Info("indexed batch", "batch", batchNum, "of", batches)
	}

	return nil
}

// IndexFile reads a JSON array of movies from path and indexes them.
func (s *Service) IndexFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var movies []core.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return err
	}

	return s.Index(ctx, movies)
}

// buildPoints embeds the batch's plots and pairs them with payloads.
func (s *Service) buildPoints(ctx context.Context, movies []core.Movie) ([]vectorindex.Point, error) {
	texts := make([]string, len(movies))
	for i, movie := range movies {
		texts[i] = movie.Plot
	}

	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}

	points := make([]vectorindex.Point, len(movies))
	for i, movie := range movies {
		id := uint64(movie.ID)
		if id == 0 {
			id = uint64(core.IDFromTitle(movie.Title))
		}
		points[i] = vectorindex.Point{
			ID:     id,
			Vector: vectors[i],
			Payload: vectorindex.Payload{
				Title:    movie.Title,
				Genre:    movie.Genre,
				Director: movie.Director,
				Year:     movie.Year,
			},
		}
	}
	return points, nil
}

// Search embeds the query and returns the top-k most similar movies as
// vector-source candidates. Results keep the index's descending-similarity
// order; no client-side re-ranking is performed. Scores are rounded to 4
// decimal places.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]core.Candidate, error) {
	if err := s.ensureProvisioned(ctx); err != nil {
		return nil, err
	}

	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "err", err)
		return nil, err
	}

	hits, err := s.index.Query(ctx, vector, topK)
	if err != nil {
		s.logger.Error("error querying vector index", "err", err)
		return nil, err
	}

	candidates := make([]core.Candidate, 0, len(hits))
	for _, hit := range hits {
		candidates = append(candidates, core.Candidate{
			Title:    hit.Payload.Title,
			Genre:    hit.Payload.Genre,
			Director: hit.Payload.Director,
			Year:     hit.Payload.Year,
			Score:    core.Float64Ptr(roundScore(hit.Score)),
			Source:   core.SourceVector,
		})
	}
	return candidates, nil
}

// roundScore rounds a cosine similarity to 4 decimal places.
func roundScore(score float32) float64 {
	return math.Round(float64(score)*10000) / 10000
}
