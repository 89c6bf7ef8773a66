package vectorindex

import "context"

// Payload is the descriptive metadata stored alongside each vector.
// It is what similarity queries give back to the caller; the plot text
// itself is not stored, only the vector computed from it.
type Payload struct {
	Title    string
	Genre    string
	Director string
	Year     int // 0 means unknown
}

// Point is a vector plus its payload, keyed by a stable id.
// Upserting the same id twice replaces the previous point, which makes
// batch uploads safe to retry.
type Point struct {
	ID      uint64
	Vector  []float32
	Payload Payload
}

// Hit is a single similarity query result.
type Hit struct {
	Payload Payload
	// Score is the cosine similarity between the query vector and the
	// stored vector, as computed by the index. Range [-1, 1].
	Score float32
}

// Index stores and queries vectors with associated metadata payloads.
// Implementations must be thread-safe: one Index is shared across
// concurrent requests for the life of the serving process.
type Index interface {
	// Exists reports whether the backing collection has been created.
	Exists(ctx context.Context) (bool, error)

	// Create provisions the backing collection for cosine-distance ranking
	// at the given vector dimensionality.
	Create(ctx context.Context, dimension int) error

	// Upsert inserts or replaces points by id.
	Upsert(ctx context.Context, points []Point) error

	// Query returns up to limit hits ranked by descending similarity to the
	// given vector, exactly as ordered by the index. No client-side
	// re-ranking is performed.
	Query(ctx context.Context, vector []float32, limit int) ([]Hit, error)
}
