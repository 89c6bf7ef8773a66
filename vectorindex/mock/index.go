package mock

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/poiesic/cinegraph/vectorindex"
)

// MockIndex is an in-memory test double for vectorindex.Index.
// It stores points in a map and answers queries by brute-force cosine
// similarity, which is enough to exercise ranking behavior in tests.
type MockIndex struct {
	// ExistsFunc is called by Exists if set.
	ExistsFunc func(ctx context.Context) (bool, error)

	// CreateFunc is called by Create if set.
	CreateFunc func(ctx context.Context, dimension int) error

	// UpsertFunc is called by Upsert if set.
	UpsertFunc func(ctx context.Context, points []vectorindex.Point) error

	// QueryFunc is called by Query if set.
	QueryFunc func(ctx context.Context, vector []float32, limit int) ([]vectorindex.Hit, error)

	mu          sync.Mutex
	points      map[uint64]vectorindex.Point
	created     bool
	dimension   int
	existsCalls int
	createCalls int
	upsertCalls int
	queryCalls  int
}

var _ vectorindex.Index = (*MockIndex)(nil)

// NewMockIndex creates an empty in-memory index.
func NewMockIndex() *MockIndex {
	return &MockIndex{points: make(map[uint64]vectorindex.Point)}
}

// Exists reports whether Create has been called.
func (m *MockIndex) Exists(ctx context.Context) (bool, error) {
	m.mu.Lock()
	m.existsCalls++
	m.mu.Unlock()

	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.created, nil
}

// Create marks the collection as provisioned at the given dimensionality.
func (m *MockIndex) Create(ctx context.Context, dimension int) error {
	m.mu.Lock()
	m.createCalls++
	m.mu.Unlock()

	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, dimension)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = true
	m.dimension = dimension
	return nil
}

// Upsert inserts or replaces points by id.
func (m *MockIndex) Upsert(ctx context.Context, points []vectorindex.Point) error {
	m.mu.Lock()
	m.upsertCalls++
	m.mu.Unlock()

	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, points)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range points {
		m.points[p.ID] = p
	}
	return nil
}

// Query ranks all stored points by cosine similarity to the given vector.
func (m *MockIndex) Query(ctx context.Context, vector []float32, limit int) ([]vectorindex.Hit, error) {
	m.mu.Lock()
	m.queryCalls++
	m.mu.Unlock()

	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, vector, limit)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	hits := make([]vectorindex.Hit, 0, len(m.points))
	for _, p := range m.points {
		hits = append(hits, vectorindex.Hit{
			Payload: p.Payload,
			Score:   cosineSimilarity(vector, p.Vector),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if limit >= 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Len returns the number of stored points.
func (m *MockIndex) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.points)
}

// Dimension returns the dimensionality passed to Create, or 0.
func (m *MockIndex) Dimension() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dimension
}

// CreateCalls returns how many times Create was called.
func (m *MockIndex) CreateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCalls
}

// UpsertCalls returns how many times Upsert was called.
func (m *MockIndex) UpsertCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upsertCalls
}

// QueryCalls returns how many times Query was called.
func (m *MockIndex) QueryCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queryCalls
}

// Reset clears stored points, call counts and injected behavior.
func (m *MockIndex) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points = make(map[uint64]vectorindex.Point)
	m.created = false
	m.dimension = 0
	m.existsCalls = 0
	m.createCalls = 0
	m.upsertCalls = 0
	m.queryCalls = 0
	m.ExistsFunc = nil
	m.CreateFunc = nil
	m.UpsertFunc = nil
	m.QueryFunc = nil
}

func cosineSimilarity(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
