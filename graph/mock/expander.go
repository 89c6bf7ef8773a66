package mock

import (
	"context"
	"sync"

	"github.com/poiesic/cinegraph/core"
	"github.com/poiesic/cinegraph/graph"
)

// MockExpander is a test double for graph.Expander.
// It allows custom behavior injection via function fields and records every
// traversal so tests can assert on call counts and seed order.
type MockExpander struct {
	// RelatedFunc is called by Related if set.
	// If nil, results are served from the Relations map.
	RelatedFunc func(ctx context.Context, title string, limit int) ([]core.Candidate, error)

	// Relations maps a seed title to the candidates its traversal returns.
	Relations map[string][]core.Candidate

	mu    sync.Mutex
	seeds []string
}

var _ graph.Expander = (*MockExpander)(nil)

// NewMockExpander creates a mock expander with no relations.
func NewMockExpander() *MockExpander {
	return &MockExpander{Relations: make(map[string][]core.Candidate)}
}

// Related returns the configured relations for the seed title, truncated to
// limit, or delegates to RelatedFunc when injected.
func (m *MockExpander) Related(ctx context.Context, title string, limit int) ([]core.Candidate, error) {
	m.mu.Lock()
	m.seeds = append(m.seeds, title)
	m.mu.Unlock()

	if m.RelatedFunc != nil {
		return m.RelatedFunc(ctx, title, limit)
	}

	related := m.Relations[title]
	if limit >= 0 && len(related) > limit {
		related = related[:limit]
	}

	out := make([]core.Candidate, len(related))
	copy(out, related)
	for i := range out {
		out[i].Source = core.SourceGraph
	}
	return out, nil
}

// CallCount returns the number of traversals performed.
func (m *MockExpander) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.seeds)
}

// Seeds returns the seed titles in the order traversals were issued.
func (m *MockExpander) Seeds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.seeds))
	copy(out, m.seeds)
	return out
}

// Reset clears recorded traversals and injected behavior.
func (m *MockExpander) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seeds = nil
	m.RelatedFunc = nil
	m.Relations = make(map[string][]core.Candidate)
}

// MockLoader is a test double for graph.Loader.
type MockLoader struct {
	// LoadMoviesFunc is called by LoadMovies if set.
	LoadMoviesFunc func(ctx context.Context, movies []core.Movie) error

	// ClearFunc is called by Clear if set.
	ClearFunc func(ctx context.Context) error

	mu         sync.Mutex
	loaded     []core.Movie
	clearCalls int
}

var _ graph.Loader = (*MockLoader)(nil)

// NewMockLoader creates a mock loader.
func NewMockLoader() *MockLoader {
	return &MockLoader{}
}

// LoadMovies records the movies, or delegates to LoadMoviesFunc when injected.
func (m *MockLoader) LoadMovies(ctx context.Context, movies []core.Movie) error {
	if m.LoadMoviesFunc != nil {
		return m.LoadMoviesFunc(ctx, movies)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = append(m.loaded, movies...)
	return nil
}

// Clear records the call, or delegates to ClearFunc when injected.
func (m *MockLoader) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.clearCalls++
	m.mu.Unlock()
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	return nil
}

// Loaded returns every movie passed to LoadMovies.
func (m *MockLoader) Loaded() []core.Movie {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Movie, len(m.loaded))
	copy(out, m.loaded)
	return out
}

// ClearCalls returns how many times Clear was called.
func (m *MockLoader) ClearCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clearCalls
}
