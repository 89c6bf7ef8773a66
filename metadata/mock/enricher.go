package mock

import (
	"context"
	"sync"

	"github.com/poiesic/cinegraph/core"
	"github.com/poiesic/cinegraph/metadata"
)

// MockEnricher is a test double for metadata.Enricher.
// By default Enrich stamps deterministic poster and external links onto every
// candidate, so tests can tell enriched output from passthrough.
type MockEnricher struct {
	// EnrichFunc is called by Enrich if set.
	EnrichFunc func(ctx context.Context, candidates []core.Candidate) []core.Candidate

	// TrendingFunc is called by Trending if set.
	TrendingFunc func(ctx context.Context, limit int) []core.Candidate

	// Passthrough makes the default Enrich return its input unchanged,
	// mimicking a provider with no credential configured.
	Passthrough bool

	mu            sync.Mutex
	enrichCalls   int
	trendingCalls int
}

var _ metadata.Enricher = (*MockEnricher)(nil)

// NewMockEnricher creates a mock enricher with default deterministic behavior.
func NewMockEnricher() *MockEnricher {
	return &MockEnricher{}
}

// Enrich stamps deterministic urls per title, or delegates to EnrichFunc.
func (m *MockEnricher) Enrich(ctx context.Context, candidates []core.Candidate) []core.Candidate {
	m.mu.Lock()
	m.enrichCalls++
	m.mu.Unlock()

	if m.EnrichFunc != nil {
		return m.EnrichFunc(ctx, candidates)
	}
	if m.Passthrough {
		return candidates
	}

	out := make([]core.Candidate, len(candidates))
	copy(out, candidates)
	for i := range out {
		out[i].PosterURL = core.StringPtr("https://posters.test/" + out[i].Title)
		out[i].ExternalURL = core.StringPtr("https://external.test/" + out[i].Title)
	}
	return out
}

// Trending returns limit synthetic trending candidates, or delegates to
// TrendingFunc.
func (m *MockEnricher) Trending(ctx context.Context, limit int) []core.Candidate {
	m.mu.Lock()
	m.trendingCalls++
	m.mu.Unlock()

	if m.TrendingFunc != nil {
		return m.TrendingFunc(ctx, limit)
	}

	titles := []string{"Trending One", "Trending Two", "Trending Three", "Trending Four", "Trending Five", "Trending Six"}
	if limit >= 0 && limit < len(titles) {
		titles = titles[:limit]
	}
	out := make([]core.Candidate, len(titles))
	for i, title := range titles {
		out[i] = core.Candidate{
			Title:  title,
			Genre:  "Trending",
			Source: core.SourceTrending,
		}
	}
	return out
}

// EnrichCalls returns how many times Enrich was called.
func (m *MockEnricher) EnrichCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enrichCalls
}

// TrendingCalls returns how many times Trending was called.
func (m *MockEnricher) TrendingCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trendingCalls
}

// Reset clears call counts and injected behavior.
func (m *MockEnricher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enrichCalls = 0
	m.trendingCalls = 0
	m.EnrichFunc = nil
	m.TrendingFunc = nil
	m.Passthrough = false
}
