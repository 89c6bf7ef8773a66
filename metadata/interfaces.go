package metadata

import (
	"context"

	"github.com/poiesic/cinegraph/core"
)

// Enricher attaches external presentation metadata to candidates and serves
// the provider's trending list. Implementations must be thread-safe.
//
// Enrichment is best effort by contract: provider errors are caught and
// logged internally, never surfaced to the caller. A candidate the provider
// knows nothing about still comes back, with explicit nil markers for the
// fields that could not be resolved.
type Enricher interface {
	// Enrich overlays poster and external-link fields onto each candidate.
	// The returned list has the same length and order as the input. When no
	// provider credential is configured, the input is returned unchanged.
	Enrich(ctx context.Context, candidates []core.Candidate) []core.Candidate

	// Trending returns up to limit candidates from the provider's current
	// daily trending list, tagged with Source=trending and no similarity
	// score. Returns an empty list when the provider is unreachable or no
	// credential is configured.
	Trending(ctx context.Context, limit int) []core.Candidate
}

// CachedLookup is a memoized provider lookup result.
// Negative results (Found=false) are cached too, so repeatedly requested
// unknown titles don't hammer the provider.
type CachedLookup struct {
	Found       bool   `json:"found"`
	PosterURL   string `json:"poster_url"`
	ExternalURL string `json:"external_url"`
}

// LookupCache memoizes provider lookups keyed by normalized title and year.
// Implementations must be thread-safe. A cache is strictly optional; the
// enricher works without one.
type LookupCache interface {
	// Get returns the cached lookup for key, or nil when absent or expired.
	Get(ctx context.Context, key string) (*CachedLookup, error)

	// Put stores a lookup result under key. Best effort: callers ignore
	// failures beyond logging.
	Put(ctx context.Context, key string, value CachedLookup) error

	// Close releases cache resources.
	Close() error
}
