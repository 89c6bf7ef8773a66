package tmdb

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/cinegraph/core"
	"github.com/poiesic/cinegraph/metadata"
)

const (
	defaultBaseURL       = "https://api.themoviedb.org/3"
	defaultPosterBaseURL = "https://image.tmdb.org/t/p/w500"
	defaultIMDBBaseURL   = "https://www.imdb.com/title/"
	defaultTimeout       = 10 * time.Second
)

// Config holds settings for the TMDB client.
type Config struct {
	// APIKey is the TMDB credential. When empty, enrichment degrades to a
	// passthrough and trending to an empty list: a missing credential is a
	// configuration concern, not a pipeline failure.
	APIKey string

	// BaseURL overrides the TMDB API endpoint. Used by tests.
	BaseURL string

	// Timeout bounds each provider call. Defaults to 10s; enrichment is an
	// interactive path, not a batch one.
	Timeout time.Duration

	// Cache memoizes lookups. Optional.
	Cache metadata.LookupCache

	// PoolSize is the number of concurrent per-candidate lookups.
	// Defaults to runtime.NumCPU() / 2, with a minimum of 1.
	PoolSize int
}

// Client implements metadata.Enricher against The Movie Database.
type Client struct {
	http       *resty.Client
	apiKey     string
	posterBase string
	imdbBase   string
	cache      metadata.LookupCache
	pool       *ants.Pool
	logger     *slog.Logger
}

var _ metadata.Enricher = (*Client)(nil)

type searchResponse struct {
	Results []movieResult `json:"results"`
}

type movieResult struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	PosterPath  string `json:"poster_path"`
	ReleaseDate string `json:"release_date"`
}

type detailsResponse struct {
	IMDBID string `json:"imdb_id"`
}

// New creates a TMDB client.
func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if config.PoolSize < 1 {
		config.PoolSize = runtime.NumCPU() / 2
		if config.PoolSize < 1 {
			config.PoolSize = 1
		}
	}

	pool, err := ants.NewPool(config.PoolSize)
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "tmdb-enricher")
	if config.APIKey == "" {
		logger.Warn("no TMDB API key configured, recommendations will not be enriched")
	}

	return &Client{
		http:       resty.New().SetBaseURL(config.BaseURL).SetTimeout(config.Timeout),
		apiKey:     config.APIKey,
		posterBase: defaultPosterBaseURL,
		imdbBase:   defaultIMDBBaseURL,
		cache:      config.Cache,
		pool:       pool,
		logger:     logger,
	}, nil
}

// Close releases the worker pool.
func (c *Client) Close() error {
	c.pool.Release()
	return nil
}

// Enrich overlays poster and external-link fields onto each candidate.
// Lookups fan out across the worker pool; results land at their original
// index, so output order always matches input order.
func (c *Client) Enrich(ctx context.Context, candidates []core.Candidate) []core.Candidate {
	if c.apiKey == "" {
		return candidates
	}
	if len(candidates) == 0 {
		return candidates
	}

	out := make([]core.Candidate, len(candidates))
	copy(out, candidates)

	var wg sync.WaitGroup
	for i := range out {
		wg.Add(1)
		idx := i
		err := c.pool.Submit(func() {
			defer wg.Done()
			out[idx] = c.enrichOne(ctx, out[idx])
		})
		if err != nil {
			// Pool unavailable, do the work inline.
			out[idx] = c.enrichOne(ctx, out[idx])
			wg.Done()
		}
	}
	wg.Wait()

	return out
}

// Trending returns up to limit candidates from TMDB's daily trending list.
func (c *Client) Trending(ctx context.Context, limit int) []core.Candidate {
	if c.apiKey == "" {
		return []core.Candidate{}
	}

	var payload searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.apiKey).
		SetResult(&payload).
		Get("/trending/movie/day")
	if err != nil {
		c.logger.Error("error getting trending movies", "err", err)
		return []core.Candidate{}
	}
	if resp.IsError() {
		c.logger.Error("trending request rejected", "status", resp.StatusCode())
		return []core.Candidate{}
	}

	results := payload.Results
	if limit >= 0 && len(results) > limit {
		results = results[:limit]
	}

	trending := make([]core.Candidate, len(results))
	var wg sync.WaitGroup
	for i, movie := range results {
		wg.Add(1)
		idx, m := i, movie
		err := c.pool.Submit(func() {
			defer wg.Done()
			trending[idx] = c.trendingCandidate(ctx, m)
		})
		if err != nil {
			trending[idx] = c.trendingCandidate(ctx, m)
			wg.Done()
		}
	}
	wg.Wait()

	return trending
}

func (c *Client) trendingCandidate(ctx context.Context, movie movieResult) core.Candidate {
	candidate := core.Candidate{
		Title: movie.Title,
		// The trending endpoint carries no genre information.
		Genre:  "Trending",
		Year:   releaseYear(movie.ReleaseDate),
		Source: core.SourceTrending,
	}

	if movie.PosterPath != "" {
		candidate.PosterURL = core.StringPtr(c.posterBase + movie.PosterPath)
	}
	if imdbID := c.imdbID(ctx, movie.ID); imdbID != "" {
		candidate.ExternalURL = core.StringPtr(c.imdbBase + imdbID)
	}
	return candidate
}

// enrichOne resolves poster and external link for a single candidate.
// All provider errors collapse to "no match": the candidate comes back with
// explicit nil markers rather than an error.
func (c *Client) enrichOne(ctx context.Context, candidate core.Candidate) core.Candidate {
	key := cacheKey(candidate.Title, candidate.Year)

	if c.cache != nil {
		cached, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.Warn("cache read failed", "key", key, "err", err)
		} else if cached != nil {
			return applyLookup(candidate, *cached)
		}
	}

	lookup := metadata.CachedLookup{}
	if match := c.searchMovie(ctx, candidate.Title, candidate.Year); match != nil {
		lookup.Found = true
		if match.PosterPath != "" {
			lookup.PosterURL = c.posterBase + match.PosterPath
		}
		if imdbID := c.imdbID(ctx, match.ID); imdbID != "" {
			lookup.ExternalURL = c.imdbBase + imdbID
		}
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, key, lookup); err != nil {
			c.logger.Warn("cache write failed", "key", key, "err", err)
		}
	}

	return applyLookup(candidate, lookup)
}

// searchMovie queries TMDB for the best (first) match by title, optionally
// narrowed by year. Returns nil on no match or any provider error.
func (c *Client) searchMovie(ctx context.Context, title string, year int) *movieResult {
	if title == "" {
		return nil
	}

	var payload searchResponse
	request := c.http.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.apiKey).
		SetQueryParam("query", title).
		SetResult(&payload)
	if year > 0 {
		request.SetQueryParam("year", strconv.Itoa(year))
	}

	resp, err := request.Get("/search/movie")
	if err != nil {
		c.logger.Error("error searching TMDB", "title", title, "err", err)
		return nil
	}
	if resp.IsError() {
		c.logger.Error("TMDB search rejected", "title", title, "status", resp.StatusCode())
		return nil
	}
	if len(payload.Results) == 0 {
		return nil
	}
	// The first result is usually the best match.
	return &payload.Results[0]
}

// imdbID resolves a TMDB id to the canonical IMDB id via the details
// endpoint. Returns "" on any failure.
func (c *Client) imdbID(ctx context.Context, tmdbID int64) string {
	if tmdbID == 0 {
		return ""
	}

	var payload detailsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.apiKey).
		SetResult(&payload).
		Get(fmt.Sprintf("/movie/%d", tmdbID))
	if err != nil {
		c.logger.Error("error getting IMDB id", "tmdbID", tmdbID, "err", err)
		return ""
	}
	if resp.IsError() {
		c.logger.Error("TMDB details rejected", "tmdbID", tmdbID, "status", resp.StatusCode())
		return ""
	}
	return payload.IMDBID
}

// applyLookup writes the lookup outcome onto the candidate. Unresolved
// fields get explicit nil markers so the response schema stays stable.
func applyLookup(candidate core.Candidate, lookup metadata.CachedLookup) core.Candidate {
	candidate.PosterURL = nil
	candidate.ExternalURL = nil
	if lookup.PosterURL != "" {
		candidate.PosterURL = core.StringPtr(lookup.PosterURL)
	}
	if lookup.ExternalURL != "" {
		candidate.ExternalURL = core.StringPtr(lookup.ExternalURL)
	}
	return candidate
}

func cacheKey(title string, year int) string {
	return strings.ToLower(strings.TrimSpace(title)) + "|" + strconv.Itoa(year)
}

// releaseYear extracts the year from a TMDB release date ("2024-07-16").
func releaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	return core.ParseYear(date[:4])
}
