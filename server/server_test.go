package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/cinegraph/core"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubPipeline struct {
	recommendFunc func(ctx context.Context, query string, vectorLimit, graphLimit int) ([]core.Candidate, error)
	trendingFunc  func(ctx context.Context, limit int) []core.Candidate

	lastVectorLimit int
	lastGraphLimit  int
	lastTrendLimit  int
}

func (s *stubPipeline) Recommend(ctx context.Context, query string, vectorLimit, graphLimit int) ([]core.Candidate, error) {
	s.lastVectorLimit = vectorLimit
	s.lastGraphLimit = graphLimit
	if s.recommendFunc != nil {
		return s.recommendFunc(ctx, query, vectorLimit, graphLimit)
	}
	return nil, nil
}

func (s *stubPipeline) Trending(ctx context.Context, limit int) []core.Candidate {
	s.lastTrendLimit = limit
	if s.trendingFunc != nil {
		return s.trendingFunc(ctx, limit)
	}
	return nil
}

func doRequest(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Router().ServeHTTP(rec, req)
	return rec
}

type recommendResponse struct {
	Query   string           `json:"query"`
	Results []core.Candidate `json:"results"`
	Error   string           `json:"error"`
}

func decodeRecommend(t *testing.T, rec *httptest.ResponseRecorder) recommendResponse {
	t.Helper()
	var body recommendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	t.Run("initialized", func(t *testing.T) {
		s, err := New(&stubPipeline{})
		require.NoError(t, err)
		rec := doRequest(t, s, "/health")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("uninitialized", func(t *testing.T) {
		s, err := New(nil)
		require.NoError(t, err)
		rec := doRequest(t, s, "/health")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"initializing"}`, rec.Body.String())
	})
}

func TestRecommend(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		pipeline := &stubPipeline{
			recommendFunc: func(ctx context.Context, query string, vectorLimit, graphLimit int) ([]core.Candidate, error) {
				return []core.Candidate{
					{Title: "Inception", Genre: "Sci-Fi", Year: 2010, Score: core.Float64Ptr(0.93), Source: core.SourceVector},
					{Title: "Tenet", Genre: "Sci-Fi", Year: 2020, Source: core.SourceGraph},
				}, nil
			},
		}
		s, err := New(pipeline)
		require.NoError(t, err)

		rec := doRequest(t, s, "/recommend?query=mind-bending+sci-fi")
		assert.Equal(t, http.StatusOK, rec.Code)

		body := decodeRecommend(t, rec)
		assert.Equal(t, "mind-bending sci-fi", body.Query)
		require.Len(t, body.Results, 2)
		assert.Equal(t, "Inception", body.Results[0].Title)
		assert.Nil(t, body.Results[1].Score)
	})

	t.Run("missing query", func(t *testing.T) {
		s, err := New(&stubPipeline{})
		require.NoError(t, err)
		rec := doRequest(t, s, "/recommend")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("uninitialized engine", func(t *testing.T) {
		s, err := New(nil)
		require.NoError(t, err)
		rec := doRequest(t, s, "/recommend?query=anything")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("no matches returns empty list", func(t *testing.T) {
		s, err := New(&stubPipeline{})
		require.NoError(t, err)
		rec := doRequest(t, s, "/recommend?query=nothing+matches")
		assert.Equal(t, http.StatusOK, rec.Code)

		body := decodeRecommend(t, rec)
		assert.NotNil(t, body.Results)
		assert.Empty(t, body.Results)
	})

	t.Run("pipeline error", func(t *testing.T) {
		pipeline := &stubPipeline{
			recommendFunc: func(ctx context.Context, query string, vectorLimit, graphLimit int) ([]core.Candidate, error) {
				return nil, errors.New("vector store unreachable")
			},
		}
		s, err := New(pipeline)
		require.NoError(t, err)
		rec := doRequest(t, s, "/recommend?query=anything")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("limit parameters forwarded", func(t *testing.T) {
		pipeline := &stubPipeline{}
		s, err := New(pipeline)
		require.NoError(t, err)

		doRequest(t, s, "/recommend?query=q&vector_limit=7&graph_limit=2")
		assert.Equal(t, 7, pipeline.lastVectorLimit)
		assert.Equal(t, 2, pipeline.lastGraphLimit)
	})

	t.Run("invalid limits fall back to defaults", func(t *testing.T) {
		pipeline := &stubPipeline{}
		s, err := New(pipeline)
		require.NoError(t, err)

		doRequest(t, s, "/recommend?query=q&vector_limit=abc&graph_limit=-1")
		assert.Equal(t, 0, pipeline.lastVectorLimit)
		assert.Equal(t, 0, pipeline.lastGraphLimit)
	})
}

func TestTrending(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		pipeline := &stubPipeline{
			trendingFunc: func(ctx context.Context, limit int) []core.Candidate {
				return []core.Candidate{
					{Title: "Dune: Part Two", Genre: "Trending", Year: 2024, Source: core.SourceTrending},
				}
			},
		}
		s, err := New(pipeline)
		require.NoError(t, err)

		rec := doRequest(t, s, "/trending?limit=1")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, pipeline.lastTrendLimit)

		body := decodeRecommend(t, rec)
		require.Len(t, body.Results, 1)
		assert.Equal(t, core.SourceTrending, body.Results[0].Source)
		assert.Nil(t, body.Results[0].Score)
	})

	t.Run("uninitialized engine", func(t *testing.T) {
		s, err := New(nil)
		require.NoError(t, err)
		rec := doRequest(t, s, "/trending")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("empty provider result", func(t *testing.T) {
		s, err := New(&stubPipeline{})
		require.NoError(t, err)
		rec := doRequest(t, s, "/trending")
		assert.Equal(t, http.StatusOK, rec.Code)

		body := decodeRecommend(t, rec)
		assert.NotNil(t, body.Results)
		assert.Empty(t, body.Results)
	})
}

func TestCORS(t *testing.T) {
	s, err := New(&stubPipeline{})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/recommend", nil)
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
