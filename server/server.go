package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/poiesic/cinegraph/core"
)

// Pipeline is the recommendation surface the server exposes.
// recommend.Recommender satisfies it.
type Pipeline interface {
	Recommend(ctx context.Context, query string, vectorLimit, graphLimit int) ([]core.Candidate, error)
	Trending(ctx context.Context, limit int) []core.Candidate
}

// Server exposes the recommendation pipeline over HTTP.
type Server struct {
	pipeline Pipeline
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}

// New creates a server. A nil pipeline is allowed: requests then answer 503
// until the backing services come up, which lets the process start before its
// dependencies are reachable.
func New(pipeline Pipeline, opts ...Option) (*Server, error) {
	s := &Server{
		pipeline: pipeline,
		logger:   slog.Default().With("component", "server"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SetPipeline swaps in the pipeline once the backing services are ready.
func (s *Server) SetPipeline(pipeline Pipeline) {
	s.pipeline = pipeline
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/health", s.handleHealth)
	router.GET("/recommend", s.handleRecommend)
	router.GET("/trending", s.handleTrending)

	return router
}

// Run starts the HTTP server on the given address.
func (s *Server) Run(addr string) error {
	s.logger.Info("starting http server", "addr", addr)
	return s.Router().Run(addr)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	status := "ok"
	if s.pipeline == nil {
		status = "initializing"
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (s *Server) handleRecommend(c *gin.Context) {
	if s.pipeline == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "recommendation engine not initialized"})
		return
	}

	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}

	vectorLimit := intQuery(c, "vector_limit", 0)
	graphLimit := intQuery(c, "graph_limit", 0)

	results, err := s.pipeline.Recommend(c.Request.Context(), query, vectorLimit, graphLimit)
	if err != nil {
		s.logger.Error("recommendation failed", "query", query, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if results == nil {
		results = []core.Candidate{}
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"results": results,
	})
}

func (s *Server) handleTrending(c *gin.Context) {
	if s.pipeline == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "recommendation engine not initialized"})
		return
	}

	limit := intQuery(c, "limit", 0)
	results := s.pipeline.Trending(c.Request.Context(), limit)
	if results == nil {
		results = []core.Candidate{}
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// intQuery parses an integer query parameter, returning fallback when the
// parameter is absent or not a positive integer.
func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
