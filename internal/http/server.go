package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/trialsearchd/internal/config"
	"github.com/fyrsmithlabs/trialsearchd/internal/interpreter"
	"github.com/fyrsmithlabs/trialsearchd/internal/search"
)

// Pagination limits enforced before the core pipeline runs.
const (
	defaultPageSize = 10
	maxPageSize     = 50
	defaultLimit    = 10
	maxLimit        = 50
)

// Interpreter converts query text into entities. Degradation is reported
// via the second result, never as an error.
type Interpreter interface {
	Interpret(ctx context.Context, queryText string) (interpreter.Entities, bool)
}

// Searcher runs a compiled search and maps results.
type Searcher interface {
	Search(ctx context.Context, entities interpreter.Entities, page, pageSize int) ([]search.TrialResult, int64, error)
}

// Suggester produces autocomplete suggestions.
type Suggester interface {
	Suggest(ctx context.Context, prefix string, limit int) ([]string, error)
	Conditions(prefix string) []string
}

// Summarizer produces a best-effort results overview.
type Summarizer interface {
	Summarize(ctx context.Context, queryText string, results []search.TrialResult) string
}

// Pinger checks backend reachability for health reporting.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the trialsearchd HTTP API.
type Server struct {
	echo        *echo.Echo
	cfg         config.ServerConfig
	esURL       string
	logger      *zap.Logger
	metrics     *Metrics
	interpreter Interpreter
	searcher    Searcher
	suggester   Suggester
	summarizer  Summarizer
	pinger      Pinger
}

// NewServer wires the API routes over the core services.
func NewServer(
	cfg config.ServerConfig,
	esURL string,
	logger *zap.Logger,
	interp Interpreter,
	searcher Searcher,
	suggester Suggester,
	summarizer Summarizer,
	pinger Pinger,
) (*Server, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if interp == nil || searcher == nil || suggester == nil {
		return nil, fmt.Errorf("interpreter, searcher, and suggester are required")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowCredentials: true,
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{
		echo:        e,
		cfg:         cfg,
		esURL:       esURL,
		logger:      logger,
		metrics:     NewMetrics(logger),
		interpreter: interp,
		searcher:    searcher,
		suggester:   suggester,
		summarizer:  summarizer,
		pinger:      pinger,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/search", s.handleSearch)
	v1.GET("/suggestions", s.handleSuggestions)
	v1.GET("/suggestions/conditions", s.handleConditionSuggestions)
}

func (s *Server) handleHealth(c echo.Context) error {
	status := "healthy"
	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := s.pinger.Ping(ctx); err != nil {
			s.logger.Warn("health check: search engine unreachable", zap.Error(err))
			status = "degraded"
		}
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: status, ESURL: s.esURL})
}

// handleSearch runs the full pipeline: interpret, compile+search, map, and
// optionally summarize. A degraded interpretation is a normal response
// carrying a clarification; only backend failures become request errors.
func (s *Server) handleSearch(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = defaultPageSize
	}
	if req.Page < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "page must be >= 1")
	}
	if req.PageSize < 1 || req.PageSize > maxPageSize {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("page_size must be between 1 and %d", maxPageSize))
	}

	ctx := c.Request().Context()
	start := time.Now()

	entities, degraded := s.interpreter.Interpret(ctx, req.Query)
	if degraded {
		s.metrics.recordDegraded(ctx)
	}

	results, total, err := s.searcher.Search(ctx, entities, req.Page, req.PageSize)
	if err != nil {
		if errors.Is(err, search.ErrMissingField) {
			s.logger.Error("search result data integrity fault", zap.Error(err))
			s.metrics.recordSearch(ctx, "data_error", time.Since(start).Seconds())
			return echo.NewHTTPError(http.StatusInternalServerError, "inconsistent search result data")
		}
		s.logger.Error("search backend failure", zap.Error(err))
		s.metrics.recordSearch(ctx, "backend_error", time.Since(start).Seconds())
		return echo.NewHTTPError(http.StatusBadGateway, "search backend unavailable")
	}

	resp := SearchResponse{
		QueryInterpretation: entities,
		Results:             results,
		Total:               total,
		Page:                req.Page,
		PageSize:            req.PageSize,
		Clarification:       entities.Clarification,
	}

	if req.IncludeSummary && s.summarizer != nil {
		resp.Summary = s.summarizer.Summarize(ctx, req.Query, results)
		s.metrics.recordSummary(ctx)
	}

	s.metrics.recordSearch(ctx, "ok", time.Since(start).Seconds())
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSuggestions(c echo.Context) error {
	limit := defaultLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxLimit {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxLimit))
		}
		limit = parsed
	}

	ctx := c.Request().Context()
	suggestions, err := s.suggester.Suggest(ctx, c.QueryParam("q"), limit)
	if err != nil {
		s.logger.Error("suggestion backend failure", zap.Error(err))
		s.metrics.recordSuggest(ctx, "backend_error")
		return echo.NewHTTPError(http.StatusBadGateway, "search backend unavailable")
	}

	s.metrics.recordSuggest(ctx, "ok")
	return c.JSON(http.StatusOK, SuggestionResponse{Suggestions: suggestions})
}

func (s *Server) handleConditionSuggestions(c echo.Context) error {
	return c.JSON(http.StatusOK, SuggestionResponse{
		Suggestions: s.suggester.Conditions(c.QueryParam("q")),
	})
}

// Start starts the HTTP server and blocks until it exits.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance for tests and extensions.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
