// Package api exposes the benchmark over HTTP: run experiments, sweep
// several methods, list what is registered, and read back archived runs.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hatebench/app"
	"hatebench/domain/experiment"
	"hatebench/internal"
	"hatebench/internal/errors"
	"hatebench/ports"
)

// Server is the HTTP surface of the benchmark harness.
type Server struct {
	router      *gin.Engine
	experiments *app.ExperimentService
	sweeps      *app.SweepService
	archive     ports.ExperimentRepository // nil when no database is configured
	maxBody     int64
	logger      *internal.Logger
}

// NewServer wires the routes. archive may be nil, in which case runs are
// computed but not persisted and the runs listing reports the archive
// unavailable. maxBody caps request body size; zero or negative disables
// the cap.
func NewServer(experiments *app.ExperimentService, sweeps *app.SweepService, archive ports.ExperimentRepository, maxBody int64, logger *internal.Logger) *Server {
	s := &Server{
		router:      gin.New(),
		experiments: experiments,
		sweeps:      sweeps,
		archive:     archive,
		maxBody:     maxBody,
		logger:      logger,
	}
	s.router.Use(gin.Recovery())
	if s.maxBody > 0 {
		s.router.Use(s.limitBody)
	}
	s.registerRoutes()
	return s
}

func (s *Server) limitBody(c *gin.Context) {
	if c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBody)
	}
	c.Next()
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/experiments/methods", s.handleMethods)
	s.router.GET("/experiments/runs", s.handleRuns)
	s.router.POST("/experiments/run", s.handleRun)
	s.router.POST("/experiments/sweep", s.handleSweep)
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleMethods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"methods": s.experiments.Methods()})
}

func (s *Server) handleRun(c *gin.Context) {
	var req experiment.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errors.WrapCode(err, errors.CodeInvalidParams, "decoding run request"))
		return
	}

	result, err := s.experiments.Run(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.archiveResult(c.Request.Context(), result)
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleSweep(c *gin.Context) {
	var req app.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errors.WrapCode(err, errors.CodeInvalidParams, "decoding sweep request"))
		return
	}

	result, err := s.sweeps.Run(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	for i := range result.Outcomes {
		if result.Outcomes[i].Result != nil {
			s.archiveResult(c.Request.Context(), result.Outcomes[i].Result)
		}
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleRuns(c *gin.Context) {
	if s.archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"kind":    errors.CodeDatabaseError,
			"message": "no experiment archive is configured",
		})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.writeError(c, errors.InvalidParams("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	results, err := s.archive.ListRecent(c.Request.Context(), limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": results})
}

// archiveResult persists a completed run best-effort: archive failures are
// logged, never surfaced, since the run itself succeeded.
func (s *Server) archiveResult(ctx context.Context, result *experiment.Result) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Save(ctx, result); err != nil {
		s.logger.Warn("archiving experiment %s failed: %v", result.ExperimentID, err)
	}
}

// writeError maps taxonomy codes onto HTTP statuses.
func (s *Server) writeError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeUnknownMethod:
		status = http.StatusNotFound
	case errors.CodeDatasetError, errors.CodeInvalidParams, errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeResourceExhausted:
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	}
	c.JSON(status, gin.H{"kind": code, "message": err.Error()})
}
