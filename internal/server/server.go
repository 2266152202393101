// Package server exposes the question pipeline over HTTP.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"agri-insights/internal/analytics"
	"agri-insights/internal/common/config"
	apperrors "agri-insights/internal/common/errors"
	"agri-insights/internal/common/logger"
	"agri-insights/internal/common/observability"
	"agri-insights/internal/dataset"
	"agri-insights/internal/interpret"
)

// Server holds the wired pipeline dependencies behind the HTTP routes.
type Server struct {
	cfg     *config.Config
	manager *dataset.Manager
	obs     *observability.Observability
	logger  logger.Logger
}

func New(cfg *config.Config, manager *dataset.Manager, obs *observability.Observability, log logger.Logger) *Server {
	return &Server{
		cfg:     cfg,
		manager: manager,
		obs:     obs,
		logger:  log.WithFields(map[string]interface{}{"component": "server"}),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	if s.cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", s.handleHealth)
	router.POST("/ask", s.handleAsk)
	router.POST("/refresh", s.handleRefresh)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.obs.Registry(), promhttp.HandlerOpts{})))

	return router
}

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

func (s *Server) handleHealth(c *gin.Context) {
	status := gin.H{"status": "ok"}
	if snap := s.manager.Snapshot(); snap != nil {
		status["snapshotLoadedAt"] = snap.LoadedAt
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) handleAsk(c *gin.Context) {
	ctx := c.Request.Context()

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, apperrors.NewMalformedQuestionError(""))
		return
	}

	start := time.Now()
	parsed := interpret.Parse(req.Question)
	intent := string(parsed.Intent)

	snap := s.manager.Snapshot()
	if snap == nil {
		s.obs.RecordQuestion(ctx, intent, "error")
		s.writeError(c, apperrors.NewDatasetUnavailableError("snapshot", fmt.Errorf("no snapshot loaded")))
		return
	}

	engine := analytics.New(snap, s.cfg.Analytics, s.logger)
	payload, err := engine.Answer(parsed)
	s.obs.RecordAnswerDuration(ctx, time.Since(start), intent)

	if err != nil {
		s.obs.RecordQuestion(ctx, intent, "error")
		s.logger.Warn("question failed", map[string]interface{}{
			"intent": intent,
			"error":  err.Error(),
		})
		s.writeError(c, err)
		return
	}

	s.obs.RecordQuestion(ctx, intent, "ok")
	s.logger.Info("question answered", map[string]interface{}{
		"intent":     intent,
		"tables":     len(payload.Tables),
		"durationMs": time.Since(start).Milliseconds(),
	})
	c.JSON(http.StatusOK, payload)
}

func (s *Server) handleRefresh(c *gin.Context) {
	ctx := c.Request.Context()

	if err := s.manager.Refresh(ctx); err != nil {
		s.obs.RecordDatasetRefresh(ctx, "error")
		s.writeError(c, err)
		return
	}

	s.obs.RecordDatasetRefresh(ctx, "ok")
	c.JSON(http.StatusOK, gin.H{"status": "reloaded"})
}

// writeError maps an error to its HTTP status with the structured body.
func (s *Server) writeError(c *gin.Context, err error) {
	if stdErr, ok := apperrors.AsStandardError(err); ok {
		c.JSON(stdErr.HTTPStatus(), gin.H{"error": stdErr})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": err.Error()}})
}
