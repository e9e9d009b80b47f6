// Package server exposes the extraction pipeline over HTTP: file
// submission, SSE progress streaming, job queries, and report download.
package server

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jjones1stptllc/titlegrab-desktop/internal/jobs"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/pipeline"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/progress"
	"github.com/jjones1stptllc/titlegrab-desktop/internal/report"
)

// Config holds HTTP surface settings.
type Config struct {
	MaxUploadSize int64  // bytes, default 100 MB
	UploadDir     string // where multipart uploads land before processing
	Mode          string // gin mode: release | test | debug
}

// Server wires handlers to the pipeline services.
type Server struct {
	cfg       Config
	orch      *pipeline.Orchestrator
	registry  *jobs.Registry
	broadcast *progress.Broadcaster
	reports   *report.Service
	logger    *slog.Logger
}

func New(
	cfg Config,
	orch *pipeline.Orchestrator,
	registry *jobs.Registry,
	broadcast *progress.Broadcaster,
	reports *report.Service,
	logger *slog.Logger,
) *Server {
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = 100 << 20
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:       cfg,
		orch:      orch,
		registry:  registry,
		broadcast: broadcast,
		reports:   reports,
		logger:    logger,
	}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	switch s.cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	r.Use(corsMiddleware())
	r.MaxMultipartMemory = s.cfg.MaxUploadSize

	api := r.Group("/api")
	{
		api.POST("/process-file", s.handleProcessFile)
		api.GET("/progress/:jobId", s.handleProgress)
		api.GET("/jobs", s.handleListJobs)
		api.GET("/jobs/:jobId", s.handleGetJob)
		api.GET("/reports/:jobId", s.handleReport)
	}
	r.GET("/health", s.handleHealth)

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("http.request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Cache-Control")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
