// Package server exposes the screening application over HTTP. The JSON
// envelopes mirror the dashboard's expectations: {"success": true, ...} on
// success and {"success": false, "error": ...} on failure.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tanishkumarsahu/Code4Edtech/internal/screening"
	"github.com/tanishkumarsahu/Code4Edtech/internal/store"
)

// Store is the persistence surface the handlers need.
type Store interface {
	CreateJob(ctx context.Context, job *screening.JobDescription) (string, error)
	GetJob(ctx context.Context, id string) (*screening.JobDescription, error)
	ListJobs(ctx context.Context) ([]*screening.JobDescription, error)
	CreateResume(ctx context.Context, resume *store.Resume) (string, error)
	GetResume(ctx context.Context, id string) (*store.Resume, error)
	SaveReport(ctx context.Context, resumeID string, report *screening.ScoreReport) error
	SetShortlisted(ctx context.Context, resumeID string, shortlisted bool) error
	ListCandidates(ctx context.Context) ([]*store.Candidate, error)
}

// Scorer runs the hybrid scoring flow for one (resume, job) pair.
type Scorer interface {
	Score(ctx context.Context, resumeText string, job *screening.JobDescription) (*screening.ScoreReport, error)
}

// Config carries the server's runtime settings.
type Config struct {
	Addr string
	// SemanticTimeout bounds the semantic-provider call per scoring request.
	SemanticTimeout time.Duration
	Debug           bool
}

const defaultSemanticTimeout = 20 * time.Second

// Server wires the HTTP layer to the scoring service and the store.
type Server struct {
	config Config
	store  Store
	scorer Scorer
	logger *zap.Logger
	engine *gin.Engine
}

// New builds the server and registers all routes.
func New(config Config, st Store, scorer Scorer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.SemanticTimeout <= 0 {
		config.SemanticTimeout = defaultSemanticTimeout
	}
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config: config,
		store:  st,
		scorer: scorer,
		logger: logger,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.requestLogger())
	engine.Use(cors.Default())
	engine.MaxMultipartMemory = 16 << 20

	api := engine.Group("/api")
	{
		api.GET("/health", s.health)
		api.POST("/job-descriptions", s.createJob)
		api.GET("/job-descriptions", s.listJobs)
		api.POST("/upload-resume", s.uploadResume)
		api.POST("/analyze-resume/:id", s.analyzeResume)
		api.GET("/resumes", s.listResumes)
		api.POST("/shortlist-candidate/:id", s.shortlist)
		api.POST("/unshortlist-candidate/:id", s.unshortlist)
		api.GET("/shortlisted-candidates", s.shortlisted)
		api.GET("/export-reports.csv", s.exportReports)
	}

	s.engine = engine
	return s
}

// Handler exposes the underlying handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("http server started", zap.String("addr", s.config.Addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("http server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
