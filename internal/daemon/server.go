package daemon

import (
	"context"
	"net/http"
	"sync"

	"videodupes/internal/app"
	"videodupes/internal/config"
	"videodupes/internal/dupes"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Server stores all in-memory state and exposes HTTP handlers.
type Server struct {
	mu         sync.RWMutex
	config     Config
	scans      map[string]*Scan
	scanCancel map[string]context.CancelFunc
	running    sync.WaitGroup

	tool     dupes.VideoTool
	uploader app.Uploader
	detector dupes.Options
	tempRoot string
	logger   *zap.Logger
}

// NewServer builds a server running scans with tool. uploader may be nil.
func NewServer(cfg *config.Config, tool dupes.VideoTool, uploader app.Uploader, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		config: Config{
			OutputDir:          cfg.OutputDir,
			DurationTolerance:  cfg.DurationTolerance,
			PixelDiffThreshold: cfg.PixelDiffThreshold,
			AntiAliasThreshold: cfg.AntiAliasThreshold,
			MaxFrameWidth:      cfg.MaxFrameWidth,
			MaxFrameHeight:     cfg.MaxFrameHeight,
			StrictGroups:       cfg.StrictGroups,
		},
		scans:      make(map[string]*Scan),
		scanCancel: make(map[string]context.CancelFunc),
		tool:       tool,
		uploader:   uploader,
		detector:   cfg.DetectorOptions(),
		tempRoot:   cfg.TempDir,
		logger:     logger,
	}
}

// Routes returns the HTTP handler for all endpoints.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Logging
	r.Use(logRequestMiddleware(s.logger))

	// CORS to allow local client
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Swagger docs
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Config, health and metrics
	r.Get("/health", s.handleHealth)
	r.MethodFunc(http.MethodGet, "/config", s.handleConfig)
	r.MethodFunc(http.MethodPut, "/config", s.handleConfig)
	r.Handle("/metrics", promhttp.Handler())

	// Scans
	r.MethodFunc(http.MethodGet, "/scans", s.handleScans)
	r.MethodFunc(http.MethodPost, "/scans", s.handleScans)
	r.Route("/scans/{scanID}", func(r chi.Router) {
		r.MethodFunc(http.MethodGet, "/", s.handleGetScan)
		r.MethodFunc(http.MethodPost, "/cancel", s.handleCancelScan)
		r.MethodFunc(http.MethodGet, "/report", s.handleScanReport)
	})

	return r
}

// Shutdown cancels running scans and waits for them to finish or for ctx
// to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for _, cancel := range s.scanCancel {
		cancel()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.running.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
