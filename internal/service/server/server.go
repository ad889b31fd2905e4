package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vertextoedge/linkguard/internal/port"
	"github.com/vertextoedge/linkguard/internal/service/navigation"
	"go.uber.org/zap"
)

// Config contains HTTP server configuration
type Config struct {
	BindAddr       string
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		BindAddr:     "127.0.0.1:9876",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// Server represents the local control server
type Server struct {
	config     *Config
	store      port.Store
	logger     *zap.Logger
	server     *http.Server
	hub        *ViewHub
	apiHandler *APIHandler
	handler    http.Handler
}

// New creates a new HTTP server. gatherer backs /metrics; nil uses the
// default Prometheus registry.
func New(cfg *Config, store port.Store, guard *navigation.Guard, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		config: cfg,
		store:  store,
		logger: logger,
	}

	s.hub = NewViewHub(guard, cfg.AllowedOrigins, logger)
	s.apiHandler = NewAPIHandler(store, guard, logger)

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	// Metrics
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Read-only API
	mux.HandleFunc("/api/classify", s.apiHandler.HandleClassify)
	mux.HandleFunc("/api/downloads", s.apiHandler.HandleDownloads)
	mux.HandleFunc("/api/domains", s.apiHandler.HandleDomains)

	// View control sockets
	mux.HandleFunc("GET /api/views/{id}/control", s.hub.HandleControl)

	s.handler = LoggingMiddleware(logger)(mux)
	s.server = &http.Server{
		Addr:         cfg.BindAddr,
		Handler:      s.handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Hub returns the view hub
func (s *Server) Hub() *ViewHub {
	return s.hub
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	s.hub.CloseAll()
	return s.server.Shutdown(ctx)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.store.Ping(); err != nil {
		s.logger.Error("health check failed", zap.Error(err))
		http.Error(w, "Database connection failed", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "healthy",
		"views":  s.hub.Count(),
		"time":   time.Now().Format(time.RFC3339),
	})
}
