// Package server provides the HTTP REST API for the menu publisher.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jonathan/menu-publisher/internal/cache"
	"github.com/jonathan/menu-publisher/internal/config"
	"github.com/jonathan/menu-publisher/internal/db"
	"github.com/jonathan/menu-publisher/internal/server/middleware"
	"github.com/jonathan/menu-publisher/internal/server/ratelimit"
	"github.com/jonathan/menu-publisher/internal/templates"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	db         *db.DB // nil when no database is configured
	registry   *templates.Registry
	limiters   map[string]*ratelimit.Limiter
	jwtService *JWTService // nil when JWT_SECRET is not set
	store      cache.Cache
	logger     *log.Logger
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	TemplateDir string
	Logger      *log.Logger
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Prefix:          "server",
		})
	}

	s := &Server{
		registry: templates.NewRegistry(),
		limiters: ratelimit.NewSet(ratelimit.LoadConfigs()),
		store:    cache.NewMemoryCache(),
		logger:   logger,
	}

	if cfg.TemplateDir != "" {
		if err := s.registry.LoadDir(cfg.TemplateDir); err != nil {
			return nil, fmt.Errorf("failed to load templates from %s: %w", cfg.TemplateDir, err)
		}
	}

	// Database persistence is optional; the API works statelessly without it.
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s.db = database
	}

	// JWT identity is optional; without it clients are identified by IP.
	if os.Getenv("JWT_SECRET") != "" {
		jwtConfig, err := config.NewJWTConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create JWT config: %w", err)
		}
		s.jwtService = NewJWTService(jwtConfig)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // browser exports can take a while
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler builds the route table with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /layouts", s.withRateLimit(ratelimit.NameGenerate, http.HandlerFunc(s.handleGenerateLayout)))
	mux.HandleFunc("POST /layouts/validate", s.handleValidateLayout)
	mux.HandleFunc("POST /layouts/export", s.handleExportLayout)

	mux.HandleFunc("GET /layouts", s.handleListLayouts)
	mux.HandleFunc("GET /layouts/{id}", s.handleGetLayout)
	mux.HandleFunc("DELETE /layouts/{id}", s.handleDeleteLayout)

	mux.HandleFunc("GET /templates", s.handleListTemplates)
	mux.HandleFunc("GET /templates/{id}", s.handleGetTemplate)

	mux.HandleFunc("GET /health", s.handleHealth)

	var validator middleware.TokenValidator
	if s.jwtService != nil {
		validator = s.jwtService.AsTokenValidator()
	}
	identity := middleware.IdentityMiddleware(validator)

	return identity(s.withLogging(s.withCORS(mux)))
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("server error", "err", err)
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.db != nil {
		s.db.Close()
	}
	_ = s.store.Close()
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit guards a handler with the named limiter.
func (s *Server) withRateLimit(name string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, ok := s.consumeLimit(w, r, name)
		if !ok {
			return
		}
		s.setRateLimitHeaders(w, res)
		next.ServeHTTP(w, r)
	})
}

// consumeLimit consumes one request from the named limiter. On denial it
// writes the 429 response and returns ok=false.
func (s *Server) consumeLimit(w http.ResponseWriter, r *http.Request, name string) (ratelimit.Result, bool) {
	limiter, ok := s.limiters[name]
	if !ok {
		return ratelimit.Result{}, true
	}

	identity := middleware.GetIdentity(r)
	res, err := limiter.Consume(identity)
	if err != nil {
		s.setRateLimitHeaders(w, res)
		s.rateLimitResponse(w, res, err)
		return res, false
	}
	return res, true
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.logger.Info("request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		next.ServeHTTP(w, r)
		s.logger.Info("request completed", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "err", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, res ratelimit.Result) {
	if res.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", res.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", res.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", res.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, res ratelimit.Result, err error) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     res.Limit,
		"remaining": res.Remaining,
		"reset_at":  res.ResetTime.Format(time.RFC3339),
	}

	if rlErr, ok := err.(*ratelimit.Error); ok {
		if rlErr.Message != "" {
			response["message"] = rlErr.Message
		}
		if rlErr.RetryAfter > 0 {
			response["retry_after"] = int(rlErr.RetryAfter.Seconds())
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(rlErr.RetryAfter.Seconds())))
		}
	}

	s.logger.Warn("rate limit exceeded",
		"limit", res.Limit, "remaining", res.Remaining, "reset", res.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
