// Package web provides the HTTP API for uploading warehouse price lists and
// comparing prices across them.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/pricecompare/internal/config"
	"github.com/JonMunkholm/pricecompare/internal/core"
	"github.com/JonMunkholm/pricecompare/internal/logging"
	"github.com/JonMunkholm/pricecompare/internal/web/middleware"
)

// Server is the HTTP server for the price comparison API.
type Server struct {
	service  *core.Service
	cfg      *config.Config
	metrics  http.Handler
	validate *validator.Validate
	router   *chi.Mux
	server   *http.Server
	done     chan struct{}
}

// NewServer creates a Server. metrics may be nil, in which case no metrics
// route is mounted.
func NewServer(service *core.Service, cfg *config.Config, metrics http.Handler) *Server {
	s := &Server{
		service:  service,
		cfg:      cfg,
		metrics:  metrics,
		validate: newValidator(),
		router:   chi.NewRouter(),
		done:     make(chan struct{}),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(s.securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	if s.metrics != nil && s.cfg.Metrics.Enabled {
		s.router.Handle(s.cfg.Metrics.Path, s.metrics)
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimit(s.cfg.Rate.RequestsPerMinute))

		// Ingestion
		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit(s.cfg.Rate.UploadLimit))
			r.Use(middleware.APIKeyAuth(&s.cfg.Security))
			r.Post("/upload", s.handleUpload)
			r.Post("/preview", s.handlePreview)
		})

		// Warehouses
		r.Get("/warehouses", s.handleListWarehouses)
		r.Get("/warehouses/{name}", s.handleGetWarehouse)
		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(&s.cfg.Security))
			r.Delete("/warehouses/{name}", s.handleRemoveWarehouse)
			r.Delete("/warehouses", s.handleClearWarehouses)
		})

		// Comparison
		r.Get("/merged", s.handleMerged)
		r.Get("/highest-discount", s.handleHighestDiscount)
		r.Get("/search", s.handleSearch)

		// Files
		r.Get("/template", s.handleTemplate)
		r.Get("/export/{name}", s.handleExport)

		// Upload history
		r.Get("/uploads", s.handleUploadHistory)
		r.Get("/uploads/{id}", s.handleGetUpload)
		r.Get("/upload-queue", s.handleUploadQueueStatus)
	})
}

// rateLimit returns per-IP limiting middleware, or a pass-through when rate
// limiting is disabled.
func (s *Server) rateLimit(perMinute int) func(http.Handler) http.Handler {
	if !s.cfg.Rate.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}
	rl := middleware.NewRateLimiter(perMinute, 5*time.Minute)
	go rl.Run(time.Minute, s.done)
	return rl.Handler(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, errRateLimited, http.StatusTooManyRequests)
	})
}

var errRateLimited = errors.New("rate limit exceeded")

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	sc := s.cfg.Server
	s.server = &http.Server{
		Addr:         sc.Addr(),
		Handler:      s.router,
		ReadTimeout:  sc.ReadTimeout,
		WriteTimeout: sc.WriteTimeout,
		IdleTimeout:  sc.IdleTimeout,
	}

	logging.FromContext(context.Background()).Info("starting server", "addr", sc.Addr())
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests, waits for in-flight uploads and then
// closes the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	if s.server == nil {
		return nil
	}
	err := s.server.Shutdown(ctx)
	if werr := s.service.WaitForUploads(ctx); werr != nil && err == nil {
		err = werr
	}
	return err
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func (s *Server) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if s.cfg.Security.EnableCSP {
			h.Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]any{
		"status":     "ok",
		"warehouses": len(s.service.Warehouses()),
	})
}
