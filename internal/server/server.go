// Package server exposes the MediMeld sync engine over HTTP: batch sync
// ingestion, note listing, and the pending/acknowledge loop for a
// downstream consumer. Authentication and CORS policy are deployment
// concerns handled in front of this server.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/medimeld/medimeld/internal/sqlite"
	"github.com/medimeld/medimeld/internal/syncer"
)

// Server routes HTTP requests to the reconciliation service and store.
type Server struct {
	router *chi.Mux
	svc    *syncer.Service
	store  *sqlite.Store
	logger *slog.Logger
}

// New builds the server and its routes. If logger is nil the default
// slog logger is used.
func New(svc *syncer.Service, store *sqlite.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		router: chi.NewRouter(),
		svc:    svc,
		store:  store,
		logger: logger,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(s.accessLogger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", s.handleHealth)
	s.router.Post("/sync", s.handleSync)
	s.router.Route("/notes", func(r chi.Router) {
		r.Get("/", s.handleListNotes)
		r.Get("/pending", s.handleListPending)
		r.Post("/{id}/sync", s.handleAcknowledge)
	})

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger emits one structured log line per request.
func (s *Server) accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
