package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edvin/mailwatch/internal/api/handler"
	mw "github.com/edvin/mailwatch/internal/api/middleware"
	"github.com/edvin/mailwatch/internal/api/response"
)

// Pinger reports database reachability for /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	router chi.Router
	logger zerolog.Logger
	store  handler.Store
	db     Pinger
}

func NewServer(logger zerolog.Logger, store handler.Store, db Pinger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		logger: logger,
		store:  store,
		db:     db,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	mtaSts := handler.NewMtaSts(s.store)
	s.router.Get("/.well-known/mta-sts.txt", mtaSts.Policy)

	s.router.Route("/api/v1", func(r chi.Router) {
		domain := handler.NewDomain(s.store)
		r.Get("/domains", domain.List)
		r.Post("/domains", domain.Create)
		r.Get("/domains/{id}", domain.Get)
		r.Put("/domains/{id}", domain.Update)
		r.Delete("/domains/{id}", domain.Delete)

		record := handler.NewRecord(s.store)
		r.Get("/domains/{id}/records", record.List)
	})
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{"core_db": "ok"}
	status := http.StatusOK
	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			checks["core_db"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	response.WriteJSON(w, status, checks)
}
