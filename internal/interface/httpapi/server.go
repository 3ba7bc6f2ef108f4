// Package httpapi exposes the session catalog as a small JSON API
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/neilberkman/runclub/internal/core/catalog"
	"github.com/neilberkman/runclub/internal/core/config"
	"github.com/neilberkman/runclub/internal/core/models"
)

type Server struct {
	catalog       *catalog.Catalog
	router        *chi.Mux
	runnerGroup   string
	paces         *models.ReferencePaces
	shareTemplate string
	now           func() time.Time
	logger        *log.Logger
}

type Options struct {
	RunnerGroup   string
	Paces         *models.ReferencePaces
	ShareTemplate string
	Now           func() time.Time
	Logger        *log.Logger
}

func New(cat *catalog.Catalog, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.ShareTemplate == "" {
		opts.ShareTemplate = config.DefaultShareTemplate
	}
	s := &Server{
		catalog:       cat,
		router:        chi.NewRouter(),
		runnerGroup:   opts.RunnerGroup,
		paces:         opts.Paces,
		shareTemplate: opts.ShareTemplate,
		now:           opts.Now,
		logger:        opts.Logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: s.logger, NoColor: true}))
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/sessions", s.handleListSessions)
	s.router.Post("/sessions", s.handleCreateSession)
	s.router.Get("/sessions/{id}", s.handleGetSession)
	s.router.Patch("/sessions/{id}", s.handleUpdateSession)
	s.router.Delete("/sessions/{id}", s.handleDeleteSession)
	s.router.Get("/sessions/{id}/share", s.handleShareSession)
	s.router.Post("/sessions/{id}/join", s.handleJoin)
	s.router.Delete("/sessions/{id}/join", s.handleLeave)
	s.router.Get("/joined", s.handleJoined)
}

// ServeHTTP makes Server an http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("httpapi: encoding response failed: %v", err)
	}
}

// writeError maps domain errors onto HTTP status codes
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, catalog.ErrUnknownGroup):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, catalog.ErrNotJoinable), errors.Is(err, catalog.ErrReadOnly):
		status = http.StatusForbidden
	}
	if status == http.StatusInternalServerError {
		s.logger.Printf("httpapi: %v", err)
	}
	s.writeJSON(w, status, errorBody{Error: err.Error()})
}
