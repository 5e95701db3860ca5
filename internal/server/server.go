package server

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/claude/gymlog/internal/ingest/alpha"
	"github.com/claude/gymlog/internal/tracker"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	tracker *tracker.Tracker
	alpha   *alpha.Provider
	metrics *Metrics
	log     *slog.Logger
	apiKey  string
	router  chi.Router

	mu        sync.RWMutex
	mcp       http.Handler
	tailscale WhoIser
}

// New creates a new Server with all routes configured. metrics may be nil.
func New(t *tracker.Tracker, apiKey string, metrics *Metrics, log *slog.Logger) *Server {
	s := &Server{
		tracker: t,
		alpha:   alpha.NewProvider(t, log),
		metrics: metrics,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetMCP mounts the MCP streamable HTTP handler at /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mcp = h
}

// SetTailscale switches request identity from the local dev user to the
// tailnet peer reported by lc.
func (s *Server) SetTailscale(lc WhoIser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tailscale = lc
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	if s.metrics != nil {
		s.router.Use(RequestMetrics(s.metrics))
	}
	s.router.Use(CORS)

	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}

	s.router.Group(func(r chi.Router) {
		r.Use(s.identity)

		r.Handle("/mcp", http.HandlerFunc(s.handleMCP))

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/me", s.handleMe)
			r.Get("/state", s.handleState)

			r.Route("/programs", func(r chi.Router) {
				r.Get("/", s.handleListPrograms)
				r.Post("/", s.handleCreateProgram)
				r.Put("/default", s.handleSetDefaultProgram)
				r.Route("/{programID}", func(r chi.Router) {
					r.Get("/", s.handleGetProgram)
					r.Patch("/", s.handleRenameProgram)
					r.Delete("/", s.handleDeleteProgram)
					r.Get("/next-day", s.handleNextDay)
					r.Post("/days", s.handleAddDay)
					r.Route("/days/{dayID}", func(r chi.Router) {
						r.Patch("/", s.handleRenameDay)
						r.Delete("/", s.handleDeleteDay)
						r.Post("/items", s.handleAddItem)
						r.Patch("/items/{itemID}", s.handleUpdateItem)
						r.Delete("/items/{itemID}", s.handleRemoveItem)
						r.Post("/items/{itemID}/move", s.handleMoveItem)
					})
				})
			})

			r.Route("/exercises", func(r chi.Router) {
				r.Get("/", s.handleListExercises)
				r.Post("/", s.handleCreateExercise)
				r.Patch("/{exerciseID}", s.handleRenameExercise)
				r.Delete("/{exerciseID}", s.handleDeleteExercise)
			})

			r.Route("/session", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Post("/", s.handleStartSession)
				r.Delete("/", s.handleDiscardSession)
				r.Post("/cycle", s.handleCycleExercise)
				r.Post("/sets", s.handleChangeSetCount)
				r.Put("/log", s.handleRecordSet)
				r.Post("/complete", s.handleCompleteSession)
			})

			r.Route("/history", func(r chi.Router) {
				r.Get("/", s.handleQueryHistory)
				r.Delete("/", s.handleClearHistory)
				r.Get("/latest", s.handleLatestPerformance)
				r.Get("/progress", s.handleWeightProgress)
				r.Get("/exercises", s.handleHistoryExercises)
				r.With(APIKeyAuth(s.apiKey)).Post("/import/alpha", s.handleAlphaImport)
				r.Delete("/{entryID}", s.handleDeleteHistoryEntry)
			})

			r.Get("/backup", s.handleExportBackup)
			r.With(APIKeyAuth(s.apiKey)).Post("/backup", s.handleImportBackup)
			r.Post("/example", s.handleImportExample)
		})
	})
}

func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	h := s.mcp
	s.mu.RUnlock()
	if h == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "mcp is not enabled"})
		return
	}
	h.ServeHTTP(w, r)
}
