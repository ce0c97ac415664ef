package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/mategest/internal/config"
	"github.com/dgallion1/mategest/internal/parser"
	"github.com/dgallion1/mategest/internal/pipeline"
	"github.com/dgallion1/mategest/internal/profile"
)

// Server is the HTTP API server for mategest.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	profiles     *profile.Service
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. profiles may be nil
// when no generation provider is configured.
func NewServer(orch *pipeline.Orchestrator, profiles *profile.Service, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		profiles:     profiles,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Route("/api/assessments", func(r chi.Router) {
			r.Post("/extract", s.handleExtract)
			r.Post("/extract/batch", s.handleBatchExtract)
			r.Post("/extract-text", s.handleExtractText)
			r.Post("/validate", s.handleValidate)
		})

		r.Route("/api/profiles", func(r chi.Router) {
			r.Post("/", s.handleCreateProfile)
			r.Get("/{jobID}/status", s.handleProfileStatus)
			r.Get("/{jobID}", s.handleGetProfile)
			r.Get("/{jobID}/export.xlsx", s.handleExportProfile)
		})

		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) parseOptions() parser.Options {
	return parser.Options{
		PDFFallback: s.cfg.PDFFallbackPdftotext,
		MaxBytes:    s.cfg.MaxUploadBytes,
	}
}
