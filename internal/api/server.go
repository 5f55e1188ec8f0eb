package api

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/dgallion1/domview/internal/config"
	"github.com/dgallion1/domview/internal/session"
	"github.com/dgallion1/domview/internal/stats"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed static
var staticFiles embed.FS

// Server is the HTTP API server for domview.
type Server struct {
	router   chi.Router
	sessions *session.Manager
	stats    *stats.Recorder
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(sessions *session.Manager, rec *stats.Recorder, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		sessions: sessions,
		stats:    rec,
		log:      log,
		cfg:      cfg,
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

	// Client.
	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)
	static, _ := fs.Sub(staticFiles, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/api/examples", s.handleListExamples)
	r.Get("/api/examples/{name}", s.handleGetExample)
	r.Get("/api/stats", s.handleStats)

	r.Post("/api/sessions", s.handleCreateSession)
	r.Route("/api/sessions/{sessionID}", func(r chi.Router) {
		r.Use(SessionMiddleware(s.sessions))

		r.Delete("/", s.handleDeleteSession)
		r.Get("/state", s.handleState)
		r.Post("/view", s.handleView)
		r.Post("/events", s.handleEvent)
		r.Post("/zoom", s.handleZoom)
		r.Post("/expand-all", s.handleExpandAll)
		r.Post("/collapse-all", s.handleCollapseAll)
		r.Post("/resize", s.handleResize)
		r.Get("/scene.svg", s.handleSceneSVG)
		r.Get("/detail", s.handleGetDetail)
		r.Delete("/detail", s.handleHideDetail)
		r.Get("/debug", s.handleDebug)
		r.Delete("/debug/log", s.handleClearDebugLog)

		// Rate-limited: these build trees.
		r.Group(func(r chi.Router) {
			r.Use(RateLimit(s.log))
			r.Post("/visualize", s.handleVisualize)
			r.Post("/upload", s.handleUpload)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		jsonError(w, "client unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}
