// Package server exposes projects, frame rendering and live editing
// sessions over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /projects                       list summaries
//	POST   /projects                       create
//	GET    /projects/{id}                  fetch
//	PUT    /projects/{id}                  replace
//	DELETE /projects/{id}                  delete
//	POST   /projects/{id}/clips            add a clip
//	DELETE /projects/{id}/clips/{layer}    remove a clip
//	GET    /projects/{id}/frame            render (?format=svg|png|json|dot&at=seconds)
//	POST   /sessions                       open an editing session
//	GET    /sessions/{sid}                 current frame document
//	DELETE /sessions/{sid}                 close
//	GET    /sessions/{sid}/frame           render the last frame (?format=)
//	POST   /sessions/{sid}/pointer/{down,move,up}
//	POST   /sessions/{sid}/seek            move the playhead
//	POST   /sessions/{sid}/play
//	POST   /sessions/{sid}/pause
//	POST   /sessions/{sid}/media/seek      force the base media position
//	POST   /sessions/{sid}/media/ready     report base media data availability
//
// Errors are returned as {"code": ..., "error": ...} with a status derived
// from the error code.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/reelstack/pkg/pipeline"
	"github.com/matzehuels/reelstack/pkg/project"
	"github.com/matzehuels/reelstack/pkg/render"
	"github.com/matzehuels/reelstack/pkg/session"
)

// Config wires a Server to its dependencies.
type Config struct {
	Store    project.Store
	Sessions *session.Manager
	Runner   *pipeline.Runner
	Logger   *log.Logger

	// Canvas is the default output size for rendered frames.
	Canvas render.Canvas

	PrimaryTrack string
}

// Server is the HTTP API.
type Server struct {
	store        project.Store
	sessions     *session.Manager
	runner       *pipeline.Runner
	logger       *log.Logger
	canvas       render.Canvas
	primaryTrack string
	router       chi.Router
}

// New builds the router. A nil Sessions manager or Runner is created over
// the store with defaults.
func New(cfg Config) *Server {
	s := &Server{
		store:        cfg.Store,
		sessions:     cfg.Sessions,
		runner:       cfg.Runner,
		logger:       cfg.Logger,
		canvas:       cfg.Canvas,
		primaryTrack: cfg.PrimaryTrack,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.sessions == nil {
		s.sessions = session.NewManager(s.store, session.WithLogger(s.logger))
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", s.listProjects)
		r.Post("/", s.createProject)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getProject)
			r.Put("/", s.putProject)
			r.Delete("/", s.deleteProject)
			r.Post("/clips", s.addClip)
			r.Delete("/clips/{layer}", s.removeClip)
			r.Get("/frame", s.projectFrame)
		})
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.openSession)
		r.Route("/{sid}", func(r chi.Router) {
			r.Get("/", s.sessionState)
			r.Delete("/", s.closeSession)
			r.Get("/frame", s.sessionFrame)
			r.Post("/pointer/down", s.pointerDown)
			r.Post("/pointer/move", s.pointerMove)
			r.Post("/pointer/up", s.pointerUp)
			r.Post("/seek", s.seek)
			r.Post("/play", s.setPlaying(true))
			r.Post("/pause", s.setPlaying(false))
			r.Post("/media/seek", s.seekMedia)
			r.Post("/media/ready", s.mediaReady)
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions returns the session manager.
func (s *Server) Sessions() *session.Manager { return s.sessions }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully and closes all sessions.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sessions.Run(ctx, time.Minute)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.sessions.CloseAll()
	s.logger.Info("server stopped")
	return err
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
