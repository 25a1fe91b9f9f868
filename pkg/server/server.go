// Package server exposes live force views over HTTP.
//
// A client creates a session from a dataset location, then polls frames
// and posts pointer and navigator events. Every session has its own event
// loop; handlers only touch a view through [app.Loop.Do], so requests for
// one session are serialized with its ticks.
//
//	POST   /sessions                  {"source": "senate.json"}
//	GET    /sessions/{id}/frame.png
//	GET    /sessions/{id}/frame.svg
//	GET    /sessions/{id}/state
//	POST   /sessions/{id}/events      {"type": "drag_start", "x": 10, "y": 20}
//	DELETE /sessions/{id}
//	GET    /render?source=...&format=png
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
	"github.com/matzehuels/forcegraph/pkg/session"
)

// Server routes HTTP requests to sessions and the one-shot pipeline.
type Server struct {
	Runner   *pipeline.Runner
	Sessions *session.Store
	Config   config.Config
	Logger   *log.Logger

	// Sources decides which dataset locations clients may load.
	Sources SourcePolicy
	// MaxSessions caps live sessions. Zero or less means no cap.
	MaxSessions int

	// ctx parents every session loop.
	ctx context.Context
}

// New creates a server. Session loops are children of ctx and stop when it
// is cancelled. The zero [SourcePolicy] refuses every source; set
// [Server.Sources] before serving.
func New(ctx context.Context, runner *pipeline.Runner, sessions *session.Store, cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		Runner:      runner,
		Sessions:    sessions,
		Config:      cfg,
		Logger:      logger,
		MaxSessions: DefaultMaxSessions,
		ctx:         ctx,
	}
}

// Handler returns the routed handler with middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.Logger))

	r.Get("/healthz", s.health)
	r.Get("/render", s.render)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Get("/state", s.state)
			r.Get("/frame.png", s.framePNG)
			r.Get("/frame.svg", s.frameSVG)
			r.Post("/events", s.postEvent)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.Logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdown)
}
