package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/forcegraph/pkg/app"
	"github.com/matzehuels/forcegraph/pkg/buildinfo"
	"github.com/matzehuels/forcegraph/pkg/canvas"
	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
	"github.com/matzehuels/forcegraph/pkg/session"
)

type createRequest struct {
	Source string `json:"source"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Nodes     int       `json:"nodes"`
	Links     int       `json:"links"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"build":    buildinfo.Get(),
		"sessions": s.Sessions.Len(),
	})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	uri, err := s.Sources.Resolve(req.Source)
	if err != nil {
		writeError(w, err)
		return
	}
	if s.MaxSessions > 0 && s.Sessions.Len() >= s.MaxSessions {
		writeError(w, errs.New(errs.ErrCodeLimitExceeded, "session limit of %d reached", s.MaxSessions))
		return
	}

	g, _, err := s.Runner.Load(r.Context(), uri)
	if err != nil {
		writeError(w, err)
		return
	}
	width, height := s.Config.Canvas.Width, s.Config.Canvas.Height
	a, err := app.New(g, canvas.NewVector(width, height), canvas.NewVector(width, height), s.Config, app.WithLogger(s.Logger))
	if err != nil {
		writeError(w, err)
		return
	}

	sess := s.Sessions.Start(s.ctx, req.Source, a)
	writeJSON(w, http.StatusCreated, sessionResponse{
		ID:        sess.ID,
		Source:    sess.Source,
		Nodes:     g.NodeCount(),
		Links:     g.LinkCount(),
		CreatedAt: sess.CreatedAt,
	})
}

// session resolves the {sessionID} parameter, writing the error response
// when it is unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.Sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var nodes, links int
	err := sess.Do(r.Context(), func(a *app.App) error {
		nodes, links = a.Graph.NodeCount(), a.Graph.LinkCount()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		ID:        sess.ID,
		Source:    sess.Source,
		Nodes:     nodes,
		Links:     links,
		CreatedAt: sess.CreatedAt,
	})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(chi.URLParam(r, "sessionID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var st app.Stats
	if err := sess.Do(r.Context(), func(a *app.App) error {
		st = a.Stats()
		return nil
	}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) framePNG(w http.ResponseWriter, r *http.Request) {
	s.frame(w, r, pipeline.FormatPNG)
}

func (s *Server) frameSVG(w http.ResponseWriter, r *http.Request) {
	s.frame(w, r, pipeline.FormatSVG)
}

func (s *Server) frame(w http.ResponseWriter, r *http.Request, format string) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var data []byte
	err := sess.Do(r.Context(), func(a *app.App) error {
		var err error
		data, err = pipeline.RenderFormat(r.Context(), a, format)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeBytes(w, contentType(format), data)
}

func (s *Server) postEvent(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req eventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	ev, err := req.event()
	if err != nil {
		writeError(w, err)
		return
	}

	var st app.Stats
	err = sess.Do(r.Context(), func(a *app.App) error {
		if err := app.DefaultHandler.Handle(a, ev); err != nil {
			return err
		}
		st = a.Stats()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// render runs the one-shot pipeline: GET /render?source=&format=&ticks=&recluster=&refresh=
func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	uri, err := s.Sources.Resolve(q.Get("source"))
	if err != nil {
		writeError(w, err)
		return
	}
	opts := pipeline.Options{
		Source:    uri,
		Recluster: q.Get("recluster") == "true",
		Refresh:   q.Get("refresh") == "true",
		Logger:    s.Logger,
	}
	cfg := s.Config
	opts.Config = &cfg

	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}

	if t := q.Get("ticks"); t != "" {
		n, err := strconv.Atoi(t)
		if err != nil {
			writeError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid ticks"))
			return
		}
		opts.Ticks = n
	}

	res, err := s.Runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("X-Layout-Cache", strconv.FormatBool(res.CacheInfo.LayoutHit))
	writeBytes(w, contentType(format), res.Artifacts[format])
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatSVG, pipeline.FormatNeato:
		return "image/svg+xml"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz"
	case pipeline.FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}
