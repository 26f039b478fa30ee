package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/reelstack/pkg/compositor"
	"github.com/matzehuels/reelstack/pkg/compositor/drag"
	"github.com/matzehuels/reelstack/pkg/errors"
	"github.com/matzehuels/reelstack/pkg/pipeline"
	renderjson "github.com/matzehuels/reelstack/pkg/render/json"
	"github.com/matzehuels/reelstack/pkg/session"
)

type openRequest struct {
	ProjectID string `json:"project_id"`
}

type pointerRequest struct {
	LayerID string      `json:"layer_id,omitempty"`
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	Button  drag.Button `json:"button"`
}

type timeRequest struct {
	Time float64 `json:"time"`
}

type sessionResponse struct {
	ID        string              `json:"id"`
	ProjectID string              `json:"project_id"`
	ExpiresAt time.Time           `json:"expires_at"`
	Accepted  *bool               `json:"accepted,omitempty"`
	MediaTime *float64            `json:"media_time,omitempty"`
	Frame     renderjson.Document `json:"frame"`
}

func (s *Server) respond(w http.ResponseWriter, status int, sess *session.Session, f compositor.Frame) {
	s.respondAccepted(w, status, sess, f, nil)
}

func (s *Server) respondAccepted(w http.ResponseWriter, status int, sess *session.Session, f compositor.Frame, accepted *bool) {
	resp := sessionResponse{
		ID:        sess.ID,
		ProjectID: sess.ProjectID,
		ExpiresAt: sess.Expiry(),
		Accepted:  accepted,
		Frame:     renderjson.Build(f, renderjson.WithCanvas(s.canvas.WithDefaults()), renderjson.WithProject(sess.ProjectID)),
	}
	if t, ok := sess.MediaTime(); ok {
		resp.MediaTime = &t
	}
	writeJSON(w, status, resp)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sid"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) openSession(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateProjectID(req.ProjectID); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.sessions.Open(r.Context(), req.ProjectID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+sess.ID)
	s.respond(w, http.StatusCreated, sess, sess.LastFrame())
}

func (s *Server) sessionState(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	f, err := sess.Frame(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, sess, f)
}

func (s *Server) closeSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.session(w, r); !ok {
		return
	}
	s.sessions.Close(chi.URLParam(r, "sid"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) sessionFrame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	p, err := s.store.Get(r.Context(), sess.ProjectID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.frameOptions(r, p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := opts.Formats[0]
	data, err := pipeline.RenderFormat(r.Context(), sess.LastFrame(), format, opts, s.runner.Loader)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, format, data)
}

func (s *Server) pointerDown(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req pointerRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateLayerID(req.LayerID); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidEvent, err, "pointer down"))
		return
	}
	f, accepted, err := sess.PointerDown(r.Context(), req.LayerID, drag.PointerEvent{X: req.X, Y: req.Y, Button: req.Button})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondAccepted(w, http.StatusOK, sess, f, &accepted)
}

func (s *Server) pointerMove(w http.ResponseWriter, r *http.Request) {
	s.pointer(w, r, (*session.Session).PointerMove)
}

func (s *Server) pointerUp(w http.ResponseWriter, r *http.Request) {
	s.pointer(w, r, (*session.Session).PointerUp)
}

type pointerFunc = func(*session.Session, context.Context, drag.PointerEvent) (compositor.Frame, error)

func (s *Server) pointer(w http.ResponseWriter, r *http.Request, fn pointerFunc) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req pointerRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := fn(sess, r.Context(), drag.PointerEvent{X: req.X, Y: req.Y, Button: req.Button})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, sess, f)
}

func (s *Server) seek(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req timeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := sess.Seek(r.Context(), req.Time)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, sess, f)
}

func (s *Server) setPlaying(playing bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.session(w, r)
		if !ok {
			return
		}
		f, err := sess.SetPlaying(r.Context(), playing)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.respond(w, http.StatusOK, sess, f)
	}
}

func (s *Server) seekMedia(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req timeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.SeekMedia(r.Context(), req.Time)
	s.respond(w, http.StatusOK, sess, sess.LastFrame())
}

func (s *Server) mediaReady(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.respond(w, http.StatusOK, sess, sess.MediaReady())
}
