package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/reelstack/pkg/errors"
	"github.com/matzehuels/reelstack/pkg/pipeline"
	"github.com/matzehuels/reelstack/pkg/project"
)

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []project.Summary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var p project.Project
	if err := decode(r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	if p.ID == "" {
		p.ID = project.NewID()
	} else if _, err := s.store.Get(r.Context(), p.ID); err == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "project %q already exists", p.ID))
		return
	}
	if err := s.save(w, r, &p); err != nil {
		return
	}
	w.Header().Set("Location", "/projects/"+p.ID)
	writeJSON(w, http.StatusCreated, &p)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) putProject(w http.ResponseWriter, r *http.Request) {
	var p project.Project
	if err := decode(r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	p.ID = chi.URLParam(r, "id")
	if err := s.save(w, r, &p); err != nil {
		return
	}
	writeJSON(w, http.StatusOK, &p)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addClip(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var c project.Clip
	if err := decode(r, &c); err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := p.AddClip(c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.save(w, r, p); err != nil {
		return
	}
	added, _ := p.Clip(id)
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) removeClip(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := p.RemoveClip(chi.URLParam(r, "layer")); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.save(w, r, p); err != nil {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) projectFrame(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.frameOptions(r, p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if at := r.URL.Query().Get("at"); at != "" {
		t, err := strconv.ParseFloat(at, 64)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid playhead %q", at))
			return
		}
		opts.Playhead = &t
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := opts.Formats[0]
	w.Header().Set("X-Frame-Hash", res.FrameHash)
	if res.CacheInfo.RenderHit() {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	writeArtifact(w, format, res.Artifacts[format])
}

// frameOptions builds single-format pipeline options from the request's
// format query parameter.
func (s *Server) frameOptions(r *http.Request, p *project.Project) (pipeline.Options, error) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Project:      p,
		PrimaryTrack: s.primaryTrack,
		Formats:      []string{format},
		Canvas:       s.canvas,
		Detailed:     r.URL.Query().Get("detailed") == "true",
		Logger:       s.logger,
	}
	if p.Width > 0 {
		opts.Canvas.Width = p.Width
	}
	if p.Height > 0 {
		opts.Canvas.Height = p.Height
	}
	return opts, opts.ValidateAndSetDefaults()
}

// save validates and stores p, writing the error response on failure.
func (s *Server) save(w http.ResponseWriter, r *http.Request, p *project.Project) error {
	if p.Width <= 0 {
		p.Width = project.DefaultWidth
	}
	if p.Height <= 0 {
		p.Height = project.DefaultHeight
	}
	if p.Clips == nil {
		p.Clips = []project.Clip{}
	}
	err := p.Validate()
	if err == nil {
		err = s.store.Put(r.Context(), p)
	}
	if err != nil {
		s.writeError(w, r, err)
	}
	return err
}
