// Package session manages live editing sessions.
//
// A session pairs one project with its own compositor, pointer surface,
// media library and request queue, so sessions never observe each other's
// drags or clocks. The [Manager] hands sessions out by ID and expires idle
// ones.
//
// Every operation on a session follows the same cycle: feed the event to
// the compositor, flush the queued move and select requests into the
// stored project, and render the next frame from the stored state.
//
//	mgr := session.NewManager(store, session.WithTTL(time.Hour))
//	s, err := mgr.Open(ctx, "intro")
//	frame, err := s.PointerDown(ctx, "logo", drag.PointerEvent{X: 10, Y: 10})
package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/reelstack/pkg/compositor"
	"github.com/matzehuels/reelstack/pkg/compositor/drag"
	"github.com/matzehuels/reelstack/pkg/media"
	"github.com/matzehuels/reelstack/pkg/project"
)

// DefaultTTL is how long an idle session lives.
const DefaultTTL = 30 * time.Minute

// Session is one live editing session. Its methods are safe for
// concurrent use; calls are serialized.
type Session struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	mu      sync.Mutex
	store   project.Store
	logger  *log.Logger
	window  *drag.Window
	applier *project.Applier
	media   *media.Library
	comp    *compositor.Compositor
}

// IsExpired reports whether the session has outlived its TTL.
func (s *Session) IsExpired() bool { return time.Now().After(s.Expiry()) }

// Expiry returns when the session expires unless used again.
func (s *Session) Expiry() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ExpiresAt
}

func (s *Session) touch(ttl time.Duration) {
	s.mu.Lock()
	s.ExpiresAt = time.Now().Add(ttl)
	s.mu.Unlock()
}

// Frame renders the current state of the project.
func (s *Session) Frame(ctx context.Context) (compositor.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render(ctx)
}

// LastFrame returns the most recently rendered frame without touching the
// store.
func (s *Session) LastFrame() compositor.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comp.LastFrame()
}

// PointerDown starts a drag on layerID. The returned bool reports whether
// the gesture was accepted.
func (s *Session) PointerDown(ctx context.Context, layerID string, ev drag.PointerEvent) (compositor.Frame, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.comp.PointerDown(ctx, layerID, &ev)
	f, err := s.render(ctx)
	return f, ok, err
}

// PointerMove dispatches a move to the captured drag listeners.
func (s *Session) PointerMove(ctx context.Context, ev drag.PointerEvent) (compositor.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window.Move(ev)
	return s.render(ctx)
}

// PointerUp ends an active drag.
func (s *Session) PointerUp(ctx context.Context, ev drag.PointerEvent) (compositor.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window.Up(ev)
	return s.render(ctx)
}

// Seek moves the project playhead to t seconds.
func (s *Session) Seek(ctx context.Context, t float64) (compositor.Frame, error) {
	return s.update(ctx, func(p *project.Project) { p.Playhead = t })
}

// SetPlaying starts or stops playback.
func (s *Session) SetPlaying(ctx context.Context, playing bool) (compositor.Frame, error) {
	return s.update(ctx, func(p *project.Project) { p.IsPlaying = playing })
}

// SeekMedia forces the base layer's media element to t seconds without
// changing the project.
func (s *Session) SeekMedia(ctx context.Context, t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comp.SeekTo(ctx, t)
}

// MediaReady reports that the base element has data, forcing it to the
// base layer's clip time.
func (s *Session) MediaReady() compositor.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comp.MediaReady()
	return s.comp.LastFrame()
}

// MediaTime returns the base element's position, or false when nothing is
// bound.
func (s *Session) MediaTime() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	el := s.comp.MediaHandle()
	if el == nil {
		return 0, false
	}
	return el.CurrentTime(), true
}

// Close ends any active drag.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comp.Close()
}

func (s *Session) update(ctx context.Context, fn func(*project.Project)) (compositor.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.store.Get(ctx, s.ProjectID)
	if err != nil {
		return compositor.Frame{}, err
	}
	fn(p)
	if err := s.store.Put(ctx, p); err != nil {
		return compositor.Frame{}, err
	}
	return s.render(ctx)
}

// render flushes pending requests into the store and composes the stored
// project. Callers hold s.mu.
func (s *Session) render(ctx context.Context) (compositor.Frame, error) {
	p, err := s.flush(ctx)
	if err != nil {
		return compositor.Frame{}, err
	}
	f := s.comp.Render(ctx, compositor.Input{
		Layers:          p.Layers(),
		IsPlaying:       p.IsPlaying,
		SelectedLayerID: p.SelectedLayerID,
	})
	s.signalReady(f)
	return f, nil
}

func (s *Session) flush(ctx context.Context) (*project.Project, error) {
	if s.applier.Pending() == 0 {
		return s.store.Get(ctx, s.ProjectID)
	}
	p, err := s.applier.FlushTo(ctx, s.store, s.ProjectID)
	if p == nil {
		return nil, err
	}
	if err != nil {
		s.logger.Warn("dropped interaction request", "session", s.ID, "err", err)
	}
	return p, nil
}

// signalReady marks a newly bound base element ready, which lets the
// compositor force the element to the clip time once.
func (s *Session) signalReady(f compositor.Frame) {
	if f.BaseLayerID == "" {
		return
	}
	rl, ok := f.Layer(f.BaseLayerID)
	if !ok {
		return
	}
	if s.media.Get(rl.Layer).MarkReady() {
		s.comp.MediaReady()
	}
}

// NewID returns a random session identifier.
func NewID() string { return uuid.NewString() }
