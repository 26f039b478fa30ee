package drag

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/reelstack/pkg/observability"
	"github.com/matzehuels/reelstack/pkg/timeline"
)

// Session is the state of the active gesture.
type Session struct {
	LayerID       string
	PointerOrigin timeline.Point
	LayerOrigin   timeline.Point
}

// Option configures a Controller.
type Option func(*Controller)

// WithPrimaryTrack sets the base track whose layers cannot be dragged.
func WithPrimaryTrack(id string) Option {
	return func(c *Controller) { c.primaryTrack = id }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller owns at most one drag session.
type Controller struct {
	surface      Surface
	emitter      timeline.Emitter
	primaryTrack string
	logger       *log.Logger

	active *session
}

type session struct {
	Session
	ctx     context.Context
	release Release
	moves   int
}

// NewController creates an idle controller that captures surface during a
// gesture and sends requests to emitter.
func NewController(surface Surface, emitter timeline.Emitter, opts ...Option) *Controller {
	c := &Controller{
		surface:      surface,
		emitter:      emitter,
		primaryTrack: timeline.PrimaryTrack,
		logger:       log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Draggable reports whether layer may start a gesture.
func (c *Controller) Draggable(layer timeline.ClipLayer) bool {
	return layer.TrackID != c.primaryTrack
}

// PointerDown starts a gesture on layer. It returns false, leaving any
// active session untouched, when ev is nil, the button is not primary or the
// layer is on the base track. An accepted pointer-down replaces an active
// session.
func (c *Controller) PointerDown(ctx context.Context, layer timeline.ClipLayer, ev *PointerEvent) bool {
	if ev == nil || ev.Button != ButtonPrimary || !c.Draggable(layer) {
		return false
	}
	c.end()

	ev.PreventDefault()
	s := &session{
		Session: Session{
			LayerID:       layer.ID,
			PointerOrigin: timeline.Point{X: ev.X, Y: ev.Y},
			LayerOrigin:   layer.Position(),
		},
		ctx: ctx,
	}
	c.active = s
	c.emitter.OnLayerSelect(layer.ID)

	s.release = c.surface.Capture(PointerHandlers{
		Move: func(ev PointerEvent) { c.move(s, ev) },
		Up:   func(PointerEvent) { c.up(s) },
	})

	c.logger.Debug("drag started", "layer", layer.ID, "x", ev.X, "y", ev.Y)
	observability.Compositor().OnDragStart(ctx, layer.ID)
	return true
}

// Active returns the current session, if any.
func (c *Controller) Active() (Session, bool) {
	if c.active == nil {
		return Session{}, false
	}
	return c.active.Session, true
}

// ActiveLayerID returns the dragged layer's ID, or "" when idle.
func (c *Controller) ActiveLayerID() string {
	if c.active == nil {
		return ""
	}
	return c.active.LayerID
}

// Close ends any active session and releases its listeners.
func (c *Controller) Close() { c.end() }

func (c *Controller) move(s *session, ev PointerEvent) {
	if c.active != s {
		return
	}
	delta := timeline.Point{X: ev.X, Y: ev.Y}.Sub(s.PointerOrigin)
	pos := s.LayerOrigin.Add(delta)
	s.moves++
	c.emitter.OnLayerMove(s.LayerID, pos.X, pos.Y)
}

func (c *Controller) up(s *session) {
	if c.active != s {
		s.release()
		return
	}
	c.end()
}

func (c *Controller) end() {
	s := c.active
	if s == nil {
		return
	}
	c.active = nil
	if s.release != nil {
		s.release()
	}
	c.logger.Debug("drag ended", "layer", s.LayerID, "moves", s.moves)
	observability.Compositor().OnDragEnd(s.ctx, s.LayerID, s.moves)
}
