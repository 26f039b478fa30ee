package compositor

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/reelstack/pkg/compositor/clock"
	"github.com/matzehuels/reelstack/pkg/compositor/drag"
	"github.com/matzehuels/reelstack/pkg/compositor/ordering"
	"github.com/matzehuels/reelstack/pkg/compositor/transform"
	"github.com/matzehuels/reelstack/pkg/observability"
	"github.com/matzehuels/reelstack/pkg/timeline"
)

// MediaProvider supplies the playable media element for a layer. It is
// asked only for the base layer.
type MediaProvider interface {
	Element(layer timeline.ClipLayer) clock.MediaElement
}

// MediaFunc adapts a function to [MediaProvider].
type MediaFunc func(layer timeline.ClipLayer) clock.MediaElement

func (f MediaFunc) Element(layer timeline.ClipLayer) clock.MediaElement { return f(layer) }

// Option configures a Compositor.
type Option func(*config)

type config struct {
	primaryTrack string
	tolerance    float64
	logger       *log.Logger
	media        MediaProvider
}

// WithPrimaryTrack sets the track whose video layer drives playback.
func WithPrimaryTrack(id string) Option { return func(c *config) { c.primaryTrack = id } }

// WithTolerance sets the paused-seek tolerance in seconds.
func WithTolerance(seconds float64) Option { return func(c *config) { c.tolerance = seconds } }

// WithLogger sets the logger shared by the compositor and its parts.
func WithLogger(l *log.Logger) Option { return func(c *config) { c.logger = l } }

// WithMedia sets the provider of base-layer media elements.
func WithMedia(p MediaProvider) Option { return func(c *config) { c.media = p } }

// Compositor orchestrates ordering, transform resolution, clock binding and
// drag interaction for one editing surface.
type Compositor struct {
	primaryTrack string
	logger       *log.Logger
	media        MediaProvider

	clock *clock.Synchronizer
	drag  *drag.Controller

	last Frame
}

// New creates a Compositor that captures surface during drags and sends
// move and select requests to emitter.
func New(surface drag.Surface, emitter timeline.Emitter, opts ...Option) *Compositor {
	cfg := config{
		primaryTrack: timeline.PrimaryTrack,
		tolerance:    clock.DefaultTolerance,
		logger:       log.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Compositor{
		primaryTrack: cfg.primaryTrack,
		logger:       cfg.logger,
		media:        cfg.media,
		clock:        clock.New(clock.WithTolerance(cfg.tolerance), clock.WithLogger(cfg.logger)),
		drag:         drag.NewController(surface, emitter, drag.WithPrimaryTrack(cfg.primaryTrack), drag.WithLogger(cfg.logger)),
	}
}

// Render runs one pass over in and returns the frame.
func (c *Compositor) Render(ctx context.Context, in Input) Frame {
	start := time.Now()

	ordered := ordering.Order(in.Layers)
	dragging := c.drag.ActiveLayerID()

	frame := Frame{
		Count:     len(ordered),
		ShowCount: len(ordered) > 1,
		Dragging:  dragging != "",
		IsPlaying: in.IsPlaying,
		Layers:    make([]RenderedLayer, 0, len(ordered)),
	}

	for i, l := range ordered {
		isDragging := dragging != "" && l.ID == dragging
		frame.Layers = append(frame.Layers, RenderedLayer{
			Layer:       l,
			Description: transform.Resolve(l.Transform, transform.ZIndexFor(i), isDragging),
			Selected:    in.SelectedLayerID != "" && l.ID == in.SelectedLayerID,
			Dragging:    isDragging,
			Draggable:   c.drag.Draggable(l),
		})
	}

	base, hasBase := clock.SelectBase(ordered, c.primaryTrack)
	binding := clock.Binding{IsPlaying: in.IsPlaying}
	if hasBase {
		binding.Base = &base
		if c.media != nil {
			binding.Element = c.media.Element(base)
		}
		frame.BaseLayerID = base.ID
		for i := range frame.Layers {
			if frame.Layers[i].Layer.ID == base.ID {
				frame.Layers[i].Base = true
				break
			}
		}
	}
	c.clock.Update(ctx, binding)

	switch {
	case len(ordered) == 0:
		frame.Empty = true
	case hasBase:
		frame.Mode = timeline.KindVideo
	default:
		frame.Mode = ordered[0].MediaKind
	}

	c.last = frame
	observability.Compositor().OnRender(ctx, len(ordered), time.Since(start))
	return frame
}

// LastFrame returns the frame produced by the most recent Render.
func (c *Compositor) LastFrame() Frame { return c.last }

// PointerDown forwards a pointer-down on layerID to the drag controller.
// Layers unknown to the last frame and base-track layers are ignored.
func (c *Compositor) PointerDown(ctx context.Context, layerID string, ev *drag.PointerEvent) bool {
	rl, ok := c.last.Layer(layerID)
	if !ok || !rl.Draggable {
		return false
	}
	return c.drag.PointerDown(ctx, rl.Layer, ev)
}

// DragSession returns the active drag session, if any.
func (c *Compositor) DragSession() (drag.Session, bool) { return c.drag.Active() }

// SeekTo forces the base media element to t seconds.
func (c *Compositor) SeekTo(ctx context.Context, t float64) { c.clock.SeekTo(ctx, t) }

// MediaHandle returns the raw base media element, or nil when unbound.
func (c *Compositor) MediaHandle() clock.MediaElement { return c.clock.Handle() }

// MediaReady signals that the base media element has become ready.
func (c *Compositor) MediaReady() { c.clock.MediaReady() }

// ClockState reports whether a base layer is bound to the clock.
func (c *Compositor) ClockState() clock.State { return c.clock.State() }

// Close ends any active drag session.
func (c *Compositor) Close() { c.drag.Close() }
