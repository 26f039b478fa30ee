package clock

import (
	"context"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/reelstack/pkg/observability"
	"github.com/matzehuels/reelstack/pkg/timeline"
)

// DefaultTolerance is the distance in seconds a paused element may drift
// from its target clip time before it is forcibly seeked.
const DefaultTolerance = 0.1

// MediaElement is the handle of a playable media element.
type MediaElement interface {
	CurrentTime() float64
	SetCurrentTime(t float64)
	// Play requests playback. Implementations may reject the request.
	Play(ctx context.Context) error
	Pause()
}

// State is the binding state of a Synchronizer.
type State int

const (
	Unbound State = iota
	Bound
)

func (s State) String() string {
	if s == Bound {
		return "bound"
	}
	return "unbound"
}

// SelectBase returns the first layer in layers that qualifies as the base
// layer on primaryTrack. When several layers qualify, the first one
// encountered wins.
func SelectBase(layers []timeline.ClipLayer, primaryTrack string) (timeline.ClipLayer, bool) {
	for _, l := range layers {
		if timeline.IsBaseCandidate(l, primaryTrack) {
			return l, true
		}
	}
	return timeline.ClipLayer{}, false
}

// Binding is the input of one reconciliation pass.
type Binding struct {
	IsPlaying bool
	// Base is the base layer, or nil when none qualifies.
	Base *timeline.ClipLayer
	// Element is the base layer's media element. It may be nil when no
	// element has been created for the layer yet.
	Element MediaElement
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithTolerance sets the paused-seek tolerance in seconds.
func WithTolerance(seconds float64) Option {
	return func(s *Synchronizer) { s.tolerance = seconds }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(s *Synchronizer) { s.logger = l }
}

// Synchronizer binds the playback clock to the base layer's media element.
type Synchronizer struct {
	tolerance float64
	logger    *log.Logger

	state   State
	layerID string
	source  string
	element MediaElement

	playing     bool
	clipTime    float64
	readySynced bool
}

// New creates an unbound Synchronizer.
func New(opts ...Option) *Synchronizer {
	s := &Synchronizer{tolerance: DefaultTolerance, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports whether a base layer is currently bound.
func (s *Synchronizer) State() State { return s.state }

// LayerID returns the bound base layer's ID, or "" when unbound.
func (s *Synchronizer) LayerID() string { return s.layerID }

// Tolerance returns the paused-seek tolerance in seconds.
func (s *Synchronizer) Tolerance() float64 { return s.tolerance }

// Handle returns the bound media element, or nil when unbound.
func (s *Synchronizer) Handle() MediaElement { return s.element }

// Update reconciles the bound element with b.
func (s *Synchronizer) Update(ctx context.Context, b Binding) {
	if b.Base == nil {
		s.unbind()
		return
	}

	fresh := s.state == Unbound || s.layerID != b.Base.ID || s.source != b.Base.SourceURL
	if fresh {
		s.bind(*b.Base)
	}
	attached := s.element == nil && b.Element != nil
	s.element = b.Element

	playChanged := fresh || attached || b.IsPlaying != s.playing
	timeChanged := fresh || attached || b.Base.ClipTime != s.clipTime
	s.playing = b.IsPlaying
	s.clipTime = b.Base.ClipTime

	if s.element == nil {
		return
	}

	if playChanged {
		if s.playing {
			s.play(ctx)
		} else {
			s.element.Pause()
		}
	}

	if !s.playing && (timeChanged || playChanged) {
		s.reconcile(ctx)
	}
}

// MediaReady signals that the bound element can report and accept its
// position. The first call after binding forces the element to the current
// clip time; later calls do nothing.
func (s *Synchronizer) MediaReady() {
	if s.element == nil || s.readySynced {
		return
	}
	s.readySynced = true
	s.element.SetCurrentTime(s.clipTime)
	s.logger.Debug("initial media sync", "layer", s.layerID, "time", s.clipTime)
}

// SeekTo forces the bound element's position to t. It is a no-op when no
// element is bound.
func (s *Synchronizer) SeekTo(ctx context.Context, t float64) {
	if s.element == nil {
		return
	}
	s.element.SetCurrentTime(t)
	observability.Compositor().OnSeek(ctx, s.layerID, t, true)
}

func (s *Synchronizer) bind(base timeline.ClipLayer) {
	s.state = Bound
	s.layerID = base.ID
	s.source = base.SourceURL
	s.element = nil
	s.readySynced = false
	s.logger.Debug("clock bound", "layer", base.ID)
}

func (s *Synchronizer) unbind() {
	if s.state == Unbound {
		return
	}
	s.logger.Debug("clock unbound", "layer", s.layerID)
	*s = Synchronizer{tolerance: s.tolerance, logger: s.logger}
}

func (s *Synchronizer) play(ctx context.Context) {
	if err := s.element.Play(ctx); err != nil {
		s.logger.Debug("play request rejected", "layer", s.layerID, "err", err)
		observability.Compositor().OnPlayRejected(ctx, s.layerID, err)
	}
}

func (s *Synchronizer) reconcile(ctx context.Context) {
	live := s.element.CurrentTime()
	if math.Abs(live-s.clipTime) > s.tolerance {
		s.element.SetCurrentTime(s.clipTime)
		s.logger.Debug("seek reconciled", "layer", s.layerID, "from", live, "to", s.clipTime)
		observability.Compositor().OnSeek(ctx, s.layerID, s.clipTime, false)
	}
}
