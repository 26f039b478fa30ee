package media

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/reelstack/pkg/compositor/clock"
	"github.com/matzehuels/reelstack/pkg/errors"
)

// ErrPlaybackBlocked is returned by Play while the autoplay policy refuses
// playback. Call [Element.AllowPlayback] after a user gesture.
var ErrPlaybackBlocked = errors.New(errors.ErrCodeUnsupported, "playback blocked by autoplay policy")

// ElementOption configures an Element.
type ElementOption func(*Element)

// WithDuration stops the clock at d seconds. Zero means unbounded.
func WithDuration(d float64) ElementOption { return func(e *Element) { e.duration = d } }

// WithAutoplayBlocked makes Play fail until AllowPlayback is called.
func WithAutoplayBlocked() ElementOption { return func(e *Element) { e.blocked = true } }

// WithNow replaces the wall clock, for tests.
func WithNow(now func() time.Time) ElementOption { return func(e *Element) { e.now = now } }

// Element is a simulated media element. It is safe for concurrent use.
type Element struct {
	mu sync.Mutex

	source   string
	duration float64
	blocked  bool
	now      func() time.Time

	position  float64
	playing   bool
	startedAt time.Time
	ready     bool
	seeks     int
}

// NewElement creates a paused element positioned at 0.
func NewElement(source string, opts ...ElementOption) *Element {
	e := &Element{source: source, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Source returns the source the element was created for.
func (e *Element) Source() string { return e.source }

func (e *Element) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current()
}

func (e *Element) SetCurrentTime(t float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.position = e.clamp(t)
	e.seeks++
	if e.playing {
		e.startedAt = e.now()
	}
}

func (e *Element) Play(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.blocked {
		return ErrPlaybackBlocked
	}
	if !e.playing {
		e.playing = true
		e.startedAt = e.now()
	}
	return nil
}

func (e *Element) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.playing {
		e.position = e.current()
		e.playing = false
	}
}

// Playing reports whether the clock is advancing.
func (e *Element) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// AllowPlayback lifts the autoplay block.
func (e *Element) AllowPlayback() {
	e.mu.Lock()
	e.blocked = false
	e.mu.Unlock()
}

// MarkReady records that data is available. It returns true only for the
// first call, which is when the host should signal the compositor.
func (e *Element) MarkReady() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ready {
		return false
	}
	e.ready = true
	return true
}

// Ready reports whether MarkReady has been called.
func (e *Element) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

// Seeks returns how many times the position was set.
func (e *Element) Seeks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seeks
}

func (e *Element) current() float64 {
	if !e.playing {
		return e.position
	}
	return e.clamp(e.position + e.now().Sub(e.startedAt).Seconds())
}

func (e *Element) clamp(t float64) float64 {
	if e.duration > 0 && t > e.duration {
		return e.duration
	}
	return t
}

var _ clock.MediaElement = (*Element)(nil)
