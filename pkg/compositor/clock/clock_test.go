package clock

import (
	"context"
	"errors"
	"testing"

	"github.com/matzehuels/reelstack/pkg/timeline"
)

type fakeElement struct {
	time    float64
	seeks   []float64
	plays   int
	pauses  int
	playErr error
}

func (e *fakeElement) CurrentTime() float64 { return e.time }
func (e *fakeElement) SetCurrentTime(t float64) {
	e.time = t
	e.seeks = append(e.seeks, t)
}
func (e *fakeElement) Play(context.Context) error {
	e.plays++
	return e.playErr
}
func (e *fakeElement) Pause() { e.pauses++ }

func base(clipTime float64) *timeline.ClipLayer {
	return &timeline.ClipLayer{ID: "A", TrackID: "V1", MediaKind: timeline.KindVideo, ClipTime: clipTime}
}

func TestSelectBase(t *testing.T) {
	tests := []struct {
		name   string
		layers []timeline.ClipLayer
		wantID string
		wantOK bool
	}{
		{"none", []timeline.ClipLayer{{ID: "B", TrackID: "V2", MediaKind: timeline.KindVideo}}, "", false},
		{"one", []timeline.ClipLayer{
			{ID: "B", TrackID: "V2", MediaKind: timeline.KindImage},
			{ID: "A", TrackID: "V1", MediaKind: timeline.KindVideo},
		}, "A", true},
		{"two candidates, first wins", []timeline.ClipLayer{
			{ID: "A1", TrackID: "V1", MediaKind: timeline.KindVideo},
			{ID: "A2", TrackID: "V1", MediaKind: timeline.KindVideo},
		}, "A1", true},
		{"image on primary does not qualify", []timeline.ClipLayer{
			{ID: "I", TrackID: "V1", MediaKind: timeline.KindImage},
		}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectBase(tt.layers, timeline.PrimaryTrack)
			if ok != tt.wantOK || got.ID != tt.wantID {
				t.Errorf("SelectBase() = (%q, %v), want (%q, %v)", got.ID, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestUpdateBindsAndUnbinds(t *testing.T) {
	ctx := context.Background()
	s := New()
	if s.State() != Unbound {
		t.Fatalf("initial State() = %v, want unbound", s.State())
	}

	el := &fakeElement{}
	s.Update(ctx, Binding{Base: base(0), Element: el})
	if s.State() != Bound || s.LayerID() != "A" || s.Handle() != el {
		t.Fatalf("after bind: state=%v layer=%q", s.State(), s.LayerID())
	}

	s.Update(ctx, Binding{})
	if s.State() != Unbound || s.Handle() != nil || s.LayerID() != "" {
		t.Errorf("after unbind: state=%v handle=%v", s.State(), s.Handle())
	}
}

func TestSeekTolerance(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name     string
		live     float64
		wantSeek bool
	}{
		{"within tolerance", 5.05, false},
		{"beyond tolerance", 5.2, true},
		{"behind beyond tolerance", 4.8, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			el := &fakeElement{time: 0}
			s.Update(ctx, Binding{Base: base(1), Element: el})
			el.seeks = nil

			el.time = tt.live
			s.Update(ctx, Binding{Base: base(5), Element: el})
			if got := len(el.seeks) > 0; got != tt.wantSeek {
				t.Errorf("seeked = %v, want %v (seeks %v)", got, tt.wantSeek, el.seeks)
			}
			if tt.wantSeek && el.time != 5 {
				t.Errorf("time = %v, want 5", el.time)
			}
		})
	}
}

func TestNoSeekWhilePlaying(t *testing.T) {
	ctx := context.Background()
	s := New()
	el := &fakeElement{}
	s.Update(ctx, Binding{IsPlaying: true, Base: base(0), Element: el})
	el.seeks = nil

	el.time = 0.5
	s.Update(ctx, Binding{IsPlaying: true, Base: base(3), Element: el})
	if len(el.seeks) != 0 {
		t.Errorf("seeked during playback: %v", el.seeks)
	}
}

func TestNoSeekWhenClipTimeUnchanged(t *testing.T) {
	ctx := context.Background()
	s := New()
	el := &fakeElement{}
	s.Update(ctx, Binding{Base: base(2), Element: el})
	el.seeks = nil

	// The element drifted but nothing requested a new position.
	el.time = 9
	s.Update(ctx, Binding{Base: base(2), Element: el})
	if len(el.seeks) != 0 {
		t.Errorf("seeked without a clip time change: %v", el.seeks)
	}
}

func TestPlayPauseTransitions(t *testing.T) {
	ctx := context.Background()
	s := New()
	el := &fakeElement{playErr: errors.New("autoplay blocked")}

	s.Update(ctx, Binding{Base: base(0), Element: el})
	if el.pauses != 1 || el.plays != 0 {
		t.Fatalf("initial paused bind: plays=%d pauses=%d", el.plays, el.pauses)
	}

	s.Update(ctx, Binding{IsPlaying: true, Base: base(0), Element: el})
	s.Update(ctx, Binding{IsPlaying: true, Base: base(0.5), Element: el})
	if el.plays != 1 {
		t.Errorf("plays = %d, want 1 (only on transition)", el.plays)
	}

	s.Update(ctx, Binding{IsPlaying: false, Base: base(0.5), Element: el})
	if el.pauses != 2 {
		t.Errorf("pauses = %d, want 2", el.pauses)
	}
	if s.State() != Bound {
		t.Error("rejected play must not unbind")
	}
}

func TestMediaReadyForcesOnce(t *testing.T) {
	ctx := context.Background()
	s := New()
	el := &fakeElement{}
	s.Update(ctx, Binding{Base: base(0.05), Element: el})
	if len(el.seeks) != 0 {
		t.Fatalf("0.05s drift seeked on bind: %v", el.seeks)
	}

	s.MediaReady()
	if len(el.seeks) != 1 || el.seeks[0] != 0.05 {
		t.Errorf("MediaReady seeks = %v, want [0.05]", el.seeks)
	}
	s.MediaReady()
	if len(el.seeks) != 1 {
		t.Errorf("second MediaReady seeked again: %v", el.seeks)
	}
}

func TestRebindResetsReadiness(t *testing.T) {
	ctx := context.Background()
	s := New()
	first := &fakeElement{}
	s.Update(ctx, Binding{Base: base(1), Element: first})
	s.MediaReady()

	other := &timeline.ClipLayer{ID: "A2", TrackID: "V1", MediaKind: timeline.KindVideo, ClipTime: 1}
	second := &fakeElement{time: 1}
	s.Update(ctx, Binding{Base: other, Element: second})
	s.MediaReady()
	if len(second.seeks) != 1 {
		t.Errorf("new element not synced on ready: %v", second.seeks)
	}
}

func TestSeekToAndHandle(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.SeekTo(ctx, 4) // unbound: no panic, no effect
	if s.Handle() != nil {
		t.Fatal("Handle() should be nil when unbound")
	}

	el := &fakeElement{}
	s.Update(ctx, Binding{IsPlaying: true, Base: base(0), Element: el})
	s.SeekTo(ctx, 12.5)
	if el.time != 12.5 {
		t.Errorf("time = %v, want 12.5", el.time)
	}
}

func TestElementAttachedLater(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Update(ctx, Binding{IsPlaying: true, Base: base(0)})
	if s.State() != Bound {
		t.Fatal("base present without element should still bind")
	}

	el := &fakeElement{}
	s.Update(ctx, Binding{IsPlaying: true, Base: base(0), Element: el})
	if el.plays != 1 {
		t.Errorf("late element plays = %d, want 1", el.plays)
	}
}

func TestWithTolerance(t *testing.T) {
	ctx := context.Background()
	s := New(WithTolerance(1))
	el := &fakeElement{}
	s.Update(ctx, Binding{Base: base(0), Element: el})
	el.seeks = nil
	el.time = 0.5
	s.Update(ctx, Binding{Base: base(0.9), Element: el})
	if len(el.seeks) != 0 {
		t.Errorf("seeked within custom tolerance: %v", el.seeks)
	}
}
