package compositor

import (
	"context"
	"slices"
	"testing"

	"github.com/matzehuels/reelstack/pkg/compositor/clock"
	"github.com/matzehuels/reelstack/pkg/compositor/drag"
	"github.com/matzehuels/reelstack/pkg/timeline"
)

type fakeElement struct {
	time   float64
	seeks  []float64
	plays  int
	pauses int
}

func (e *fakeElement) CurrentTime() float64       { return e.time }
func (e *fakeElement) SetCurrentTime(t float64)   { e.time = t; e.seeks = append(e.seeks, t) }
func (e *fakeElement) Play(context.Context) error { e.plays++; return nil }
func (e *fakeElement) Pause()                     { e.pauses++ }

// elements hands out one element per layer and records every request.
type elements map[string]*fakeElement

func (m elements) Element(l timeline.ClipLayer) clock.MediaElement {
	if m[l.ID] == nil {
		m[l.ID] = &fakeElement{}
	}
	return m[l.ID]
}

func scenario() []timeline.ClipLayer {
	return []timeline.ClipLayer{
		{ID: "B", TrackID: "V2", MediaKind: timeline.KindImage,
			Transform: &timeline.ClipTransform{X: timeline.Float(0), Y: timeline.Float(0)}},
		{ID: "A", TrackID: "V1", MediaKind: timeline.KindVideo, ClipTime: 5},
	}
}

func TestEndToEndDrag(t *testing.T) {
	ctx := context.Background()
	w := drag.NewWindow()
	rec := &timeline.Recorder{}
	media := elements{}
	c := New(w, rec, WithMedia(media))

	frame := c.Render(ctx, Input{Layers: scenario()})
	if got := frame.IDs(); !slices.Equal(got, []string{"A", "B"}) {
		t.Fatalf("paint order = %v, want [A B]", got)
	}
	if frame.BaseLayerID != "A" || c.ClockState() != clock.Bound {
		t.Fatalf("base = %q state = %v", frame.BaseLayerID, c.ClockState())
	}
	if media["A"].time != 5 {
		t.Errorf("base element time = %v, want 5", media["A"].time)
	}

	if !c.PointerDown(ctx, "B", &drag.PointerEvent{X: 100, Y: 100}) {
		t.Fatal("PointerDown(B) rejected")
	}
	w.Move(drag.PointerEvent{X: 120, Y: 115})
	w.Up(drag.PointerEvent{X: 120, Y: 115})

	if len(rec.Selects) != 1 || rec.Selects[0].LayerID != "B" {
		t.Errorf("Selects = %+v, want exactly one select of B", rec.Selects)
	}
	found := false
	for _, m := range rec.Moves {
		if m.LayerID != "B" {
			t.Errorf("move references %q", m.LayerID)
		}
		if m.X == 20 && m.Y == 15 {
			found = true
		}
	}
	if !found {
		t.Errorf("Moves = %+v, want move(B, 20, 15)", rec.Moves)
	}
	if _, ok := media["B"]; ok {
		t.Error("overlay layer was given a media element")
	}
}

func TestBaseLayerCannotBeDragged(t *testing.T) {
	ctx := context.Background()
	w := drag.NewWindow()
	rec := &timeline.Recorder{}
	c := New(w, rec)
	c.Render(ctx, Input{Layers: scenario()})

	if c.PointerDown(ctx, "A", &drag.PointerEvent{}) {
		t.Error("PointerDown on base layer accepted")
	}
	if c.PointerDown(ctx, "missing", &drag.PointerEvent{}) {
		t.Error("PointerDown on unknown layer accepted")
	}
	if len(rec.Selects) != 0 || w.Listeners() != 0 {
		t.Errorf("rejected pointer-downs had effects: %+v", rec.Selects)
	}
}

func TestRenderMarksDraggingLayer(t *testing.T) {
	ctx := context.Background()
	w := drag.NewWindow()
	c := New(w, &timeline.Recorder{})
	c.Render(ctx, Input{Layers: scenario()})
	c.PointerDown(ctx, "B", &drag.PointerEvent{})

	frame := c.Render(ctx, Input{Layers: scenario(), SelectedLayerID: "B"})
	b, _ := frame.Layer("B")
	a, _ := frame.Layer("A")
	if !frame.Dragging || !b.Dragging || b.Description.Cursor != "grabbing" {
		t.Errorf("dragging frame = %+v, B = %+v", frame, b)
	}
	if a.Dragging || a.Description.Cursor != "" {
		t.Errorf("A marked dragging: %+v", a)
	}
	if !b.Selected || a.Selected {
		t.Errorf("selection: A=%v B=%v", a.Selected, b.Selected)
	}
	if !a.Base || a.Draggable || !b.Draggable {
		t.Errorf("affordances: A base=%v draggable=%v, B draggable=%v", a.Base, a.Draggable, b.Draggable)
	}

	w.Up(drag.PointerEvent{})
	if frame := c.Render(ctx, Input{Layers: scenario()}); frame.Dragging {
		t.Error("frame still dragging after pointer up")
	}
}

func TestZIndicesFollowPaintOrder(t *testing.T) {
	c := New(drag.NewWindow(), &timeline.Recorder{})
	frame := c.Render(context.Background(), Input{Layers: []timeline.ClipLayer{
		{ID: "top", TrackID: "V3", MediaKind: timeline.KindImage},
		{ID: "mid", TrackID: "V2", MediaKind: timeline.KindImage},
		{ID: "bottom", TrackID: "V1", MediaKind: timeline.KindImage},
	}})
	for i, l := range frame.Layers {
		if l.Description.ZIndex != i+1 {
			t.Errorf("%s z-index = %d, want %d", l.Layer.ID, l.Description.ZIndex, i+1)
		}
	}
}

func TestIndicators(t *testing.T) {
	tests := []struct {
		name      string
		layers    []timeline.ClipLayer
		empty     bool
		mode      timeline.MediaKind
		showCount bool
	}{
		{"empty", nil, true, "", false},
		{"single image", []timeline.ClipLayer{{ID: "i", TrackID: "V2", MediaKind: timeline.KindImage}}, false, timeline.KindImage, false},
		{"audio first, no base", []timeline.ClipLayer{
			{ID: "a", TrackID: "A1", MediaKind: timeline.KindAudio},
			{ID: "v", TrackID: "V2", MediaKind: timeline.KindVideo},
		}, false, timeline.KindAudio, true},
		{"mode follows paint order, not input order", []timeline.ClipLayer{
			{ID: "i", TrackID: "V2", MediaKind: timeline.KindImage},
			{ID: "a", TrackID: "A1", MediaKind: timeline.KindAudio},
		}, false, timeline.KindAudio, true},
		{"base present", scenario(), false, timeline.KindVideo, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(drag.NewWindow(), &timeline.Recorder{})
			f := c.Render(context.Background(), Input{Layers: tt.layers})
			if f.Empty != tt.empty || f.Mode != tt.mode || f.ShowCount != tt.showCount {
				t.Errorf("frame = empty:%v mode:%q showCount:%v, want %v %q %v",
					f.Empty, f.Mode, f.ShowCount, tt.empty, tt.mode, tt.showCount)
			}
			if tt.empty && len(f.Layers) != 0 {
				t.Error("empty frame rendered layers")
			}
		})
	}
}

func TestUnboundWithoutBase(t *testing.T) {
	c := New(drag.NewWindow(), &timeline.Recorder{}, WithMedia(elements{}))
	c.Render(context.Background(), Input{Layers: []timeline.ClipLayer{
		{ID: "v", TrackID: "V2", MediaKind: timeline.KindVideo},
	}})
	if c.ClockState() != clock.Unbound || c.MediaHandle() != nil {
		t.Errorf("state = %v, handle = %v", c.ClockState(), c.MediaHandle())
	}
	c.SeekTo(context.Background(), 3) // no-op
}

func TestSeekToAndMediaReady(t *testing.T) {
	ctx := context.Background()
	media := elements{}
	c := New(drag.NewWindow(), &timeline.Recorder{}, WithMedia(media))
	layers := scenario()
	layers[1].ClipTime = 5.05
	media["A"] = &fakeElement{time: 5}

	c.Render(ctx, Input{Layers: layers})
	if len(media["A"].seeks) != 0 {
		t.Fatalf("seeked within tolerance: %v", media["A"].seeks)
	}
	c.MediaReady()
	if media["A"].time != 5.05 {
		t.Errorf("MediaReady time = %v, want 5.05", media["A"].time)
	}
	c.SeekTo(ctx, 9)
	if c.MediaHandle().CurrentTime() != 9 {
		t.Errorf("SeekTo time = %v, want 9", c.MediaHandle().CurrentTime())
	}
}

func TestIndependentCompositors(t *testing.T) {
	ctx := context.Background()
	w1, w2 := drag.NewWindow(), drag.NewWindow()
	c1 := New(w1, &timeline.Recorder{})
	c2 := New(w2, &timeline.Recorder{})
	c1.Render(ctx, Input{Layers: scenario()})
	c2.Render(ctx, Input{Layers: scenario()})

	c1.PointerDown(ctx, "B", &drag.PointerEvent{})
	if _, ok := c2.DragSession(); ok {
		t.Error("drag session leaked into another compositor")
	}
	c1.Close()
	if w1.Listeners() != 0 {
		t.Error("Close() left listeners installed")
	}
}
