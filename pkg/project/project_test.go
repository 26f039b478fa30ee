package project

import (
	"context"
	"slices"
	"testing"

	"github.com/matzehuels/reelstack/pkg/errors"
	"github.com/matzehuels/reelstack/pkg/timeline"
)

func clip(id, track string, kind timeline.MediaKind, start, dur, offset float64) Clip {
	return Clip{
		ClipLayer: timeline.ClipLayer{ID: id, TrackID: track, MediaKind: kind, SourceURL: id + ".src"},
		Start:     start,
		Duration:  dur,
		Offset:    offset,
	}
}

func sample() *Project {
	p := New("intro")
	p.ID = "intro"
	p.Clips = []Clip{
		clip("A", "V1", timeline.KindVideo, 0, 10, 2),
		clip("B", "V2", timeline.KindImage, 3, 4, 0),
		clip("C", "A1", timeline.KindAudio, 0, 0, 0),
	}
	return p
}

func TestLayersAt(t *testing.T) {
	p := sample()
	tests := []struct {
		playhead float64
		want     []string
	}{
		{0, []string{"A", "C"}},
		{3, []string{"A", "B", "C"}},
		{7, []string{"A", "C"}},
		{10, []string{"C"}},
	}
	for _, tt := range tests {
		var got []string
		for _, l := range p.LayersAt(tt.playhead) {
			got = append(got, l.ID)
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("LayersAt(%v) = %v, want %v", tt.playhead, got, tt.want)
		}
	}

	layers := p.LayersAt(5)
	if layers[0].ClipTime != 7 {
		t.Errorf("A clip time = %v, want 7 (5 - 0 + 2)", layers[0].ClipTime)
	}
	if layers[1].ClipTime != 2 {
		t.Errorf("B clip time = %v, want 2", layers[1].ClipTime)
	}
	if p.Duration() != 10 {
		t.Errorf("Duration = %v, want 10", p.Duration())
	}
}

func TestApply(t *testing.T) {
	p := sample()
	p.Clips[1].Transform = &timeline.ClipTransform{Scale: timeline.Float(2)}

	if err := Apply(p, timeline.MoveRequest{LayerID: "B", X: 20, Y: 15}); err != nil {
		t.Fatal(err)
	}
	b, _ := p.Clip("B")
	if got := b.Position(); got != (timeline.Point{X: 20, Y: 15}) {
		t.Errorf("position = %+v", got)
	}
	if timeline.Value(b.Transform.Scale, 1) != 2 {
		t.Error("move dropped scale")
	}

	if err := Apply(p, timeline.MoveRequest{LayerID: "A", X: 1, Y: 1}); err != nil {
		t.Fatal(err)
	}
	if a, _ := p.Clip("A"); a.Transform == nil {
		t.Error("move on a layer without transform did not create one")
	}

	if err := Apply(p, timeline.SelectRequest{LayerID: "C"}); err != nil || p.SelectedLayerID != "C" {
		t.Errorf("select: %v, selected = %q", err, p.SelectedLayerID)
	}
	if err := Apply(p, timeline.SelectRequest{LayerID: "nope"}); !errors.Is(err, errors.ErrCodeLayerNotFound) {
		t.Errorf("unknown layer err = %v", err)
	}
	if err := Apply(p, "bogus"); !errors.Is(err, errors.ErrCodeInvalidEvent) {
		t.Errorf("bogus request err = %v", err)
	}
}

func TestApplierPreservesOrder(t *testing.T) {
	ctx := context.Background()
	a := NewApplier()
	a.OnLayerSelect("B")
	a.OnLayerMove("B", 1, 1)
	a.OnLayerMove("B", 5, 6)
	a.OnLayerMove("missing", 0, 0)
	if a.Pending() != 4 {
		t.Fatalf("Pending = %d", a.Pending())
	}

	p := sample()
	n, err := a.Flush(ctx, p)
	if n != 3 || !errors.Is(err, errors.ErrCodeLayerNotFound) {
		t.Errorf("Flush = %d, %v", n, err)
	}
	b, _ := p.Clip("B")
	if b.Position() != (timeline.Point{X: 5, Y: 6}) || p.SelectedLayerID != "B" {
		t.Errorf("after flush: pos %+v selected %q", b.Position(), p.SelectedLayerID)
	}
	if a.Pending() != 0 {
		t.Error("queue not drained")
	}
}

func TestApplierFlushTo(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Put(ctx, sample()); err != nil {
		t.Fatal(err)
	}
	a := NewApplier()
	a.OnLayerMove("B", 9, 9)
	if _, err := a.FlushTo(ctx, s, "intro"); err != nil {
		t.Fatal(err)
	}
	p, _ := s.Get(ctx, "intro")
	if b, _ := p.Clip("B"); b.Position().X != 9 {
		t.Errorf("stored position = %+v", b.Position())
	}
}

type failingPutStore struct {
	Store
	fail bool
}

func (s *failingPutStore) Put(ctx context.Context, p *Project) error {
	if s.fail {
		return errors.New(errors.ErrCodeStoreLocked, "store busy")
	}
	return s.Store.Put(ctx, p)
}

func TestApplierFlushToRetriesAfterFailedSave(t *testing.T) {
	ctx := context.Background()
	s := &failingPutStore{Store: NewMemoryStore(), fail: true}
	if err := s.Store.Put(ctx, sample()); err != nil {
		t.Fatal(err)
	}
	a := NewApplier()
	a.OnLayerMove("B", 3, 3)
	a.OnLayerMove("missing", 0, 0)
	a.OnLayerMove("B", 9, 9)

	if _, err := a.FlushTo(ctx, s, "intro"); !errors.Is(err, errors.ErrCodeStoreLocked) {
		t.Fatalf("FlushTo error = %v, want STORE_LOCKED", err)
	}
	if a.Pending() != 2 {
		t.Fatalf("Pending = %d after failed save, want the 2 applied moves back", a.Pending())
	}

	a.OnLayerSelect("B")
	s.fail = false
	p, err := a.FlushTo(ctx, s, "intro")
	if err != nil {
		t.Fatal(err)
	}
	if b, _ := p.Clip("B"); b.Position() != (timeline.Point{X: 9, Y: 9}) || p.SelectedLayerID != "B" {
		t.Errorf("after retry: pos %+v selected %q", b.Position(), p.SelectedLayerID)
	}
	if a.Pending() != 0 {
		t.Errorf("Pending = %d after successful save", a.Pending())
	}
}

func TestAddRemoveClip(t *testing.T) {
	p := New("x")
	id, err := p.AddClip(Clip{ClipLayer: timeline.ClipLayer{TrackID: "V2", MediaKind: timeline.KindImage}})
	if err != nil || id == "" {
		t.Fatalf("AddClip = %q, %v", id, err)
	}
	if _, err := p.AddClip(Clip{ClipLayer: timeline.ClipLayer{ID: id, TrackID: "V2", MediaKind: timeline.KindImage}}); err == nil {
		t.Error("duplicate id accepted")
	}
	if _, err := p.AddClip(Clip{ClipLayer: timeline.ClipLayer{TrackID: "V2", MediaKind: "gif"}}); err == nil {
		t.Error("unknown kind accepted")
	}
	p.SelectedLayerID = id
	if err := p.RemoveClip(id); err != nil || p.SelectedLayerID != "" || len(p.Clips) != 0 {
		t.Errorf("RemoveClip: %v selected=%q clips=%d", err, p.SelectedLayerID, len(p.Clips))
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := sample()
	p.Clips[0].Transform = &timeline.ClipTransform{X: timeline.Float(1)}
	c := p.Clone()
	*c.Clips[0].Transform.X = 99
	c.Clips[1].ID = "changed"
	if *p.Clips[0].Transform.X != 1 || p.Clips[1].ID != "B" {
		t.Error("Clone shares state with original")
	}
}
