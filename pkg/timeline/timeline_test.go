package timeline

import (
	"testing"

	"github.com/matzehuels/reelstack/pkg/errors"
)

func TestIsBaseCandidate(t *testing.T) {
	tests := []struct {
		name  string
		layer ClipLayer
		want  bool
	}{
		{"video on primary", ClipLayer{TrackID: "V1", MediaKind: KindVideo}, true},
		{"image on primary", ClipLayer{TrackID: "V1", MediaKind: KindImage}, false},
		{"video on overlay", ClipLayer{TrackID: "V2", MediaKind: KindVideo}, false},
		{"audio on primary", ClipLayer{TrackID: "V1", MediaKind: KindAudio}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBaseCandidate(tt.layer, PrimaryTrack); got != tt.want {
				t.Errorf("IsBaseCandidate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPositionDefaultsToZero(t *testing.T) {
	if p := (ClipLayer{}).Position(); p != (Point{}) {
		t.Errorf("Position() without transform = %+v, want zero", p)
	}
	l := ClipLayer{Transform: &ClipTransform{Y: Float(7)}}
	if p := l.Position(); p.X != 0 || p.Y != 7 {
		t.Errorf("Position() = %+v, want {0 7}", p)
	}
}

func TestWithPositionKeepsOtherFields(t *testing.T) {
	orig := &ClipTransform{Scale: Float(2), X: Float(1)}
	moved := orig.WithPosition(10, 20)

	if *moved.X != 10 || *moved.Y != 20 {
		t.Errorf("WithPosition() = (%v, %v), want (10, 20)", *moved.X, *moved.Y)
	}
	if moved.Scale == nil || *moved.Scale != 2 {
		t.Error("WithPosition() dropped scale")
	}
	if *orig.X != 1 || orig.Y != nil {
		t.Error("WithPosition() mutated the receiver")
	}

	var none *ClipTransform
	if got := none.WithPosition(3, 4); got == nil || *got.X != 3 || got.Scale != nil {
		t.Errorf("nil.WithPosition() = %+v", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := &ClipTransform{Opacity: Float(0.5)}
	c := orig.Clone()
	*c.Opacity = 1
	if *orig.Opacity != 0.5 {
		t.Error("Clone() shares pointers with the original")
	}
}

func TestValidateLayers(t *testing.T) {
	ok := []ClipLayer{
		{ID: "A", TrackID: "V1", MediaKind: KindVideo, SourceURL: "a.mp4"},
		{ID: "B", TrackID: "V2", MediaKind: KindImage},
	}
	if err := ValidateLayers(ok); err != nil {
		t.Fatalf("ValidateLayers() = %v", err)
	}

	// Range checks are not part of validation.
	wild := ClipLayer{ID: "C", TrackID: "V3", MediaKind: KindImage,
		Transform: &ClipTransform{Opacity: Float(5), CropTop: Float(150)}}
	if err := wild.Validate(); err != nil {
		t.Errorf("Validate() rejected out-of-range transform: %v", err)
	}

	dup := append(ok, ClipLayer{ID: "A", TrackID: "V3", MediaKind: KindAudio})
	if err := ValidateLayers(dup); !errors.Is(err, errors.ErrCodeInvalidLayer) {
		t.Errorf("ValidateLayers(dup) = %v, want %v", err, errors.ErrCodeInvalidLayer)
	}

	bad := ClipLayer{ID: "D", TrackID: "V1", MediaKind: "hologram"}
	if err := bad.Validate(); !errors.Is(err, errors.ErrCodeInvalidLayer) {
		t.Errorf("Validate(unknown kind) = %v", err)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	var e Emitter = &r
	e.OnLayerSelect("B")
	e.OnLayerMove("B", 20, 15)

	if len(r.Selects) != 1 || r.Selects[0].LayerID != "B" {
		t.Errorf("Selects = %+v", r.Selects)
	}
	if len(r.Moves) != 1 || r.Moves[0] != (MoveRequest{LayerID: "B", X: 20, Y: 15}) {
		t.Errorf("Moves = %+v", r.Moves)
	}
	if got := r.Moves[0].String(); got != "move(B, 20, 15)" {
		t.Errorf("String() = %q", got)
	}
}
