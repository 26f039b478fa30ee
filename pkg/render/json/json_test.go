package json

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/reelstack/pkg/compositor"
	"github.com/matzehuels/reelstack/pkg/compositor/drag"
	"github.com/matzehuels/reelstack/pkg/timeline"
)

func renderFrame(layers ...timeline.ClipLayer) compositor.Frame {
	c := compositor.New(drag.NewWindow(), &timeline.Recorder{})
	return c.Render(context.Background(), compositor.Input{Layers: layers})
}

func TestRenderDocument(t *testing.T) {
	f := renderFrame(
		timeline.ClipLayer{ID: "B", TrackID: "V2", MediaKind: timeline.KindImage,
			Transform: &timeline.ClipTransform{Rotation: timeline.Float(90)}},
		timeline.ClipLayer{ID: "A", TrackID: "V1", MediaKind: timeline.KindVideo, ClipTime: 5},
	)
	data, err := Render(f, WithProject("intro"))
	if err != nil {
		t.Fatal(err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Project != "intro" || doc.Mode != "video" || doc.BaseLayerID != "A" || !doc.ShowCount {
		t.Errorf("doc = %+v", doc)
	}
	if len(doc.Layers) != 2 || doc.Layers[0].ID != "A" || doc.Layers[1].Transform != "rotate(90deg)" {
		t.Errorf("layers = %+v", doc.Layers)
	}
	if doc.Layers[0].ClipTime != 5 || doc.Layers[1].ZIndex != 2 {
		t.Errorf("layer values = %+v", doc.Layers)
	}
}

func TestRenderEmpty(t *testing.T) {
	doc := Build(renderFrame())
	if !doc.Empty || doc.Placeholder != compositor.Placeholder || len(doc.Layers) != 0 {
		t.Errorf("doc = %+v", doc)
	}
}

func TestNonFiniteNumbers(t *testing.T) {
	f := renderFrame(timeline.ClipLayer{ID: "x", TrackID: "V2", MediaKind: timeline.KindImage,
		Transform: &timeline.ClipTransform{Opacity: timeline.Float(math.Inf(1))}})
	data, err := Render(f)
	if err != nil {
		t.Fatalf("Render with +Inf opacity: %v", err)
	}
	if !strings.Contains(string(data), `"opacity":"+Inf"`) {
		t.Errorf("opacity not carried as string: %s", data)
	}

	var n Number
	if err := json.Unmarshal([]byte(`"NaN"`), &n); err != nil || !math.IsNaN(float64(n)) {
		t.Errorf("Unmarshal NaN = %v, %v", n, err)
	}
}
