package svg

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/reelstack/pkg/compositor"
	"github.com/matzehuels/reelstack/pkg/compositor/drag"
	"github.com/matzehuels/reelstack/pkg/render"
	"github.com/matzehuels/reelstack/pkg/timeline"
)

func frame(layers ...timeline.ClipLayer) compositor.Frame {
	c := compositor.New(drag.NewWindow(), &timeline.Recorder{})
	return c.Render(context.Background(), compositor.Input{Layers: layers, SelectedLayerID: "logo"})
}

func TestRenderEmpty(t *testing.T) {
	out := string(Render(frame()))
	if !strings.Contains(out, compositor.Placeholder) {
		t.Error("placeholder missing")
	}
	if strings.Contains(out, `class="indicator mode"`) {
		t.Error("indicators rendered for empty frame")
	}
}

func TestRenderLayers(t *testing.T) {
	out := string(Render(frame(
		timeline.ClipLayer{ID: "logo", TrackID: "V2", MediaKind: timeline.KindImage, SourceURL: "logo.png",
			Transform: &timeline.ClipTransform{X: timeline.Float(10), CropTop: timeline.Float(5), Opacity: timeline.Float(0.5)}},
		timeline.ClipLayer{ID: "main", TrackID: "V1", MediaKind: timeline.KindVideo, ClipTime: 5},
	), WithCanvas(render.Canvas{Width: 640, Height: 360})))

	checks := []string{
		`viewBox="0 0 640 360"`,
		`id="layer-main" class="layer layer-video base"`,
		`id="layer-logo" class="layer layer-image selected draggable"`,
		`transform: translate(10px, 0px)`,
		`clip-path: inset(5% 0% 0% 0%)`,
		`opacity: 0.5`,
		`<image href="logo.png"`,
		`>VIDEO</text>`,
		`>2 layers</text>`,
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Index(out, "layer-main") > strings.Index(out, "layer-logo") {
		t.Error("base layer painted after overlay")
	}
}

func TestRenderPassesThroughOutOfRange(t *testing.T) {
	out := string(Render(frame(timeline.ClipLayer{ID: "x", TrackID: "V2", MediaKind: timeline.KindImage,
		Transform: &timeline.ClipTransform{Opacity: timeline.Float(math.NaN()), Scale: timeline.Float(0)}})))
	if !strings.Contains(out, "opacity: NaN") || !strings.Contains(out, "scale(0)") {
		t.Errorf("out-of-range values altered:\n%s", out)
	}
}

func TestRenderEscapes(t *testing.T) {
	out := string(Render(frame(timeline.ClipLayer{ID: `a"b`, TrackID: "V2", MediaKind: timeline.KindImage, SourceURL: "x.png?a=1&b=2"})))
	if strings.Contains(out, `a"b`) || !strings.Contains(out, "a=1&amp;b=2") {
		t.Error("attributes not escaped")
	}
}
