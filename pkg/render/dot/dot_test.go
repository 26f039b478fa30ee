package dot

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/reelstack/pkg/compositor"
	"github.com/matzehuels/reelstack/pkg/compositor/drag"
	"github.com/matzehuels/reelstack/pkg/timeline"
)

func sampleFrame() compositor.Frame {
	c := compositor.New(drag.NewWindow(), &timeline.Recorder{})
	return c.Render(context.Background(), compositor.Input{Layers: []timeline.ClipLayer{
		{ID: "title", TrackID: "V3", MediaKind: timeline.KindImage},
		{ID: "main", TrackID: "V1", MediaKind: timeline.KindVideo, ClipTime: 2.5},
		{ID: "music", TrackID: "A1", MediaKind: timeline.KindAudio},
	}})
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleFrame(), Options{Detailed: true})

	for _, want := range []string{
		`label="A1"`, `label="V1"`, `label="V3"`,
		`"layer:music" -> "layer:main" [label="z2"]`,
		`"layer:main" -> "layer:title" [label="z3"]`,
		`t=2.5s`,
		`fillcolor="#ffe8a3"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTEmpty(t *testing.T) {
	c := compositor.New(drag.NewWindow(), &timeline.Recorder{})
	dot := ToDOT(c.Render(context.Background(), compositor.Input{}), Options{})
	if strings.Contains(dot, "->") || strings.Contains(dot, "cluster") {
		t.Errorf("empty frame produced nodes:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if string(normalizeViewBox([]byte("<svg></svg>"))) != "<svg></svg>" {
		t.Error("input without viewBox changed")
	}
}
