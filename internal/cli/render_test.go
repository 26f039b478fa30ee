package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/reelstack/pkg/compositor"
	"github.com/matzehuels/reelstack/pkg/timeline"
)

func TestOutputBase(t *testing.T) {
	tests := []struct {
		name, output, ref, id, want string
	}{
		{"explicit with format ext", "out/frame.svg", "demo.json", "x", "out/frame"},
		{"explicit without ext", "out/frame", "demo.json", "x", "out/frame"},
		{"unknown ext kept", "frame.v2", "demo.json", "x", "frame.v2"},
		{"from file ref", "", "projects/demo.json", "x", "projects/demo"},
		{"from store id", "", "b1946ac9", "b1946ac9", "b1946ac9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputBase(tt.output, tt.ref, tt.id); got != tt.want {
				t.Errorf("outputBase() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "json": []byte("{}")}

	paths, err := writeArtifacts(artifacts, []string{"svg", "json"}, filepath.Join(dir, "nested", "frame"), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || !strings.HasSuffix(paths[0], "frame.svg") || !strings.HasSuffix(paths[1], "frame.json") {
		t.Fatalf("paths = %v", paths)
	}
	data, err := os.ReadFile(paths[0])
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("svg = %q, %v", data, err)
	}

	single := filepath.Join(dir, "exact.out")
	paths, err = writeArtifacts(artifacts, []string{"json"}, "ignored", single)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || paths[0] != single {
		t.Errorf("single output paths = %v", paths)
	}
}

func TestPipelineOptions(t *testing.T) {
	c := New(os.Stderr, LogInfo)

	opts := c.pipelineOptions(renderFlags{width: 640}, []string{"svg"})
	if opts.Playhead != nil {
		t.Error("playhead should default to the project's")
	}
	if opts.PrimaryTrack != "V1" || opts.Canvas.Width != 640 || opts.Canvas.Background != "#000000" {
		t.Errorf("opts = %+v", opts)
	}

	opts = c.pipelineOptions(renderFlags{at: 2.5, atSet: true}, nil)
	if opts.Playhead == nil || *opts.Playhead != 2.5 {
		t.Errorf("playhead = %v, want 2.5", opts.Playhead)
	}
}

func TestFrameTable(t *testing.T) {
	f := composeFrame(t,
		layer("A", "V1", timeline.KindVideo, nil),
		layer("logo", "V2", timeline.KindImage, &timeline.ClipTransform{X: timeline.Float(12), Y: timeline.Float(4)}),
	)

	plain := frameTable(f, tableStylePlain)
	for _, want := range []string{"logo", "translate(12px, 4px)", "base", "draggable", "2 layers"} {
		if !strings.Contains(plain, want) {
			t.Errorf("table missing %q:\n%s", want, plain)
		}
	}
	if md := frameTable(f, tableStyleMarkdown); !strings.HasPrefix(md, "|") {
		t.Errorf("markdown table = %q", md)
	}
	if got := frameTable(compositor.Frame{Empty: true}, tableStyleRounded); got != compositor.Placeholder {
		t.Errorf("empty frame table = %q", got)
	}
}
