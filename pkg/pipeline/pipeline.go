// Package pipeline runs the project → frame → artifacts pipeline shared by
// the CLI and the HTTP server.
//
// # Stages
//
//  1. Compose: take the project's layers visible at the playhead with
//     their clip times, and run them through a fresh compositor
//  2. Render: encode the frame in each requested format (svg, png, json,
//     dot), reusing cached artifacts keyed by the frame's content hash
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Project: p,
//	    Formats: []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/reelstack/pkg/cache"
	"github.com/matzehuels/reelstack/pkg/compositor"
	"github.com/matzehuels/reelstack/pkg/errors"
	"github.com/matzehuels/reelstack/pkg/project"
	"github.com/matzehuels/reelstack/pkg/render"
	"github.com/matzehuels/reelstack/pkg/timeline"
)

// =============================================================================
// Formats
// =============================================================================

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidateFormat checks that a format is supported. Formats are
// case-sensitive.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated list such as "svg,png".
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out, ValidateFormats(out)
}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	Project *project.Project `json:"-"`

	// Playhead overrides the project's playhead when set.
	Playhead *float64 `json:"playhead,omitempty"`

	PrimaryTrack string        `json:"primary_track,omitempty"`
	Formats      []string      `json:"formats,omitempty"`
	Canvas       render.Canvas `json:"canvas"`

	// Detailed adds per-layer details to DOT output.
	Detailed bool `json:"detailed,omitempty"`

	// Refresh ignores cached artifacts.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks required fields and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Project == nil {
		return errors.New(errors.ErrCodeInvalidInput, "project is required")
	}
	if o.PrimaryTrack == "" {
		o.PrimaryTrack = timeline.PrimaryTrack
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Canvas.Width <= 0 && o.Project.Width > 0 {
		o.Canvas.Width = o.Project.Width
	}
	if o.Canvas.Height <= 0 && o.Project.Height > 0 {
		o.Canvas.Height = o.Project.Height
	}
	o.Canvas = o.Canvas.WithDefaults()
	if _, err := render.ParseColor(o.Canvas.Background); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "background")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// At returns the playhead the run composes.
func (o *Options) At() float64 {
	if o.Playhead != nil {
		return *o.Playhead
	}
	return o.Project.Playhead
}

// Input builds the compositor input for the run.
func (o *Options) Input() compositor.Input {
	return compositor.Input{
		Layers:          o.Project.LayersAt(o.At()),
		IsPlaying:       o.Project.IsPlaying,
		SelectedLayerID: o.Project.SelectedLayerID,
	}
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:     format,
		Width:      o.Canvas.Width,
		Height:     o.Canvas.Height,
		Background: o.Canvas.Background,
	}
	if format == FormatDOT && o.Detailed {
		opts.Format = "dot+detailed"
	}
	return opts
}

// =============================================================================
// Results
// =============================================================================

// Result holds the outputs of a pipeline run.
type Result struct {
	Frame compositor.Frame

	// FrameHash is the content hash of the frame document.
	FrameHash string

	// Artifacts holds rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds timing and size information.
type Stats struct {
	LayerCount  int
	ComposeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo reports which formats came from the cache.
type CacheInfo struct {
	Hits   []string
	Misses []string
}

// RenderHit reports whether every artifact came from the cache.
func (c CacheInfo) RenderHit() bool { return len(c.Misses) == 0 && len(c.Hits) > 0 }

func (r *Result) String() string {
	return fmt.Sprintf("%d layers, %d artifacts", r.Stats.LayerCount, len(r.Artifacts))
}
