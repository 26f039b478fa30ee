package pipeline

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/reelstack/pkg/compositor"
	"github.com/matzehuels/reelstack/pkg/render/dot"
	renderjson "github.com/matzehuels/reelstack/pkg/render/json"
	"github.com/matzehuels/reelstack/pkg/render/png"
	"github.com/matzehuels/reelstack/pkg/render/svg"
)

// RenderFormat encodes f in one format. loader may be nil, in which case
// image layers are drawn as placeholders in PNG output.
func RenderFormat(ctx context.Context, f compositor.Frame, format string, opts Options, loader png.Loader) ([]byte, error) {
	switch format {
	case FormatSVG:
		return svg.Render(f, svg.WithCanvas(opts.Canvas)), nil
	case FormatJSON:
		return renderjson.Render(f, renderjson.WithCanvas(opts.Canvas), renderjson.WithProject(projectID(opts)), renderjson.WithIndent())
	case FormatPNG:
		pngOpts := []png.Option{png.WithCanvas(opts.Canvas), png.WithLogger(logger(opts))}
		if loader != nil {
			pngOpts = append(pngOpts, png.WithLoader(loader))
		}
		return png.Render(ctx, f, pngOpts...)
	case FormatDOT:
		return []byte(dot.ToDOT(f, dot.Options{Detailed: opts.Detailed})), nil
	default:
		return nil, ValidateFormat(format)
	}
}

// Render encodes f in every requested format.
func Render(ctx context.Context, f compositor.Frame, opts Options, loader png.Loader) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(ctx, f, format, opts, loader)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func projectID(opts Options) string {
	if opts.Project == nil {
		return ""
	}
	return opts.Project.ID
}

func logger(opts Options) *log.Logger {
	if opts.Logger == nil {
		return log.Default()
	}
	return opts.Logger
}
