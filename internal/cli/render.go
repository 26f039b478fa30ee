package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/reelstack/pkg/compositor/ordering"
	"github.com/matzehuels/reelstack/pkg/pipeline"
)

// renderFlags holds the flags shared by render and inspect.
type renderFlags struct {
	at       float64
	atSet    bool
	formats  string
	output   string
	width    int
	height   int
	detailed bool
	noCache  bool
	refresh  bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.at, "at", 0, "playhead in seconds (default: the project's playhead)")
	cmd.Flags().IntVar(&f.width, "width", 0, "canvas width (default: project width)")
	cmd.Flags().IntVar(&f.height, "height", 0, "canvas height (default: project height)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render <project.json|project-id>",
		Short: "Render the composed frame at a playhead",
		Long: `Render the composed frame of a project at a playhead.

The project is read from a JSON file when the argument looks like a path, and
from the configured project store otherwise. Layers are stacked by track,
the primary video layer becomes the base, and the result is written as SVG,
PNG, JSON or a Graphviz DOT paint-order diagram.

Rendered artifacts are cached by frame content, so re-rendering an unchanged
frame is instant.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeProjectIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := pipeline.ParseFormats(flags.formats)
			if err != nil {
				return err
			}
			flags.atSet = cmd.Flags().Changed("at")
			return c.runRender(cmd.Context(), args[0], formats, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), png, json, dot (comma-separated)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "add layer details to dot output")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

// pipelineOptions builds run options from flags on top of config defaults.
func (c *CLI) pipelineOptions(flags renderFlags, formats []string) pipeline.Options {
	opts := pipeline.Options{Formats: formats, Detailed: flags.detailed, Refresh: flags.refresh}
	c.setCLIDefaults(&opts)
	opts.Canvas.Width, opts.Canvas.Height = flags.width, flags.height
	if flags.atSet {
		at := flags.at
		opts.Playhead = &at
	}
	return opts
}

func (c *CLI) runRender(ctx context.Context, ref string, formats []string, flags renderFlags) error {
	p, store, err := c.loadProject(ctx, ref)
	if err != nil {
		return fmt.Errorf("load project %s: %w", ref, err)
	}
	if store != nil {
		defer store.Close()
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.pipelineOptions(flags, formats)
	opts.Project = p

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s at %ss...", p.Name, formatSeconds(opts.At())))
	spinner.Start()
	prog := newProgress(loggerFromContext(ctx))
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("rendered %s", strings.Join(opts.Formats, ",")))

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, outputBase(flags.output, ref, p.ID), flags.output)
	if err != nil || flags.output == "-" {
		return err
	}

	if result.Frame.Empty {
		printWarning("Nothing on the timeline at %ss", formatSeconds(opts.At()))
	}
	printSuccess("Rendered %s", p.Name)
	for _, path := range paths {
		printFile(path)
	}
	printStats(result.Frame.Count, len(ordering.Tracks(frameLayers(result.Frame))), string(result.Frame.Mode), result.CacheInfo.RenderHit())
	printNewline()
	printNextStep("Inspect", appName+" inspect "+ref)
	return nil
}

// outputBase derives the base output path. Without -o, files are named
// after the input file or the project id.
func outputBase(output, ref, id string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if looksLikeFile(ref) {
		return strings.TrimSuffix(ref, filepath.Ext(ref))
	}
	return id
}

// writeArtifacts writes one file per format. A single format with an
// explicit output path is written to that path verbatim; "-" writes it to
// stdout.
func writeArtifacts(artifacts map[string][]byte, formats []string, base, output string) ([]string, error) {
	if len(formats) == 1 && output != "" {
		return []string{output}, writeOutput(output, artifacts[formats[0]])
	}
	var paths []string
	for _, format := range formats {
		path := base + "." + format
		if err := writeOutput(path, artifacts[format]); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeOutput(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput opens path for writing, or stdout for "-".
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}
