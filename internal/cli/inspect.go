package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/matzehuels/reelstack/pkg/compositor"
	"github.com/matzehuels/reelstack/pkg/timeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags    renderFlags
		markdown bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <project.json|project-id>",
		Short: "Show the composed layer stack at a playhead",
		Long: `Show the composed layer stack of a project at a playhead.

Layers are listed in paint order (bottom first) with their z-index, resolved
transform, crop and opacity, and whether they are the base layer, selected
or draggable. Output is a rounded table on a terminal and plain text when
piped; use --markdown for a Markdown table.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeProjectIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.atSet = cmd.Flags().Changed("at")
			return c.runInspect(cmd.Context(), args[0], flags, markdown, cmd.OutOrStdout())
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&markdown, "markdown", false, "print a Markdown table")
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, ref string, flags renderFlags, markdown bool, w io.Writer) error {
	p, store, err := c.loadProject(ctx, ref)
	if err != nil {
		return fmt.Errorf("load project %s: %w", ref, err)
	}
	if store != nil {
		defer store.Close()
	}

	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := c.pipelineOptions(flags, nil)
	opts.Project = p
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	f := runner.Compose(ctx, opts)

	style := tableStylePlain
	switch {
	case markdown:
		style = tableStyleMarkdown
	case isTerminal(w):
		style = tableStyleRounded
	}
	fmt.Fprintf(w, "%s @ %ss\n", p.Name, formatSeconds(opts.At()))
	fmt.Fprintln(w, frameTable(f, style))
	return nil
}

type tableStyle int

const (
	tableStylePlain tableStyle = iota
	tableStyleRounded
	tableStyleMarkdown
)

// frameTable renders the layers of f in paint order.
func frameTable(f compositor.Frame, style tableStyle) string {
	if f.Empty {
		return compositor.Placeholder
	}

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Z", "Layer", "Track", "Kind", "Clip time", "Transform", "Crop", "Opacity", "Flags"})
	for _, l := range f.Layers {
		d := l.Description
		tw.AppendRow(table.Row{
			d.ZIndex,
			l.Layer.ID,
			l.Layer.TrackID,
			string(l.Layer.MediaKind),
			formatSeconds(l.Layer.ClipTime),
			dash(d.Transform()),
			dash(d.ClipPath()),
			strconv.FormatFloat(d.Opacity, 'f', -1, 64),
			layerFlags(l),
		})
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d layers", f.Count), "", string(f.Mode)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
	})

	switch style {
	case tableStyleMarkdown:
		return tw.RenderMarkdown()
	case tableStyleRounded:
		tw.SetStyle(table.StyleRounded)
	default:
		tw.SetStyle(table.StyleLight)
		tw.Style().Options.DrawBorder = false
		tw.Style().Options.SeparateColumns = false
		tw.Style().Options.SeparateHeader = false
		tw.Style().Options.SeparateFooter = false
	}
	return tw.Render()
}

func layerFlags(l compositor.RenderedLayer) string {
	var s string
	add := func(ok bool, flag string) {
		if !ok {
			return
		}
		if s != "" {
			s += ","
		}
		s += flag
	}
	add(l.Base, "base")
	add(l.Selected, "selected")
	add(l.Dragging, "dragging")
	add(l.Draggable, "draggable")
	return s
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatSeconds(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// frameLayers returns the layers of f in paint order.
func frameLayers(f compositor.Frame) []timeline.ClipLayer {
	layers := make([]timeline.ClipLayer, len(f.Layers))
	for i, l := range f.Layers {
		layers[i] = l.Layer
	}
	return layers
}
