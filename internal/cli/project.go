package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/matzehuels/reelstack/pkg/project"
	"github.com/matzehuels/reelstack/pkg/timeline"
)

// projectCommand creates the project management command.
func (c *CLI) projectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"p"},
		Short:   "Create and edit projects",
		Long: `Create and edit projects.

Projects live in the configured store (see "reelstack config show"). Commands
that take a <project> also accept a path to a project JSON file, which is
edited in place.`,
	}

	cmd.AddCommand(c.projectNewCommand())
	cmd.AddCommand(c.projectListCommand())
	cmd.AddCommand(c.projectShowCommand())
	cmd.AddCommand(c.projectAddClipCommand())
	cmd.AddCommand(c.projectRemoveClipCommand())
	cmd.AddCommand(c.projectDeleteCommand())
	cmd.AddCommand(c.projectImportCommand())
	cmd.AddCommand(c.projectExportCommand())

	return cmd
}

// saveProject writes p back to where it was loaded from.
func (c *CLI) saveProject(ctx context.Context, ref string, store project.Store, p *project.Project) error {
	if store == nil {
		p.UpdatedAt = time.Now().UTC()
		return project.WriteFile(ref, p)
	}
	return store.Put(ctx, p)
}

// editProject loads ref, applies fn and saves the result.
func (c *CLI) editProject(ctx context.Context, ref string, fn func(*project.Project) error) (*project.Project, error) {
	p, store, err := c.loadProject(ctx, ref)
	if err != nil {
		return nil, err
	}
	if store != nil {
		defer store.Close()
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, c.saveProject(ctx, ref, store, p)
}

// =============================================================================
// new / list / show
// =============================================================================

func (c *CLI) projectNewCommand() *cobra.Command {
	var (
		file          string
		width, height int
	)

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create an empty project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := project.New(args[0])
			if width > 0 {
				p.Width = width
			}
			if height > 0 {
				p.Height = height
			}

			if file != "" {
				if err := c.saveProject(ctx, file, nil, p); err != nil {
					return err
				}
				printSuccess("Created %s", p.Name)
				printFile(file)
				printNextStep("Add a clip", appName+" project add-clip "+file+" --source <url>")
				return nil
			}

			store, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Put(ctx, p); err != nil {
				return err
			}
			printSuccess("Created %s", p.Name)
			printKeyValue("ID", p.ID)
			printNextStep("Add a clip", appName+" project add-clip "+p.ID+" --source <url>")
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "write the project to a JSON file instead of the store")
	cmd.Flags().IntVar(&width, "width", 0, "canvas width")
	cmd.Flags().IntVar(&height, "height", 0, "canvas height")
	return cmd
}

func (c *CLI) projectListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			projects, err := store.List(ctx)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				printInfo("No projects yet")
				printNextStep("Create one", appName+" project new <name>")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), summaryTable(projects, time.Now(), isTerminal(cmd.OutOrStdout())))
			return nil
		},
	}
}

// summaryTable renders project summaries, newest edits shown relative to now.
func summaryTable(projects []project.Summary, now time.Time, rounded bool) string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"ID", "Name", "Clips", "Updated"})
	for _, s := range projects {
		updated := "-"
		if !s.UpdatedAt.IsZero() {
			updated = humanize.RelTime(s.UpdatedAt, now, "ago", "from now")
		}
		tw.AppendRow(table.Row{s.ID, s.Name, s.Clips, updated})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 3, Align: text.AlignRight}})
	if rounded {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleLight)
		tw.Style().Options.DrawBorder = false
		tw.Style().Options.SeparateColumns = false
		tw.Style().Options.SeparateHeader = false
	}
	return tw.Render()
}

func (c *CLI) projectShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "show <project>",
		Short:             "Show a project's clips",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeProjectIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, store, err := c.loadProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}
			printKeyValue("Name", p.Name)
			printKeyValue("ID", p.ID)
			printKeyValue("Canvas", fmt.Sprintf("%dx%d", p.Width, p.Height))
			printKeyValue("Playhead", formatSeconds(p.Playhead)+"s")
			if d := p.Duration(); d > 0 {
				printKeyValue("Duration", formatSeconds(d)+"s")
			}
			printNewline()
			fmt.Fprintln(cmd.OutOrStdout(), clipTable(p))
			return nil
		},
	}
}

// clipTable renders the clips of p in project order.
func clipTable(p *project.Project) string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Layer", "Track", "Kind", "Start", "Duration", "Offset", "Position", "Source"})
	for _, c := range p.Clips {
		duration := "-"
		if c.Duration > 0 {
			duration = formatSeconds(c.Duration)
		}
		pos := c.Position()
		layer := c.ID
		if c.ID == p.SelectedLayerID {
			layer += " *"
		}
		tw.AppendRow(table.Row{
			layer,
			c.TrackID,
			string(c.MediaKind),
			formatSeconds(c.Start),
			duration,
			formatSeconds(c.Offset),
			fmt.Sprintf("%s,%s", formatSeconds(pos.X), formatSeconds(pos.Y)),
			dash(c.SourceURL),
		})
	}
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	return tw.Render()
}

// =============================================================================
// add-clip / rm-clip
// =============================================================================

// clipFlags holds the flags of add-clip.
type clipFlags struct {
	id, source, kind, track string
	start, duration, offset float64
	x, y, scale, rotation   float64
	opacity                 float64
}

func (f *clipFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.id, "id", "", "layer id (default: random)")
	cmd.Flags().StringVar(&f.source, "source", "", "media source URL or path")
	cmd.Flags().StringVar(&f.kind, "kind", string(timeline.KindVideo), "media kind: video, image, audio")
	cmd.Flags().StringVar(&f.track, "track", timeline.PrimaryTrack, "track id")
	cmd.Flags().Float64Var(&f.start, "start", 0, "playhead time the clip appears")
	cmd.Flags().Float64Var(&f.duration, "duration", 0, "visible duration (0: until the end)")
	cmd.Flags().Float64Var(&f.offset, "offset", 0, "source time shown at start")
	cmd.Flags().Float64Var(&f.x, "x", 0, "horizontal offset in pixels")
	cmd.Flags().Float64Var(&f.y, "y", 0, "vertical offset in pixels")
	cmd.Flags().Float64Var(&f.scale, "scale", 1, "scale factor")
	cmd.Flags().Float64Var(&f.rotation, "rotation", 0, "rotation in degrees")
	cmd.Flags().Float64Var(&f.opacity, "opacity", 1, "opacity")
}

func (f *clipFlags) clip(cmd *cobra.Command) (project.Clip, error) {
	kind := timeline.MediaKind(f.kind)
	if !kind.Valid() {
		return project.Clip{}, fmt.Errorf("unknown media kind %q (want video, image or audio)", f.kind)
	}
	c := project.Clip{
		ClipLayer: timeline.ClipLayer{
			ID:        f.id,
			SourceURL: f.source,
			MediaKind: kind,
			TrackID:   f.track,
		},
		Start:    f.start,
		Duration: f.duration,
		Offset:   f.offset,
	}

	var t timeline.ClipTransform
	set := false
	for name, dst := range map[string]**float64{
		"x": &t.X, "y": &t.Y, "scale": &t.Scale, "rotation": &t.Rotation, "opacity": &t.Opacity,
	} {
		if !cmd.Flags().Changed(name) {
			continue
		}
		v, _ := cmd.Flags().GetFloat64(name)
		*dst = timeline.Float(v)
		set = true
	}
	if set {
		c.Transform = &t
	}
	return c, nil
}

func (c *CLI) projectAddClipCommand() *cobra.Command {
	var flags clipFlags

	cmd := &cobra.Command{
		Use:   "add-clip <project>",
		Short: "Add a clip to a project",
		Long: `Add a clip to a project.

A video clip on the primary track (V1 by default) becomes the base layer that
the playhead drives. Clips on other tracks are overlays and stack above or
below by track name.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeProjectIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clip, err := flags.clip(cmd)
			if err != nil {
				return err
			}
			var id string
			p, err := c.editProject(cmd.Context(), args[0], func(p *project.Project) (err error) {
				id, err = p.AddClip(clip)
				return err
			})
			if err != nil {
				return err
			}
			printSuccess("Added %s to %s", id, p.Name)
			printDetail("Track %s, %s, starts at %ss", clip.TrackID, clip.MediaKind, formatSeconds(clip.Start))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *CLI) projectRemoveClipCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "rm-clip <project> <layer>",
		Short:             "Remove a clip from a project",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.completeProjectIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.editProject(cmd.Context(), args[0], func(p *project.Project) error {
				return p.RemoveClip(args[1])
			})
			if err != nil {
				return err
			}
			printSuccess("Removed %s from %s", args[1], p.Name)
			return nil
		},
	}
}

// =============================================================================
// delete / import / export
// =============================================================================

func (c *CLI) projectDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <project-id>",
		Short:             "Delete a stored project",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeProjectIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

func (c *CLI) projectImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <project.json>",
		Short: "Copy a project file into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := project.ReadFile(args[0])
			if err != nil {
				return err
			}
			store, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Put(ctx, p); err != nil {
				return err
			}
			printSuccess("Imported %s", p.Name)
			printKeyValue("ID", p.ID)
			printKeyValue("Clips", strconv.Itoa(len(p.Clips)))
			return nil
		},
	}
}

func (c *CLI) projectExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:               "export <project-id>",
		Short:             "Write a stored project as JSON",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeProjectIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			p, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return exportJSON(cmd.OutOrStdout(), p)
			}
			if err := project.WriteFile(output, p); err != nil {
				return err
			}
			printSuccess("Exported %s", p.Name)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func exportJSON(w io.Writer, p *project.Project) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
