package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/reelstack/internal/config"
	"github.com/matzehuels/reelstack/pkg/compositor"
	"github.com/matzehuels/reelstack/pkg/compositor/clock"
	"github.com/matzehuels/reelstack/pkg/compositor/drag"
	"github.com/matzehuels/reelstack/pkg/media"
	"github.com/matzehuels/reelstack/pkg/project"
	"github.com/matzehuels/reelstack/pkg/render"
)

const (
	editTick = 100 * time.Millisecond
	seekStep = 0.5
)

// editCommand creates the interactive editor.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <project.json|project-id>",
		Short: "Edit a project interactively in the terminal",
		Long: `Edit a project interactively in the terminal.

The composed frame is drawn as boxes, one per visual layer, in paint order.
Drag an overlay with the mouse to move it; the primary video layer stays
put. Space plays and pauses, ←/→ move the playhead, s saves, q saves and
quits, ctrl+c quits without saving.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeProjectIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdout) {
				return fmt.Errorf("edit needs an interactive terminal")
			}
			return c.runEdit(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runEdit(ctx context.Context, ref string) error {
	p, store, err := c.loadProject(ctx, ref)
	if err != nil {
		return fmt.Errorf("load project %s: %w", ref, err)
	}
	if store != nil {
		defer store.Close()
	}

	save := func(p *project.Project) error {
		if store == nil {
			return project.WriteFile(ref, p)
		}
		return store.Put(ctx, p)
	}

	// The editor owns the terminal, so logs would corrupt the screen.
	quiet := newLogger(io.Discard, LogInfo)

	m := newEditor(ctx, p, c.config().Compositor, render.Canvas{Width: p.Width, Height: p.Height}, save,
		compositor.WithLogger(quiet))
	defer m.comp.Close()

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if em, ok := final.(*editor); ok && em.err != nil {
		return em.err
	}
	printSuccess("Closed %s", p.Name)
	return nil
}

type tickMsg time.Time

// editor is the bubbletea model of the interactive editor. All compositor
// access happens on the update loop.
type editor struct {
	ctx     context.Context
	project *project.Project
	save    func(*project.Project) error

	comp    *compositor.Compositor
	window  *drag.Window
	applier *project.Applier
	media   *media.Library
	frame   compositor.Frame

	canvas        render.Canvas
	width, height int
	dirty         bool
	status        string
	lastTick      time.Time
	err           error
}

func newEditor(ctx context.Context, p *project.Project, cfg config.Compositor, canvas render.Canvas, save func(*project.Project) error, opts ...compositor.Option) *editor {
	window := drag.NewWindow()
	applier := project.NewApplier()
	lib := media.NewLibrary(media.WithDuration(p.Duration()))
	opts = append([]compositor.Option{
		compositor.WithPrimaryTrack(cfg.PrimaryTrack),
		compositor.WithTolerance(cfg.SeekTolerance),
		compositor.WithMedia(lib),
	}, opts...)

	m := &editor{
		ctx:     ctx,
		project: p,
		save:    save,
		comp:    compositor.New(window, applier, opts...),
		window:  window,
		applier: applier,
		media:   lib,
		canvas:  canvas.WithDefaults(),
		width:   80,
		height:  24,
	}
	m.render()
	return m
}

func (m *editor) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(editTick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q", "esc":
			if m.dirty {
				m.write()
			}
			return m, tea.Quit
		case "s":
			m.write()
		case " ", "space":
			m.project.IsPlaying = !m.project.IsPlaying
			m.lastTick = time.Now()
			m.dirty = true
		case "left", "h":
			m.seek(m.project.Playhead - seekStep)
		case "right", "l":
			m.seek(m.project.Playhead + seekStep)
		case "home":
			m.seek(0)
		}
		m.render()

	case tea.MouseMsg:
		m.mouse(msg)

	case tickMsg:
		now := time.Time(msg)
		if m.project.IsPlaying {
			if !m.lastTick.IsZero() {
				m.project.Playhead += now.Sub(m.lastTick).Seconds()
			}
			if d := m.project.Duration(); d > 0 && m.project.Playhead >= d {
				m.project.Playhead = d
				m.project.IsPlaying = false
			}
			m.render()
		}
		m.lastTick = now
		return m, tick()
	}
	return m, nil
}

func (m *editor) mouse(msg tea.MouseMsg) {
	st := newStage(m.canvas, m.width, m.height)
	// The title line sits above the stage.
	col, row := msg.X, msg.Y-1
	x, y := st.toCanvas(col, row)
	ev := drag.PointerEvent{X: x, Y: y}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		b, ok := hit(st.boxes(m.frame), col, row)
		if !ok {
			return
		}
		if !m.comp.PointerDown(m.ctx, b.id, &ev) {
			m.status = b.id + " is the base layer"
		}
	case tea.MouseActionMotion:
		m.window.Move(ev)
	case tea.MouseActionRelease:
		m.window.Up(ev)
	default:
		return
	}
	m.render()
}

func (m *editor) seek(t float64) {
	m.project.Playhead = max(t, 0)
	m.dirty = true
}

// render drains queued interaction requests into the project and composes
// the next frame.
func (m *editor) render() {
	if n, err := m.applier.Flush(m.ctx, m.project); n > 0 || err != nil {
		m.dirty = true
		if err != nil {
			m.status = err.Error()
		}
	}
	m.frame = m.comp.Render(m.ctx, compositor.Input{
		Layers:          m.project.Layers(),
		IsPlaying:       m.project.IsPlaying,
		SelectedLayerID: m.project.SelectedLayerID,
	})
	if m.frame.BaseLayerID != "" {
		if rl, ok := m.frame.Layer(m.frame.BaseLayerID); ok && m.media.Get(rl.Layer).MarkReady() {
			m.comp.MediaReady()
		}
	}
}

func (m *editor) write() {
	if err := m.save(m.project); err != nil {
		m.status = "save failed: " + err.Error()
		return
	}
	m.dirty = false
	m.status = "saved"
}

func (m *editor) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.project.Name))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %ss / %ss", formatSeconds(round2(m.project.Playhead)), formatSeconds(round2(m.project.Duration())))))
	if m.project.IsPlaying {
		b.WriteString(StyleSuccess.Render("  ▶ playing"))
	}
	b.WriteByte('\n')

	st := newStage(m.canvas, m.width, m.height)
	if m.frame.Empty {
		b.WriteString(StyleDim.Render(compositor.Placeholder))
	} else {
		b.WriteString(st.draw(st.boxes(m.frame)))
	}
	b.WriteByte('\n')
	b.WriteString(m.footer())
	return b.String()
}

func (m *editor) footer() string {
	var parts []string
	if m.frame.Mode != "" {
		parts = append(parts, strings.ToUpper(string(m.frame.Mode)))
	}
	if m.frame.ShowCount {
		parts = append(parts, fmt.Sprintf("%d layers", m.frame.Count))
	}
	if m.comp.ClockState() == clock.Bound {
		if el := m.comp.MediaHandle(); el != nil {
			parts = append(parts, fmt.Sprintf("%s @ %ss", m.frame.BaseLayerID, formatSeconds(round2(el.CurrentTime()))))
		}
	}
	if s, ok := m.comp.DragSession(); ok {
		parts = append(parts, StyleWarning.Render("dragging "+s.LayerID))
	} else if m.project.SelectedLayerID != "" {
		parts = append(parts, "selected "+m.project.SelectedLayerID)
	}
	if m.dirty {
		parts = append(parts, "modified")
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	help := StyleDim.Render("drag move · space play · ←/→ seek · s save · q quit")
	return StyleDim.Render(strings.Join(parts, " · ")) + "\n" + help
}

func round2(v float64) float64 { return float64(int64(v*100)) / 100 }
