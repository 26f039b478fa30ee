package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/reelstack/pkg/compositor"
	"github.com/matzehuels/reelstack/pkg/compositor/transform"
	"github.com/matzehuels/reelstack/pkg/render"
)

// stageBox is a layer's on-screen rectangle in terminal cells.
type stageBox struct {
	id                     string
	left, top, right, bott int
	base                   bool
	selected               bool
	dragging               bool
	draggable              bool
}

func (b stageBox) contains(col, row int) bool {
	return col >= b.left && col < b.right && row >= b.top && row < b.bott
}

// stage maps the canvas onto a grid of terminal cells.
type stage struct {
	canvas     render.Canvas
	cols, rows int
}

// newStage fits the canvas into width×height cells. Terminal cells are
// roughly twice as tall as wide.
func newStage(c render.Canvas, width, height int) stage {
	cols := max(width-2, 10)
	rows := int(math.Round(float64(cols) * float64(c.Height) / float64(c.Width) / 2))
	if maxRows := height - 4; rows > maxRows {
		rows = max(maxRows, 4)
		cols = int(math.Round(float64(rows) * 2 * float64(c.Width) / float64(c.Height)))
	}
	return stage{canvas: c, cols: cols, rows: max(rows, 4)}
}

// toCanvas converts a cell position to canvas pixels.
func (s stage) toCanvas(col, row int) (float64, float64) {
	x := (float64(col) + 0.5) * float64(s.canvas.Width) / float64(s.cols)
	y := (float64(row) + 0.5) * float64(s.canvas.Height) / float64(s.rows)
	return x, y
}

// boxes lays out the visual layers of f in paint order. Layers whose
// geometry is not representable are skipped. Rotation is not drawn.
func (s stage) boxes(f compositor.Frame) []stageBox {
	w, h := float64(s.canvas.Width), float64(s.canvas.Height)
	sx, sy := float64(s.cols)/w, float64(s.rows)/h

	var out []stageBox
	for _, l := range f.Layers {
		if !l.Layer.MediaKind.Visual() {
			continue
		}
		scale, tx, ty := 1.0, 0.0, 0.0
		for _, op := range l.Description.Ops {
			switch op.Kind {
			case transform.OpScale:
				scale = math.Abs(op.Value)
			case transform.OpTranslate:
				tx, ty = op.X, op.Y
			}
		}
		if !render.Finite(scale) || !render.Finite(tx) || !render.Finite(ty) || scale == 0 {
			continue
		}

		x0, y0, x1, y1 := 0.0, 0.0, w, h
		if c := l.Description.Crop; c != nil {
			x0 += w * pct(c.Left)
			x1 -= w * pct(c.Right)
			y0 += h * pct(c.Top)
			y1 -= h * pct(c.Bottom)
		}
		if x1 <= x0 || y1 <= y0 {
			continue
		}
		cx, cy := w/2+tx, h/2+ty
		at := func(v, center, off float64) float64 { return center + (v-off)*scale }

		b := stageBox{
			id:        l.Layer.ID,
			left:      int(math.Floor(at(x0, cx, w/2) * sx)),
			right:     int(math.Ceil(at(x1, cx, w/2) * sx)),
			top:       int(math.Floor(at(y0, cy, h/2) * sy)),
			bott:      int(math.Ceil(at(y1, cy, h/2) * sy)),
			base:      l.Base,
			selected:  l.Selected,
			dragging:  l.Dragging,
			draggable: l.Draggable,
		}
		if b.right > b.left && b.bott > b.top {
			out = append(out, b)
		}
	}
	return out
}

func pct(v float64) float64 {
	if !render.Finite(v) {
		return 0
	}
	return math.Max(0, v) / 100
}

// hit returns the topmost box under the cell.
func hit(boxes []stageBox, col, row int) (stageBox, bool) {
	for i := len(boxes) - 1; i >= 0; i-- {
		if boxes[i].contains(col, row) {
			return boxes[i], true
		}
	}
	return stageBox{}, false
}

type cellStyle uint8

const (
	cellEmpty cellStyle = iota
	cellBase
	cellBorder
	cellSelected
	cellDragging
	cellLabel
)

var cellStyles = map[cellStyle]lipgloss.Style{
	cellEmpty:    StyleDim,
	cellBase:     lipgloss.NewStyle().Foreground(colorDim),
	cellBorder:   lipgloss.NewStyle().Foreground(colorGray),
	cellSelected: lipgloss.NewStyle().Foreground(colorBlue).Bold(true),
	cellDragging: lipgloss.NewStyle().Foreground(colorYellow).Bold(true),
	cellLabel:    StyleValue,
}

type cell struct {
	r     rune
	style cellStyle
}

// draw paints boxes onto the stage grid, later boxes on top.
func (s stage) draw(boxes []stageBox) string {
	grid := make([][]cell, s.rows)
	for i := range grid {
		grid[i] = make([]cell, s.cols)
		for j := range grid[i] {
			grid[i][j] = cell{' ', cellEmpty}
		}
	}
	set := func(col, row int, r rune, st cellStyle) {
		if row >= 0 && row < s.rows && col >= 0 && col < s.cols {
			grid[row][col] = cell{r, st}
		}
	}

	for _, b := range boxes {
		if b.base {
			for row := b.top; row < b.bott; row++ {
				for col := b.left; col < b.right; col++ {
					set(col, row, '░', cellBase)
				}
			}
			s.label(set, b, cellLabel)
			continue
		}
		st := cellBorder
		switch {
		case b.dragging:
			st = cellDragging
		case b.selected:
			st = cellSelected
		}
		for row := b.top; row < b.bott; row++ {
			for col := b.left; col < b.right; col++ {
				r := ' '
				top, bottom := row == b.top, row == b.bott-1
				left, right := col == b.left, col == b.right-1
				switch {
				case top && left:
					r = '┌'
				case top && right:
					r = '┐'
				case bottom && left:
					r = '└'
				case bottom && right:
					r = '┘'
				case top || bottom:
					r = '─'
				case left || right:
					r = '│'
				}
				set(col, row, r, st)
			}
		}
		s.label(set, b, st)
	}

	var sb strings.Builder
	for i, row := range grid {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for j := 0; j < len(row); {
			k := j
			var run strings.Builder
			for k < len(row) && row[k].style == row[j].style {
				run.WriteRune(row[k].r)
				k++
			}
			sb.WriteString(cellStyles[row[j].style].Render(run.String()))
			j = k
		}
	}
	return sb.String()
}

func (s stage) label(set func(int, int, rune, cellStyle), b stageBox, st cellStyle) {
	row := b.top + 1
	if b.base || b.bott-b.top < 3 {
		row = b.top
	}
	col := b.left + 1
	for _, r := range b.id {
		if col >= b.right-1 {
			break
		}
		set(col, row, r, st)
		col++
	}
}
