// Package svg renders a frame as an SVG document.
//
// Each layer is a group whose style carries the resolved transform,
// clip-path inset, opacity, z-index and cursor, so a browser shows the same
// composite as the raster sink. Images reference their source directly;
// video layers are drawn as labelled boxes and audio layers emit no shapes.
package svg

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/reelstack/pkg/compositor"
	"github.com/matzehuels/reelstack/pkg/render"
	"github.com/matzehuels/reelstack/pkg/timeline"
)

const stageCSS = `
    .layer { transform-box: view-box; transform-origin: center; }
    .layer.selected .frame { stroke: #4da3ff; stroke-width: 4; }
    .layer.draggable { cursor: grab; }
    .indicator { font: 600 14px sans-serif; fill: #ffffff; }
    .placeholder { font: 20px sans-serif; fill: #888888; }`

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	canvas     render.Canvas
	indicators bool
}

// WithCanvas sets the stage size and background.
func WithCanvas(c render.Canvas) Option { return func(r *renderer) { r.canvas = c } }

// WithoutIndicators omits the mode and layer-count overlays.
func WithoutIndicators() Option { return func(r *renderer) { r.indicators = false } }

// Render writes f as a standalone SVG document.
func Render(f compositor.Frame, opts ...Option) []byte {
	r := renderer{indicators: true}
	for _, opt := range opts {
		opt(&r)
	}
	r.canvas = r.canvas.WithDefaults()
	w, h := r.canvas.Width, r.canvas.Height

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", stageCSS)
	fmt.Fprintf(&buf, `  <rect class="stage" width="%d" height="%d" fill="%s"/>`+"\n", w, h, attr(r.canvas.Background))

	if f.Empty {
		fmt.Fprintf(&buf, `  <text class="placeholder" x="%d" y="%d" text-anchor="middle">%s</text>`+"\n",
			w/2, h/2, html.EscapeString(compositor.Placeholder))
	}
	for _, l := range f.Layers {
		r.layer(&buf, l)
	}
	if r.indicators && !f.Empty {
		r.overlay(&buf, f)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) layer(buf *bytes.Buffer, l compositor.RenderedLayer) {
	w, h := r.canvas.Width, r.canvas.Height
	d := l.Description

	style := []string{"z-index: " + fmt.Sprint(d.ZIndex)}
	if t := d.Transform(); t != "" {
		style = append(style, "transform: "+t)
	}
	if c := d.ClipPath(); c != "" {
		style = append(style, "clip-path: "+c)
	}
	style = append(style, "opacity: "+render.Num(d.Opacity))
	if d.Cursor != "" {
		style = append(style, "cursor: "+d.Cursor)
	}

	fmt.Fprintf(buf, `  <g id="layer-%s" class="%s" data-track="%s" data-clip-time="%s" style="%s">`+"\n",
		attr(l.Layer.ID), classes(l), attr(l.Layer.TrackID), render.Num(l.Layer.ClipTime), attr(strings.Join(style, "; ")))

	switch l.Layer.MediaKind {
	case timeline.KindImage:
		fmt.Fprintf(buf, `    <image href="%s" width="%d" height="%d" preserveAspectRatio="xMidYMid meet"/>`+"\n",
			attr(l.Layer.SourceURL), w, h)
		fmt.Fprintf(buf, `    <rect class="frame" width="%d" height="%d" fill="none"/>`+"\n", w, h)
	case timeline.KindVideo:
		fmt.Fprintf(buf, `    <rect class="frame" width="%d" height="%d" fill="#1b1b1b"/>`+"\n", w, h)
		fmt.Fprintf(buf, `    <text class="indicator" x="%d" y="%d" text-anchor="middle">%s @ %ss</text>`+"\n",
			w/2, h/2, html.EscapeString(l.Layer.ID), render.Num(l.Layer.ClipTime))
	default:
		fmt.Fprintf(buf, "    <desc>%s</desc>\n", html.EscapeString(l.Layer.SourceURL))
	}
	buf.WriteString("  </g>\n")
}

func (r *renderer) overlay(buf *bytes.Buffer, f compositor.Frame) {
	fmt.Fprintf(buf, `  <text class="indicator mode" x="12" y="24">%s</text>`+"\n",
		strings.ToUpper(string(f.Mode)))
	if f.ShowCount {
		fmt.Fprintf(buf, `  <text class="indicator count" x="%d" y="24" text-anchor="end">%d layers</text>`+"\n",
			r.canvas.Width-12, f.Count)
	}
}

func classes(l compositor.RenderedLayer) string {
	c := []string{"layer", "layer-" + string(l.Layer.MediaKind)}
	if l.Base {
		c = append(c, "base")
	}
	if l.Selected {
		c = append(c, "selected")
	}
	if l.Dragging {
		c = append(c, "dragging")
	}
	if l.Draggable {
		c = append(c, "draggable")
	}
	return attr(strings.Join(c, " "))
}

func attr(s string) string { return html.EscapeString(s) }
