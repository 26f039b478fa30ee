// Package dot renders the paint order of a frame as a Graphviz diagram.
//
// Each track becomes a cluster; layers are chained bottom to top in the
// order they are painted, so the diagram shows both stacking and track
// membership at a glance.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/reelstack/pkg/compositor"
	"github.com/matzehuels/reelstack/pkg/compositor/ordering"
	"github.com/matzehuels/reelstack/pkg/render"
	"github.com/matzehuels/reelstack/pkg/timeline"
)

// Options configures the DOT output.
type Options struct {
	// Detailed adds kind, clip time and transform to node labels.
	Detailed bool
}

// ToDOT converts the frame's paint order to DOT source.
func ToDOT(f compositor.Frame, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph paint {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [arrowhead=vee, color=gray40];\n\n")

	layers := make([]timeline.ClipLayer, len(f.Layers))
	byID := make(map[string]compositor.RenderedLayer, len(f.Layers))
	for i, l := range f.Layers {
		layers[i] = l.Layer
		byID[l.Layer.ID] = l
	}

	for i, tr := range ordering.Tracks(layers) {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n    style=dashed;\n", tr.ID)
		for _, id := range tr.LayerIDs {
			l := byID[id]
			fmt.Fprintf(&buf, "    %q [%s];\n", nodeID(l), strings.Join(attrs(l, opts.Detailed), ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for i := 1; i < len(f.Layers); i++ {
		fmt.Fprintf(&buf, "  %q -> %q [label=\"z%d\"];\n",
			nodeID(f.Layers[i-1]), nodeID(f.Layers[i]), f.Layers[i].Description.ZIndex)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// Layer IDs are opaque; prefixing keeps them from colliding with DOT
// keywords such as "node" or "graph".
func nodeID(l compositor.RenderedLayer) string { return "layer:" + l.Layer.ID }

func attrs(l compositor.RenderedLayer, detailed bool) []string {
	label := l.Layer.ID
	if detailed {
		parts := []string{
			label,
			string(l.Layer.MediaKind) + " z" + strconv.Itoa(l.Description.ZIndex),
		}
		if l.Layer.MediaKind == timeline.KindVideo {
			parts = append(parts, "t="+render.Num(l.Layer.ClipTime)+"s")
		}
		if t := l.Description.Transform(); t != "" {
			parts = append(parts, t)
		}
		label = strings.Join(parts, "\n")
	}

	out := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case l.Base:
		out = append(out, "fillcolor=\"#ffe8a3\"", "penwidth=2")
	case l.Dragging:
		out = append(out, "fillcolor=\"#cfe5ff\"", "style=\"rounded,filled,bold\"")
	case !l.Layer.MediaKind.Visual():
		out = append(out, "fillcolor=lightgrey", "style=\"rounded,filled,dashed\"")
	}
	return out
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based root element with one
// whose viewBox starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
