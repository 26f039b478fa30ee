// Package json renders a frame as a JSON document.
//
// Numbers that JSON cannot carry (NaN, infinities) are emitted as strings
// so that out-of-range layer values survive the trip unchanged.
package json

import (
	"encoding/json"
	"strconv"

	"github.com/matzehuels/reelstack/pkg/compositor"
	"github.com/matzehuels/reelstack/pkg/render"
)

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	canvas  render.Canvas
	project string
	indent  bool
}

// WithCanvas records the stage in the document.
func WithCanvas(c render.Canvas) Option { return func(r *renderer) { r.canvas = c } }

// WithProject records the project ID.
func WithProject(id string) Option { return func(r *renderer) { r.project = id } }

// WithIndent pretty-prints the output.
func WithIndent() Option { return func(r *renderer) { r.indent = true } }

// Document is the JSON form of a frame.
type Document struct {
	Project     string        `json:"project,omitempty"`
	Canvas      render.Canvas `json:"canvas"`
	Empty       bool          `json:"empty"`
	Placeholder string        `json:"placeholder,omitempty"`
	Mode        string        `json:"mode,omitempty"`
	Count       int           `json:"count"`
	ShowCount   bool          `json:"show_count"`
	Dragging    bool          `json:"dragging"`
	IsPlaying   bool          `json:"is_playing"`
	BaseLayerID string        `json:"base_layer_id,omitempty"`
	Layers      []Layer       `json:"layers"`
}

// Layer is one layer of a [Document], in paint order.
type Layer struct {
	ID        string `json:"id"`
	TrackID   string `json:"track_id"`
	MediaKind string `json:"media_kind"`
	SourceURL string `json:"source_url,omitempty"`
	ClipTime  Number `json:"clip_time"`
	ZIndex    int    `json:"z_index"`
	Transform string `json:"transform,omitempty"`
	ClipPath  string `json:"clip_path,omitempty"`
	Opacity   Number `json:"opacity"`
	Cursor    string `json:"cursor,omitempty"`
	Base      bool   `json:"base,omitempty"`
	Selected  bool   `json:"selected,omitempty"`
	Dragging  bool   `json:"dragging,omitempty"`
	Draggable bool   `json:"draggable,omitempty"`
}

// Number marshals as a JSON number when finite and as a string otherwise.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if render.Finite(v) {
		return []byte(render.Num(v)), nil
	}
	return []byte(strconv.Quote(render.Num(v))), nil
}

func (n *Number) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return err
		}
		b = []byte(s)
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*n = Number(v)
	return nil
}

// Build converts f to a Document.
func Build(f compositor.Frame, opts ...Option) Document {
	r := newRenderer(opts...)
	doc := Document{
		Project:     r.project,
		Canvas:      r.canvas,
		Empty:       f.Empty,
		Mode:        string(f.Mode),
		Count:       f.Count,
		ShowCount:   f.ShowCount,
		Dragging:    f.Dragging,
		IsPlaying:   f.IsPlaying,
		BaseLayerID: f.BaseLayerID,
		Layers:      make([]Layer, 0, len(f.Layers)),
	}
	if f.Empty {
		doc.Placeholder = compositor.Placeholder
	}
	for _, l := range f.Layers {
		d := l.Description
		doc.Layers = append(doc.Layers, Layer{
			ID:        l.Layer.ID,
			TrackID:   l.Layer.TrackID,
			MediaKind: string(l.Layer.MediaKind),
			SourceURL: l.Layer.SourceURL,
			ClipTime:  Number(l.Layer.ClipTime),
			ZIndex:    d.ZIndex,
			Transform: d.Transform(),
			ClipPath:  d.ClipPath(),
			Opacity:   Number(d.Opacity),
			Cursor:    d.Cursor,
			Base:      l.Base,
			Selected:  l.Selected,
			Dragging:  l.Dragging,
			Draggable: l.Draggable,
		})
	}
	return doc
}

// Render encodes f as JSON.
func Render(f compositor.Frame, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	doc := Build(f, opts...)
	if r.indent {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}

func newRenderer(opts ...Option) renderer {
	var r renderer
	for _, opt := range opts {
		opt(&r)
	}
	r.canvas = r.canvas.WithDefaults()
	return r
}
