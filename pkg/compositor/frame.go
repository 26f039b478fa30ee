package compositor

import (
	"github.com/matzehuels/reelstack/pkg/compositor/transform"
	"github.com/matzehuels/reelstack/pkg/timeline"
)

// Placeholder is the text shown in place of layers when the set is empty.
const Placeholder = "No media on the timeline"

// Input is the per-pass input supplied by the project-state owner.
type Input struct {
	Layers          []timeline.ClipLayer
	IsPlaying       bool
	SelectedLayerID string
}

// RenderedLayer is one layer of a frame in paint order.
type RenderedLayer struct {
	Layer       timeline.ClipLayer    `json:"layer"`
	Description transform.Description `json:"description"`
	Base        bool                  `json:"base,omitempty"`
	Selected    bool                  `json:"selected,omitempty"`
	Dragging    bool                  `json:"dragging,omitempty"`
	Draggable   bool                  `json:"draggable,omitempty"`
}

// Frame is the output of one render pass.
type Frame struct {
	// Layers in paint order; later entries draw on top.
	Layers []RenderedLayer `json:"layers"`

	// Empty is set when there are no layers and the placeholder is shown.
	Empty bool `json:"empty,omitempty"`

	// Mode is KindVideo when a base layer exists, otherwise the kind of the
	// bottom layer in paint order.
	Mode timeline.MediaKind `json:"mode,omitempty"`

	Count     int  `json:"count"`
	ShowCount bool `json:"show_count,omitempty"`

	// Dragging is set while a drag session is active.
	Dragging bool `json:"dragging,omitempty"`

	BaseLayerID string `json:"base_layer_id,omitempty"`
	IsPlaying   bool   `json:"is_playing,omitempty"`
}

// Layer returns the rendered layer with the given ID.
func (f Frame) Layer(id string) (RenderedLayer, bool) {
	for _, l := range f.Layers {
		if l.Layer.ID == id {
			return l, true
		}
	}
	return RenderedLayer{}, false
}

// IDs returns the layer IDs in paint order.
func (f Frame) IDs() []string {
	ids := make([]string, len(f.Layers))
	for i, l := range f.Layers {
		ids[i] = l.Layer.ID
	}
	return ids
}
