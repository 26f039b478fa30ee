package transform

import (
	"strconv"
	"strings"

	"github.com/matzehuels/reelstack/pkg/timeline"
)

// CursorGrabbing is the cursor hint reported for a layer being dragged.
const CursorGrabbing = "grabbing"

// OpKind identifies a spatial operation.
type OpKind int

const (
	OpTranslate OpKind = iota
	OpScale
	OpRotate
)

func (k OpKind) String() string {
	switch k {
	case OpTranslate:
		return "translate"
	case OpScale:
		return "scale"
	case OpRotate:
		return "rotate"
	default:
		return "unknown"
	}
}

// Op is a single spatial operation. Translate uses X and Y (pixels); scale
// and rotate use Value (factor and degrees).
type Op struct {
	Kind  OpKind  `json:"kind"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	Value float64 `json:"value,omitempty"`
}

func (o Op) String() string {
	switch o.Kind {
	case OpTranslate:
		return "translate(" + num(o.X) + "px, " + num(o.Y) + "px)"
	case OpScale:
		return "scale(" + num(o.Value) + ")"
	case OpRotate:
		return "rotate(" + num(o.Value) + "deg)"
	default:
		return ""
	}
}

// Inset is an inward crop per edge, in percent of the layer box.
type Inset struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

func (i Inset) String() string {
	return "inset(" + num(i.Top) + "% " + num(i.Right) + "% " + num(i.Bottom) + "% " + num(i.Left) + "%)"
}

// Description is the render-ready spatial description of one layer.
type Description struct {
	Ops     []Op    `json:"ops,omitempty"`
	Crop    *Inset  `json:"crop,omitempty"`
	Opacity float64 `json:"opacity"`
	Cursor  string  `json:"cursor,omitempty"`
	ZIndex  int     `json:"z_index"`
}

// Transform renders the operation list as a CSS-style transform string.
// It returns "" when there are no operations.
func (d Description) Transform() string {
	parts := make([]string, len(d.Ops))
	for i, op := range d.Ops {
		parts[i] = op.String()
	}
	return strings.Join(parts, " ")
}

// ClipPath renders the crop as a CSS-style inset, or "" without a crop.
func (d Description) ClipPath() string {
	if d.Crop == nil {
		return ""
	}
	return d.Crop.String()
}

// ZIndexFor maps a position in the ordered layer sequence to a z-index.
// Zero is reserved for "no layer", so the first layer gets 1.
func ZIndexFor(position int) int { return position + 1 }

// Resolve builds the description for a layer with transform t at the given
// z-index. A nil t resolves to the identity description.
func Resolve(t *timeline.ClipTransform, zIndex int, dragging bool) Description {
	d := Description{Opacity: 1, ZIndex: zIndex}
	if dragging {
		d.Cursor = CursorGrabbing
	}
	if t == nil {
		return d
	}

	x, y := timeline.Value(t.X, 0), timeline.Value(t.Y, 0)
	if x != 0 || y != 0 {
		d.Ops = append(d.Ops, Op{Kind: OpTranslate, X: x, Y: y})
	}
	if t.Scale != nil && *t.Scale != 1 {
		d.Ops = append(d.Ops, Op{Kind: OpScale, Value: *t.Scale})
	}
	if r := timeline.Value(t.Rotation, 0); r != 0 {
		d.Ops = append(d.Ops, Op{Kind: OpRotate, Value: r})
	}

	d.Crop = resolveCrop(t)
	d.Opacity = timeline.Value(t.Opacity, 1)
	return d
}

func resolveCrop(t *timeline.ClipTransform) *Inset {
	in := Inset{
		Top:    timeline.Value(t.CropTop, 0),
		Right:  timeline.Value(t.CropRight, 0),
		Bottom: timeline.Value(t.CropBottom, 0),
		Left:   timeline.Value(t.CropLeft, 0),
	}
	if in.Top == 0 && in.Right == 0 && in.Bottom == 0 && in.Left == 0 {
		return nil
	}
	return &in
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
