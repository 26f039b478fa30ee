package timeline

// ClipTransform is a sparse spatial description of a layer. A nil field has
// no effect. Values are not range-checked: an opacity of 5 or a crop of 150
// is carried through unchanged.
type ClipTransform struct {
	X        *float64 `json:"x,omitempty" bson:"x,omitempty"`
	Y        *float64 `json:"y,omitempty" bson:"y,omitempty"`
	Scale    *float64 `json:"scale,omitempty" bson:"scale,omitempty"`
	Rotation *float64 `json:"rotation,omitempty" bson:"rotation,omitempty"` // degrees
	Opacity  *float64 `json:"opacity,omitempty" bson:"opacity,omitempty"`

	// Crop fields are inward insets in percent (0-100) of each edge.
	CropTop    *float64 `json:"crop_top,omitempty" bson:"crop_top,omitempty"`
	CropBottom *float64 `json:"crop_bottom,omitempty" bson:"crop_bottom,omitempty"`
	CropLeft   *float64 `json:"crop_left,omitempty" bson:"crop_left,omitempty"`
	CropRight  *float64 `json:"crop_right,omitempty" bson:"crop_right,omitempty"`
}

// Clone returns a deep copy of t. A nil receiver yields nil.
func (t *ClipTransform) Clone() *ClipTransform {
	if t == nil {
		return nil
	}
	c := &ClipTransform{}
	c.X = cloneFloat(t.X)
	c.Y = cloneFloat(t.Y)
	c.Scale = cloneFloat(t.Scale)
	c.Rotation = cloneFloat(t.Rotation)
	c.Opacity = cloneFloat(t.Opacity)
	c.CropTop = cloneFloat(t.CropTop)
	c.CropBottom = cloneFloat(t.CropBottom)
	c.CropLeft = cloneFloat(t.CropLeft)
	c.CropRight = cloneFloat(t.CropRight)
	return c
}

// WithPosition returns a copy of t with X and Y set. Other fields are kept.
func (t *ClipTransform) WithPosition(x, y float64) *ClipTransform {
	c := t.Clone()
	if c == nil {
		c = &ClipTransform{}
	}
	c.X = Float(x)
	c.Y = Float(y)
	return c
}

// Float returns a pointer to v, for building sparse transforms.
func Float(v float64) *float64 { return &v }

// Value dereferences p, returning def when p is nil.
func Value(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
