package project

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/reelstack/pkg/errors"
	"github.com/matzehuels/reelstack/pkg/timeline"
)

// Default canvas size for new projects.
const (
	DefaultWidth  = 1920
	DefaultHeight = 1080
)

// Clip is a layer placed on the timeline.
type Clip struct {
	timeline.ClipLayer `bson:",inline"`

	// Start is the playhead time in seconds at which the clip appears.
	Start float64 `json:"start" bson:"start"`

	// Duration is how long the clip stays visible. Zero means until the end.
	Duration float64 `json:"duration,omitempty" bson:"duration,omitempty"`

	// Offset is the source time shown at Start (trim-in).
	Offset float64 `json:"offset,omitempty" bson:"offset,omitempty"`
}

// Visible reports whether the clip is on screen at playhead.
func (c Clip) Visible(playhead float64) bool {
	if playhead < c.Start {
		return false
	}
	return c.Duration <= 0 || playhead < c.Start+c.Duration
}

// SourceTime returns the source position shown at playhead.
func (c Clip) SourceTime(playhead float64) float64 {
	return playhead - c.Start + c.Offset
}

// Project is one editable composition.
type Project struct {
	ID     string `json:"id" bson:"_id"`
	Name   string `json:"name" bson:"name"`
	Width  int    `json:"width" bson:"width"`
	Height int    `json:"height" bson:"height"`

	Playhead        float64 `json:"playhead" bson:"playhead"`
	IsPlaying       bool    `json:"is_playing" bson:"is_playing"`
	SelectedLayerID string  `json:"selected_layer_id,omitempty" bson:"selected_layer_id,omitempty"`

	Clips []Clip `json:"clips" bson:"clips"`

	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// New creates an empty project with a fresh ID and the default canvas.
func New(name string) *Project {
	return &Project{
		ID:     NewID(),
		Name:   name,
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Clips:  []Clip{},
	}
}

// NewID returns a random project identifier.
func NewID() string { return uuid.NewString() }

// NewLayerID returns a random layer identifier.
func NewLayerID() string { return uuid.NewString() }

// Validate checks identifiers and layer structure. Transform values are
// not range-checked.
func (p *Project) Validate() error {
	if err := errors.ValidateProjectID(p.ID); err != nil {
		return err
	}
	layers := make([]timeline.ClipLayer, len(p.Clips))
	for i, c := range p.Clips {
		layers[i] = c.ClipLayer
	}
	return timeline.ValidateLayers(layers)
}

// Clone returns a deep copy of p.
func (p *Project) Clone() *Project {
	c := *p
	c.Clips = make([]Clip, len(p.Clips))
	for i, clip := range p.Clips {
		clip.Transform = clip.Transform.Clone()
		c.Clips[i] = clip
	}
	return &c
}

// Clip returns a pointer to the clip with the given layer ID.
func (p *Project) Clip(layerID string) (*Clip, bool) {
	i := slices.IndexFunc(p.Clips, func(c Clip) bool { return c.ID == layerID })
	if i < 0 {
		return nil, false
	}
	return &p.Clips[i], true
}

// AddClip appends c, assigning a layer ID when it has none.
func (p *Project) AddClip(c Clip) (string, error) {
	if c.ID == "" {
		c.ID = NewLayerID()
	}
	if _, exists := p.Clip(c.ID); exists {
		return "", errors.New(errors.ErrCodeInvalidLayer, "duplicate layer id %q", c.ID)
	}
	if err := c.Validate(); err != nil {
		return "", err
	}
	p.Clips = append(p.Clips, c)
	return c.ID, nil
}

// RemoveClip deletes the clip with the given layer ID and clears the
// selection if it pointed at it.
func (p *Project) RemoveClip(layerID string) error {
	i := slices.IndexFunc(p.Clips, func(c Clip) bool { return c.ID == layerID })
	if i < 0 {
		return errors.New(errors.ErrCodeLayerNotFound, "layer %q not found", layerID)
	}
	p.Clips = slices.Delete(p.Clips, i, i+1)
	if p.SelectedLayerID == layerID {
		p.SelectedLayerID = ""
	}
	return nil
}

// LayersAt returns the layers visible at playhead with their clip times
// filled in, in project order.
func (p *Project) LayersAt(playhead float64) []timeline.ClipLayer {
	layers := make([]timeline.ClipLayer, 0, len(p.Clips))
	for _, c := range p.Clips {
		if !c.Visible(playhead) {
			continue
		}
		l := c.ClipLayer
		l.ClipTime = c.SourceTime(playhead)
		layers = append(layers, l)
	}
	return layers
}

// Layers is LayersAt the current playhead.
func (p *Project) Layers() []timeline.ClipLayer { return p.LayersAt(p.Playhead) }

// Duration returns the end of the last bounded clip.
func (p *Project) Duration() float64 {
	var end float64
	for _, c := range p.Clips {
		if c.Duration > 0 {
			end = max(end, c.Start+c.Duration)
		}
	}
	return end
}
