package timeline

// MediaKind identifies what kind of media a layer references.
type MediaKind string

const (
	KindVideo MediaKind = "video"
	KindImage MediaKind = "image"
	KindAudio MediaKind = "audio"
)

// Valid reports whether k is one of the known media kinds.
func (k MediaKind) Valid() bool {
	switch k {
	case KindVideo, KindImage, KindAudio:
		return true
	}
	return false
}

// Visual reports whether layers of this kind occupy screen space.
func (k MediaKind) Visual() bool { return k == KindVideo || k == KindImage }

// PrimaryTrack is the default identifier of the track whose video layer
// drives the playback clock. Overlay tracks should use identifiers that sort
// after it ("V2", "V3", ...) so they stack on top.
const PrimaryTrack = "V1"

// ClipLayer is one timeline element rendered into the composite.
type ClipLayer struct {
	ID        string    `json:"id" bson:"id"`
	SourceURL string    `json:"source_url" bson:"source_url"`
	MediaKind MediaKind `json:"media_kind" bson:"media_kind"`

	// TrackID names the track the layer belongs to and is the stacking key.
	TrackID string `json:"track_id" bson:"track_id"`

	// ClipTime is the position in seconds within the source media that should
	// be visible at the current playback time. Computed by the clock owner.
	ClipTime float64 `json:"clip_time" bson:"clip_time"`

	Transform *ClipTransform `json:"transform,omitempty" bson:"transform,omitempty"`
}

// Position returns the layer's translate offset, treating absent values as 0.
func (l ClipLayer) Position() Point {
	if l.Transform == nil {
		return Point{}
	}
	return Point{X: Value(l.Transform.X, 0), Y: Value(l.Transform.Y, 0)}
}

// IsBaseCandidate reports whether l qualifies as the clock-driving base
// layer: a video layer on the primary track.
func IsBaseCandidate(l ClipLayer, primaryTrack string) bool {
	return l.TrackID == primaryTrack && l.MediaKind == KindVideo
}

// Point is a pair of pixel coordinates.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
