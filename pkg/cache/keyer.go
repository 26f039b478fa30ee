package cache

import "fmt"

// Keyer builds cache keys for each kind of cached value.
type Keyer interface {
	// SourceKey is the key for the bytes behind a media source URL.
	SourceKey(url string) string

	// FrameKey is the key for a composited frame document.
	FrameKey(projectHash string, opts FrameKeyOpts) string

	// ArtifactKey is the key for a frame rendered into one output format.
	ArtifactKey(frameHash string, opts ArtifactKeyOpts) string
}

// FrameKeyOpts holds the inputs besides the project that change a frame.
type FrameKeyOpts struct {
	PrimaryTrack string  `json:"primary_track"`
	Playhead     float64 `json:"playhead"`
}

// ArtifactKeyOpts holds the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Background string `json:"background,omitempty"`
}

// DefaultKeyer hashes option structs so that keys stay short and safe.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key layout.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) SourceKey(url string) string {
	return fmt.Sprintf("source:%s", Hash([]byte(url)))
}

func (DefaultKeyer) FrameKey(projectHash string, opts FrameKeyOpts) string {
	return hashKey("frame", projectHash, opts)
}

func (DefaultKeyer) ArtifactKey(frameHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", frameHash, opts)
}

var _ Keyer = DefaultKeyer{}
