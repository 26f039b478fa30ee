package ordering

import (
	"slices"
	"strings"

	"github.com/matzehuels/reelstack/pkg/timeline"
)

// Order returns a new slice of layers sorted by ascending TrackID. The sort
// is stable and the input slice is left untouched.
func Order(layers []timeline.ClipLayer) []timeline.ClipLayer {
	out := slices.Clone(layers)
	slices.SortStableFunc(out, func(a, b timeline.ClipLayer) int {
		return strings.Compare(a.TrackID, b.TrackID)
	})
	return out
}

// IDs returns the layer IDs of layers in order.
func IDs(layers []timeline.ClipLayer) []string {
	ids := make([]string, len(layers))
	for i, l := range layers {
		ids[i] = l.ID
	}
	return ids
}

// Tracks groups ordered layers by track, preserving paint order within and
// across tracks.
func Tracks(ordered []timeline.ClipLayer) []Track {
	var tracks []Track
	for _, l := range ordered {
		if n := len(tracks); n > 0 && tracks[n-1].ID == l.TrackID {
			tracks[n-1].LayerIDs = append(tracks[n-1].LayerIDs, l.ID)
			continue
		}
		tracks = append(tracks, Track{ID: l.TrackID, LayerIDs: []string{l.ID}})
	}
	return tracks
}

// Track is a lane of layers sharing a TrackID.
type Track struct {
	ID       string
	LayerIDs []string
}
