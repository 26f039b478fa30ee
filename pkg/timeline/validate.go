package timeline

import (
	"fmt"

	"github.com/matzehuels/reelstack/pkg/errors"
)

// Validate checks the structural fields of a layer at an ingestion boundary
// (project files, HTTP payloads). Transform values are deliberately not
// range-checked.
func (l ClipLayer) Validate() error {
	if err := errors.ValidateLayerID(l.ID); err != nil {
		return err
	}
	if err := errors.ValidateTrackID(l.TrackID); err != nil {
		return err
	}
	if !l.MediaKind.Valid() {
		return errors.New(errors.ErrCodeInvalidLayer, "layer %s: unknown media kind %q", l.ID, l.MediaKind)
	}
	if l.SourceURL != "" {
		if err := errors.ValidateSourceURL(l.SourceURL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidLayer, err, "layer %s", l.ID)
		}
	}
	return nil
}

// ValidateLayers validates every layer and rejects duplicate IDs.
func ValidateLayers(layers []ClipLayer) error {
	seen := make(map[string]bool, len(layers))
	for i, l := range layers {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
		if seen[l.ID] {
			return errors.New(errors.ErrCodeInvalidLayer, "duplicate layer id %q", l.ID)
		}
		seen[l.ID] = true
	}
	return nil
}
