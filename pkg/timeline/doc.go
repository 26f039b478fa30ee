// Package timeline defines the data model shared by the compositor and its
// collaborators: clip layers, their sparse spatial transforms, and the
// requests the compositor emits back to whoever owns the project state.
//
// # Layers
//
// A [ClipLayer] is one element of the timeline rendered into the composite.
// Layers are supplied fresh on every render pass and are never mutated by the
// compositor. Position changes travel the other way as [MoveRequest] and
// [SelectRequest] values.
//
// # Sparse transforms
//
// Every field of [ClipTransform] is optional. A nil field means "no effect",
// which is not the same as zero: a nil Opacity renders fully opaque, while an
// Opacity of 0 renders invisible. Defaults are resolved centrally by the
// transform resolver (pkg/compositor/transform), never here.
//
//	t := &timeline.ClipTransform{X: timeline.Float(10), Scale: timeline.Float(2)}
//
// # Base layer
//
// At most one layer drives the playback clock: the first video layer on the
// primary track (see [IsBaseCandidate]). Every other layer is an overlay.
package timeline
