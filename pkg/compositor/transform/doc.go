// Package transform turns a layer's sparse [timeline.ClipTransform] into a
// render-ready [Description].
//
// # Operation order
//
// Spatial operations are appended in a fixed order: translate, then scale,
// then rotate. Each is emitted only when it has an effect (translate when x
// or y is non-zero, scale when present and not 1, rotate when non-zero).
// Written as a CSS-style transform list this reads
//
//	translate(10px, 0px) scale(2) rotate(90deg)
//
// and means the translation is expressed in untransformed pixel space: a
// layer dragged by 20 pixels moves 20 screen pixels whatever its scale or
// rotation.
//
// # Crop
//
// Crop is computed independently of the operation list, as an inward inset
// per edge in percent of the untransformed layer box. A layer scaled by 2
// with cropLeft 50 still reports a 50% left inset.
//
// # Totality
//
// [Resolve] accepts every input, including a nil transform and non-finite
// values, and never fails. Nothing is clamped.
package transform
