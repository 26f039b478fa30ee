// Package ordering resolves the paint order of a layer set.
//
// Layers are stacked by track: [Order] sorts them by ascending track ID using
// byte-wise comparison, so "V1" paints beneath "V2". Layers sharing a track
// keep their input order. The result is the paint order: later entries draw
// on top and receive higher z-indices.
//
// Because the comparison is ordinal, track identifiers must encode the
// desired stacking ("V10" sorts before "V2").
package ordering
