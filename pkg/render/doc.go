// Package render turns composited frames into output artifacts.
//
// The subpackages are sinks over the same [compositor.Frame]:
//
//   - [svg]: a vector document where each layer carries its transform,
//     clip-path inset, opacity, z-index and cursor as CSS
//   - [json]: the frame as a machine-readable document
//   - [png]: a raster preview composited in paint order
//   - [dot]: the paint order as a Graphviz diagram, one cluster per track
//
// This package holds what the sinks share: the [Canvas] and number
// formatting that survives NaN and infinities.
package render
