// Package antimeridian corrects polygon geometries that cross the ±180°
// longitude seam so that map renderers draw them as contiguous shapes
// instead of bands wrapping around the whole globe.
//
// Three correction policies are provided and callers pick one explicitly:
//
//   - ShiftUnify moves every negative longitude of a seam-straddling
//     geometry by +360, producing one shape around 170..190.
//   - SplitInterpolate cuts each crossing outer ring at the seam, inserting
//     interpolated points at exactly ±180, and returns the west and east
//     rings as separate polygons of the same feature.
//   - SplitPartition groups ring points by longitude sign and emits each
//     group as its own feature tagged with a part index.
//
// The package performs no I/O and keeps no state between calls; a
// Normalizer may be shared between goroutines.
package antimeridian
