// Package scale maps data values to visual values.
//
// [Linear] maps a continuous numeric domain onto a pixel range and is used
// for node radii. [Ordinal] maps discrete keys onto a fixed color palette
// and is used to color clusters.
package scale
