// Package geom provides the grid-native primitives the dungeon generator
// builds on: points, rectangles, a byte-per-cell tile grid, a bit-packed
// boolean grid, a binary min-heap, and a union-find structure.
//
// Everything here is allocation-conscious and bounds-checked at the
// perimeter only: Grid.Get and Grid.Set treat out-of-bounds coordinates as
// WALL and no-ops respectively so callers (neighbor counting, corridor
// carving) don't need a branch per cell access.
package geom
