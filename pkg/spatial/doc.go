// Package spatial implements the generator's spatial algorithms: BSP
// partitioning, cellular automata smoothing, Delaunay triangulation and
// minimum spanning tree connectivity, flood-fill region extraction,
// corridor carving (L-shape, Bresenham, A*), Dijkstra distance maps, and
// corridor path run-length encoding.
//
// Exported functions operate on geom types, and those that need
// randomness take an explicit *rng.RNG argument — no package-level state,
// no hidden entropy source. The carving functions write into the grid
// they are given. Determinism follows directly from determinism of the
// RNG passed in.
package spatial
