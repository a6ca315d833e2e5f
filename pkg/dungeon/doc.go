// Package dungeon composes the spatial primitives and passes in
// pkg/geom, pkg/spatial, pkg/pipeline, and pkg/passes into the public
// dungeon generator: config validation, the four-stream seed derivation,
// the BSP/cellular/hybrid pipelines, checksumming, and share codes.
package dungeon
