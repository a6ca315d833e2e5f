// Package rng provides deterministic random number generation for the dungeon generator.
//
// # Overview
//
// The RNG type ensures reproducible dungeon generation by deriving
// stage-specific seeds from a master seed. Streams (see streams.go) builds
// the four purpose-partitioned generators a pipeline run hands to each
// pass: layout, rooms, connections, details.
//
// # Stream Derivation
//
// DeriveStreams XOR-mixes the numeric seed with four fixed, never-changing
// salts, one per stream, then seeds an independent generator from each
// result. This is what the four required streams (layout, rooms,
// connections, details) are built from, so that a share code (which carries
// only the seed) always reproduces identical streams.
//
// This ensures:
//  1. Same seed always produces the same four RNG sequences (determinism)
//  2. Different streams get independent random sequences (isolation)
//
// # Usage
//
//	streams := rng.DeriveStreams(seed.NumericValue)
//	roomWidth := streams.Rooms.IntRange(minRoomSize, maxRoomSize)
//	if streams.Details.Bool() {
//	    // place optional decoration
//	}
//
// # Thread Safety
//
// RNG instances are NOT thread-safe. Each goroutine should use its own RNG
// instance. Create stage-specific RNGs before spawning goroutines and pass
// them explicitly.
//
// # Performance
//
// The underlying math/rand.Rand is highly efficient:
//   - Uint64(): ~2ns per call
//   - Intn():   ~3ns per call
//   - Float64(): ~2ns per call
//
// DeriveStreams costs a handful of XORs and four rand.NewSource calls;
// reuse the returned Streams within a run for best performance.
package rng
