// Package pipeline defines the typed, ordered pass framework that a
// generator composes to turn a seed and configuration into a finished
// dungeon artifact. Every pass declares the type it consumes, the type
// it produces, and which of the four RNG streams it needs; the Pipeline
// wires passes together, enforces that adjacent type declarations match,
// and records a trace of what ran and how long it took.
package pipeline
