package rng

import "math/rand"

// StreamName identifies one of the four purpose-partitioned RNG streams a
// pipeline run draws from. Partitioning random consumption by purpose
// means a change to one pass's random usage (say, adding randomness to
// door placement) can never perturb an upstream pass's output (say, room
// layout), because the two draw from independently seeded generators.
type StreamName string

const (
	// StreamLayout backs space partitioning and initial noise generation.
	StreamLayout StreamName = "layout"
	// StreamRooms backs room sizing and type assignment.
	StreamRooms StreamName = "rooms"
	// StreamConnections backs graph edge selection and corridor routing.
	StreamConnections StreamName = "connections"
	// StreamDetails backs spawn placement and decoration.
	StreamDetails StreamName = "details"
)

// streamSalts are fixed 32-bit constants XOR-mixed with the numeric seed
// to derive each stream's sub-seed. They must never change: doing so would
// silently break reproducibility for every previously generated seed.
var streamSalts = map[StreamName]uint32{
	StreamLayout:      0x6c61796f, // "layo"
	StreamRooms:       0x726f6f6d, // "room"
	StreamConnections: 0x636f6e6e, // "conn"
	StreamDetails:     0x64657461, // "deta"
}

// Streams holds the four independent PRNG instances for a single pipeline
// run, one per purpose.
type Streams struct {
	Layout      *RNG
	Rooms       *RNG
	Connections *RNG
	Details     *RNG
}

// DeriveStreams produces the four substreams from a numeric seed by
// XOR-mixing it with each stream's fixed salt, then seeding an independent
// PRNG from the result. Given the same numericSeed, the four streams are
// always identical across runs and across processes.
func DeriveStreams(numericSeed uint32) Streams {
	return Streams{
		Layout:      newStreamRNG(StreamLayout, numericSeed),
		Rooms:       newStreamRNG(StreamRooms, numericSeed),
		Connections: newStreamRNG(StreamConnections, numericSeed),
		Details:     newStreamRNG(StreamDetails, numericSeed),
	}
}

// Get returns the stream instance for name, or nil if name is not one of
// the four recognized streams. Passes use this to resolve only the
// streams they declared in their RequiredStreams set.
func (s Streams) Get(name StreamName) *RNG {
	switch name {
	case StreamLayout:
		return s.Layout
	case StreamRooms:
		return s.Rooms
	case StreamConnections:
		return s.Connections
	case StreamDetails:
		return s.Details
	default:
		return nil
	}
}

func newStreamRNG(name StreamName, numericSeed uint32) *RNG {
	derived := numericSeed ^ streamSalts[name]
	return &RNG{
		seed:      uint64(derived),
		stageName: string(name),
		source:    rand.New(rand.NewSource(int64(derived))),
	}
}
