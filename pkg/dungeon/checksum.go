package dungeon

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// checksumVersion is the version tag embedded in every checksum string.
// Bumping it is a breaking change to the canonicalization below.
const checksumVersion = "v2"

// terrainSampleStride samples every 17th terrain byte in row-major
// order (17 is prime, avoiding aliasing with power-of-two map
// dimensions), capped at terrainSampleCap samples total. This balances
// checksum sensitivity against cost, per the canonicalization contract.
const (
	terrainSampleStride = 17
	terrainSampleCap    = 4096
)

// ComputeChecksum canonicalizes a, folds it into a 64-bit FNV-style
// hash, and returns it as "v2:" followed by 16 lowercase hex digits.
func ComputeChecksum(a *DungeonArtifact) string {
	h := newFNV64()

	h.writeUint32(uint32(a.Width))
	h.writeUint32(uint32(a.Height))

	rooms := append([]Room(nil), a.Rooms...)
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	for _, r := range rooms {
		h.writeUint32(uint32(r.X))
		h.writeUint32(uint32(r.Y))
		h.writeUint32(uint32(r.Width))
		h.writeUint32(uint32(r.Height))
		h.writeBytes([]byte(r.Type))
	}

	conns := append([]Connection(nil), a.Connections...)
	sort.Slice(conns, func(i, j int) bool {
		if conns[i].FromRoomID != conns[j].FromRoomID {
			return conns[i].FromRoomID < conns[j].FromRoomID
		}
		return conns[i].ToRoomID < conns[j].ToRoomID
	})
	for _, c := range conns {
		h.writeUint32(uint32(len(c.Path)))
		if len(c.Path) > 0 {
			h.writeUint32(uint32(c.Path[0].X))
			h.writeUint32(uint32(c.Path[0].Y))
			h.writeUint32(uint32(c.Path[len(c.Path)-1].X))
			h.writeUint32(uint32(c.Path[len(c.Path)-1].Y))
		}
		// A bounded sample of interior points, evenly spaced.
		const interiorSamples = 8
		if n := len(c.Path); n > 2 {
			step := maxInt(1, (n-2)/interiorSamples)
			for i := 1; i < n-1; i += step {
				h.writeUint32(uint32(c.Path[i].X))
				h.writeUint32(uint32(c.Path[i].Y))
			}
		}
	}

	spawns := append([]SpawnPoint(nil), a.Spawns...)
	sort.Slice(spawns, func(i, j int) bool {
		if spawns[i].Position.X != spawns[j].Position.X {
			return spawns[i].Position.X < spawns[j].Position.X
		}
		return spawns[i].Position.Y < spawns[j].Position.Y
	})
	for _, s := range spawns {
		h.writeUint32(uint32(s.Position.X))
		h.writeUint32(uint32(s.Position.Y))
		h.writeBytes([]byte(s.Type))
	}

	for i := 0; i < len(a.Terrain) && i/terrainSampleStride < terrainSampleCap; i += terrainSampleStride {
		h.writeByte(a.Terrain[i])
	}

	return fmt.Sprintf("%s:%016x", checksumVersion, h.sum)
}

// fnv64 is a standalone 64-bit FNV-1a accumulator. hash/fnv in the
// standard library works over io.Writer, which would require wrapping
// every integer write in a byte slice allocation; this inlines the
// same constants directly for the hot per-field write path checksum
// computation runs on every generation call.
type fnv64 struct{ sum uint64 }

const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

func newFNV64() *fnv64 { return &fnv64{sum: fnvOffset64} }

func (f *fnv64) writeByte(b byte) {
	f.sum ^= uint64(b)
	f.sum *= fnvPrime64
}

func (f *fnv64) writeBytes(bs []byte) {
	for _, b := range bs {
		f.writeByte(b)
	}
}

func (f *fnv64) writeUint32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	f.writeBytes(buf[:])
}
