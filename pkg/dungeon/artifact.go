package dungeon

import (
	"github.com/rogue3/dungeonforge/pkg/geom"
	"github.com/rogue3/dungeonforge/pkg/passes"
)

// These aliases re-export the reusable working-artifact types from
// pkg/passes under the names the data model uses, so callers of this
// package never need to import pkg/passes directly.
type (
	RoomType       = passes.RoomType
	Room           = passes.Room
	ConnectionType = passes.ConnectionType
	Connection     = passes.Connection
	SpawnPoint     = passes.SpawnPoint
	// DungeonStateArtifact is the mutable working artifact threaded
	// through a pipeline run; see passes.State for field documentation.
	DungeonStateArtifact = passes.State
)

// Re-exported room/connection type constants.
const (
	RoomEntrance = passes.RoomEntrance
	RoomExit     = passes.RoomExit
	RoomBoss     = passes.RoomBoss
	RoomTreasure = passes.RoomTreasure
	RoomLibrary  = passes.RoomLibrary
	RoomCavern   = passes.RoomCavern
	RoomNormal   = passes.RoomNormal

	ConnOpen       = passes.ConnOpen
	ConnDoor       = passes.ConnDoor
	ConnLockedDoor = passes.ConnLockedDoor
	ConnSecret     = passes.ConnSecret
	ConnBridge     = passes.ConnBridge
	ConnOneWay     = passes.ConnOneWay
)

// DungeonArtifact is the terminal, serializable output of a generation
// run. Terrain is an owned copy of the finalized grid's bytes (no
// aliasing with the pipeline's working Grid); Checksum is a hexadecimal
// string of the form "v2:<16-hex-digits>".
type DungeonArtifact struct {
	Type        string       `json:"type"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	Terrain     []byte       `json:"terrain"`
	Rooms       []Room       `json:"rooms"`
	Connections []Connection `json:"connections"`
	Spawns      []SpawnPoint `json:"spawns"`
	Seed        Seed         `json:"seed"`
	Checksum    string       `json:"checksum"`
}

// Get returns the cell type at (x, y), treating out-of-bounds
// coordinates as Wall, matching geom.Grid's own convention.
func (a *DungeonArtifact) Get(x, y int) geom.CellType {
	if x < 0 || y < 0 || x >= a.Width || y >= a.Height {
		return geom.Wall
	}
	return geom.CellType(a.Terrain[y*a.Width+x])
}
