// Package passes implements the reusable pipeline passes generators
// compose: corridor carving, door placement, spawn emission, and
// invariant validation. Each pass implements pipeline.Pass over State,
// the mutable working artifact a run threads from one pass to the
// next.
package passes

import "github.com/rogue3/dungeonforge/pkg/geom"

// RoomType classifies the gameplay role of a Room.
type RoomType string

// The closed set of room types a generator may assign.
const (
	RoomEntrance RoomType = "entrance"
	RoomExit     RoomType = "exit"
	RoomBoss     RoomType = "boss"
	RoomTreasure RoomType = "treasure"
	RoomLibrary  RoomType = "library"
	RoomCavern   RoomType = "cavern"
	RoomNormal   RoomType = "normal"
)

// Room is a placed, typed region of the dungeon. CenterX/CenterY name a
// walkable floor tile: a rectangular room uses its geometric center,
// and a cavern room uses the region cell nearest its bounding-box
// center, since a cavern's geometric center can land on a wall cell.
type Room struct {
	ID      int
	X       int
	Y       int
	Width   int
	Height  int
	CenterX int
	CenterY int
	Type    RoomType
	Seed    uint32
	Tags    []string
}

// Rect returns the room's bounding rectangle.
func (r Room) Rect() geom.Rect {
	return geom.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Center returns the room's resolved walkable center point.
func (r Room) Center() geom.Point { return geom.Point{X: r.CenterX, Y: r.CenterY} }

// ConnectionType classifies how two rooms are joined.
type ConnectionType string

// The closed set of connection types a generator may assign.
const (
	ConnOpen       ConnectionType = "open"
	ConnDoor       ConnectionType = "door"
	ConnLockedDoor ConnectionType = "locked_door"
	ConnSecret     ConnectionType = "secret"
	ConnBridge     ConnectionType = "bridge"
	ConnOneWay     ConnectionType = "one_way"
)

// Connection is a carved corridor between two rooms. Path is the
// ordered, inclusive sequence of carved grid cells; every point in
// Path is Floor after carving, and adjacent points differ by at most
// one cell on each axis (corridor adjacency).
type Connection struct {
	FromRoomID   int
	ToRoomID     int
	Path         []geom.Point
	Type         ConnectionType
	DoorPosition *geom.Point
	Metadata     map[string]string
}

// SpawnPoint marks a gameplay-relevant location. DistanceFromStart is a
// true Dijkstra graph distance over walkable cells from the entrance,
// not a Manhattan estimate.
type SpawnPoint struct {
	Position          geom.Point
	RoomID            int
	Type              string
	Tags              []string
	Weight            float64
	DistanceFromStart float64
}

// State is the mutable working artifact threaded through a pipeline
// run. Grid is owned by the pipeline run: a pass that produces a new
// State spreads the existing fields and substitutes what it changed,
// and by convention no pass retains a reference to a prior Grid once
// it has returned a new State.
type State struct {
	ID          string
	Width       int
	Height      int
	Grid        *geom.Grid
	Rooms       []Room
	Connections []Connection
	// Edges lists (fromRoomIndex, toRoomIndex) pairs selected by the
	// connectivity graph (Delaunay+MST), before corridors are carved.
	Edges  [][2]uint32
	Spawns []SpawnPoint
}

// Clone returns a shallow copy of the state with its own Grid backing
// array. Rooms/Connections/Spawns slices are shared by reference;
// passes that mutate them must reassign the field to a new slice.
func (s *State) Clone() *State {
	next := *s
	if s.Grid != nil {
		next.Grid = s.Grid.Clone()
	}
	return &next
}
