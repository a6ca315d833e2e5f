package geom

import "fmt"

// CellType is the closed enumeration of tile contents. It is stored as one
// byte per cell in Grid, so ordinal values are part of the artifact's wire
// format and must not be reordered.
type CellType byte

const (
	Floor CellType = iota
	Wall
	Door
	Water
	Lava
)

// String returns the human-readable name of t.
func (t CellType) String() string {
	switch t {
	case Floor:
		return "Floor"
	case Wall:
		return "Wall"
	case Door:
		return "Door"
	case Water:
		return "Water"
	case Lava:
		return "Lava"
	default:
		return fmt.Sprintf("CellType(%d)", byte(t))
	}
}

// Walkable reports whether a cell of this type can be traversed by the
// default pathing algorithms. Doors and floor are walkable; water/lava are
// walkable terrain variants that still count as floor for connectivity
// purposes but are not emitted by the base generators.
func (t CellType) Walkable() bool {
	switch t {
	case Floor, Door, Water, Lava:
		return true
	default:
		return false
	}
}
