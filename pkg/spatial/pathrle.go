package spatial

import (
	"fmt"

	"github.com/rogue3/dungeonforge/pkg/geom"
)

// Direction is one of the eight unit steps a corridor path may take
// between consecutive points.
type Direction int

const (
	DirN Direction = iota
	DirNE
	DirE
	DirSE
	DirS
	DirSW
	DirW
	DirNW
)

var directionDeltas = [8]geom.Point{
	DirN:  {X: 0, Y: -1},
	DirNE: {X: 1, Y: -1},
	DirE:  {X: 1, Y: 0},
	DirSE: {X: 1, Y: 1},
	DirS:  {X: 0, Y: 1},
	DirSW: {X: -1, Y: 1},
	DirW:  {X: -1, Y: 0},
	DirNW: {X: -1, Y: -1},
}

// Move is a run of identical unit steps in a compressed path.
type Move struct {
	Dir   Direction
	Count int
}

// CompressedPath is the run-length-encoded form of a corridor path:
// a start point plus a sequence of (direction, count) moves.
type CompressedPath struct {
	Start          geom.Point
	Moves          []Move
	OriginalLength int
}

// CompressPath run-length encodes a path of grid-adjacent points,
// coalescing consecutive identical directions. Any step whose offset is
// not a unit 8-connected step is a protocol violation and returns an
// error.
func CompressPath(path []geom.Point) (CompressedPath, error) {
	if len(path) == 0 {
		return CompressedPath{}, nil
	}
	cp := CompressedPath{Start: path[0], OriginalLength: len(path)}

	var curDir Direction
	curCount := 0
	haveDir := false

	for i := 1; i < len(path); i++ {
		dx := path[i].X - path[i-1].X
		dy := path[i].Y - path[i-1].Y
		if absInt(dx) > 1 || absInt(dy) > 1 {
			return CompressedPath{}, fmt.Errorf("spatial: path step %d has non-adjacent offset (%d,%d)", i, dx, dy)
		}
		dir, ok := directionOf(dx, dy)
		if !ok {
			return CompressedPath{}, fmt.Errorf("spatial: path step %d is stationary", i)
		}
		if haveDir && dir == curDir {
			curCount++
			continue
		}
		if haveDir {
			cp.Moves = append(cp.Moves, Move{Dir: curDir, Count: curCount})
		}
		curDir = dir
		curCount = 1
		haveDir = true
	}
	if haveDir {
		cp.Moves = append(cp.Moves, Move{Dir: curDir, Count: curCount})
	}
	return cp, nil
}

func directionOf(dx, dy int) (Direction, bool) {
	for d, delta := range directionDeltas {
		if delta.X == dx && delta.Y == dy {
			return Direction(d), true
		}
	}
	return 0, false
}

// DecompressPath reconstructs the exact point list a CompressedPath was
// built from. The round trip CompressPath -> DecompressPath is bitwise
// identical to the original input.
func DecompressPath(cp CompressedPath) []geom.Point {
	if cp.OriginalLength == 0 && len(cp.Moves) == 0 {
		return nil
	}
	path := make([]geom.Point, 0, cp.OriginalLength)
	path = append(path, cp.Start)
	cur := cp.Start
	for _, m := range cp.Moves {
		delta := directionDeltas[m.Dir]
		for i := 0; i < m.Count; i++ {
			cur = geom.Point{X: cur.X + delta.X, Y: cur.Y + delta.Y}
			path = append(path, cur)
		}
	}
	return path
}
