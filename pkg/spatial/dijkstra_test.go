package spatial

import (
	"math"
	"testing"

	"github.com/rogue3/dungeonforge/pkg/geom"
)

func floorWalkable(t geom.CellType) bool { return t == geom.Floor }

func TestDijkstraReachesAllFloor(t *testing.T) {
	grid := geom.NewGrid(10, 10, geom.Floor)
	grid.FillBorder(geom.Wall)
	dm := Dijkstra(grid, []geom.Point{{X: 1, Y: 1}}, floorWalkable, math.Inf(1))
	for y := 1; y < 9; y++ {
		for x := 1; x < 9; x++ {
			if math.IsInf(float64(dm.At(x, y)), 1) {
				t.Fatalf("cell (%d,%d) unreachable in open room", x, y)
			}
		}
	}
}

func TestDijkstraFurthestPointIsMax(t *testing.T) {
	grid := geom.NewGrid(20, 10, geom.Floor)
	grid.FillBorder(geom.Wall)
	dm := Dijkstra(grid, []geom.Point{{X: 1, Y: 1}}, floorWalkable, math.Inf(1))
	furthest, ok := dm.FindFurthestPoint()
	if !ok {
		t.Fatal("expected a furthest point")
	}
	d := dm.At(furthest.X, furthest.Y)
	for y := 1; y < grid.Height-1; y++ {
		for x := 1; x < grid.Width-1; x++ {
			if dm.At(x, y) > d {
				t.Fatalf("found a farther cell (%d,%d): %v > %v", x, y, dm.At(x, y), d)
			}
		}
	}
}

func TestDijkstraMaxDistanceCap(t *testing.T) {
	grid := geom.NewGrid(20, 20, geom.Floor)
	grid.FillBorder(geom.Wall)
	dm := Dijkstra(grid, []geom.Point{{X: 1, Y: 1}}, floorWalkable, 3)
	if !math.IsInf(float64(dm.At(18, 18)), 1) {
		t.Fatal("expected distant cell to be capped as unreachable")
	}
}

func TestFleeMapConvergesAndGradientsAway(t *testing.T) {
	grid := geom.NewGrid(15, 15, geom.Floor)
	grid.FillBorder(geom.Wall)
	dm := Dijkstra(grid, []geom.Point{{X: 1, Y: 1}}, floorWalkable, math.Inf(1))
	flee := FleeMap(dm)
	// Distances are negated, so the flee value near the source is higher
	// than far from it: moving downhill leads away from the source.
	near := flee.At(2, 2)
	far := flee.At(13, 13)
	if near <= far {
		t.Fatalf("flee map did not gradient away from source: near=%v far=%v", near, far)
	}
}
