package spatial

import (
	"math"

	"github.com/rogue3/dungeonforge/pkg/geom"
)

const sqrt2 = math.Sqrt2

// DistanceMap holds per-cell graph distance from a set of source cells,
// 8-connected with diagonal cost sqrt2 and cardinal cost 1. Unreachable
// cells hold +Inf.
type DistanceMap struct {
	Width, Height int
	Dist          []float32
}

func newDistanceMap(width, height int) *DistanceMap {
	d := &DistanceMap{Width: width, Height: height, Dist: make([]float32, width*height)}
	for i := range d.Dist {
		d.Dist[i] = float32(math.Inf(1))
	}
	return d
}

func (d *DistanceMap) index(x, y int) int { return y*d.Width + x }

// At returns the distance at (x, y), or +Inf if out of bounds or
// unreached.
func (d *DistanceMap) At(x, y int) float32 {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return float32(math.Inf(1))
	}
	return d.Dist[d.index(x, y)]
}

func (d *DistanceMap) set(x, y int, v float32) {
	d.Dist[d.index(x, y)] = v
}

// Dijkstra computes a DistanceMap over grid from sources, following cells
// for which walkable returns true, capped at maxDistance (use +Inf for no
// cap).
func Dijkstra(grid *geom.Grid, sources []geom.Point, walkable func(geom.CellType) bool, maxDistance float64) *DistanceMap {
	dm := newDistanceMap(grid.Width, grid.Height)
	heap := geom.NewArrayMinHeap(grid.Width * grid.Height / 4)

	for _, s := range sources {
		if !walkable(grid.Get(s.X, s.Y)) {
			continue
		}
		dm.set(s.X, s.Y, 0)
		heap.Push(s.X, s.Y, 0)
	}

	type offset struct {
		dx, dy int
		cost   float64
	}
	offsets := [8]offset{
		{-1, 0, 1}, {1, 0, 1}, {0, -1, 1}, {0, 1, 1},
		{-1, -1, sqrt2}, {1, -1, sqrt2}, {-1, 1, sqrt2}, {1, 1, sqrt2},
	}

	for heap.Len() > 0 {
		x, y, dist := heap.Pop()
		if dist > float64(dm.At(x, y)) {
			continue // stale entry, a shorter path was already recorded
		}
		for _, off := range offsets {
			nx, ny := x+off.dx, y+off.dy
			if nx < 0 || nx >= grid.Width || ny < 0 || ny >= grid.Height {
				continue
			}
			if !walkable(grid.Get(nx, ny)) {
				continue
			}
			nd := dist + off.cost
			if nd > maxDistance {
				continue
			}
			if nd < float64(dm.At(nx, ny)) {
				dm.set(nx, ny, float32(nd))
				heap.Push(nx, ny, nd)
			}
		}
	}
	return dm
}

// FindFurthestPoint returns the reachable cell with the maximum distance
// in dm, and whether any reachable cell existed. Ties are broken by scan
// order (row-major).
func (d *DistanceMap) FindFurthestPoint() (geom.Point, bool) {
	best := geom.Point{}
	bestDist := float32(-1)
	found := false
	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			v := d.At(x, y)
			if math.IsInf(float64(v), 1) {
				continue
			}
			if v > bestDist {
				bestDist = v
				best = geom.Point{X: x, Y: y}
				found = true
			}
		}
	}
	return best, found
}

// GetPointsInRange returns every reachable cell whose distance lies in
// [min, max], in row-major scan order.
func (d *DistanceMap) GetPointsInRange(min, max float64) []geom.Point {
	var pts []geom.Point
	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			v := float64(d.At(x, y))
			if math.IsInf(v, 1) {
				continue
			}
			if v >= min && v <= max {
				pts = append(pts, geom.Point{X: x, Y: y})
			}
		}
	}
	return pts
}

// GetDownhillDirection returns the 8-neighbor of (x,y) with the lowest
// distance, and whether a strictly lower neighbor was found.
func (d *DistanceMap) GetDownhillDirection(x, y int) (geom.Point, bool) {
	return d.extremeNeighbor(x, y, true)
}

// GetUphillDirection returns the 8-neighbor of (x,y) with the highest
// finite distance, and whether a strictly higher neighbor was found.
func (d *DistanceMap) GetUphillDirection(x, y int) (geom.Point, bool) {
	return d.extremeNeighbor(x, y, false)
}

func (d *DistanceMap) extremeNeighbor(x, y int, downhill bool) (geom.Point, bool) {
	cur := d.At(x, y)
	best := cur
	bestPt := geom.Point{X: x, Y: y}
	found := false
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			v := d.At(nx, ny)
			if math.IsInf(float64(v), 1) {
				continue
			}
			if (downhill && v < best) || (!downhill && v > best) {
				best = v
				bestPt = geom.Point{X: nx, Y: ny}
				found = true
			}
		}
	}
	return bestPt, found
}

// FleeMap derives a distance field that gradients away from dm's sources:
// every finite distance is negated, then iteratively smoothed so no cell
// exceeds its lowest neighbor by more than 1, which keeps the flee
// gradient locally monotonic for AI "move away" behavior. Iterates until
// convergence or a bound of 2*max(width,height), used as both a safety
// cap and the expected convergence horizon.
func FleeMap(dm *DistanceMap) *DistanceMap {
	out := newDistanceMap(dm.Width, dm.Height)
	for i, v := range dm.Dist {
		if math.IsInf(float64(v), 1) {
			continue
		}
		out.Dist[i] = -v
	}

	limit := 2 * maxInt(dm.Width, dm.Height)
	for iter := 0; iter < limit; iter++ {
		changed := false
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				v := out.At(x, y)
				if math.IsInf(float64(v), 1) {
					continue
				}
				lowest := v
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						nv := out.At(x+dx, y+dy)
						if !math.IsInf(float64(nv), 1) && nv < lowest {
							lowest = nv
						}
					}
				}
				if v > lowest+1 {
					out.set(x, y, lowest+1)
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
