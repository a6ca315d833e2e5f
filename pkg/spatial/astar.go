package spatial

import "github.com/rogue3/dungeonforge/pkg/geom"

// AStarOptions configures the A* corridor router.
type AStarOptions struct {
	Width        int     // corridor band width (see CarveLShape)
	FloorPenalty float64 // extra cost for routing through existing Floor cells
	Diagonal     bool    // 8-connected when true, 4-connected otherwise
}

// CarveAStar routes from a to b over grid using cost 1 for Wall cells and
// FloorPenalty for existing Floor cells (discouraging unintended
// corridor-on-corridor crossings), then carves the resulting path. Falls
// back to CarveLShape if no path exists.
func CarveAStar(grid *geom.Grid, a, b geom.Point, opts AStarOptions) []geom.Point {
	path, ok := findAStarPath(grid, a, b, opts)
	if !ok {
		return CarveLShape(grid, a, b, opts.Width, true)
	}
	halfWidth := opts.Width / 2
	for i, p := range path {
		horizontalRun := true
		if i+1 < len(path) {
			horizontalRun = path[i+1].Y == p.Y
		} else if i > 0 {
			horizontalRun = path[i-1].Y == p.Y
		}
		carveBand(grid, p.X, p.Y, halfWidth, horizontalRun)
	}
	return path
}

type aStarKey struct{ x, y int }

func findAStarPath(grid *geom.Grid, start, goal geom.Point, opts AStarOptions) ([]geom.Point, bool) {
	type key = aStarKey

	open := geom.NewArrayMinHeap(64)
	open.Push(start.X, start.Y, heuristic(start, goal))

	gScore := map[key]float64{{start.X, start.Y}: 0}
	cameFrom := map[key]key{}
	closed := map[key]bool{}

	neighbors4 := [4]geom.Point{{X: -1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: -1}, {X: 0, Y: 1}}
	neighbors8 := [8]geom.Point{
		{X: -1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: -1}, {X: 0, Y: 1},
		{X: -1, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1},
	}

	for open.Len() > 0 {
		x, y, _ := open.Pop()
		cur := key{x, y}
		if closed[cur] {
			continue
		}
		closed[cur] = true
		if x == goal.X && y == goal.Y {
			return reconstructPath(cameFrom, cur, start), true
		}

		var offsets []geom.Point
		if opts.Diagonal {
			offsets = neighbors8[:]
		} else {
			offsets = neighbors4[:]
		}
		for _, off := range offsets {
			nx, ny := x+off.X, y+off.Y
			if nx < 0 || nx >= grid.Width || ny < 0 || ny >= grid.Height {
				continue
			}
			step := 1.0
			if off.X != 0 && off.Y != 0 {
				step = sqrt2
			}
			cost := step
			if grid.Get(nx, ny) == geom.Floor {
				cost += opts.FloorPenalty
			}
			tentative := gScore[cur] + cost
			nk := key{nx, ny}
			if existing, ok := gScore[nk]; !ok || tentative < existing {
				gScore[nk] = tentative
				cameFrom[nk] = cur
				f := tentative + heuristic(geom.Point{X: nx, Y: ny}, goal)
				open.Push(nx, ny, f)
			}
		}
	}
	return nil, false
}

func reconstructPath(cameFrom map[aStarKey]aStarKey, cur aStarKey, start geom.Point) []geom.Point {
	var path []geom.Point
	c := cur
	sKey := aStarKey{start.X, start.Y}
	for {
		path = append(path, geom.Point{X: c.x, Y: c.y})
		if c == sKey {
			break
		}
		prev, ok := cameFrom[c]
		if !ok {
			break
		}
		c = prev
	}
	reverse(path)
	return path
}

func heuristic(a, b geom.Point) float64 {
	dx := float64(absInt(a.X - b.X))
	dy := float64(absInt(a.Y - b.Y))
	if dx > dy {
		return dx
	}
	return dy
}
