package spatial

import "github.com/rogue3/dungeonforge/pkg/geom"

// Region is a maximal 4-connected set of cells matching a target CellType,
// as produced by ExtractRegions.
type Region struct {
	Cells []geom.Point
}

// Size returns the number of cells in the region.
func (r Region) Size() int { return len(r.Cells) }

// ringQueue is a FIFO ring buffer sized for worst-case grid occupancy,
// preferred over a boxed slice-of-pointers queue for BFS: flood fill and
// connectivity checks only ever need push/pop, never priority order.
type ringQueue struct {
	buf        []geom.Point
	head, size int
}

func newRingQueue(capacity int) *ringQueue {
	if capacity < 16 {
		capacity = 16
	}
	return &ringQueue{buf: make([]geom.Point, capacity)}
}

func (q *ringQueue) push(p geom.Point) {
	if q.size == len(q.buf) {
		grown := make([]geom.Point, len(q.buf)*2)
		for i := 0; i < q.size; i++ {
			grown[i] = q.buf[(q.head+i)%len(q.buf)]
		}
		q.buf = grown
		q.head = 0
	}
	q.buf[(q.head+q.size)%len(q.buf)] = p
	q.size++
}

func (q *ringQueue) pop() geom.Point {
	p := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return p
}

func (q *ringQueue) empty() bool { return q.size == 0 }

// ExtractRegions enumerates every maximal 4-connected region of cells
// matching target in grid, via flood fill with a pooled visited BitGrid.
// Region order follows scan order of each region's first-visited cell.
func ExtractRegions(grid *geom.Grid, target geom.CellType) []Region {
	visited := geom.AcquireBitGrid(grid.Width, grid.Height)
	defer geom.ReleaseBitGrid(visited)

	var regions []Region
	q := newRingQueue(grid.Width * grid.Height / 4)

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if grid.Get(x, y) != target || visited.Get(x, y) {
				continue
			}
			region := Region{}
			visited.Set(x, y)
			q.push(geom.Point{X: x, Y: y})
			for !q.empty() {
				p := q.pop()
				region.Cells = append(region.Cells, p)
				for _, n := range fourNeighbors(p) {
					if grid.Get(n.X, n.Y) == target && !visited.Get(n.X, n.Y) {
						visited.Set(n.X, n.Y)
						q.push(n)
					}
				}
			}
			regions = append(regions, region)
		}
	}
	return regions
}

func fourNeighbors(p geom.Point) [4]geom.Point {
	return [4]geom.Point{
		{X: p.X - 1, Y: p.Y},
		{X: p.X + 1, Y: p.Y},
		{X: p.X, Y: p.Y - 1},
		{X: p.X, Y: p.Y + 1},
	}
}

// IsConnected4 reports whether every cell in grid matching target is
// 4-connected to every other such cell.
func IsConnected4(grid *geom.Grid, target geom.CellType) bool {
	regions := ExtractRegions(grid, target)
	return len(regions) <= 1
}
