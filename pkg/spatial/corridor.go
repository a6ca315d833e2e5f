package spatial

import "github.com/rogue3/dungeonforge/pkg/geom"

// CarveLShape carves two axis-aligned segments joined at a corner between
// from and to, returning the ordered path of carved cells (inclusive of
// both endpoints). horizontalFirst selects whether the horizontal or
// vertical leg is carved first; the corner cell is shared by both legs.
// Width w is realized as a band of halfWidth = w/2 cells on each side of
// the centerline; width 1 carves exactly the centerline.
func CarveLShape(grid *geom.Grid, from, to geom.Point, width int, horizontalFirst bool) []geom.Point {
	var corner geom.Point
	if horizontalFirst {
		corner = geom.Point{X: to.X, Y: from.Y}
	} else {
		corner = geom.Point{X: from.X, Y: to.Y}
	}

	var path []geom.Point
	path = append(path, walkAxis(grid, from, corner, width)...)
	rest := walkAxis(grid, corner, to, width)
	if len(rest) > 0 {
		rest = rest[1:] // corner already included
	}
	path = append(path, rest...)
	return path
}

// walkAxis carves a straight (horizontal or vertical) band from a to b,
// which must share exactly one coordinate, and returns the centerline
// path.
func walkAxis(grid *geom.Grid, a, b geom.Point, width int) []geom.Point {
	halfWidth := width / 2
	var path []geom.Point
	if a.Y == b.Y {
		lo, hi := a.X, b.X
		if lo > hi {
			lo, hi = hi, lo
		}
		for x := lo; x <= hi; x++ {
			carveBand(grid, x, a.Y, halfWidth, true)
			path = append(path, geom.Point{X: x, Y: a.Y})
		}
		if a.X > b.X {
			reverse(path)
		}
	} else {
		lo, hi := a.Y, b.Y
		if lo > hi {
			lo, hi = hi, lo
		}
		for y := lo; y <= hi; y++ {
			carveBand(grid, a.X, y, halfWidth, false)
			path = append(path, geom.Point{X: a.X, Y: y})
		}
		if a.Y > b.Y {
			reverse(path)
		}
	}
	return path
}

// carveBand carves halfWidth cells on each side of (cx, cy) orthogonal to
// the direction of travel (perpendicular to a horizontal run is vertical,
// and vice versa).
func carveBand(grid *geom.Grid, cx, cy, halfWidth int, horizontalRun bool) {
	grid.Set(cx, cy, geom.Floor)
	for i := 1; i <= halfWidth; i++ {
		if horizontalRun {
			grid.Set(cx, cy-i, geom.Floor)
			grid.Set(cx, cy+i, geom.Floor)
		} else {
			grid.Set(cx-i, cy, geom.Floor)
			grid.Set(cx+i, cy, geom.Floor)
		}
	}
}

func reverse(pts []geom.Point) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

// CarveBresenham rasterizes a straight line from a to b using standard
// integer Bresenham stepping, carving a band of width cells orthogonal to
// the local step direction at each point (same width-expansion rule as
// CarveLShape).
func CarveBresenham(grid *geom.Grid, a, b geom.Point, width int) []geom.Point {
	halfWidth := width / 2
	var path []geom.Point

	x0, y0 := a.X, a.Y
	x1, y1 := b.X, b.Y
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 >= x1 {
		sx = -1
	}
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		horizontalRun := absInt(dx) >= absInt(dy)
		carveBand(grid, x, y, halfWidth, horizontalRun)
		path = append(path, geom.Point{X: x, Y: y})
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
	return path
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
