package spatial

import (
	"math"
	"sort"

	"github.com/rogue3/dungeonforge/pkg/geom"
	"github.com/rogue3/dungeonforge/pkg/rng"
)

// maxTriangulationPoints bounds the input size Triangulate accepts; larger
// inputs panic.
const maxTriangulationPoints = 1 << 20

// Edge is an undirected pair of point indices into the slice passed to
// Triangulate or BuildMST.
type Edge struct {
	A, B int
}

type triangle struct {
	a, b, c int // point indices, including super-triangle vertices -3, -2, -1
}

// Triangulate computes the Delaunay triangulation of pts via incremental
// Bowyer-Watson insertion, returning the undirected edge set with each
// edge's endpoints in ascending index order and duplicates removed.
// Duplicate points are kept but nudged by a sub-unit jitter drawn from
// stream; if all points are exactly collinear, every point gets its own
// jitter to break the degeneracy.
func Triangulate(pts []geom.Point, stream *rng.RNG) []Edge {
	if len(pts) > maxTriangulationPoints {
		panic("spatial: too many points for Triangulate")
	}
	if len(pts) < 3 {
		return completeGraph(len(pts))
	}

	work := dedupeAndJitter(pts, stream)

	minX, minY, maxX, maxY := bounds(work)
	dx, dy := maxX-minX, maxY-minY
	deltaMax := math.Max(dx, dy) * 10
	midX, midY := (minX+maxX)/2, (minY+maxY)/2

	// Super-triangle vertices use negative indices -1, -2, -3 so they
	// never collide with real point indices.
	superA := point{midX - 2*deltaMax, midY - deltaMax}
	superB := point{midX, midY + 2*deltaMax}
	superC := point{midX + 2*deltaMax, midY - deltaMax}
	all := append([]point{}, work...)
	all = append(all, superA, superB, superC)
	sA, sB, sC := len(work), len(work)+1, len(work)+2

	triangles := []triangle{{sA, sB, sC}}

	for i := range work {
		var badTriangles []int
		for ti, tr := range triangles {
			if inCircumcircle(all[tr.a], all[tr.b], all[tr.c], all[i]) {
				badTriangles = append(badTriangles, ti)
			}
		}

		boundary := polygonBoundary(triangles, badTriangles)

		keep := triangles[:0:0]
		badSet := make(map[int]bool, len(badTriangles))
		for _, bi := range badTriangles {
			badSet[bi] = true
		}
		for ti, tr := range triangles {
			if !badSet[ti] {
				keep = append(keep, tr)
			}
		}
		triangles = keep

		for _, e := range boundary {
			triangles = append(triangles, triangle{e.A, e.B, i})
		}
	}

	var finalTriangles []triangle
	for _, tr := range triangles {
		if tr.a >= sA || tr.b >= sA || tr.c >= sA {
			continue
		}
		finalTriangles = append(finalTriangles, tr)
	}

	return edgesFromTriangles(finalTriangles)
}

type point struct{ x, y float64 }

func bounds(pts []point) (minX, minY, maxX, maxY float64) {
	minX, minY = pts[0].x, pts[0].y
	maxX, maxY = pts[0].x, pts[0].y
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.x)
		minY = math.Min(minY, p.y)
		maxX = math.Max(maxX, p.x)
		maxY = math.Max(maxY, p.y)
	}
	return
}

func dedupeAndJitter(pts []geom.Point, stream *rng.RNG) []point {
	seen := make(map[geom.Point]bool, len(pts))
	out := make([]point, 0, len(pts))
	for _, p := range pts {
		x, y := float64(p.X), float64(p.Y)
		if seen[p] {
			// Duplicate coordinate: nudge by a sub-unit jitter so the
			// triangulation sees distinct points without perturbing the
			// caller-visible integer grid position.
			x += (stream.Float64() - 0.5) * 1e-3
			y += (stream.Float64() - 0.5) * 1e-3
		}
		seen[p] = true
		out = append(out, point{x, y})
	}
	if allCollinear(out) {
		for i := range out {
			out[i].x += (stream.Float64() - 0.5) * 1e-3
			out[i].y += (stream.Float64() - 0.5) * 1e-3
		}
	}
	return out
}

func allCollinear(pts []point) bool {
	if len(pts) < 3 {
		return true
	}
	x0, y0 := pts[0].x, pts[0].y
	x1, y1 := pts[1].x, pts[1].y
	for _, p := range pts[2:] {
		cross := (x1-x0)*(p.y-y0) - (y1-y0)*(p.x-x0)
		if math.Abs(cross) > 1e-9 {
			return false
		}
	}
	return true
}

func inCircumcircle(a, b, c, p point) bool {
	ax, ay := a.x-p.x, a.y-p.y
	bx, by := b.x-p.x, b.y-p.y
	cx, cy := c.x-p.x, c.y-p.y

	det := (ax*ax+ay*ay)*(bx*cy-cx*by) -
		(bx*bx+by*by)*(ax*cy-cx*ay) +
		(cx*cx+cy*cy)*(ax*by-bx*ay)

	// Orientation of a,b,c determines the sign convention for "inside".
	orient := (b.x-a.x)*(c.y-a.y) - (b.y-a.y)*(c.x-a.x)
	if orient > 0 {
		return det > 0
	}
	return det < 0
}

// polygonBoundary collects the boundary edges of the union of bad
// triangles: an edge shared by two bad triangles is interior and is
// counted twice; only edges appearing exactly once survive, in O(k) for k
// bad triangles.
func polygonBoundary(triangles []triangle, bad []int) []Edge {
	count := make(map[Edge]int)
	order := make([]Edge, 0, len(bad)*3)
	addEdge := func(a, b int) {
		e := Edge{A: a, B: b}
		if e.A > e.B {
			e.A, e.B = e.B, e.A
		}
		if count[e] == 0 {
			order = append(order, e)
		}
		count[e]++
	}
	for _, bi := range bad {
		tr := triangles[bi]
		addEdge(tr.a, tr.b)
		addEdge(tr.b, tr.c)
		addEdge(tr.c, tr.a)
	}
	var boundary []Edge
	for _, e := range order {
		if count[e] == 1 {
			boundary = append(boundary, e)
		}
	}
	return boundary
}

func edgesFromTriangles(triangles []triangle) []Edge {
	seen := make(map[Edge]bool)
	var edges []Edge
	add := func(a, b int) {
		e := Edge{A: a, B: b}
		if e.A > e.B {
			e.A, e.B = e.B, e.A
		}
		if !seen[e] {
			seen[e] = true
			edges = append(edges, e)
		}
	}
	for _, tr := range triangles {
		add(tr.a, tr.b)
		add(tr.b, tr.c)
		add(tr.c, tr.a)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})
	return edges
}

func completeGraph(n int) []Edge {
	var edges []Edge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			edges = append(edges, Edge{A: i, B: j})
		}
	}
	return edges
}
