package spatial

import (
	"math"
	"sort"

	"github.com/rogue3/dungeonforge/pkg/geom"
)

// WeightedEdge is an Edge annotated with its Euclidean weight.
type WeightedEdge struct {
	Edge
	Weight float64
}

// BuildMST runs Kruskal's algorithm over edges (typically a Delaunay
// triangulation) with weight = Euclidean distance between the
// corresponding points in pts. Ties are broken by (min(a,b), max(a,b))
// lexicographic order to keep the result stable across runs. Terminates
// once the tree has len(pts)-1 edges.
func BuildMST(pts []geom.Point, edges []Edge) []Edge {
	if len(pts) <= 1 {
		return nil
	}

	weighted := make([]WeightedEdge, len(edges))
	for i, e := range edges {
		weighted[i] = WeightedEdge{Edge: e, Weight: euclidean(pts[e.A], pts[e.B])}
	}
	sort.Slice(weighted, func(i, j int) bool {
		if weighted[i].Weight != weighted[j].Weight {
			return weighted[i].Weight < weighted[j].Weight
		}
		if weighted[i].A != weighted[j].A {
			return weighted[i].A < weighted[j].A
		}
		return weighted[i].B < weighted[j].B
	})

	uf := geom.NewUnionFind(len(pts))
	var mst []Edge
	for _, we := range weighted {
		if len(mst) == len(pts)-1 {
			break
		}
		if uf.Union(we.A, we.B) {
			mst = append(mst, we.Edge)
		}
	}
	return mst
}

func euclidean(a, b geom.Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
