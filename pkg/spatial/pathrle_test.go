package spatial

import (
	"testing"

	"github.com/rogue3/dungeonforge/pkg/geom"
	"pgregory.net/rapid"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	path := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}
	cp, err := CompressPath(path)
	if err != nil {
		t.Fatalf("CompressPath: %v", err)
	}
	got := DecompressPath(cp)
	if len(got) != len(path) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(path))
	}
	for i := range path {
		if got[i] != path[i] {
			t.Fatalf("point %d: got %v, want %v", i, got[i], path[i])
		}
	}
}

func TestCompressPathRejectsNonAdjacentStep(t *testing.T) {
	path := []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 5}}
	if _, err := CompressPath(path); err == nil {
		t.Fatal("expected error for non-adjacent step")
	}
}

// TestPathRLERoundTripProperty exercises spec.md's "∀ path of grid-adjacent
// points: decompress(compress(p)) == p".
func TestPathRLERoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 60).Draw(t, "n")
		start := geom.Point{
			X: rapid.IntRange(-1000, 1000).Draw(t, "startX"),
			Y: rapid.IntRange(-1000, 1000).Draw(t, "startY"),
		}
		path := []geom.Point{start}
		cur := start
		for i := 0; i < n; i++ {
			d := Direction(rapid.IntRange(0, 7).Draw(t, "dir"))
			delta := directionDeltas[d]
			cur = geom.Point{X: cur.X + delta.X, Y: cur.Y + delta.Y}
			path = append(path, cur)
		}

		cp, err := CompressPath(path)
		if err != nil {
			t.Fatalf("CompressPath: %v", err)
		}
		got := DecompressPath(cp)
		if len(got) != len(path) {
			t.Fatalf("length mismatch: got %d, want %d", len(got), len(path))
		}
		for i := range path {
			if got[i] != path[i] {
				t.Fatalf("mismatch at %d: got %v want %v", i, got[i], path[i])
			}
		}
	})
}
