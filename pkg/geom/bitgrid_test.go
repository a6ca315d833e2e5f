package geom

import "testing"

func TestBitGridSetGetClear(t *testing.T) {
	b := NewBitGrid(10, 10)
	b.Set(3, 4)
	if !b.Get(3, 4) {
		t.Fatal("expected bit set")
	}
	b.Clear(3, 4)
	if b.Get(3, 4) {
		t.Fatal("expected bit cleared")
	}
	if b.Get(-1, -1) {
		t.Fatal("out of bounds read must be false")
	}
	b.Set(-1, -1) // must not panic
}

func TestBitGridCountMasksTrailing(t *testing.T) {
	b := NewBitGrid(5, 5) // 25 bits, 1 word of 32 bits
	b.Fill()
	if got := b.Count(); got != 25 {
		t.Errorf("Count() = %d, want 25", got)
	}
}

func TestBitGridPoolClearsState(t *testing.T) {
	bg := AcquireBitGrid(8, 8)
	bg.Set(1, 1)
	ReleaseBitGrid(bg)

	reused := AcquireBitGrid(8, 8)
	if reused.Get(1, 1) {
		t.Fatal("pooled BitGrid leaked prior state")
	}
}

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind(5)
	if !uf.Union(0, 1) {
		t.Fatal("expected union to merge")
	}
	if uf.Union(0, 1) {
		t.Fatal("expected second union of same set to be no-op")
	}
	if !uf.Connected(0, 1) {
		t.Fatal("0 and 1 should be connected")
	}
	if uf.Connected(0, 2) {
		t.Fatal("0 and 2 should not be connected")
	}
	uf.Union(1, 2)
	if !uf.Connected(0, 2) {
		t.Fatal("0 and 2 should be transitively connected")
	}
}

func TestMinHeapOrdering(t *testing.T) {
	h := NewMinHeap(4)
	h.Push(HeapEntry{X: 0, Y: 0, Dist: 3})
	h.Push(HeapEntry{X: 1, Y: 0, Dist: 1})
	h.Push(HeapEntry{X: 2, Y: 0, Dist: 2})
	var order []float64
	for h.Len() > 0 {
		order = append(order, h.Pop().Dist)
	}
	want := []float64{1, 2, 3}
	for i, d := range want {
		if order[i] != d {
			t.Fatalf("order[%d] = %v, want %v", i, order[i], d)
		}
	}
}

func TestArrayMinHeapOrdering(t *testing.T) {
	h := NewArrayMinHeap(4)
	h.Push(0, 0, 5)
	h.Push(1, 1, 0.5)
	h.Push(2, 2, 2.5)
	_, _, d1 := h.Pop()
	_, _, d2 := h.Pop()
	_, _, d3 := h.Pop()
	if d1 != 0.5 || d2 != 2.5 || d3 != 5 {
		t.Fatalf("pop order = %v, %v, %v; want 0.5, 2.5, 5", d1, d2, d3)
	}
}
