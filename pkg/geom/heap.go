package geom

// HeapEntry is a boxed record used by the general-purpose min-heap
// variant. Dijkstra and flood-fill ordering both use the {x,y,dist} shape.
type HeapEntry struct {
	X, Y int
	Dist float64
}

// MinHeap is a binary min-heap of HeapEntry ordered by Dist, implemented
// as a slice-backed array heap (no container/heap indirection, so Push/Pop
// avoid the interface-boxing overhead of heap.Interface).
type MinHeap struct {
	data []HeapEntry
}

// NewMinHeap returns an empty heap with capacity hint n.
func NewMinHeap(n int) *MinHeap {
	return &MinHeap{data: make([]HeapEntry, 0, n)}
}

// Len returns the number of entries in the heap.
func (h *MinHeap) Len() int { return len(h.data) }

// Push inserts e into the heap.
func (h *MinHeap) Push(e HeapEntry) {
	h.data = append(h.data, e)
	h.siftUp(len(h.data) - 1)
}

// Pop removes and returns the minimum-distance entry. It panics if the
// heap is empty.
func (h *MinHeap) Pop() HeapEntry {
	top := h.data[0]
	last := len(h.data) - 1
	h.data[0] = h.data[last]
	h.data = h.data[:last]
	if len(h.data) > 0 {
		h.siftDown(0)
	}
	return top
}

// Reset empties the heap for reuse without releasing its backing array.
func (h *MinHeap) Reset() {
	h.data = h.data[:0]
}

func (h *MinHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.data[parent].Dist <= h.data[i].Dist {
			break
		}
		h.data[parent], h.data[i] = h.data[i], h.data[parent]
		i = parent
	}
}

func (h *MinHeap) siftDown(i int) {
	n := len(h.data)
	for {
		left := 2*i + 1
		right := 2*i + 2
		smallest := i
		if left < n && h.data[left].Dist < h.data[smallest].Dist {
			smallest = left
		}
		if right < n && h.data[right].Dist < h.data[smallest].Dist {
			smallest = right
		}
		if smallest == i {
			return
		}
		h.data[i], h.data[smallest] = h.data[smallest], h.data[i]
		i = smallest
	}
}

// ArrayMinHeap is the typed-arrays variant: x, y, and dist are stored in
// three parallel slices for cache locality, avoiding the struct padding
// and pointer chasing of MinHeap's []HeapEntry. Prefer this variant for
// hot Dijkstra loops over large grids.
type ArrayMinHeap struct {
	xs, ys []int
	dists  []float64
}

// NewArrayMinHeap returns an empty heap with capacity hint n.
func NewArrayMinHeap(n int) *ArrayMinHeap {
	return &ArrayMinHeap{
		xs:    make([]int, 0, n),
		ys:    make([]int, 0, n),
		dists: make([]float64, 0, n),
	}
}

// Len returns the number of entries in the heap.
func (h *ArrayMinHeap) Len() int { return len(h.dists) }

// Push inserts (x, y, dist) into the heap.
func (h *ArrayMinHeap) Push(x, y int, dist float64) {
	h.xs = append(h.xs, x)
	h.ys = append(h.ys, y)
	h.dists = append(h.dists, dist)
	h.siftUp(len(h.dists) - 1)
}

// Pop removes and returns the minimum-distance entry. It panics if the
// heap is empty.
func (h *ArrayMinHeap) Pop() (x, y int, dist float64) {
	x, y, dist = h.xs[0], h.ys[0], h.dists[0]
	last := len(h.dists) - 1
	h.xs[0], h.ys[0], h.dists[0] = h.xs[last], h.ys[last], h.dists[last]
	h.xs = h.xs[:last]
	h.ys = h.ys[:last]
	h.dists = h.dists[:last]
	if len(h.dists) > 0 {
		h.siftDown(0)
	}
	return
}

func (h *ArrayMinHeap) swap(i, j int) {
	h.xs[i], h.xs[j] = h.xs[j], h.xs[i]
	h.ys[i], h.ys[j] = h.ys[j], h.ys[i]
	h.dists[i], h.dists[j] = h.dists[j], h.dists[i]
}

func (h *ArrayMinHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.dists[parent] <= h.dists[i] {
			break
		}
		h.swap(parent, i)
		i = parent
	}
}

func (h *ArrayMinHeap) siftDown(i int) {
	n := len(h.dists)
	for {
		left := 2*i + 1
		right := 2*i + 2
		smallest := i
		if left < n && h.dists[left] < h.dists[smallest] {
			smallest = left
		}
		if right < n && h.dists[right] < h.dists[smallest] {
			smallest = right
		}
		if smallest == i {
			return
		}
		h.swap(i, smallest)
		i = smallest
	}
}
