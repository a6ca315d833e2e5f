package geom

// Grid owns a contiguous byte buffer of length Width*Height, row-major, one
// byte per cell. It is the working surface most passes mutate in place.
type Grid struct {
	Width, Height int
	cells         []byte
}

// NewGrid allocates a grid of the given dimensions, every cell set to fill.
func NewGrid(width, height int, fill CellType) *Grid {
	g := &Grid{
		Width:  width,
		Height: height,
		cells:  make([]byte, width*height),
	}
	if fill != Floor {
		for i := range g.cells {
			g.cells[i] = byte(fill)
		}
	}
	return g
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Get returns the cell type at (x, y). Out-of-bounds coordinates return
// Wall, so neighbor-counting code never needs a bounds branch per call.
func (g *Grid) Get(x, y int) CellType {
	if !g.inBounds(x, y) {
		return Wall
	}
	return CellType(g.cells[y*g.Width+x])
}

// Set writes a cell type at (x, y). Out-of-bounds writes are a no-op.
func (g *Grid) Set(x, y int, t CellType) {
	if !g.inBounds(x, y) {
		return
	}
	g.cells[y*g.Width+x] = byte(t)
}

// Index returns the flat row-major index of (x, y), or -1 if out of bounds.
func (g *Grid) Index(x, y int) int {
	if !g.inBounds(x, y) {
		return -1
	}
	return y*g.Width + x
}

// Bytes returns the grid's underlying buffer. Callers must not retain a
// reference past the pass boundary that produced it; use Clone to obtain
// an owned copy.
func (g *Grid) Bytes() []byte {
	return g.cells
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	cp := &Grid{Width: g.Width, Height: g.Height, cells: make([]byte, len(g.cells))}
	copy(cp.cells, g.cells)
	return cp
}

// FillRect sets every cell within r (clipped to grid bounds) to t.
func (g *Grid) FillRect(r Rect, t CellType) {
	x0 := max(0, r.X)
	y0 := max(0, r.Y)
	x1 := min(g.Width, r.X+r.Width)
	y1 := min(g.Height, r.Y+r.Height)
	for y := y0; y < y1; y++ {
		row := y * g.Width
		for x := x0; x < x1; x++ {
			g.cells[row+x] = byte(t)
		}
	}
}

// FillBorder sets the outermost ring of cells to t.
func (g *Grid) FillBorder(t CellType) {
	for x := 0; x < g.Width; x++ {
		g.Set(x, 0, t)
		g.Set(x, g.Height-1, t)
	}
	for y := 0; y < g.Height; y++ {
		g.Set(0, y, t)
		g.Set(g.Width-1, y, t)
	}
}

// CountNeighbors8 counts the eight surrounding cells matching t, treating
// out-of-bounds neighbors as Wall.
func (g *Grid) CountNeighbors8(x, y int, t CellType) int {
	count := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if g.Get(x+dx, y+dy) == t {
				count++
			}
		}
	}
	return count
}

// CountNeighbors4 counts the four cardinal neighbors matching t, treating
// out-of-bounds neighbors as Wall.
func (g *Grid) CountNeighbors4(x, y int, t CellType) int {
	count := 0
	if g.Get(x-1, y) == t {
		count++
	}
	if g.Get(x+1, y) == t {
		count++
	}
	if g.Get(x, y-1) == t {
		count++
	}
	if g.Get(x, y+1) == t {
		count++
	}
	return count
}

// ApplyCellularAutomataInto runs one cellular-automata sweep reading from g
// and writing into dst, which must have the same dimensions. Only interior
// cells (1..Width-2, 1..Height-2) are evaluated without bounds checks;
// after the sweep the border of dst is unconditionally set to Wall, since
// borders are invariant walls after any CA step.
//
// A Wall cell survives (remains Wall) when its 8-neighbor wall count is at
// least survivalMin, otherwise it becomes Floor. A Floor cell becomes Wall
// when its 8-neighbor wall count is at least birthMin, otherwise it stays
// Floor.
func (g *Grid) ApplyCellularAutomataInto(survivalMin, birthMin int, dst *Grid) {
	if dst.Width != g.Width || dst.Height != g.Height {
		panic("geom: ApplyCellularAutomataInto dimension mismatch")
	}
	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			walls := g.countNeighbors8Unchecked(x, y, Wall)
			cur := g.Get(x, y)
			var next CellType
			if cur == Wall {
				if walls >= survivalMin {
					next = Wall
				} else {
					next = Floor
				}
			} else {
				if walls >= birthMin {
					next = Wall
				} else {
					next = Floor
				}
			}
			dst.cells[y*dst.Width+x] = byte(next)
		}
	}
	dst.FillBorder(Wall)
}

// countNeighbors8Unchecked assumes (x, y) is an interior cell, so all
// eight neighbors lie inside the buffer and are read without bounds checks.
func (g *Grid) countNeighbors8Unchecked(x, y int, t CellType) int {
	count := 0
	b := byte(t)
	for dy := -1; dy <= 1; dy++ {
		row := (y + dy) * g.Width
		for dx := -1; dx <= 1; dx++ {
			if (dx != 0 || dy != 0) && g.cells[row+x+dx] == b {
				count++
			}
		}
	}
	return count
}
