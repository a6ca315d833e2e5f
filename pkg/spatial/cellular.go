package spatial

import (
	"github.com/rogue3/dungeonforge/pkg/geom"
	"github.com/rogue3/dungeonforge/pkg/rng"
)

// InitializeNoise fills the interior of grid with Floor at probability
// fillRatio (Wall otherwise) and forces the border to Wall, per the
// cellular automaton's initial condition.
func InitializeNoise(grid *geom.Grid, fillRatio float64, stream *rng.RNG) {
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if x == 0 || y == 0 || x == grid.Width-1 || y == grid.Height-1 {
				grid.Set(x, y, geom.Wall)
				continue
			}
			if stream.Float64() < fillRatio {
				grid.Set(x, y, geom.Floor)
			} else {
				grid.Set(x, y, geom.Wall)
			}
		}
	}
}

// RunCellularAutomata performs `iterations` full double-buffered sweeps
// over grid using the survival/birth thresholds, returning the final
// grid. Each sweep reads from one buffer and writes into the other so
// that all cells in a sweep see the same prior generation.
func RunCellularAutomata(grid *geom.Grid, survivalMin, birthMin, iterations int) *geom.Grid {
	a := grid
	b := geom.NewGrid(grid.Width, grid.Height, geom.Wall)
	for i := 0; i < iterations; i++ {
		a.ApplyCellularAutomataInto(survivalMin, birthMin, b)
		a, b = b, a
	}
	return a
}
