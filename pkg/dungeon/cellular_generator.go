package dungeon

import (
	"context"
	"sort"

	"github.com/rogue3/dungeonforge/pkg/geom"
	"github.com/rogue3/dungeonforge/pkg/passes"
	"github.com/rogue3/dungeonforge/pkg/pipeline"
	"github.com/rogue3/dungeonforge/pkg/rng"
	"github.com/rogue3/dungeonforge/pkg/spatial"
)

// maxCavernSizeRatio caps any single cavern region at 80% of the grid's
// total cells; a cellular run occasionally produces one dominant region
// that swallows nearly the whole map; region size above this ratio is
// still kept (rejecting it would leave nothing to generate from) but is
// not tagged "sub-room-eligible" by synthesizeRoomsPass below.
const maxCavernSizeRatio = 0.8

// buildCellularPipeline composes the organic-cavern generator: noise
// seeding, cellular automata smoothing, region extraction into rooms, a
// Delaunay+MST connectivity graph over cavern centers, corridor carving,
// door placement, room-type tagging, and spawn emission.
func buildCellularPipeline(cfg Config) (*pipeline.Pipeline, error) {
	stages := []pipeline.Pass{
		pipeline.NewFuncPass("initialize-grid-with-noise", "", "dungeon-state",
			[]rng.StreamName{rng.StreamLayout}, initializeNoisePass(cfg)),
		pipeline.NewFuncPass("iterate-cellular-automata", "dungeon-state", "dungeon-state", nil, iterateCAPass(cfg)),
		pipeline.NewFuncPass("synthesize-rooms-from-regions", "dungeon-state", "dungeon-state",
			[]rng.StreamName{rng.StreamRooms}, synthesizeRoomsPass(cfg)),
		pipeline.NewFuncPass("build-connectivity-graph", "dungeon-state", "dungeon-state",
			[]rng.StreamName{rng.StreamConnections}, buildConnectivityGraphPass()),
		passes.NewCorridorPass(passes.CorridorConfig{
			Style:          passes.CarverAStar,
			Width:          1,
			FloorPenalty:   2.0,
			Diagonal:       true,
			CrossingPolicy: passes.CrossingRecord,
		}),
		passes.NewDoorPass(doorConfigFrom(cfg.Doors)),
		pipeline.NewFuncPass("tag-room-types", "dungeon-state", "dungeon-state",
			[]rng.StreamName{rng.StreamRooms}, tagRoomTypesPass()),
		passes.NewSpawnPass(),
		passes.NewValidatorPass(passes.ValidatorConfig{RequireFullConnectivity: cfg.Cellular.ConnectAllRegions}),
	}
	return pipeline.New(stages)
}

func initializeNoisePass(cfg Config) func(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
	return func(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
		state := input.(*DungeonStateArtifact)
		if state.Grid == nil {
			state.Grid = geom.NewGrid(state.Width, state.Height, geom.Wall)
		}
		spatial.InitializeNoise(state.Grid, cfg.Cellular.InitialFillRatio, pctx.Stream(rng.StreamLayout))
		return state, nil
	}
}

func iterateCAPass(cfg Config) func(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
	return func(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
		state := input.(*DungeonStateArtifact).Clone()
		state.Grid = spatial.RunCellularAutomata(state.Grid, cfg.Cellular.DeathLimit, cfg.Cellular.BirthLimit, cfg.Cellular.Iterations)
		return state, nil
	}
}

// synthesizeRoomsPass extracts every 4-connected Floor region and drops
// regions smaller than MinRegionSize, re-walling them. A region's
// geometric centroid frequently lands outside the region itself (caverns
// are not convex), so the center is instead the region cell nearest the
// centroid. Regions below maxCavernSizeRatio of the grid and large enough
// to hold a second structure are tagged "sub-room-eligible" for a future
// decorator pass; none are carved here, keeping every kept cell's
// connectivity untouched.
//
// When ConnectAllRegions is false, only the single largest surviving
// region is kept as a room; every other region is filled back to Wall,
// leaving one contiguous cavern. When ConnectAllRegions is true, every
// surviving region becomes a room, so the later connectivity graph and
// validator see the whole map.
func synthesizeRoomsPass(cfg Config) func(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
	return func(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
		state := input.(*DungeonStateArtifact).Clone()

		regions := spatial.ExtractRegions(state.Grid, geom.Floor)
		maxCells := int(float64(state.Width*state.Height) * maxCavernSizeRatio)

		sort.Slice(regions, func(i, j int) bool { return regions[i].Size() > regions[j].Size() })

		rooms := make([]passes.Room, 0, len(regions))
		for _, region := range regions {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			if region.Size() < cfg.Cellular.MinRegionSize {
				eraseRegion(state.Grid, region)
				continue
			}
			if !cfg.Cellular.ConnectAllRegions && len(rooms) >= 1 {
				eraseRegion(state.Grid, region)
				continue
			}

			bounds := boundingBox(region.Cells)
			center := nearestCellToCentroid(region.Cells, bounds.Center())

			var tags []string
			subRoomThreshold := cfg.Cellular.MinRegionSize * 3
			if region.Size() >= subRoomThreshold && region.Size() <= maxCells {
				tags = append(tags, "sub-room-eligible")
			}

			rooms = append(rooms, passes.Room{
				ID: len(rooms), X: bounds.X, Y: bounds.Y, Width: bounds.Width, Height: bounds.Height,
				CenterX: center.X, CenterY: center.Y, Type: passes.RoomCavern, Tags: tags,
			})
		}
		state.Rooms = rooms
		return state, nil
	}
}

func eraseRegion(grid *geom.Grid, region spatial.Region) {
	for _, c := range region.Cells {
		grid.Set(c.X, c.Y, geom.Wall)
	}
}

func boundingBox(cells []geom.Point) geom.Rect {
	minX, minY := cells[0].X, cells[0].Y
	maxX, maxY := cells[0].X, cells[0].Y
	for _, c := range cells[1:] {
		if c.X < minX {
			minX = c.X
		}
		if c.X > maxX {
			maxX = c.X
		}
		if c.Y < minY {
			minY = c.Y
		}
		if c.Y > maxY {
			maxY = c.Y
		}
	}
	return geom.Rect{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
}

func nearestCellToCentroid(cells []geom.Point, centroid geom.Point) geom.Point {
	best := cells[0]
	bestDist := best.Manhattan(centroid)
	for _, c := range cells[1:] {
		d := c.Manhattan(centroid)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
