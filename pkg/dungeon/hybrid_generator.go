package dungeon

import (
	"context"

	"github.com/rogue3/dungeonforge/pkg/geom"
	"github.com/rogue3/dungeonforge/pkg/passes"
	"github.com/rogue3/dungeonforge/pkg/pipeline"
	"github.com/rogue3/dungeonforge/pkg/rng"
	"github.com/rogue3/dungeonforge/pkg/spatial"
)

// hybridZoneCount picks how many strips the hybrid generator divides the
// grid's long axis into: at least 2 (so the alternation is meaningful),
// capped at 4 (more strips than that starve each zone of room budget on
// the smaller end of the size range).
func hybridZoneCount(total int) int {
	n := total / 30
	if n < 2 {
		n = 2
	}
	if n > 4 {
		n = 4
	}
	return n
}

// buildHybridPipeline composes the zone-alternating generator: the grid
// is divided into a 1xN (or Nx1, whichever axis is longer) strip of
// zones, each zone independently run through a BSP or cellular
// sub-pipeline depending on its parity, rooms from every zone feed one
// shared connectivity graph and corridor pass, and a final stitching
// pass guarantees every zone boundary has at least one wide crossing.
func buildHybridPipeline(cfg Config) (*pipeline.Pipeline, error) {
	stages := []pipeline.Pass{
		pipeline.NewFuncPass("initialize-grid-with-walls", "", "dungeon-state", nil, initializeGridPass()),
		pipeline.NewFuncPass("partition-into-zones-and-generate", "dungeon-state", "dungeon-state",
			[]rng.StreamName{rng.StreamLayout, rng.StreamRooms}, hybridZoneGeneratePass(cfg)),
		pipeline.NewFuncPass("build-connectivity-graph", "dungeon-state", "dungeon-state",
			[]rng.StreamName{rng.StreamConnections}, buildConnectivityGraphPass()),
		passes.NewCorridorPass(passes.CorridorConfig{
			Style:          cfg.BSP.CorridorStyle,
			Width:          cfg.BSP.CorridorWidth,
			FloorPenalty:   3.0,
			Diagonal:       true,
			CrossingPolicy: cfg.BSP.CorridorCrossing,
		}),
		pipeline.NewFuncPass("stitch-zone-boundaries", "dungeon-state", "dungeon-state",
			[]rng.StreamName{rng.StreamConnections}, stitchZoneBoundariesPass(cfg)),
		passes.NewDoorPass(doorConfigFrom(cfg.Doors)),
		pipeline.NewFuncPass("tag-room-types", "dungeon-state", "dungeon-state",
			[]rng.StreamName{rng.StreamRooms}, tagRoomTypesPass()),
		passes.NewSpawnPass(),
		passes.NewValidatorPass(passes.ValidatorConfig{RequireFullConnectivity: true}),
	}
	return pipeline.New(stages)
}

// zoneRect returns the i-th of n strip rects partitioning interior along
// its longer axis.
func zoneRect(interior geom.Rect, i, n int) geom.Rect {
	if interior.Width >= interior.Height {
		base := interior.Width / n
		x := interior.X + i*base
		w := base
		if i == n-1 {
			w = interior.Width - i*base
		}
		return geom.Rect{X: x, Y: interior.Y, Width: w, Height: interior.Height}
	}
	base := interior.Height / n
	y := interior.Y + i*base
	h := base
	if i == n-1 {
		h = interior.Height - i*base
	}
	return geom.Rect{X: interior.X, Y: y, Width: interior.Width, Height: h}
}

func hybridZoneGeneratePass(cfg Config) func(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
	return func(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
		state := input.(*DungeonStateArtifact).Clone()
		layoutStream := pctx.Stream(rng.StreamLayout)
		roomsStream := pctx.Stream(rng.StreamRooms)

		interior := geom.Rect{X: 1, Y: 1, Width: state.Width - 2, Height: state.Height - 2}
		zoneCount := hybridZoneCount(maxInt(interior.Width, interior.Height))
		roomBudget := maxInt(1, cfg.RoomCount/zoneCount)

		var rooms []passes.Room
		for i := 0; i < zoneCount; i++ {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			zr := zoneRect(interior, i, zoneCount)
			if zr.Width < cfg.BSP.MinRoomSize+2 || zr.Height < cfg.BSP.MinRoomSize+2 {
				continue
			}
			var zoneRooms []passes.Room
			if i%2 == 0 {
				zoneRooms = generateBSPZone(state.Grid, zr, cfg, layoutStream, roomsStream, roomBudget, len(rooms))
			} else {
				zoneRooms = generateCellularZone(state.Grid, zr, cfg, layoutStream, roomsStream, roomBudget, len(rooms))
			}
			tag := zoneTag(i)
			for j := range zoneRooms {
				zoneRooms[j].Tags = append(zoneRooms[j].Tags, tag)
			}
			rooms = append(rooms, zoneRooms...)
		}

		state.Rooms = rooms
		return state, nil
	}
}

func zoneTag(zoneIndex int) string {
	return "zone-" + string(rune('0'+zoneIndex))
}

// generateBSPZone runs the same partition/place/carve logic as the BSP
// generator's own stage, confined to zr, with room IDs continuing from
// idOffset.
func generateBSPZone(grid *geom.Grid, zr geom.Rect, cfg Config, layoutStream, roomsStream *rng.RNG, budget, idOffset int) []passes.Room {
	tree := spatial.BuildBSP(zr, spatial.BSPConfig{
		MinSize:              cfg.BSP.MinRoomSize + cfg.BSP.RoomPadding,
		MaxDepth:             cfg.BSP.MaxDepth,
		AspectRatioThreshold: 1.5,
		SplitRatio:           (cfg.BSP.SplitRatioMin + cfg.BSP.SplitRatioMax) / 2,
		SplitVariance:        (cfg.BSP.SplitRatioMax - cfg.BSP.SplitRatioMin) / 2,
	}, layoutStream)

	var rooms []passes.Room
	for _, leaf := range spatial.Leaves(tree) {
		if roomsStream.Float64() > cfg.BSP.RoomPlacementChance {
			continue
		}
		rect, ok := spatial.RoomInLeaf(leaf.Rect, cfg.BSP.RoomPadding, cfg.BSP.MinRoomSize, cfg.BSP.MaxRoomSize, roomsStream)
		if !ok {
			continue
		}
		grid.FillRect(rect, geom.Floor)
		center := rect.Center()
		rooms = append(rooms, passes.Room{
			ID: idOffset + len(rooms), X: rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height,
			CenterX: center.X, CenterY: center.Y, Type: passes.RoomNormal,
		})
		if len(rooms) >= budget {
			break
		}
	}
	return rooms
}

// generateCellularZone runs noise seeding and cellular automata smoothing
// on a scratch grid sized to zr, then blits surviving Floor cells back
// into the shared grid at zr's offset and synthesizes one Room per
// surviving region, confined to this zone's room budget.
func generateCellularZone(grid *geom.Grid, zr geom.Rect, cfg Config, layoutStream, roomsStream *rng.RNG, budget, idOffset int) []passes.Room {
	if zr.Width < 5 || zr.Height < 5 {
		return nil
	}
	scratch := geom.NewGrid(zr.Width, zr.Height, geom.Wall)
	spatial.InitializeNoise(scratch, cfg.Cellular.InitialFillRatio, layoutStream)
	scratch = spatial.RunCellularAutomata(scratch, cfg.Cellular.DeathLimit, cfg.Cellular.BirthLimit, cfg.Cellular.Iterations)

	regions := spatial.ExtractRegions(scratch, geom.Floor)
	var rooms []passes.Room
	for _, region := range regions {
		if region.Size() < cfg.Cellular.MinRegionSize {
			continue
		}
		offset := make([]geom.Point, len(region.Cells))
		for i, c := range region.Cells {
			offset[i] = geom.Point{X: c.X + zr.X, Y: c.Y + zr.Y}
			grid.Set(offset[i].X, offset[i].Y, geom.Floor)
		}
		bounds := boundingBox(offset)
		center := nearestCellToCentroid(offset, bounds.Center())
		rooms = append(rooms, passes.Room{
			ID: idOffset + len(rooms), X: bounds.X, Y: bounds.Y, Width: bounds.Width, Height: bounds.Height,
			CenterX: center.X, CenterY: center.Y, Type: passes.RoomCavern,
		})
		if len(rooms) >= budget {
			break
		}
	}
	return rooms
}

// stitchZoneBoundariesPass guarantees every pair of adjacent zones has at
// least one corridor of width CorridorWidth+1 directly connecting them,
// independent of whatever edges the shared MST happened to select: for
// each boundary, it finds the closest pair of rooms straddling it and, if
// the regular corridor pass did not already join them, carves one more
// wide A* corridor between them.
func stitchZoneBoundariesPass(cfg Config) func(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
	return func(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
		state := input.(*DungeonStateArtifact).Clone()
		if len(state.Rooms) < 2 {
			return state, nil
		}

		byZone := partitionByZoneTag(state.Rooms)
		connections := append([]passes.Connection{}, state.Connections...)

		for z := 0; z+1 < len(byZone); z++ {
			a, b, ok := closestPair(byZone[z], byZone[z+1])
			if !ok || alreadyConnected(connections, a.ID, b.ID) {
				continue
			}
			path := spatial.CarveAStar(state.Grid, a.Center(), b.Center(), spatial.AStarOptions{
				Width: cfg.BSP.CorridorWidth + 1, FloorPenalty: 1.0, Diagonal: true,
			})
			connections = append(connections, passes.Connection{FromRoomID: a.ID, ToRoomID: b.ID, Path: path, Type: passes.ConnBridge})
		}

		state.Connections = connections
		return state, nil
	}
}

// partitionByZoneTag groups rooms by their "zone-<i>" tag into a
// slice indexed by zone number; zones with no surviving rooms (every
// leaf/region refused placement) are left as nil entries.
func partitionByZoneTag(rooms []passes.Room) [][]passes.Room {
	var byZone [][]passes.Room
	for _, r := range rooms {
		for _, t := range r.Tags {
			if len(t) < 6 || t[:5] != "zone-" {
				continue
			}
			idx := int(t[5] - '0')
			for len(byZone) <= idx {
				byZone = append(byZone, nil)
			}
			byZone[idx] = append(byZone[idx], r)
		}
	}
	return byZone
}

func closestPair(a, b []passes.Room) (passes.Room, passes.Room, bool) {
	if len(a) == 0 || len(b) == 0 {
		return passes.Room{}, passes.Room{}, false
	}
	best := a[0].Center().Manhattan(b[0].Center())
	bestA, bestB := a[0], b[0]
	for _, ra := range a {
		for _, rb := range b {
			d := ra.Center().Manhattan(rb.Center())
			if d < best {
				best, bestA, bestB = d, ra, rb
			}
		}
	}
	return bestA, bestB, true
}

func alreadyConnected(conns []passes.Connection, roomA, roomB int) bool {
	for _, c := range conns {
		if (c.FromRoomID == roomA && c.ToRoomID == roomB) || (c.FromRoomID == roomB && c.ToRoomID == roomA) {
			return true
		}
	}
	return false
}
