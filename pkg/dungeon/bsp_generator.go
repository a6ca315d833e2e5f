package dungeon

import (
	"context"
	"math"
	"sort"

	"github.com/rogue3/dungeonforge/pkg/geom"
	"github.com/rogue3/dungeonforge/pkg/passes"
	"github.com/rogue3/dungeonforge/pkg/pipeline"
	"github.com/rogue3/dungeonforge/pkg/rng"
	"github.com/rogue3/dungeonforge/pkg/spatial"
)

// buildBSPPipeline composes the rectangular-room generator: recursive
// space partitioning, per-leaf room placement, a Delaunay+MST
// connectivity graph, corridor carving, door placement, room-type
// tagging, and spawn emission.
func buildBSPPipeline(cfg Config) (*pipeline.Pipeline, error) {
	stages := []pipeline.Pass{
		pipeline.NewFuncPass("initialize-grid-with-walls", "", "dungeon-state", nil, initializeGridPass()),
		pipeline.NewFuncPass("bsp-layout-rooms", "dungeon-state", "dungeon-state",
			[]rng.StreamName{rng.StreamLayout, rng.StreamRooms}, bspLayoutRoomsPass(cfg)),
		pipeline.NewFuncPass("build-connectivity-graph", "dungeon-state", "dungeon-state",
			[]rng.StreamName{rng.StreamConnections}, buildConnectivityGraphPass()),
		passes.NewCorridorPass(passes.CorridorConfig{
			Style:          cfg.BSP.CorridorStyle,
			Width:          cfg.BSP.CorridorWidth,
			FloorPenalty:   4.0,
			Diagonal:       false,
			CrossingPolicy: cfg.BSP.CorridorCrossing,
		}),
		passes.NewDoorPass(doorConfigFrom(cfg.Doors)),
		pipeline.NewFuncPass("tag-room-types", "dungeon-state", "dungeon-state",
			[]rng.StreamName{rng.StreamRooms}, tagRoomTypesPass()),
		passes.NewSpawnPass(),
		pipeline.NewFuncPass("resolve-room-centers", "dungeon-state", "dungeon-state", nil, resolveRoomCentersPass()),
		passes.NewValidatorPass(passes.ValidatorConfig{RequireFullConnectivity: true}),
	}
	return pipeline.New(stages)
}

func doorConfigFrom(d DoorSettings) passes.DoorConfig {
	return passes.DoorConfig{
		DoorRatio:         d.DoorRatio,
		AllowLockedDoors:  d.AllowLockedDoors,
		LockedDoorRatio:   d.LockedDoorRatio,
		MinCorridorLength: d.MinCorridorLength,
		PreferredPosition: d.PreferredPosition,
	}
}

// initializeGridPass allocates a wall-filled grid of the run's
// dimensions, the common bootstrap for every generator.
func initializeGridPass() func(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
	return func(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
		state := input.(*DungeonStateArtifact)
		if state.Grid == nil {
			state.Grid = geom.NewGrid(state.Width, state.Height, geom.Wall)
		}
		state.Grid.FillBorder(geom.Wall)
		return state, nil
	}
}

// bspLayoutRoomsPass recursively partitions the grid interior, places a
// rectangular room in a fraction of the resulting leaves (per
// RoomPlacementChance), and carves each placed room to Floor. A
// rectangular room's geometric center always lands on a carved cell, so
// CenterX/CenterY are resolved without any BFS search.
func bspLayoutRoomsPass(cfg Config) func(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
	return func(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
		state := input.(*DungeonStateArtifact).Clone()
		layoutStream := pctx.Stream(rng.StreamLayout)
		roomsStream := pctx.Stream(rng.StreamRooms)

		interior := geom.Rect{X: 1, Y: 1, Width: state.Width - 2, Height: state.Height - 2}
		tree := spatial.BuildBSP(interior, spatial.BSPConfig{
			MinSize:              cfg.BSP.MinRoomSize + cfg.BSP.RoomPadding,
			MaxDepth:             cfg.BSP.MaxDepth,
			AspectRatioThreshold: 1.5,
			SplitRatio:           (cfg.BSP.SplitRatioMin + cfg.BSP.SplitRatioMax) / 2,
			SplitVariance:        (cfg.BSP.SplitRatioMax - cfg.BSP.SplitRatioMin) / 2,
		}, layoutStream)

		leaves := spatial.Leaves(tree)
		rooms := make([]passes.Room, 0, len(leaves))
		for _, leaf := range leaves {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			if roomsStream.Float64() > cfg.BSP.RoomPlacementChance {
				continue
			}
			rect, ok := spatial.RoomInLeaf(leaf.Rect, cfg.BSP.RoomPadding, cfg.BSP.MinRoomSize, cfg.BSP.MaxRoomSize, roomsStream)
			if !ok {
				continue
			}
			state.Grid.FillRect(rect, geom.Floor)
			center := rect.Center()
			rooms = append(rooms, passes.Room{
				ID: len(rooms), X: rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height,
				CenterX: center.X, CenterY: center.Y, Type: passes.RoomNormal, Seed: uint32(roomsStream.Uint64()),
			})
			if len(rooms) >= cfg.RoomCount {
				break
			}
		}

		if len(rooms) == 0 {
			// Every leaf refused placement (pathological config); force one
			// room at the interior's largest leaf so the run is never empty.
			best := leaves[0]
			for _, leaf := range leaves[1:] {
				if leaf.Rect.Area() > best.Rect.Area() {
					best = leaf
				}
			}
			rect := best.Rect.Inset(cfg.BSP.RoomPadding)
			state.Grid.FillRect(rect, geom.Floor)
			center := rect.Center()
			rooms = append(rooms, passes.Room{ID: 0, X: rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height, CenterX: center.X, CenterY: center.Y, Type: passes.RoomNormal})
		}

		state.Rooms = rooms
		return state, nil
	}
}

// buildConnectivityGraphPass triangulates the room centers and keeps the
// minimum spanning tree, guaranteeing every room is reachable through
// exactly one undirected tree of corridors; no extra loop edges are
// added.
func buildConnectivityGraphPass() func(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
	return func(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
		state := input.(*DungeonStateArtifact).Clone()
		stream := pctx.Stream(rng.StreamConnections)

		if len(state.Rooms) < 2 {
			state.Edges = nil
			return state, nil
		}

		centers := make([]geom.Point, len(state.Rooms))
		for i, r := range state.Rooms {
			centers[i] = r.Center()
		}
		triangleEdges := spatial.Triangulate(centers, stream)
		mst := spatial.BuildMST(centers, triangleEdges)

		edges := make([][2]uint32, len(mst))
		for i, e := range mst {
			edges[i] = [2]uint32{uint32(e.A), uint32(e.B)}
		}
		state.Edges = edges
		return state, nil
	}
}

// tagRoomTypesPass runs after corridors exist so entrance/exit selection
// can use true graph distance: the entrance is the first room, the exit
// is the room at maximum Dijkstra distance from it, and a handful of
// other far rooms are tagged boss/treasure/library.
func tagRoomTypesPass() func(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
	return func(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
		state := input.(*DungeonStateArtifact).Clone()
		stream := pctx.Stream(rng.StreamRooms)

		if len(state.Rooms) == 0 {
			return state, nil
		}
		rooms := make([]passes.Room, len(state.Rooms))
		copy(rooms, state.Rooms)

		entranceIdx := 0
		dm := spatial.Dijkstra(state.Grid, []geom.Point{rooms[entranceIdx].Center()}, func(t geom.CellType) bool { return t.Walkable() }, math.Inf(1))

		type distIdx struct {
			idx  int
			dist float64
		}
		ranked := make([]distIdx, 0, len(rooms))
		for i, r := range rooms {
			d := float64(dm.At(r.CenterX, r.CenterY))
			if !math.IsInf(d, 1) {
				ranked = append(ranked, distIdx{i, d})
			}
		}
		sort.Slice(ranked, func(i, j int) bool { return ranked[i].dist > ranked[j].dist })

		rooms[entranceIdx].Type = passes.RoomEntrance
		if len(ranked) > 0 {
			rooms[ranked[0].idx].Type = passes.RoomExit
		}

		special := []passes.RoomType{passes.RoomBoss, passes.RoomTreasure, passes.RoomLibrary}
		for i, ri := range ranked[1:] {
			if i >= len(special) {
				break
			}
			if rooms[ri.idx].Type != passes.RoomNormal {
				continue
			}
			if stream.Float64() < 0.4 {
				rooms[ri.idx].Type = special[i]
			}
		}

		state.Rooms = rooms
		return state, nil
	}
}

// resolveRoomCentersPass re-checks every room's resolved center against
// the current grid, snapping to the nearest Floor cell within the room's
// own rectangle if the center itself is not walkable. Rectangular BSP
// rooms never need this in practice. The cellular pipeline has no such
// pass: synthesizeRoomsPass already picks each cavern center from the
// region's own cells.
func resolveRoomCentersPass() func(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
	return func(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
		state := input.(*DungeonStateArtifact).Clone()
		rooms := make([]passes.Room, len(state.Rooms))
		copy(rooms, state.Rooms)

		for i := range rooms {
			r := &rooms[i]
			if state.Grid.Get(r.CenterX, r.CenterY) == geom.Floor {
				continue
			}
			if pt, ok := nearestFloorInRect(state.Grid, r.Rect()); ok {
				r.CenterX, r.CenterY = pt.X, pt.Y
			}
		}
		state.Rooms = rooms
		return state, nil
	}
}

func nearestFloorInRect(grid *geom.Grid, rect geom.Rect) (geom.Point, bool) {
	center := rect.Center()
	best := geom.Point{}
	bestDist := -1
	found := false
	for y := rect.Y; y < rect.Y+rect.Height; y++ {
		for x := rect.X; x < rect.X+rect.Width; x++ {
			if grid.Get(x, y) != geom.Floor {
				continue
			}
			d := geom.Point{X: x, Y: y}.Manhattan(center)
			if !found || d < bestDist {
				found, bestDist, best = true, d, geom.Point{X: x, Y: y}
			}
		}
	}
	return best, found
}
