package passes

import (
	"context"
	"math"

	"github.com/rogue3/dungeonforge/pkg/geom"
	"github.com/rogue3/dungeonforge/pkg/pipeline"
	"github.com/rogue3/dungeonforge/pkg/rng"
	"github.com/rogue3/dungeonforge/pkg/spatial"
)

// SpawnPass computes a Dijkstra distance map from the entrance room's
// walkable center and emits one SpawnPoint per room: the entrance room
// emits type "entrance", the room at maximum reachable distance emits
// "exit", all others emit "spawn". A final re-validation step drops any
// spawn whose coordinate is not Floor in the current grid.
type SpawnPass struct{}

// NewSpawnPass builds a SpawnPass.
func NewSpawnPass() *SpawnPass { return &SpawnPass{} }

func (p *SpawnPass) ID() string         { return "emit-spawns" }
func (p *SpawnPass) InputType() string  { return "dungeon-state" }
func (p *SpawnPass) OutputType() string { return "dungeon-state" }
func (p *SpawnPass) RequiredStreams() []rng.StreamName {
	return []rng.StreamName{rng.StreamDetails}
}

func (p *SpawnPass) Run(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
	state := input.(*State).Clone()
	if len(state.Rooms) == 0 {
		state.Spawns = nil
		return state, nil
	}

	entrance := state.Rooms[0]
	for _, r := range state.Rooms {
		if r.Type == RoomEntrance {
			entrance = r
			break
		}
	}

	dm := spatial.Dijkstra(state.Grid, []geom.Point{entrance.Center()}, geom.CellType.Walkable, math.Inf(1))

	maxDist := -1.0
	maxRoomID := entrance.ID
	for _, r := range state.Rooms {
		d := float64(dm.At(r.CenterX, r.CenterY))
		if !math.IsInf(d, 1) && d > maxDist {
			maxDist = d
			maxRoomID = r.ID
		}
	}

	spawns := make([]SpawnPoint, 0, len(state.Rooms))
	for _, r := range state.Rooms {
		spawnType := "spawn"
		switch {
		case r.ID == entrance.ID:
			spawnType = "entrance"
		case r.ID == maxRoomID:
			spawnType = "exit"
		}
		d := float64(dm.At(r.CenterX, r.CenterY))
		spawns = append(spawns, SpawnPoint{
			Position:          r.Center(),
			RoomID:            r.ID,
			Type:              spawnType,
			DistanceFromStart: d,
		})
	}

	filtered := spawns[:0]
	for _, s := range spawns {
		if state.Grid.Get(s.Position.X, s.Position.Y) == geom.Floor {
			filtered = append(filtered, s)
		}
	}
	state.Spawns = filtered

	return state, nil
}
