package passes

import (
	"context"
	"fmt"

	"github.com/rogue3/dungeonforge/pkg/geom"
	"github.com/rogue3/dungeonforge/pkg/pipeline"
	"github.com/rogue3/dungeonforge/pkg/rng"
	"github.com/rogue3/dungeonforge/pkg/spatial"
)

// ValidatorConfig toggles which invariants ValidatorPass enforces; a
// cellular generator with ConnectAllRegions disabled only expects
// connectivity within its kept region, not across the whole grid.
type ValidatorConfig struct {
	RequireFullConnectivity bool
}

// ValidatorPass checks the structural invariants every generator output
// must satisfy: border integrity, connectivity, entrance/exit presence
// and walkability, room-center walkability, corridor non-crossing, and
// spawn validity. Any violation fails the pipeline with a
// *ValidationFailure carrying the full violation list.
type ValidatorPass struct {
	cfg ValidatorConfig
}

// NewValidatorPass builds a ValidatorPass with the given configuration.
func NewValidatorPass(cfg ValidatorConfig) *ValidatorPass { return &ValidatorPass{cfg: cfg} }

func (p *ValidatorPass) ID() string                        { return "validate-invariants" }
func (p *ValidatorPass) InputType() string                 { return "dungeon-state" }
func (p *ValidatorPass) OutputType() string                { return "dungeon-state" }
func (p *ValidatorPass) RequiredStreams() []rng.StreamName { return nil }

func (p *ValidatorPass) Run(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
	state := input.(*State)
	var violations []string

	violations = append(violations, checkBorder(state.Grid)...)
	if p.cfg.RequireFullConnectivity {
		violations = append(violations, checkConnectivity(state.Grid)...)
	}
	violations = append(violations, checkEntranceExit(state)...)
	violations = append(violations, checkRoomCenters(state)...)
	violations = append(violations, checkCorridorAdjacency(state)...)
	violations = append(violations, checkCorridorCrossings(state)...)
	violations = append(violations, checkSpawnValidity(state)...)

	if len(violations) > 0 {
		return nil, &ValidationFailure{Violations: violations}
	}
	return state, nil
}

func checkBorder(grid *geom.Grid) []string {
	var issues []string
	for x := 0; x < grid.Width; x++ {
		if grid.Get(x, 0) != geom.Wall {
			issues = append(issues, fmt.Sprintf("border: (%d,0) is not Wall", x))
		}
		if grid.Get(x, grid.Height-1) != geom.Wall {
			issues = append(issues, fmt.Sprintf("border: (%d,%d) is not Wall", x, grid.Height-1))
		}
	}
	for y := 0; y < grid.Height; y++ {
		if grid.Get(0, y) != geom.Wall {
			issues = append(issues, fmt.Sprintf("border: (0,%d) is not Wall", y))
		}
		if grid.Get(grid.Width-1, y) != geom.Wall {
			issues = append(issues, fmt.Sprintf("border: (%d,%d) is not Wall", grid.Width-1, y))
		}
	}
	return issues
}

func checkConnectivity(grid *geom.Grid) []string {
	if !spatial.IsConnected4(grid, geom.Floor) {
		return []string{"connectivity: Floor cells are not all 4-connected"}
	}
	return nil
}

func checkEntranceExit(state *State) []string {
	var entrance, exit *SpawnPoint
	for i := range state.Spawns {
		switch state.Spawns[i].Type {
		case "entrance":
			entrance = &state.Spawns[i]
		case "exit":
			exit = &state.Spawns[i]
		}
	}
	var issues []string
	if entrance == nil {
		issues = append(issues, "entrance: no entrance spawn present")
	} else if state.Grid.Get(entrance.Position.X, entrance.Position.Y) != geom.Floor {
		issues = append(issues, "entrance: entrance spawn is not on Floor")
	}
	if exit == nil {
		issues = append(issues, "exit: no exit spawn present")
	} else if state.Grid.Get(exit.Position.X, exit.Position.Y) != geom.Floor {
		issues = append(issues, "exit: exit spawn is not on Floor")
	}
	return issues
}

func checkRoomCenters(state *State) []string {
	var issues []string
	for _, r := range state.Rooms {
		if state.Grid.Get(r.CenterX, r.CenterY) != geom.Floor {
			issues = append(issues, fmt.Sprintf("room-center: room %d center (%d,%d) is not Floor", r.ID, r.CenterX, r.CenterY))
		}
	}
	return issues
}

func checkCorridorAdjacency(state *State) []string {
	var issues []string
	for _, c := range state.Connections {
		for i := 1; i < len(c.Path); i++ {
			dx := c.Path[i].X - c.Path[i-1].X
			dy := c.Path[i].Y - c.Path[i-1].Y
			if abs(dx) > 1 || abs(dy) > 1 {
				issues = append(issues, fmt.Sprintf("corridor-adjacency: connection %d<->%d has a non-adjacent step at index %d", c.FromRoomID, c.ToRoomID, i))
			}
		}
	}
	return issues
}

func checkCorridorCrossings(state *State) []string {
	occupied := make(map[geom.Point][]int)
	for i, c := range state.Connections {
		for _, pt := range c.Path {
			occupied[pt] = append(occupied[pt], i)
		}
	}
	seen := make(map[[2]int]bool)
	var issues []string
	for _, owners := range occupied {
		if len(owners) < 2 {
			continue
		}
		for i := 0; i < len(owners); i++ {
			for j := i + 1; j < len(owners); j++ {
				a, b := state.Connections[owners[i]], state.Connections[owners[j]]
				if sharesRoom(a, b) {
					continue
				}
				key := [2]int{owners[i], owners[j]}
				if seen[key] {
					continue
				}
				seen[key] = true
				issues = append(issues, fmt.Sprintf("crossing: connection %d<->%d crosses connection %d<->%d without a shared room",
					a.FromRoomID, a.ToRoomID, b.FromRoomID, b.ToRoomID))
			}
		}
	}
	return issues
}

func checkSpawnValidity(state *State) []string {
	var issues []string
	for _, s := range state.Spawns {
		if state.Grid.Get(s.Position.X, s.Position.Y) != geom.Floor {
			issues = append(issues, fmt.Sprintf("spawn-validity: spawn at (%d,%d) is not Floor", s.Position.X, s.Position.Y))
		}
	}
	return issues
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
