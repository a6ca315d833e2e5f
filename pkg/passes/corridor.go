package passes

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rogue3/dungeonforge/pkg/geom"
	"github.com/rogue3/dungeonforge/pkg/pipeline"
	"github.com/rogue3/dungeonforge/pkg/rng"
	"github.com/rogue3/dungeonforge/pkg/spatial"
)

// CarverStyle selects which spatial corridor algorithm a CorridorPass
// uses to route each edge.
type CarverStyle string

const (
	CarverLShape   CarverStyle = "lshape"
	CarverBresenham CarverStyle = "bresenham"
	CarverAStar    CarverStyle = "astar"
)

// CrossingPolicy controls what the post-hoc crossing detector does when
// two connections that share no room overlap on a cell.
type CrossingPolicy string

const (
	CrossingReject CrossingPolicy = "reject"
	CrossingRecord CrossingPolicy = "record"
)

// CorridorConfig configures CorridorPass.
type CorridorConfig struct {
	Style          CarverStyle
	Width          int
	FloorPenalty   float64
	Diagonal       bool
	CrossingPolicy CrossingPolicy
}

// CorridorPass routes and carves one corridor per (fromRoomIndex,
// toRoomIndex) edge in State.Edges, in order, recording the resulting
// path on a new Connection. After every edge is carved it runs a
// post-hoc scan for cells shared between connections that have no room
// in common; under CrossingReject this fails the pass, under
// CrossingRecord it annotates both connections' metadata instead.
type CorridorPass struct {
	cfg CorridorConfig
}

// NewCorridorPass builds a CorridorPass with the given configuration.
func NewCorridorPass(cfg CorridorConfig) *CorridorPass { return &CorridorPass{cfg: cfg} }

func (p *CorridorPass) ID() string         { return "carve-corridors" }
func (p *CorridorPass) InputType() string  { return "dungeon-state" }
func (p *CorridorPass) OutputType() string { return "dungeon-state" }
func (p *CorridorPass) RequiredStreams() []rng.StreamName {
	return []rng.StreamName{rng.StreamConnections}
}

func (p *CorridorPass) Run(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
	state := input.(*State).Clone()
	stream := pctx.Stream(rng.StreamConnections)

	connections := make([]Connection, 0, len(state.Edges))
	for _, edge := range state.Edges {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		from := state.Rooms[edge[0]]
		to := state.Rooms[edge[1]]
		path := p.carve(state.Grid, from.Center(), to.Center(), stream)
		connections = append(connections, Connection{
			FromRoomID: from.ID,
			ToRoomID:   to.ID,
			Path:       path,
			Type:       ConnOpen,
		})
	}
	state.Connections = connections

	if err := p.detectCrossings(state); err != nil {
		return nil, err
	}
	return state, nil
}

func (p *CorridorPass) carve(grid *geom.Grid, from, to geom.Point, stream *rng.RNG) []geom.Point {
	switch p.cfg.Style {
	case CarverBresenham:
		return spatial.CarveBresenham(grid, from, to, p.cfg.Width)
	case CarverAStar:
		return spatial.CarveAStar(grid, from, to, spatial.AStarOptions{
			Width: p.cfg.Width, FloorPenalty: p.cfg.FloorPenalty, Diagonal: p.cfg.Diagonal,
		})
	default:
		horizontalFirst := stream.Bool()
		return spatial.CarveLShape(grid, from, to, p.cfg.Width, horizontalFirst)
	}
}

func (p *CorridorPass) detectCrossings(state *State) error {
	type cellOwner struct {
		from, to int
	}
	occupied := make(map[geom.Point][]int) // point -> connection indices

	for i, c := range state.Connections {
		for _, pt := range c.Path {
			occupied[pt] = append(occupied[pt], i)
		}
	}

	var crossings []string
	crossedBy := make(map[int][]string) // connection index -> partner descriptions
	seen := make(map[[2]int]bool)
	for _, owners := range occupied {
		if len(owners) < 2 {
			continue
		}
		sort.Ints(owners)
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
				crossings = append(crossings, fmt.Sprintf("connection %d<->%d crosses connection %d<->%d",
					a.FromRoomID, a.ToRoomID, b.FromRoomID, b.ToRoomID))
				crossedBy[owners[i]] = append(crossedBy[owners[i]], fmt.Sprintf("%d<->%d", b.FromRoomID, b.ToRoomID))
				crossedBy[owners[j]] = append(crossedBy[owners[j]], fmt.Sprintf("%d<->%d", a.FromRoomID, a.ToRoomID))
			}
		}
	}

	if len(crossings) == 0 {
		return nil
	}
	if p.cfg.CrossingPolicy == CrossingRecord {
		for i, partners := range crossedBy {
			c := &state.Connections[i]
			if c.Metadata == nil {
				c.Metadata = map[string]string{}
			}
			c.Metadata["crossedBy"] = strings.Join(partners, ",")
		}
		return nil
	}
	return &ValidationFailure{Violations: crossings}
}

func sharesRoom(a, b Connection) bool {
	return a.FromRoomID == b.FromRoomID || a.FromRoomID == b.ToRoomID ||
		a.ToRoomID == b.FromRoomID || a.ToRoomID == b.ToRoomID
}

// ValidationFailure reports a structural fault found by a pass, fatal
// to the pipeline run (the spec's GenerationFailed taxonomy member).
type ValidationFailure struct {
	Violations []string
}

func (v *ValidationFailure) Error() string {
	return fmt.Sprintf("generation failed: %d violation(s)", len(v.Violations))
}
