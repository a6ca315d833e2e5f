package passes

import (
	"context"
	"fmt"

	"github.com/rogue3/dungeonforge/pkg/geom"
	"github.com/rogue3/dungeonforge/pkg/pipeline"
	"github.com/rogue3/dungeonforge/pkg/rng"
)

// DoorPosition selects where along a corridor path a door is placed.
type DoorPosition string

const (
	DoorCenter     DoorPosition = "center"
	DoorStart      DoorPosition = "start"
	DoorEnd        DoorPosition = "end"
	DoorChokepoint DoorPosition = "chokepoint"
)

// DoorConfig configures DoorPass.
type DoorConfig struct {
	DoorRatio         float64
	AllowLockedDoors  bool
	LockedDoorRatio   float64
	MinCorridorLength int
	PreferredPosition DoorPosition
}

// DoorPass decides, per connection, whether to place a door and where.
// A door cell is chosen along the connection's path by PreferredPosition
// and the grid cell there is set to Door; the connection's Type and
// DoorPosition are updated to match.
type DoorPass struct {
	cfg DoorConfig
}

// NewDoorPass builds a DoorPass with the given configuration.
func NewDoorPass(cfg DoorConfig) *DoorPass { return &DoorPass{cfg: cfg} }

func (p *DoorPass) ID() string         { return "place-doors" }
func (p *DoorPass) InputType() string  { return "dungeon-state" }
func (p *DoorPass) OutputType() string { return "dungeon-state" }
func (p *DoorPass) RequiredStreams() []rng.StreamName {
	return []rng.StreamName{rng.StreamDetails}
}

func (p *DoorPass) Run(ctx context.Context, input any, pctx *pipeline.PipelineContext) (any, error) {
	state := input.(*State).Clone()
	stream := pctx.Stream(rng.StreamDetails)

	connections := make([]Connection, len(state.Connections))
	copy(connections, state.Connections)

	for i := range connections {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		c := &connections[i]
		if len(c.Path) < p.cfg.MinCorridorLength {
			continue
		}
		if stream.Float64() > p.cfg.DoorRatio {
			continue
		}

		idx := p.choosePosition(state.Grid, c.Path)
		pos := c.Path[idx]
		c.DoorPosition = &pos

		locked := p.cfg.AllowLockedDoors && stream.Float64() < p.cfg.LockedDoorRatio
		if locked {
			c.Type = ConnLockedDoor
			if c.Metadata == nil {
				c.Metadata = map[string]string{}
			}
			c.Metadata["keyId"] = fmt.Sprintf("key-%d-%d", c.FromRoomID, c.ToRoomID)
		} else {
			c.Type = ConnDoor
		}
		state.Grid.Set(pos.X, pos.Y, geom.Door)
	}

	state.Connections = connections
	return state, nil
}

func (p *DoorPass) choosePosition(grid *geom.Grid, path []geom.Point) int {
	switch p.cfg.PreferredPosition {
	case DoorStart:
		return 0
	case DoorEnd:
		return len(path) - 1
	case DoorChokepoint:
		return chokepointIndex(grid, path)
	default:
		return len(path) / 2
	}
}

// chokepointIndex returns the index of the path-interior cell
// (excluding the two cells nearest each endpoint) with the fewest
// 8-neighbor floor cells, ties broken by lowest index.
func chokepointIndex(grid *geom.Grid, path []geom.Point) int {
	lo, hi := 2, len(path)-3
	if lo > hi {
		return len(path) / 2
	}
	best, bestCount := lo, grid.CountNeighbors8(path[lo].X, path[lo].Y, geom.Floor)
	for i := lo + 1; i <= hi; i++ {
		count := grid.CountNeighbors8(path[i].X, path[i].Y, geom.Floor)
		if count < bestCount {
			best, bestCount = i, count
		}
	}
	return best
}
