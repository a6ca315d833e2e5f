package passes

import (
	"testing"

	"github.com/rogue3/dungeonforge/pkg/geom"
)

func longCorridorState() *State {
	grid := geom.NewGrid(20, 6, geom.Wall)
	grid.FillRect(geom.Rect{X: 1, Y: 1, Width: 3, Height: 3}, geom.Floor)
	grid.FillRect(geom.Rect{X: 15, Y: 1, Width: 3, Height: 3}, geom.Floor)
	path := make([]geom.Point, 0, 10)
	for x := 2; x <= 16; x++ {
		grid.Set(x, 2, geom.Floor)
		path = append(path, geom.Point{X: x, Y: 2})
	}
	rooms := []Room{
		{ID: 0, X: 1, Y: 1, Width: 3, Height: 3, CenterX: 2, CenterY: 2},
		{ID: 1, X: 15, Y: 1, Width: 3, Height: 3, CenterX: 16, CenterY: 2},
	}
	conns := []Connection{{FromRoomID: 0, ToRoomID: 1, Path: path, Type: ConnOpen}}
	return &State{Width: 20, Height: 6, Grid: grid, Rooms: rooms, Connections: conns}
}

func TestDoorPassPlacesDoorAtPreferredPosition(t *testing.T) {
	cases := []struct {
		pos      DoorPosition
		wantIdx  func(n int) int
		wantType string
	}{
		{DoorStart, func(n int) int { return 0 }, "start"},
		{DoorEnd, func(n int) int { return n - 1 }, "end"},
		{DoorCenter, func(n int) int { return n / 2 }, "center"},
	}
	for _, tc := range cases {
		state := longCorridorState()
		pass := NewDoorPass(DoorConfig{DoorRatio: 1.0, MinCorridorLength: 1, PreferredPosition: tc.pos})
		out := runSingle(t, pass, state, 42)

		c := out.Connections[0]
		if c.DoorPosition == nil {
			t.Fatalf("%s: expected a door to be placed", tc.wantType)
		}
		want := c.Path[tc.wantIdx(len(c.Path))]
		if *c.DoorPosition != want {
			t.Errorf("%s: door at %v, want %v", tc.wantType, *c.DoorPosition, want)
		}
		if out.Grid.Get(want.X, want.Y) != geom.Door {
			t.Errorf("%s: grid cell at door position is not Door", tc.wantType)
		}
		if c.Type != ConnDoor {
			t.Errorf("%s: connection type = %v, want ConnDoor", tc.wantType, c.Type)
		}
	}
}

func TestDoorPassChokepointPicksNarrowestCell(t *testing.T) {
	state := longCorridorState()
	pass := NewDoorPass(DoorConfig{DoorRatio: 1.0, MinCorridorLength: 1, PreferredPosition: DoorChokepoint})
	out := runSingle(t, pass, state, 9)

	c := out.Connections[0]
	if c.DoorPosition == nil {
		t.Fatal("expected a door to be placed")
	}
	idx := chokepointIndex(longCorridorState().Grid, c.Path)
	want := c.Path[idx]
	if *c.DoorPosition != want {
		t.Errorf("chokepoint door at %v, want %v", *c.DoorPosition, want)
	}
}

func TestDoorPassSkipsShortCorridors(t *testing.T) {
	state := longCorridorState()
	state.Connections[0].Path = state.Connections[0].Path[:2]
	pass := NewDoorPass(DoorConfig{DoorRatio: 1.0, MinCorridorLength: 5, PreferredPosition: DoorCenter})
	out := runSingle(t, pass, state, 1)

	if out.Connections[0].DoorPosition != nil {
		t.Error("expected no door on a corridor shorter than MinCorridorLength")
	}
	if out.Connections[0].Type != ConnOpen {
		t.Errorf("connection type = %v, want unchanged ConnOpen", out.Connections[0].Type)
	}
}

func TestDoorPassLockedDoorsCarryKeyMetadata(t *testing.T) {
	state := longCorridorState()
	pass := NewDoorPass(DoorConfig{
		DoorRatio: 1.0, MinCorridorLength: 1, PreferredPosition: DoorCenter,
		AllowLockedDoors: true, LockedDoorRatio: 1.0,
	})
	out := runSingle(t, pass, state, 5)

	c := out.Connections[0]
	if c.Type != ConnLockedDoor {
		t.Fatalf("connection type = %v, want ConnLockedDoor", c.Type)
	}
	if c.Metadata == nil || c.Metadata["keyId"] == "" {
		t.Error("expected a non-empty keyId metadata entry on a locked door")
	}
}
