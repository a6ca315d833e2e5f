package passes

import (
	"testing"

	"github.com/rogue3/dungeonforge/pkg/geom"
)

func threeRoomLineState() *State {
	grid := geom.NewGrid(30, 6, geom.Wall)
	grid.FillRect(geom.Rect{X: 1, Y: 1, Width: 3, Height: 3}, geom.Floor)
	grid.FillRect(geom.Rect{X: 13, Y: 1, Width: 3, Height: 3}, geom.Floor)
	grid.FillRect(geom.Rect{X: 25, Y: 1, Width: 3, Height: 3}, geom.Floor)
	for x := 2; x <= 26; x++ {
		grid.Set(x, 2, geom.Floor)
	}
	rooms := []Room{
		{ID: 0, X: 1, Y: 1, Width: 3, Height: 3, CenterX: 2, CenterY: 2, Type: RoomEntrance},
		{ID: 1, X: 13, Y: 1, Width: 3, Height: 3, CenterX: 14, CenterY: 2, Type: RoomNormal},
		{ID: 2, X: 25, Y: 1, Width: 3, Height: 3, CenterX: 26, CenterY: 2, Type: RoomNormal},
	}
	return &State{Width: 30, Height: 6, Grid: grid, Rooms: rooms}
}

func TestSpawnPassTagsEntranceAndExit(t *testing.T) {
	state := threeRoomLineState()
	out := runSingle(t, NewSpawnPass(), state, 11)

	if len(out.Spawns) != 3 {
		t.Fatalf("expected 3 spawns, got %d", len(out.Spawns))
	}
	var entrance, exit *SpawnPoint
	for i := range out.Spawns {
		switch out.Spawns[i].Type {
		case "entrance":
			entrance = &out.Spawns[i]
		case "exit":
			exit = &out.Spawns[i]
		}
	}
	if entrance == nil {
		t.Fatal("no entrance spawn emitted")
	}
	if entrance.RoomID != 0 {
		t.Errorf("entrance RoomID = %d, want 0", entrance.RoomID)
	}
	if exit == nil {
		t.Fatal("no exit spawn emitted")
	}
	if exit.RoomID != 2 {
		t.Errorf("exit RoomID = %d, want 2 (furthest room)", exit.RoomID)
	}
	if exit.DistanceFromStart <= 0 {
		t.Errorf("exit.DistanceFromStart = %v, want > 0", exit.DistanceFromStart)
	}
}

func TestSpawnPassDistancesIncreaseAlongTheLine(t *testing.T) {
	state := threeRoomLineState()
	out := runSingle(t, NewSpawnPass(), state, 11)

	byRoom := map[int]float64{}
	for _, s := range out.Spawns {
		byRoom[s.RoomID] = s.DistanceFromStart
	}
	if !(byRoom[0] < byRoom[1] && byRoom[1] < byRoom[2]) {
		t.Errorf("expected monotonically increasing distance 0 < 1 < 2, got %v", byRoom)
	}
}

func TestSpawnPassDropsUnreachableRoom(t *testing.T) {
	state := threeRoomLineState()
	// Wall off room 2 so it is unreachable from the entrance.
	for y := 0; y < state.Height; y++ {
		state.Grid.Set(20, y, geom.Wall)
	}
	out := runSingle(t, NewSpawnPass(), state, 11)

	for _, s := range out.Spawns {
		if s.RoomID == 2 {
			t.Fatal("expected room 2's spawn to be dropped as unreachable")
		}
	}
	if len(out.Spawns) != 2 {
		t.Errorf("expected 2 reachable spawns, got %d", len(out.Spawns))
	}
}

func TestSpawnPassEmptyRoomsYieldsNoSpawns(t *testing.T) {
	state := &State{Width: 10, Height: 10, Grid: geom.NewGrid(10, 10, geom.Wall)}
	out := runSingle(t, NewSpawnPass(), state, 1)
	if len(out.Spawns) != 0 {
		t.Errorf("expected no spawns for a roomless state, got %d", len(out.Spawns))
	}
}
