package passes

import (
	"errors"
	"testing"

	"github.com/rogue3/dungeonforge/pkg/geom"
)

func validatorFixtureState() *State {
	grid := geom.NewGrid(20, 10, geom.Wall)
	grid.FillRect(geom.Rect{X: 1, Y: 1, Width: 4, Height: 4}, geom.Floor)
	grid.FillRect(geom.Rect{X: 14, Y: 4, Width: 4, Height: 4}, geom.Floor)
	path := make([]geom.Point, 0)
	for x := 4; x <= 16; x++ {
		grid.Set(x, 3, geom.Floor)
		path = append(path, geom.Point{X: x, Y: 3})
	}
	for y := 3; y <= 6; y++ {
		grid.Set(16, y, geom.Floor)
	}
	rooms := []Room{
		{ID: 0, X: 1, Y: 1, Width: 4, Height: 4, CenterX: 3, CenterY: 3, Type: RoomEntrance},
		{ID: 1, X: 14, Y: 4, Width: 4, Height: 4, CenterX: 16, CenterY: 6, Type: RoomExit},
	}
	conns := []Connection{{FromRoomID: 0, ToRoomID: 1, Path: path, Type: ConnOpen}}
	spawns := []SpawnPoint{
		{Position: geom.Point{X: 3, Y: 3}, RoomID: 0, Type: "entrance"},
		{Position: geom.Point{X: 16, Y: 6}, RoomID: 1, Type: "exit"},
	}
	return &State{Width: 20, Height: 10, Grid: grid, Rooms: rooms, Connections: conns, Spawns: spawns}
}

// The validator pass reads neither ctx nor pctx, so it can be invoked
// directly with both nil rather than through a full pipeline run.

func TestValidatorPassAcceptsWellFormedState(t *testing.T) {
	pass := NewValidatorPass(ValidatorConfig{RequireFullConnectivity: true})
	_, err := pass.Run(nil, validatorFixtureState(), nil)
	if err != nil {
		t.Fatalf("expected a well-formed state to validate cleanly, got: %v", err)
	}
}

func TestValidatorPassRejectsBrokenBorder(t *testing.T) {
	state := validatorFixtureState()
	state.Grid.Set(0, 0, geom.Floor)
	pass := NewValidatorPass(ValidatorConfig{})
	_, err := pass.Run(nil, state, nil)
	assertViolationContains(t, err, "border")
}

func TestValidatorPassRejectsMissingEntrance(t *testing.T) {
	state := validatorFixtureState()
	state.Spawns = state.Spawns[1:] // drop the entrance spawn
	pass := NewValidatorPass(ValidatorConfig{})
	_, err := pass.Run(nil, state, nil)
	assertViolationContains(t, err, "entrance")
}

func TestValidatorPassRejectsNonWalkableRoomCenter(t *testing.T) {
	state := validatorFixtureState()
	state.Grid.Set(3, 3, geom.Wall)
	pass := NewValidatorPass(ValidatorConfig{})
	_, err := pass.Run(nil, state, nil)
	assertViolationContains(t, err, "room-center")
}

func TestValidatorPassRejectsDisconnectedGrid(t *testing.T) {
	state := validatorFixtureState()
	// Sever the corridor, leaving two isolated Floor components.
	for x := 4; x <= 16; x++ {
		state.Grid.Set(x, 3, geom.Wall)
	}
	for y := 3; y <= 6; y++ {
		state.Grid.Set(16, y, geom.Wall)
	}
	pass := NewValidatorPass(ValidatorConfig{RequireFullConnectivity: true})
	_, err := pass.Run(nil, state, nil)
	assertViolationContains(t, err, "connectivity")
}

func TestValidatorPassSkipsConnectivityWhenNotRequired(t *testing.T) {
	state := validatorFixtureState()
	for x := 4; x <= 16; x++ {
		state.Grid.Set(x, 3, geom.Wall)
	}
	for y := 3; y <= 6; y++ {
		state.Grid.Set(16, y, geom.Wall)
	}
	state.Connections = nil
	state.Spawns = []SpawnPoint{
		{Position: geom.Point{X: 3, Y: 3}, RoomID: 0, Type: "entrance"},
		{Position: geom.Point{X: 2, Y: 2}, RoomID: 0, Type: "exit"},
	}
	state.Rooms = state.Rooms[:1]
	pass := NewValidatorPass(ValidatorConfig{RequireFullConnectivity: false})
	_, err := pass.Run(nil, state, nil)
	if err != nil {
		t.Fatalf("expected disconnected-but-not-required state to validate, got: %v", err)
	}
}

func TestValidatorPassRejectsCorridorCrossing(t *testing.T) {
	state := validatorFixtureState()
	state.Connections = append(state.Connections, Connection{
		FromRoomID: 2, ToRoomID: 3,
		Path: []geom.Point{{X: 10, Y: 1}, {X: 10, Y: 2}, {X: 10, Y: 3}, {X: 10, Y: 4}},
		Type: ConnOpen,
	})
	pass := NewValidatorPass(ValidatorConfig{})
	_, err := pass.Run(nil, state, nil)
	assertViolationContains(t, err, "crossing")
}

func assertViolationContains(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected a validation failure containing %q, got nil", substr)
	}
	var vf *ValidationFailure
	if !errors.As(err, &vf) {
		t.Fatalf("expected *ValidationFailure, got %T: %v", err, err)
	}
	for _, v := range vf.Violations {
		if containsSubstr(v, substr) {
			return
		}
	}
	t.Errorf("no violation contains %q; got %v", substr, vf.Violations)
}

func containsSubstr(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
