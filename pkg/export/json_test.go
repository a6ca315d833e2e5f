package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rogue3/dungeonforge/pkg/dungeon"
	"github.com/rogue3/dungeonforge/pkg/geom"
)

func createTestArtifact() *dungeon.DungeonArtifact {
	terrain := make([]byte, 10*10)
	for i := range terrain {
		terrain[i] = byte(geom.Wall)
	}
	for y := 2; y < 8; y++ {
		for x := 2; x < 8; x++ {
			terrain[y*10+x] = byte(geom.Floor)
		}
	}

	artifact := &dungeon.DungeonArtifact{
		Type:    "dungeon",
		Width:   10,
		Height:  10,
		Terrain: terrain,
		Rooms: []dungeon.Room{
			{ID: 0, X: 2, Y: 2, Width: 3, Height: 3, CenterX: 3, CenterY: 3, Type: dungeon.RoomEntrance},
			{ID: 1, X: 6, Y: 6, Width: 2, Height: 2, CenterX: 6, CenterY: 6, Type: dungeon.RoomExit},
		},
		Connections: []dungeon.Connection{
			{FromRoomID: 0, ToRoomID: 1, Path: []geom.Point{{X: 3, Y: 3}, {X: 6, Y: 6}}, Type: dungeon.ConnDoor},
		},
		Spawns: []dungeon.SpawnPoint{
			{Position: geom.Point{X: 3, Y: 3}, RoomID: 0, Type: "entrance"},
			{Position: geom.Point{X: 6, Y: 6}, RoomID: 1, Type: "exit", DistanceFromStart: 5},
		},
		Seed: dungeon.Seed{NumericValue: 12345, StringValue: "test", Timestamp: 1},
	}
	artifact.Checksum = dungeon.ComputeChecksum(artifact)
	return artifact
}

func TestExportJSON(t *testing.T) {
	artifact := createTestArtifact()

	data, err := ExportJSON(artifact)
	if err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("ExportJSON() returned empty data")
	}

	var result dungeon.DungeonArtifact
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("ExportJSON() produced invalid JSON: %v", err)
	}
	if len(result.Rooms) != len(artifact.Rooms) {
		t.Errorf("rooms count mismatch: got %d, want %d", len(result.Rooms), len(artifact.Rooms))
	}
	if result.Checksum != artifact.Checksum {
		t.Errorf("checksum mismatch: got %s, want %s", result.Checksum, artifact.Checksum)
	}
}

func TestExportJSONCompact(t *testing.T) {
	artifact := createTestArtifact()

	data, err := ExportJSONCompact(artifact)
	if err != nil {
		t.Fatalf("ExportJSONCompact() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("ExportJSONCompact() returned empty data")
	}

	var result dungeon.DungeonArtifact
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("ExportJSONCompact() produced invalid JSON: %v", err)
	}

	formatted, _ := ExportJSON(artifact)
	if len(data) >= len(formatted) {
		t.Errorf("compact JSON is not smaller: compact=%d, formatted=%d", len(data), len(formatted))
	}
}

func TestSaveJSONToFile(t *testing.T) {
	artifact := createTestArtifact()
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "test_artifact.json")

	if err := SaveJSONToFile(artifact, filePath); err != nil {
		t.Fatalf("SaveJSONToFile() error = %v", err)
	}
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		t.Fatal("SaveJSONToFile() did not create file")
	}

	loaded, err := LoadJSONFromFile(filePath)
	if err != nil {
		t.Fatalf("LoadJSONFromFile() error = %v", err)
	}
	if loaded.Checksum != artifact.Checksum {
		t.Errorf("loaded checksum mismatch: got %s, want %s", loaded.Checksum, artifact.Checksum)
	}
}

func TestSaveJSONCompactToFile(t *testing.T) {
	artifact := createTestArtifact()
	tmpDir := t.TempDir()
	compactPath := filepath.Join(tmpDir, "compact.json")
	formattedPath := filepath.Join(tmpDir, "formatted.json")

	if err := SaveJSONCompactToFile(artifact, compactPath); err != nil {
		t.Fatalf("SaveJSONCompactToFile() error = %v", err)
	}
	if err := SaveJSONToFile(artifact, formattedPath); err != nil {
		t.Fatalf("SaveJSONToFile() error = %v", err)
	}

	compactData, _ := os.ReadFile(compactPath)
	formattedData, _ := os.ReadFile(formattedPath)
	if len(compactData) >= len(formattedData) {
		t.Errorf("compact file is not smaller: compact=%d, formatted=%d", len(compactData), len(formattedData))
	}
}

func TestSaveJSONToFile_InvalidPath(t *testing.T) {
	artifact := createTestArtifact()
	invalidPath := "/nonexistent/directory/that/does/not/exist/file.json"

	if err := SaveJSONToFile(artifact, invalidPath); err == nil {
		t.Fatal("SaveJSONToFile() should fail with an invalid path")
	}
}

func TestExportJSON_RoundTrip(t *testing.T) {
	original := createTestArtifact()

	data, err := ExportJSON(original)
	if err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}

	restored, err := ImportJSON(data)
	if err != nil {
		t.Fatalf("ImportJSON() error = %v", err)
	}

	if restored.Width != original.Width || restored.Height != original.Height {
		t.Errorf("dimensions mismatch: got %dx%d, want %dx%d", restored.Width, restored.Height, original.Width, original.Height)
	}
	if len(restored.Terrain) != len(original.Terrain) {
		t.Errorf("terrain length mismatch: got %d, want %d", len(restored.Terrain), len(original.Terrain))
	}
	if len(restored.Rooms) != len(original.Rooms) {
		t.Errorf("rooms count mismatch: got %d, want %d", len(restored.Rooms), len(original.Rooms))
	}
	if len(restored.Connections) != len(original.Connections) {
		t.Errorf("connections count mismatch: got %d, want %d", len(restored.Connections), len(original.Connections))
	}
	if len(restored.Spawns) != len(original.Spawns) {
		t.Errorf("spawns count mismatch: got %d, want %d", len(restored.Spawns), len(original.Spawns))
	}
	if restored.Seed != original.Seed {
		t.Errorf("seed mismatch: got %+v, want %+v", restored.Seed, original.Seed)
	}
	if restored.Checksum != original.Checksum {
		t.Errorf("checksum mismatch: got %s, want %s", restored.Checksum, original.Checksum)
	}

	recomputed := dungeon.ComputeChecksum(restored)
	if recomputed != original.Checksum {
		t.Errorf("recomputed checksum after round trip = %s, want %s", recomputed, original.Checksum)
	}
}

func TestExportJSON_EmptyArtifact(t *testing.T) {
	artifact := &dungeon.DungeonArtifact{}

	data, err := ExportJSON(artifact)
	if err != nil {
		t.Fatalf("ExportJSON() with empty artifact error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("ExportJSON() returned empty data for empty artifact")
	}

	var result dungeon.DungeonArtifact
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("ExportJSON() produced invalid JSON for empty artifact: %v", err)
	}
}
