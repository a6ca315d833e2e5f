package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rogue3/dungeonforge/pkg/geom"
)

func TestExportTMJ_BasicStructure(t *testing.T) {
	artifact := createTestArtifact()

	tmjMap, err := ExportTMJ(artifact, false)
	if err != nil {
		t.Fatalf("ExportTMJ failed: %v", err)
	}

	if tmjMap.Width != artifact.Width || tmjMap.Height != artifact.Height {
		t.Errorf("dimensions = %dx%d, want %dx%d", tmjMap.Width, tmjMap.Height, artifact.Width, artifact.Height)
	}
	if tmjMap.Orientation != "orthogonal" {
		t.Errorf("orientation = %q, want orthogonal", tmjMap.Orientation)
	}

	var tileLayers, objectLayers int
	for _, l := range tmjMap.Layers {
		switch l.Type {
		case "tilelayer":
			tileLayers++
			if l.Width != artifact.Width || l.Height != artifact.Height {
				t.Errorf("layer %q dims = %dx%d, want %dx%d", l.Name, l.Width, l.Height, artifact.Width, artifact.Height)
			}
		case "objectgroup":
			objectLayers++
		}
	}
	if tileLayers != 5 {
		t.Errorf("tile layer count = %d, want 5 (floor/walls/doors/water/lava)", tileLayers)
	}
	if objectLayers != 2 {
		t.Errorf("object layer count = %d, want 2 (rooms/spawns)", objectLayers)
	}
}

func TestExportTMJ_NilArtifact(t *testing.T) {
	if _, err := ExportTMJ(nil, false); err == nil {
		t.Error("expected error for nil artifact, got nil")
	}
}

func TestExportTMJ_RoomsAndSpawnsBecomeObjects(t *testing.T) {
	artifact := createTestArtifact()
	tmjMap, err := ExportTMJ(artifact, false)
	if err != nil {
		t.Fatalf("ExportTMJ failed: %v", err)
	}

	var roomObjs, spawnObjs int
	for _, l := range tmjMap.Layers {
		if l.Name == "rooms" {
			roomObjs = len(l.Objects)
		}
		if l.Name == "spawns" {
			spawnObjs = len(l.Objects)
		}
	}
	if roomObjs != len(artifact.Rooms) {
		t.Errorf("room object count = %d, want %d", roomObjs, len(artifact.Rooms))
	}
	if spawnObjs != len(artifact.Spawns) {
		t.Errorf("spawn object count = %d, want %d", spawnObjs, len(artifact.Spawns))
	}
}

func TestExportTMJ_CompressedLayerDecodesAsBase64Gzip(t *testing.T) {
	artifact := createTestArtifact()
	tmjMap, err := ExportTMJ(artifact, true)
	if err != nil {
		t.Fatalf("ExportTMJ with compression failed: %v", err)
	}
	for _, l := range tmjMap.Layers {
		if l.Type != "tilelayer" {
			continue
		}
		if l.Encoding != "base64" || l.Compression != "gzip" {
			t.Errorf("layer %q encoding=%q compression=%q, want base64/gzip", l.Name, l.Encoding, l.Compression)
		}
		if _, ok := l.Data.(string); !ok {
			t.Errorf("layer %q data is %T, want string after compression", l.Name, l.Data)
		}
	}
}

func TestMarshalTMJ_ProducesValidJSON(t *testing.T) {
	artifact := createTestArtifact()
	tmjMap, err := ExportTMJ(artifact, false)
	if err != nil {
		t.Fatalf("ExportTMJ failed: %v", err)
	}

	data, err := MarshalTMJ(tmjMap)
	if err != nil {
		t.Fatalf("MarshalTMJ failed: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("MarshalTMJ produced invalid JSON: %v", err)
	}
	if decoded["type"] != "map" {
		t.Errorf("decoded type = %v, want \"map\"", decoded["type"])
	}
}

func TestMarshalTMJCompact_SmallerThanFormatted(t *testing.T) {
	artifact := createTestArtifact()
	tmjMap, _ := ExportTMJ(artifact, false)

	compact, err := MarshalTMJCompact(tmjMap)
	if err != nil {
		t.Fatalf("MarshalTMJCompact failed: %v", err)
	}
	formatted, _ := MarshalTMJ(tmjMap)
	if len(compact) >= len(formatted) {
		t.Errorf("compact TMJ is not smaller: compact=%d, formatted=%d", len(compact), len(formatted))
	}
}

func TestSaveArtifactToTMJFile(t *testing.T) {
	artifact := createTestArtifact()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "dungeon.tmj.json")

	if err := SaveArtifactToTMJFile(artifact, path, false); err != nil {
		t.Fatalf("SaveArtifactToTMJFile failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("SaveArtifactToTMJFile did not create file")
	}
}

func TestTmjGID_AssignsDistinctIDsPerCellType(t *testing.T) {
	seen := map[uint32]bool{}
	for _, ct := range []geom.CellType{geom.Floor, geom.Wall, geom.Door, geom.Water, geom.Lava} {
		gid := tmjGID(ct)
		if gid == 0 {
			t.Errorf("cell type %v mapped to reserved GID 0", ct)
		}
		if seen[gid] {
			t.Errorf("cell type %v reused GID %d", ct, gid)
		}
		seen[gid] = true
	}
}
