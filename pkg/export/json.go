package export

import (
	"encoding/json"
	"os"

	"github.com/rogue3/dungeonforge/pkg/dungeon"
)

// ExportJSON serializes the complete artifact to indented JSON.
func ExportJSON(artifact *dungeon.DungeonArtifact) ([]byte, error) {
	return json.MarshalIndent(artifact, "", "  ")
}

// ExportJSONCompact serializes the artifact to JSON without indentation,
// suitable for storage or transmission (e.g. alongside a share code).
func ExportJSONCompact(artifact *dungeon.DungeonArtifact) ([]byte, error) {
	return json.Marshal(artifact)
}

// ImportJSON parses a previously exported artifact back into memory. The
// round trip preserves every field but not the checksum's provenance
// guarantee beyond its own recomputability: callers that need to verify
// an imported artifact wasn't tampered with should recompute and compare
// against dungeon.ComputeChecksum.
func ImportJSON(data []byte) (*dungeon.DungeonArtifact, error) {
	var artifact dungeon.DungeonArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, err
	}
	return &artifact, nil
}

// SaveJSONToFile exports the artifact to an indented JSON file. The file
// is created with 0644 permissions (readable by all, writable by owner).
func SaveJSONToFile(artifact *dungeon.DungeonArtifact, path string) error {
	data, err := ExportJSON(artifact)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SaveJSONCompactToFile exports the artifact to a compact JSON file. The
// file is created with 0644 permissions (readable by all, writable by
// owner).
func SaveJSONCompactToFile(artifact *dungeon.DungeonArtifact, path string) error {
	data, err := ExportJSONCompact(artifact)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadJSONFromFile reads and parses a previously exported artifact file.
func LoadJSONFromFile(path string) (*dungeon.DungeonArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ImportJSON(data)
}
