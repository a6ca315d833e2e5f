package export

import (
	"strings"
	"testing"
)

func TestExportSVG_Basic(t *testing.T) {
	artifact := createTestArtifact()

	opts := DefaultSVGOptions()
	opts.Title = "Test Dungeon"

	data, err := ExportSVG(artifact, opts)
	if err != nil {
		t.Fatalf("ExportSVG failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("ExportSVG returned empty data")
	}

	svgStr := string(data)
	if !strings.Contains(svgStr, "<svg") {
		t.Error("output does not contain <svg> tag")
	}
	if !strings.Contains(svgStr, "</svg>") {
		t.Error("output does not contain closing </svg> tag")
	}
}

func TestExportSVG_NilArtifact(t *testing.T) {
	opts := DefaultSVGOptions()
	if _, err := ExportSVG(nil, opts); err == nil {
		t.Error("expected error for nil artifact, got nil")
	}
}

func TestExportSVG_DefaultsAppliedForZeroOptions(t *testing.T) {
	artifact := createTestArtifact()
	data, err := ExportSVG(artifact, SVGOptions{})
	if err != nil {
		t.Fatalf("ExportSVG with zero-value options failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("ExportSVG returned empty data for zero-value options")
	}
}

func TestExportSVG_ContainsOneRectPerCell(t *testing.T) {
	artifact := createTestArtifact()
	opts := DefaultSVGOptions()
	opts.ShowRooms, opts.ShowSpawns, opts.ShowLegend = false, false, false

	data, err := ExportSVG(artifact, opts)
	if err != nil {
		t.Fatalf("ExportSVG failed: %v", err)
	}
	want := artifact.Width * artifact.Height
	got := strings.Count(string(data), "<rect")
	// One rect per terrain cell, plus the background rect.
	if got != want+1 {
		t.Errorf("rect count = %d, want %d (background + one per cell)", got, want+1)
	}
}

func TestExportSVG_DrawsSpawnMarkers(t *testing.T) {
	artifact := createTestArtifact()
	opts := DefaultSVGOptions()
	opts.ShowSpawns = true

	data, err := ExportSVG(artifact, opts)
	if err != nil {
		t.Fatalf("ExportSVG failed: %v", err)
	}
	got := strings.Count(string(data), "<circle")
	// One marker per spawn, plus legend spawn-type circles when enabled.
	if got < len(artifact.Spawns) {
		t.Errorf("circle count = %d, want at least %d (one per spawn)", got, len(artifact.Spawns))
	}
}

func TestDefaultSVGOptions(t *testing.T) {
	opts := DefaultSVGOptions()
	if opts.CellSize <= 0 {
		t.Errorf("CellSize should be positive, got %d", opts.CellSize)
	}
	if opts.Margin <= 0 {
		t.Errorf("Margin should be positive, got %d", opts.Margin)
	}
	if !opts.ShowRooms {
		t.Error("ShowRooms should be true by default")
	}
	if !opts.ShowSpawns {
		t.Error("ShowSpawns should be true by default")
	}
}
