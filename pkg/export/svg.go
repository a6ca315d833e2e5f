package export

import (
	"bytes"
	"fmt"
	"os"

	svg "github.com/ajstarks/svgo"
	"github.com/rogue3/dungeonforge/pkg/dungeon"
	"github.com/rogue3/dungeonforge/pkg/geom"
)

// SVGOptions configures terrain visualization export.
type SVGOptions struct {
	CellSize    int    // Pixel size of one grid cell (default: 16)
	ShowGrid    bool   // Draw faint gridlines between cells
	ShowRooms   bool   // Outline each room's bounding rectangle
	ShowSpawns  bool   // Draw a marker at every spawn point
	ShowLegend  bool   // Draw a legend explaining cell colors
	Title       string // Optional title drawn above the grid
	Margin      int    // Canvas margin in pixels (default: 40)
}

// DefaultSVGOptions returns sensible default SVG export options.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		CellSize:   16,
		ShowGrid:   false,
		ShowRooms:  true,
		ShowSpawns: true,
		ShowLegend: true,
		Title:      "Dungeon",
		Margin:     40,
	}
}

// cellColor maps a terrain cell type to its fill color.
func cellColor(ct geom.CellType) string {
	switch ct {
	case geom.Floor:
		return "#2d3748"
	case geom.Wall:
		return "#0f1117"
	case geom.Door:
		return "#b7791f"
	case geom.Water:
		return "#2b6cb0"
	case geom.Lava:
		return "#c53030"
	default:
		return "#000000"
	}
}

// ExportSVG rasterizes artifact's finalized terrain grid into an SVG
// image: one colored rect per cell, room outlines, and spawn markers.
func ExportSVG(artifact *dungeon.DungeonArtifact, opts SVGOptions) ([]byte, error) {
	if artifact == nil {
		return nil, fmt.Errorf("artifact cannot be nil")
	}
	if opts.CellSize <= 0 {
		opts.CellSize = 16
	}
	if opts.Margin <= 0 {
		opts.Margin = 40
	}

	headerHeight := 0
	if opts.Title != "" {
		headerHeight = 30
	}
	legendWidth := 0
	if opts.ShowLegend {
		legendWidth = 160
	}

	width := artifact.Width*opts.CellSize + 2*opts.Margin + legendWidth
	height := artifact.Height*opts.CellSize + 2*opts.Margin + headerHeight

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#111318")

	originX, originY := opts.Margin, opts.Margin+headerHeight

	drawTerrain(canvas, artifact, originX, originY, opts)
	if opts.ShowRooms {
		drawRoomOutlines(canvas, artifact, originX, originY, opts)
	}
	if opts.ShowSpawns {
		drawSpawnMarkers(canvas, artifact, originX, originY, opts)
	}
	if opts.Title != "" {
		canvas.Text(width/2, 20, opts.Title,
			"text-anchor:middle;font-size:16px;font-weight:bold;fill:#e2e8f0;font-family:sans-serif")
	}
	if opts.ShowLegend {
		drawLegend(canvas, originX+artifact.Width*opts.CellSize+20, originY, opts)
	}

	canvas.End()
	return buf.Bytes(), nil
}

// SaveSVGToFile generates a terrain visualization and writes it to path.
// The file is created with 0644 permissions (readable by all, writable
// by owner).
func SaveSVGToFile(artifact *dungeon.DungeonArtifact, path string, opts SVGOptions) error {
	data, err := ExportSVG(artifact, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func drawTerrain(canvas *svg.SVG, artifact *dungeon.DungeonArtifact, originX, originY int, opts SVGOptions) {
	cs := opts.CellSize
	for y := 0; y < artifact.Height; y++ {
		for x := 0; x < artifact.Width; x++ {
			ct := artifact.Get(x, y)
			style := fmt.Sprintf("fill:%s", cellColor(ct))
			if opts.ShowGrid {
				style += ";stroke:#1a202c;stroke-width:0.5"
			}
			canvas.Rect(originX+x*cs, originY+y*cs, cs, cs, style)
		}
	}
}

func drawRoomOutlines(canvas *svg.SVG, artifact *dungeon.DungeonArtifact, originX, originY int, opts SVGOptions) {
	cs := opts.CellSize
	for _, r := range artifact.Rooms {
		color := roomTypeColor(r.Type)
		canvas.Rect(
			originX+r.X*cs, originY+r.Y*cs, r.Width*cs, r.Height*cs,
			fmt.Sprintf("fill:none;stroke:%s;stroke-width:2", color),
		)
	}
}

func roomTypeColor(t dungeon.RoomType) string {
	switch t {
	case dungeon.RoomEntrance:
		return "#48bb78"
	case dungeon.RoomExit:
		return "#f56565"
	case dungeon.RoomBoss:
		return "#e53e3e"
	case dungeon.RoomTreasure:
		return "#ecc94b"
	case dungeon.RoomLibrary:
		return "#9f7aea"
	case dungeon.RoomCavern:
		return "#718096"
	default:
		return "#4299e1"
	}
}

func drawSpawnMarkers(canvas *svg.SVG, artifact *dungeon.DungeonArtifact, originX, originY int, opts SVGOptions) {
	cs := opts.CellSize
	for _, s := range artifact.Spawns {
		cx := originX + s.Position.X*cs + cs/2
		cy := originY + s.Position.Y*cs + cs/2
		color := "#ffd700"
		switch s.Type {
		case "entrance":
			color = "#48bb78"
		case "exit":
			color = "#f56565"
		}
		canvas.Circle(cx, cy, cs/3, fmt.Sprintf("fill:%s;stroke:#000;stroke-width:1", color))
	}
}

func drawLegend(canvas *svg.SVG, x, y int, opts SVGOptions) {
	entries := []struct {
		label string
		color string
	}{
		{"Floor", cellColor(geom.Floor)},
		{"Wall", cellColor(geom.Wall)},
		{"Door", cellColor(geom.Door)},
		{"Water", cellColor(geom.Water)},
		{"Lava", cellColor(geom.Lava)},
	}
	canvas.Text(x, y, "Terrain", "font-size:13px;font-weight:bold;fill:#e2e8f0")
	y += 18
	for _, e := range entries {
		canvas.Rect(x, y-10, 12, 12, fmt.Sprintf("fill:%s;stroke:#fff;stroke-width:1", e.color))
		canvas.Text(x+18, y, e.label, "font-size:11px;fill:#cbd5e0")
		y += 18
	}
	y += 8
	canvas.Text(x, y, "Spawns", "font-size:13px;font-weight:bold;fill:#e2e8f0")
	y += 18
	for _, e := range []struct{ label, color string }{
		{"Entrance", "#48bb78"}, {"Exit", "#f56565"}, {"Item", "#ffd700"},
	} {
		canvas.Circle(x+6, y-4, 5, fmt.Sprintf("fill:%s;stroke:#000;stroke-width:1", e.color))
		canvas.Text(x+18, y, e.label, "font-size:11px;fill:#cbd5e0")
		y += 18
	}
}
