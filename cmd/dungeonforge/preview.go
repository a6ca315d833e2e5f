package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rogue3/dungeonforge/pkg/dungeon"
	"github.com/rogue3/dungeonforge/pkg/geom"
)

// previewArtifact paints a finalized terrain grid directly into the
// terminal using tcell. It is presentation only: generation has already
// completed by the time this runs, and nothing here feeds back into it.
func previewArtifact(artifact *dungeon.DungeonArtifact) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal screen: %w", err)
	}
	defer screen.Fini()

	screen.SetStyle(tcell.StyleDefault)
	screen.DisableMouse()
	screen.HideCursor()

	drawDungeon(screen, artifact)
	screen.Show()

	for {
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC, tcell.KeyEnter:
				return nil
			}
			if ev.Rune() == 'q' {
				return nil
			}
		case *tcell.EventResize:
			screen.Sync()
			drawDungeon(screen, artifact)
			screen.Show()
		}
	}
}

func drawDungeon(screen tcell.Screen, artifact *dungeon.DungeonArtifact) {
	screen.Clear()
	w, h := screen.Size()

	for y := 0; y < artifact.Height && y < h; y++ {
		for x := 0; x < artifact.Width && x < w; x++ {
			r, style := cellGlyph(artifact.Get(x, y))
			screen.SetContent(x, y, r, nil, style)
		}
	}
	for _, s := range artifact.Spawns {
		if s.Position.X >= w || s.Position.Y >= h {
			continue
		}
		r, style := spawnGlyph(s.Type)
		screen.SetContent(s.Position.X, s.Position.Y, r, nil, style)
	}

	status := fmt.Sprintf("dungeonforge preview — seed %d — %d rooms — q/esc to quit",
		artifact.Seed.NumericValue, len(artifact.Rooms))
	for i, r := range status {
		if i >= w {
			break
		}
		screen.SetContent(i, h-1, r, nil, tcell.StyleDefault.Reverse(true))
	}
}

func cellGlyph(ct geom.CellType) (rune, tcell.Style) {
	switch ct {
	case geom.Floor:
		return '.', tcell.StyleDefault.Foreground(tcell.ColorGray)
	case geom.Wall:
		return '#', tcell.StyleDefault.Foreground(tcell.ColorSilver)
	case geom.Door:
		return '+', tcell.StyleDefault.Foreground(tcell.ColorYellow)
	case geom.Water:
		return '~', tcell.StyleDefault.Foreground(tcell.ColorBlue)
	case geom.Lava:
		return '%', tcell.StyleDefault.Foreground(tcell.ColorRed)
	default:
		return ' ', tcell.StyleDefault
	}
}

func spawnGlyph(spawnType string) (rune, tcell.Style) {
	switch spawnType {
	case "entrance":
		return '<', tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	case "exit":
		return '>', tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	default:
		return '*', tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	}
}
