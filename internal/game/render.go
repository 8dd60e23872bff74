package game

import (
	"github.com/vovakirdan/gridhopper/internal/core"
	"github.com/vovakirdan/gridhopper/internal/level"
)

// Glyphs used by the terminal renderer, one screen cell per map tile.
const (
	WallChar   = '█'
	CoinChar   = '●'
	GoalChar   = '⚑'
	HazardChar = '▲'
	PlayerChar = '@'
)

// Render draws the map and the player onto dst.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	for y := 0; y < g.tmap.Height(); y++ {
		for x := 0; x < g.tmap.Width(); x++ {
			switch g.tmap.At(x, y) {
			case level.Wall:
				dst.SetCell(x, y, WallChar, core.ColorGray)
			case level.Coin:
				dst.SetCell(x, y, CoinChar, core.ColorYellow)
			case level.Goal:
				dst.SetCell(x, y, GoalChar, core.ColorGreen)
			case level.Hazard:
				dst.SetCell(x, y, HazardChar, core.ColorRed)
			}
		}
	}

	// The player fills one tile column and two tile rows
	ts := float64(g.cfg.Physics.TileSize)
	px := tileCoord(g.x, ts)
	py := tileCoord(g.y, ts)
	dst.SetCell(px, py, PlayerChar, core.ColorCyan)
	dst.SetCell(px, py+1, PlayerChar, core.ColorCyan)
}
