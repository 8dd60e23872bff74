package game

import (
	"math"
	"strconv"
	"strings"
)

// Observation is the discretized view handed to a learning agent: tile codes
// in a square window around the player plus four coarse motion features.
type Observation struct {
	Grid [][]int // (2r+1) x (2r+1) tile codes, row-major, centered on the player
	Meta [4]int  // Tile offset bucket, horizontal direction, vertical direction, on-ground flag
}

// Key flattens the observation into a stable string for Q-table lookups.
// Grid cells come first in row-major order, then the meta features after a
// pipe separator.
func (o Observation) Key() string {
	var b strings.Builder
	for i, row := range o.Grid {
		for j, cell := range row {
			if i > 0 || j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(cell))
		}
	}
	b.WriteByte('|')
	for i, v := range o.Meta {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

// Observe builds the agent observation around the player's anchor tile.
// Tiles outside the map read as empty.
func (g *Game) Observe() Observation {
	r := g.cfg.VisionRadius
	ts := float64(g.cfg.Physics.TileSize)

	anchorX := tileCoord(g.x, ts)
	anchorY := tileCoord(g.y, ts)

	grid := make([][]int, 0, 2*r+1)
	for dy := -r; dy <= r; dy++ {
		row := make([]int, 0, 2*r+1)
		for dx := -r; dx <= r; dx++ {
			row = append(row, g.tmap.At(anchorX+dx, anchorY+dy).Code())
		}
		grid = append(grid, row)
	}

	// One bit of in-tile precision: bucket 0 is the left half of the
	// anchor tile, bucket 1 the right half.
	offset := (g.x - math.Floor(g.x/ts)*ts) / ts
	bucket := 0
	if offset >= 0.5 {
		bucket = 1
	}

	ground := 0
	if g.onGround {
		ground = 1
	}

	return Observation{
		Grid: grid,
		Meta: [4]int{bucket, velDir(g.velX), velDir(g.velY), ground},
	}
}

// velDir discretizes a velocity into -1, 0 or 1. Speeds within half a pixel
// per tick of zero count as stationary.
func velDir(v float64) int {
	switch {
	case v > 0.5:
		return 1
	case v < -0.5:
		return -1
	default:
		return 0
	}
}
