// Package game implements the tile-based platformer simulation: per-tick
// physics, corner-based collision resolution, reward shaping and the grid
// observation handed to learning agents.
package game

import (
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/gridhopper/internal/level"
)

// Game runs the platformer physics on a single map. The player is one tile
// wide and two tiles tall, anchored at its top-left pixel.
type Game struct {
	cfg  Config
	tmap *level.TileMap

	x, y     float64 // Top-left corner of the player in pixels
	velX     float64
	velY     float64
	onGround bool

	completed bool // Player touched the goal tile
	gameOver  bool // Player touched a hazard tile
	steps     int  // Physics ticks in the current episode
	coins     int  // Coins collected in the current episode

	bestDistance       float64 // Closest goal approach this episode, in tiles
	stepsSinceProgress int     // Ticks since bestDistance last improved

	bestSteps         int     // Fewest ticks of any completed episode, -1 before the first win
	totalBestDistance float64 // Closest goal approach across all episodes

	startedAt time.Time
	elapsed   time.Duration
}

// New creates a game on the given map. The map's start tile becomes the
// player spawn point; cfg is typically DefaultConfig with overrides.
func New(m *level.TileMap, cfg Config) *Game {
	g := &Game{
		cfg:               cfg,
		tmap:              m,
		bestSteps:         -1,
		totalBestDistance: math.Inf(1),
	}
	g.Reset()
	return g
}

// Reset restores the map and puts the player back at the spawn point.
// Cross-episode statistics (best step count, closest goal approach) survive.
func (g *Game) Reset() {
	g.tmap.Reset()

	sx, sy := g.tmap.Start()
	ts := float64(g.cfg.Physics.TileSize)
	g.x = float64(sx) * ts
	g.y = float64(sy) * ts
	g.velX = 0
	g.velY = 0
	g.onGround = false
	g.completed = false
	g.gameOver = false
	g.steps = 0
	g.coins = 0
	g.stepsSinceProgress = 0

	goalX, _ := g.tmap.Goal()
	g.bestDistance = math.Abs(float64(sx - goalX))

	g.startedAt = time.Now()
	g.elapsed = 0
}

// Update advances the physics by one tick. A finished episode ignores
// further input until Reset.
func (g *Game) Update(a Action) {
	if g.completed || g.gameOver {
		return
	}

	g.elapsed = time.Since(g.startedAt)
	g.steps++

	p := g.cfg.Physics

	// Horizontal input
	switch a {
	case ActionLeft:
		g.velX = -p.MoveSpeed
	case ActionRight:
		g.velX = p.MoveSpeed
	default:
		// No direction held: bleed speed toward zero without crossing it
		if g.velX > 0 {
			g.velX = max(0, g.velX-p.SlideFriction)
		} else if g.velX < 0 {
			g.velX = min(0, g.velX+p.SlideFriction)
		}
	}

	// Jumping needs solid ground underfoot
	if a == ActionJump && g.onGround {
		g.velY = p.JumpStrength
		g.onGround = false
	}

	// Gravity, capped at terminal velocity
	g.velY += p.Gravity
	if g.velY > p.MaxFallSpeed {
		g.velY = p.MaxFallSpeed
	}

	// Move and resolve one axis at a time
	g.x += g.velX
	g.collideX()
	g.y += g.velY
	g.collideY()
}

// collideX resolves wall contact after the horizontal move and picks up any
// special tiles under the player's corners.
func (g *Game) collideX() {
	left, right, top, bottom := g.tileBounds()
	if g.touchCorners(left, right, top, bottom) {
		return
	}

	ts := float64(g.cfg.Physics.TileSize)
	w, _ := g.playerSize()

	if g.velX > 0 {
		if g.tmap.IsWall(right, top) || g.tmap.IsWall(right, bottom) {
			// Snap to the left face of the wall
			g.x = float64(right)*ts - w
			g.velX = 0
		}
	} else if g.velX < 0 {
		if g.tmap.IsWall(left, top) || g.tmap.IsWall(left, bottom) {
			// Snap to the right face of the wall
			g.x = float64(left+1) * ts
			g.velX = 0
		}
	}
}

// collideY resolves floor and ceiling contact after the vertical move and
// refreshes the on-ground flag.
func (g *Game) collideY() {
	left, right, top, bottom := g.tileBounds()
	if g.touchCorners(left, right, top, bottom) {
		return
	}

	ts := float64(g.cfg.Physics.TileSize)
	_, h := g.playerSize()

	g.onGround = false

	if g.velY > 0 {
		if g.tmap.IsWall(left, bottom) || g.tmap.IsWall(right, bottom) {
			// Land on top of the floor tile
			g.y = float64(bottom)*ts - h
			g.velY = 0
			g.onGround = true
		}
	}
	if g.velY < 0 {
		if g.tmap.IsWall(left, top) || g.tmap.IsWall(right, top) {
			// Bump against the ceiling
			g.y = float64(top+1) * ts
			g.velY = 0
		}
	}
}

// touchCorners collects coins and detects goal or hazard contact at the four
// player corners. It reports true when the episode ended during the scan.
func (g *Game) touchCorners(left, right, top, bottom int) bool {
	corners := [4][2]int{{left, top}, {right, top}, {left, bottom}, {right, bottom}}
	for _, c := range corners {
		switch g.tmap.At(c[0], c[1]) {
		case level.Coin:
			g.coins++
			g.tmap.RemoveCoin(c[0], c[1])
		case level.Goal:
			g.completed = true
			if g.bestSteps < 0 || g.steps < g.bestSteps {
				g.bestSteps = g.steps
			}
			return true
		case level.Hazard:
			g.gameOver = true
			return true
		}
	}
	return false
}

// tileBounds returns the tile coordinates of the player's four corners.
func (g *Game) tileBounds() (left, right, top, bottom int) {
	ts := float64(g.cfg.Physics.TileSize)
	w, h := g.playerSize()
	left = tileCoord(g.x, ts)
	right = tileCoord(g.x+w-1, ts)
	top = tileCoord(g.y, ts)
	bottom = tileCoord(g.y+h-1, ts)
	return
}

// playerSize returns the player hitbox dimensions in pixels.
func (g *Game) playerSize() (w, h float64) {
	ts := float64(g.cfg.Physics.TileSize)
	return ts, 2 * ts
}

// tileCoord maps a pixel coordinate to its tile column or row. Plain integer
// conversion truncates toward zero, which is wrong left of and above the map.
func tileCoord(pixel, tileSize float64) int {
	return int(math.Floor(pixel / tileSize))
}

// Map returns the map the game runs on.
func (g *Game) Map() *level.TileMap { return g.tmap }

// Position returns the player's top-left corner in pixels.
func (g *Game) Position() (x, y float64) { return g.x, g.y }

// Velocity returns the player's velocity in pixels per tick.
func (g *Game) Velocity() (vx, vy float64) { return g.velX, g.velY }

// OnGround reports whether the player is standing on solid ground.
func (g *Game) OnGround() bool { return g.onGround }

// Steps returns the number of physics ticks in the current episode.
func (g *Game) Steps() int { return g.steps }

// Coins returns the number of coins collected in the current episode.
func (g *Game) Coins() int { return g.coins }

// Completed reports whether the player reached the goal.
func (g *Game) Completed() bool { return g.completed }

// GameOver reports whether the player died.
func (g *Game) GameOver() bool { return g.gameOver }

// Done reports whether the episode reached a terminal state.
func (g *Game) Done() bool { return g.completed || g.gameOver }

// BestSteps returns the fewest ticks of any completed episode. ok is false
// before the first completion.
func (g *Game) BestSteps() (steps int, ok bool) {
	if g.bestSteps < 0 {
		return 0, false
	}
	return g.bestSteps, true
}

// TotalBestDistance returns the closest the player has ever been to the
// goal, in tiles, across all episodes since New.
func (g *Game) TotalBestDistance() float64 { return g.totalBestDistance }

// FormattedTime returns the wall-clock episode time as mm:ss.
func (g *Game) FormattedTime() string {
	total := int(g.elapsed / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
