// Package level provides ASCII tile map parsing, queries, and the built-in
// map catalog. Maps are rectangular character grids; the playfield is
// bounded by implicit walls beyond every edge.
package level

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Tile represents a single cell of the playfield grid.
type Tile int

const (
	Empty Tile = iota
	Wall
	Coin
	Goal
	Hazard
	// OutOfBounds is the sentinel returned for queries outside the grid.
	// It is never stored in the grid itself.
	OutOfBounds
)

// Code returns the tile's numeric observation code.
// Out-of-bounds cells read the same as empty ones.
func (t Tile) Code() int {
	switch t {
	case Wall:
		return 1
	case Coin:
		return 2
	case Goal:
		return 3
	case Hazard:
		return -1
	default:
		return 0
	}
}

var (
	// ErrBadFormat reports an empty or ragged grid, or duplicate special tiles.
	ErrBadFormat = errors.New("level: bad map format")
	// ErrNoStart reports a map without a start tile.
	ErrNoStart = errors.New("level: map has no start tile")
)

// TileMap is a mutable tile grid with a recorded start and optional goal.
type TileMap struct {
	width  int
	height int
	grid   [][]Tile

	startX, startY int
	goalX, goalY   int
	hasGoal        bool

	// Coin cells removed since the last Reset, so Reset can restore them.
	collected map[[2]int]bool
}

// Parse builds a TileMap from an ASCII grid, one character per tile column.
// Characters:
//
//	'#' or 'X' = wall
//	'.'        = empty
//	'*'        = coin
//	'E'        = goal (at most one)
//	'-'        = hazard
//	'S'        = start (exactly one, rewritten to empty)
//
// Unrecognized characters parse as empty. Rows must all have the same width.
func Parse(lines []string) (*TileMap, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrBadFormat)
	}
	width := len(lines[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: empty first row", ErrBadFormat)
	}

	m := &TileMap{
		width:     width,
		height:    len(lines),
		grid:      make([][]Tile, len(lines)),
		collected: make(map[[2]int]bool),
	}

	foundStart := false
	for y, line := range lines {
		if len(line) != width {
			return nil, fmt.Errorf("%w: row %d is %d wide, want %d", ErrBadFormat, y, len(line), width)
		}
		m.grid[y] = make([]Tile, width)
		for x := 0; x < width; x++ {
			switch line[x] {
			case '#', 'X':
				m.grid[y][x] = Wall
			case '*':
				m.grid[y][x] = Coin
			case 'E':
				if m.hasGoal {
					return nil, fmt.Errorf("%w: more than one goal tile", ErrBadFormat)
				}
				m.grid[y][x] = Goal
				m.goalX, m.goalY = x, y
				m.hasGoal = true
			case '-':
				m.grid[y][x] = Hazard
			case 'S':
				if foundStart {
					return nil, fmt.Errorf("%w: more than one start tile", ErrBadFormat)
				}
				// The start tile is consumed so movement never re-triggers it.
				m.grid[y][x] = Empty
				m.startX, m.startY = x, y
				foundStart = true
			default:
				m.grid[y][x] = Empty
			}
		}
	}

	if !foundStart {
		return nil, ErrNoStart
	}
	return m, nil
}

// Load reads a map file and parses it.
func Load(path string) (*TileMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("level: cannot read map %s: %w", path, err)
	}
	m, err := Parse(SplitLines(string(data)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// SplitLines splits raw map text into rows, stripping carriage returns and
// dropping trailing blank lines. Blank lines in the middle are kept (and
// rejected by Parse as ragged rows).
func SplitLines(text string) []string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines
}

// Width returns the grid width in tiles.
func (m *TileMap) Width() int {
	return m.width
}

// Height returns the grid height in tiles.
func (m *TileMap) Height() int {
	return m.height
}

// At returns the tile at grid coordinates (gx, gy).
// Coordinates outside the grid return OutOfBounds, never an error.
func (m *TileMap) At(gx, gy int) Tile {
	if gx < 0 || gx >= m.width || gy < 0 || gy >= m.height {
		return OutOfBounds
	}
	return m.grid[gy][gx]
}

// IsWall reports whether (gx, gy) blocks movement. Out-of-bounds cells count
// as walls: the play area is bounded by implicit walls.
func (m *TileMap) IsWall(gx, gy int) bool {
	t := m.At(gx, gy)
	return t == Wall || t == OutOfBounds
}

// Start returns the grid coordinates recorded for the consumed start tile.
func (m *TileMap) Start() (gx, gy int) {
	return m.startX, m.startY
}

// Goal returns the goal's grid coordinates. When the map has no goal the
// coordinates are (0, 0); check HasGoal before treating them as a destination.
func (m *TileMap) Goal() (gx, gy int) {
	return m.goalX, m.goalY
}

// HasGoal reports whether the map contains a goal tile.
func (m *TileMap) HasGoal() bool {
	return m.hasGoal
}

// RemoveCoin rewrites a coin cell to empty, remembering it for Reset.
// Calling it on anything but a coin is a no-op, so double collection is safe.
func (m *TileMap) RemoveCoin(gx, gy int) {
	if m.At(gx, gy) != Coin {
		return
	}
	m.grid[gy][gx] = Empty
	m.collected[[2]int{gx, gy}] = true
}

// Reset restores every coin collected since load, matching a fresh parse of
// the original source.
func (m *TileMap) Reset() {
	for pos := range m.collected {
		m.grid[pos[1]][pos[0]] = Coin
	}
	clear(m.collected)
}

// CoinCount returns the number of coins currently on the map.
func (m *TileMap) CoinCount() int {
	count := 0
	for _, row := range m.grid {
		for _, t := range row {
			if t == Coin {
				count++
			}
		}
	}
	return count
}

// Lines renders the map back to its ASCII form, with the start tile marked.
// Wall variants are not preserved; every wall renders as '#'.
func (m *TileMap) Lines() []string {
	lines := make([]string, m.height)
	for y, row := range m.grid {
		buf := make([]byte, m.width)
		for x, t := range row {
			switch t {
			case Wall:
				buf[x] = '#'
			case Coin:
				buf[x] = '*'
			case Goal:
				buf[x] = 'E'
			case Hazard:
				buf[x] = '-'
			default:
				buf[x] = '.'
			}
		}
		lines[y] = string(buf)
	}
	row := []byte(lines[m.startY])
	row[m.startX] = 'S'
	lines[m.startY] = string(row)
	return lines
}
