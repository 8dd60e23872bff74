package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(40, 12)

	if s.Width() != 40 || s.Height() != 12 {
		t.Errorf("dimensions = %dx%d, expected 40x12", s.Width(), s.Height())
	}

	// Every cell starts as a blank default cell
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			cell := s.GetCell(x, y)
			if cell.Rune != ' ' || cell.Color != ColorDefault {
				t.Errorf("New screen cell at (%d, %d) = %+v, expected blank default", x, y, cell)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(2, 7, '@')
	if s.Get(2, 7) != '@' {
		t.Errorf("Get(2, 7) = %q, expected '@'", s.Get(2, 7))
	}

	// Out of bounds writes are silent and must not touch edge cells
	for _, p := range []struct{ x, y int }{{-1, 0}, {10, 0}, {0, -1}, {0, 10}} {
		s.Set(p.x, p.y, 'A')
	}
	if s.Get(0, 0) != ' ' || s.Get(9, 9) != ' ' {
		t.Error("Out of bounds Set should not leak into the buffer")
	}

	// Out of bounds reads return space
	if s.Get(-1, 0) != ' ' || s.Get(100, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenSetCell(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetCell(3, 4, '*', ColorYellow)

	cell := s.GetCell(3, 4)
	if cell.Rune != '*' {
		t.Errorf("GetCell rune = %q, expected '*'", cell.Rune)
	}
	if cell.Color != ColorYellow {
		t.Errorf("GetCell color = %d, expected ColorYellow", cell.Color)
	}

	// Plain Set uses the default color
	s.Set(3, 4, '#')
	if s.GetCell(3, 4).Color != ColorDefault {
		t.Error("Set should reset the cell to the default color")
	}

	// Out of bounds GetCell returns a blank default cell
	oob := s.GetCell(-1, -1)
	if oob.Rune != ' ' || oob.Color != ColorDefault {
		t.Errorf("Out of bounds GetCell = %+v, expected blank default cell", oob)
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(10, 10)

	// Fill with colored characters
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			s.SetCell(x, y, 'X', ColorRed)
		}
	}

	s.Clear()

	// Should all be default spaces now
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			cell := s.GetCell(x, y)
			if cell.Rune != ' ' || cell.Color != ColorDefault {
				t.Errorf("After Clear, expected blank default cell at (%d, %d), got %+v", x, y, cell)
			}
		}
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawText(2, 1, "coins 3/5")

	if got := s.Row(1); got[2:11] != "coins 3/5" {
		t.Errorf("DrawText: row 1 = %q, expected text at column 2", got)
	}

	// Overflow past the right edge is clipped, not wrapped
	s.DrawText(17, 0, "steps")
	if got := s.Row(0); got[17:] != "ste" {
		t.Errorf("DrawText: row 0 = %q, expected clipped tail %q", got, "ste")
	}
	if got := s.Row(1); got[:2] != "  " {
		t.Errorf("DrawText should not wrap onto the next row, row 1 = %q", got)
	}
}

func TestScreenDrawTextColored(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextColored(0, 0, "HUD", ColorCyan)

	for i := range "HUD" {
		if s.GetCell(i, 0).Color != ColorCyan {
			t.Errorf("DrawTextColored: cell %d should be ColorCyan", i)
		}
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(21, 5)
	s.DrawTextCentered(2, "PAUSED")

	// 6 chars centered in 21 columns start at column 7
	if got := s.Row(2); got[7:13] != "PAUSED" {
		t.Errorf("DrawTextCentered: row 2 = %q, expected text at column 7", got)
	}
}

func TestScreenFillRect(t *testing.T) {
	s := NewScreen(10, 10)
	s.FillRect(2, 2, 3, 3, '#', ColorGreen)

	// Check filled area
	for y := 2; y < 5; y++ {
		for x := 2; x < 5; x++ {
			cell := s.GetCell(x, y)
			if cell.Rune != '#' || cell.Color != ColorGreen {
				t.Errorf("FillRect: expected green '#' at (%d, %d), got %+v", x, y, cell)
			}
		}
	}

	// Check outside is still space
	if s.Get(1, 1) != ' ' {
		t.Error("FillRect should not affect outside area")
	}
	if s.Get(5, 5) != ' ' {
		t.Error("FillRect should not affect outside area")
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(10, 6)
	s.DrawBox(1, 1, 5, 4)

	corners := []struct {
		x, y int
		want rune
	}{
		{1, 1, '┌'}, {5, 1, '┐'}, {1, 4, '└'}, {5, 4, '┘'},
	}
	for _, c := range corners {
		if got := s.Get(c.x, c.y); got != c.want {
			t.Errorf("corner at (%d, %d) = %q, expected %q", c.x, c.y, got, c.want)
		}
	}

	for x := 2; x < 5; x++ {
		if s.Get(x, 1) != '─' || s.Get(x, 4) != '─' {
			t.Errorf("horizontal edge broken at x=%d", x)
		}
	}
	for y := 2; y < 4; y++ {
		if s.Get(1, y) != '│' || s.Get(5, y) != '│' {
			t.Errorf("vertical edge broken at y=%d", y)
		}
	}

	// Interior stays untouched
	if s.Get(3, 2) != ' ' {
		t.Error("DrawBox should not fill the interior")
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawText(0, 0, "#####")
	s.DrawText(0, 1, "#@ G#")
	s.DrawText(0, 2, "#####")

	want := "#####\n#@ G#\n#####"
	if got := s.String(); got != want {
		t.Errorf("String() = %q, expected %q", got, want)
	}
}

func TestScreenRow(t *testing.T) {
	s := NewScreen(8, 4)
	s.DrawText(0, 2, "lava")

	if got := s.Row(2); got != "lava    " {
		t.Errorf("Row(2) = %q, expected %q", got, "lava    ")
	}

	// Out of range rows come back blank
	for _, y := range []int{-1, 4} {
		if got := s.Row(y); got != strings.Repeat(" ", 8) {
			t.Errorf("Row(%d) = %q, expected blank", y, got)
		}
	}
}
