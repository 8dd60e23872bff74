package level

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// simpleLines is an 8x4 map: start on the left, goal on the right, solid floor.
var simpleLines = []string{
	"........",
	"........",
	"S.....E.",
	"########",
}

func TestParseSimpleMap(t *testing.T) {
	m, err := Parse(simpleLines)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if m.Width() != 8 || m.Height() != 4 {
		t.Errorf("Dimensions = %dx%d, expected 8x4", m.Width(), m.Height())
	}

	// Start is recorded and rewritten to empty
	sx, sy := m.Start()
	if sx != 0 || sy != 2 {
		t.Errorf("Start = (%d, %d), expected (0, 2)", sx, sy)
	}
	if m.At(0, 2) != Empty {
		t.Errorf("Start tile should be rewritten to Empty, got %v", m.At(0, 2))
	}

	// Goal stays on the map
	gx, gy := m.Goal()
	if gx != 6 || gy != 2 {
		t.Errorf("Goal = (%d, %d), expected (6, 2)", gx, gy)
	}
	if !m.HasGoal() {
		t.Error("HasGoal should be true")
	}
	if m.At(6, 2) != Goal {
		t.Errorf("Goal tile should stay Goal, got %v", m.At(6, 2))
	}

	if m.At(0, 3) != Wall {
		t.Errorf("Floor tile should be Wall, got %v", m.At(0, 3))
	}
}

func TestParseWallVariants(t *testing.T) {
	m, err := Parse([]string{
		"S..",
		"#X#",
	})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	for x := 0; x < 3; x++ {
		if m.At(x, 1) != Wall {
			t.Errorf("At(%d, 1) = %v, expected Wall for both '#' and 'X'", x, m.At(x, 1))
		}
	}
}

func TestParseUnknownCharIsEmpty(t *testing.T) {
	m, err := Parse([]string{
		"S? ",
		"###",
	})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.At(1, 0) != Empty || m.At(2, 0) != Empty {
		t.Error("Unrecognized characters should parse as Empty")
	}
}

func TestParseFormatErrors(t *testing.T) {
	cases := []struct {
		name  string
		lines []string
		want  error
	}{
		{"no rows", []string{}, ErrBadFormat},
		{"empty row", []string{""}, ErrBadFormat},
		{"ragged rows", []string{"S...", "..."}, ErrBadFormat},
		{"no start", []string{"....", "####"}, ErrNoStart},
		{"two starts", []string{"S..S", "####"}, ErrBadFormat},
		{"two goals", []string{"SE.E", "####"}, ErrBadFormat},
	}

	for _, tc := range cases {
		_, err := Parse(tc.lines)
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: Parse error = %v, expected %v", tc.name, err, tc.want)
		}
	}
}

func TestParseNoGoal(t *testing.T) {
	m, err := Parse([]string{
		"S...",
		"####",
	})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.HasGoal() {
		t.Error("HasGoal should be false for a map without 'E'")
	}
	gx, gy := m.Goal()
	if gx != 0 || gy != 0 {
		t.Errorf("Goal for a goal-less map = (%d, %d), expected (0, 0)", gx, gy)
	}
}

func TestOutOfBoundsQueries(t *testing.T) {
	m, err := Parse(simpleLines)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	probes := [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 4}, {100, 100}, {-5, -5}}
	for _, p := range probes {
		if m.At(p[0], p[1]) != OutOfBounds {
			t.Errorf("At(%d, %d) should be OutOfBounds", p[0], p[1])
		}
		if !m.IsWall(p[0], p[1]) {
			t.Errorf("IsWall(%d, %d) should be true outside the grid", p[0], p[1])
		}
	}

	if m.IsWall(1, 1) {
		t.Error("IsWall(1, 1) should be false for an empty tile")
	}
	if !m.IsWall(0, 3) {
		t.Error("IsWall(0, 3) should be true for a wall tile")
	}
}

func TestTileCodes(t *testing.T) {
	codes := map[Tile]int{
		Empty:       0,
		Wall:        1,
		Coin:        2,
		Goal:        3,
		Hazard:      -1,
		OutOfBounds: 0,
	}
	for tile, want := range codes {
		if tile.Code() != want {
			t.Errorf("Code(%v) = %d, expected %d", tile, tile.Code(), want)
		}
	}
}

func TestRemoveCoinAndReset(t *testing.T) {
	m, err := Parse([]string{
		"S.*.*.",
		"######",
	})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if m.CoinCount() != 2 {
		t.Fatalf("CoinCount = %d, expected 2", m.CoinCount())
	}

	m.RemoveCoin(2, 0)
	if m.At(2, 0) != Empty {
		t.Error("Collected coin should become Empty")
	}
	if m.CoinCount() != 1 {
		t.Errorf("CoinCount after collection = %d, expected 1", m.CoinCount())
	}

	// Second removal of the same cell is a no-op
	m.RemoveCoin(2, 0)
	if m.CoinCount() != 1 {
		t.Error("Removing an already-collected coin should be a no-op")
	}

	// Removing a non-coin tile is a no-op
	m.RemoveCoin(0, 1)
	if m.At(0, 1) != Wall {
		t.Error("RemoveCoin on a wall should not change it")
	}

	m.Reset()
	if m.At(2, 0) != Coin {
		t.Error("Reset should restore collected coins")
	}
	if m.CoinCount() != 2 {
		t.Errorf("CoinCount after Reset = %d, expected 2", m.CoinCount())
	}

	// Reset with nothing collected is harmless
	m.Reset()
	if m.CoinCount() != 2 {
		t.Error("Reset should be idempotent")
	}
}

func TestSplitLines(t *testing.T) {
	lines := SplitLines("S...\r\n####\r\n\n\n")
	if len(lines) != 2 {
		t.Fatalf("SplitLines returned %d lines, expected 2", len(lines))
	}
	if lines[0] != "S..." || lines[1] != "####" {
		t.Errorf("SplitLines = %q, carriage returns should be stripped", lines)
	}
}

func TestLinesRoundTrip(t *testing.T) {
	src := []string{
		"S.*...",
		"...E..",
		"##--##",
	}
	m, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	got := m.Lines()
	if len(got) != len(src) {
		t.Fatalf("Lines returned %d rows, expected %d", len(got), len(src))
	}
	for i := range src {
		if got[i] != src[i] {
			t.Errorf("Lines[%d] = %q, expected %q", i, got[i], src[i])
		}
	}
}

func TestBuiltinCatalog(t *testing.T) {
	names := BuiltinNames()
	if len(names) == 0 {
		t.Fatal("BuiltinNames returned no maps")
	}

	found := false
	for _, name := range names {
		m, err := Builtin(name)
		if err != nil {
			t.Errorf("Builtin(%q) failed: %v", name, err)
			continue
		}
		if m.Width() == 0 || m.Height() == 0 {
			t.Errorf("Builtin(%q) has empty dimensions", name)
		}
		if name == DefaultMap {
			found = true
			if !m.HasGoal() {
				t.Errorf("Default map %q should have a goal", name)
			}
		}
	}
	if !found {
		t.Errorf("Default map %q missing from catalog %v", DefaultMap, names)
	}

	if _, err := Builtin("no-such-map"); err == nil {
		t.Error("Builtin with an unknown name should fail")
	}
}

func TestResolve(t *testing.T) {
	// A real file wins over the catalog
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.txt")
	if err := os.WriteFile(path, []byte("S..E\n####\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve(file) failed: %v", err)
	}
	if m.Width() != 4 {
		t.Errorf("Resolved map width = %d, expected 4", m.Width())
	}

	// Falls back to the builtin catalog
	if _, err := Resolve(DefaultMap); err != nil {
		t.Errorf("Resolve(%q) should hit the catalog: %v", DefaultMap, err)
	}

	// Neither file nor builtin
	if _, err := Resolve("definitely-missing"); err == nil {
		t.Error("Resolve with no match should fail")
	}
}
