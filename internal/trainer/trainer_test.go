package trainer

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/gridhopper/internal/agent"
	"github.com/vovakirdan/gridhopper/internal/game"
	"github.com/vovakirdan/gridhopper/internal/level"
)

// driftLines has no goal and no hazards: every tick pays only the
// existence penalty, so window rewards are easy to predict.
var driftLines = []string{
	"S..",
	"...",
	"...",
	"###",
}

// doomLines kills the player on landing, eleven ticks after the spawn.
var doomLines = []string{
	"S..",
	"...",
	"...",
	"---",
}

var flatLines = []string{
	".......",
	"S.....E",
	".......",
	"#######",
}

func mustGame(t *testing.T, lines []string) *game.Game {
	t.Helper()
	m, err := level.Parse(lines)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return game.New(m, game.DefaultConfig())
}

func greedyAgent() *agent.Agent {
	cfg := agent.DefaultConfig()
	cfg.Epsilon = 0
	return agent.New(cfg, rand.New(rand.NewSource(1)))
}

func TestNewAppliesDefaults(t *testing.T) {
	tr := New(mustGame(t, driftLines), greedyAgent(), Config{})
	if tr.cfg.Generations != 100000 || tr.cfg.MaxSteps != 1500 || tr.cfg.FrameSkip != 4 {
		t.Errorf("Normalized config = %+v, expected the defaults", tr.cfg)
	}
}

func TestFrameSkipWindow(t *testing.T) {
	g := mustGame(t, driftLines)
	a := greedyAgent()
	tr := New(g, a, Config{FrameSkip: 4})

	startKey := agent.StateKey(g.Observe().Key())

	// Three ticks fill the window without learning
	for i := 0; i < 3; i++ {
		if err := tr.Tick(); err != nil {
			t.Fatalf("Tick failed: %v", err)
		}
	}
	if a.States() != 1 {
		t.Fatalf("States mid-window = %d, expected only the window's start state", a.States())
	}
	if vals, ok := a.Values(startKey); !ok || sum(vals) != 0 {
		t.Fatal("No learning update should fire before the window closes")
	}

	// The fourth tick closes the window with one update carrying the
	// summed reward: alpha * (4 * -0.05)
	if err := tr.Tick(); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if a.States() != 2 {
		t.Errorf("States after the window = %d, expected start and next state", a.States())
	}
	vals, ok := a.Values(startKey)
	if !ok {
		t.Fatal("Start state missing from the table")
	}
	if got, want := sum(vals), 0.1*(4*-0.05); math.Abs(got-want) > 1e-9 {
		t.Errorf("Learned value = %v, expected %v from one summed update", got, want)
	}
}

func TestDeathEndsEpisode(t *testing.T) {
	g := mustGame(t, doomLines)
	a := agent.New(agent.DefaultConfig(), rand.New(rand.NewSource(1)))
	tr := New(g, a, Config{})

	var episodes []Episode
	tr.OnEpisode = func(ep Episode) { episodes = append(episodes, ep) }

	// The fall lasts exactly eleven ticks whatever the agent does
	for i := 0; i < 11; i++ {
		if err := tr.Tick(); err != nil {
			t.Fatalf("Tick failed: %v", err)
		}
	}

	stats := tr.Stats()
	if stats.Generation != 1 {
		t.Fatalf("Generation = %d, expected 1 after the fatal fall", stats.Generation)
	}
	if stats.WinCount != 0 {
		t.Error("A death must not count as a win")
	}
	if want := 10*-0.05 - 100; math.Abs(stats.TotalReward-want) > 1e-9 {
		t.Errorf("TotalReward = %v, expected %v", stats.TotalReward, want)
	}

	// Episode reset: game restarted, exploration decayed once
	if g.Steps() != 0 {
		t.Errorf("Game steps after reset = %d, expected 0", g.Steps())
	}
	if a.Epsilon() != 0.9995 {
		t.Errorf("Epsilon after one episode = %v, expected 0.9995", a.Epsilon())
	}
	if tr.skipCounter != 0 {
		t.Error("Frame-skip window should reset with the episode")
	}

	if len(episodes) != 1 {
		t.Fatalf("Reported %d episodes, expected 1", len(episodes))
	}
	ep := episodes[0]
	if ep.Generation != 1 || ep.Steps != 11 || !ep.Died || ep.Won {
		t.Errorf("Episode summary = %+v, expected generation 1, 11 steps, died", ep)
	}
	if ep.Epsilon != 1.0 {
		t.Errorf("Episode epsilon = %v, expected the pre-decay 1.0", ep.Epsilon)
	}
	if want := 10*-0.05 - 100; math.Abs(ep.Reward-want) > 1e-9 {
		t.Errorf("Episode reward = %v, expected %v", ep.Reward, want)
	}
}

func TestStepCapDropsPartialWindow(t *testing.T) {
	g := mustGame(t, driftLines)
	a := greedyAgent()
	tr := New(g, a, Config{MaxSteps: 6, FrameSkip: 4})

	var episodes []Episode
	tr.OnEpisode = func(ep Episode) { episodes = append(episodes, ep) }

	// Ticks 1-4 learn once; ticks 5-7 stay mid-window until the cap
	// fires on tick 7 (steps 7 > 6).
	for i := 0; i < 7; i++ {
		if err := tr.Tick(); err != nil {
			t.Fatalf("Tick failed: %v", err)
		}
	}

	if got := tr.Stats().Generation; got != 1 {
		t.Fatalf("Generation = %d, expected the cap to end the episode", got)
	}
	if len(episodes) != 1 || episodes[0].Steps != 7 || episodes[0].Died || episodes[0].Won {
		t.Errorf("Episode summary = %+v, expected a 7-step truncation", episodes)
	}

	// No terminal update: only the first window's two states exist and
	// the second window's start state still has zero values.
	if a.States() != 2 {
		t.Errorf("States = %d, expected 2; a truncated window must not learn", a.States())
	}
	if g.Steps() != 0 {
		t.Error("Game should reset after the cap")
	}
	if tr.skipCounter != 0 {
		t.Error("The partial window should be dropped, not resumed")
	}
}

func TestWinCounting(t *testing.T) {
	g := mustGame(t, flatLines)

	// Drive the player to the goal by hand, then let the trainer observe
	// the terminal tick.
	for i := 0; i < 300 && !g.Completed(); i++ {
		g.Update(game.ActionRight)
	}
	if !g.Completed() {
		t.Fatal("Scripted run never reached the goal")
	}

	tr := New(g, greedyAgent(), Config{})
	var episodes []Episode
	tr.OnEpisode = func(ep Episode) { episodes = append(episodes, ep) }

	if err := tr.Tick(); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}

	stats := tr.Stats()
	if stats.WinCount != 1 {
		t.Errorf("WinCount = %d, expected 1", stats.WinCount)
	}
	if stats.Generation != 1 {
		t.Errorf("Generation = %d, expected 1", stats.Generation)
	}
	if len(episodes) != 1 || !episodes[0].Won || episodes[0].Died {
		t.Errorf("Episode summary = %+v, expected a win", episodes)
	}
	if episodes[0].Reward != 500 {
		t.Errorf("Episode reward = %v, expected the goal reward", episodes[0].Reward)
	}
}

func TestRunStopsAtGenerations(t *testing.T) {
	g := mustGame(t, doomLines)
	a := agent.New(agent.DefaultConfig(), rand.New(rand.NewSource(1)))
	tr := New(g, a, Config{Generations: 3})

	if err := tr.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := tr.Stats().Generation; got != 3 {
		t.Errorf("Generation after Run = %d, expected 3", got)
	}
}

func TestRunHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := New(mustGame(t, driftLines), greedyAgent(), Config{})
	if err := tr.Run(ctx); err != context.Canceled {
		t.Errorf("Run with a cancelled context = %v, expected context.Canceled", err)
	}
	if tr.Stats().Generation != 0 {
		t.Error("A cancelled run should not finish episodes")
	}
}

func sum(vals []float64) float64 {
	total := 0.0
	for _, v := range vals {
		total += v
	}
	return total
}
