package game

import (
	"fmt"
	"math"
)

// StepResult is what one simulated action returns to the caller.
type StepResult struct {
	Obs    Observation // View of the world after the tick
	Reward float64     // Shaped reward for the tick
	Done   bool        // Episode ended: goal, death or stagnation
}

// Step validates and applies one agent action, then scores the outcome.
//
// Collecting coins this tick adds the coin bonus. Death and goal override
// everything with their final rewards. Otherwise the reward tracks newly
// gained distance toward the goal, with penalties for stalling past the
// stagnation limit, loitering beyond the goal column and plain existing.
// Maps without a goal skip the distance terms entirely.
func (g *Game) Step(a Action) (StepResult, error) {
	if a < 0 || a >= ActionCount {
		return StepResult{}, fmt.Errorf("%w: %d", ErrInvalidAction, int(a))
	}

	prevCoins := g.coins
	g.Update(a)

	rw := g.cfg.Rewards
	reward := 0.0
	if g.coins > prevCoins {
		reward += rw.Coin
	}

	done := false
	switch {
	case g.gameOver:
		reward = rw.Death
		done = true
	case g.completed:
		reward = rw.Goal
		done = true
	default:
		if g.tmap.HasGoal() {
			ts := float64(g.cfg.Physics.TileSize)
			goalX, _ := g.tmap.Goal()
			pos := g.x / ts
			distance := math.Abs(pos - float64(goalX))

			if diff := g.bestDistance - distance; diff > 0 {
				g.bestDistance = distance
				g.stepsSinceProgress = 0
				reward += diff * rw.ProgressScale
			} else {
				g.stepsSinceProgress++
				if g.stepsSinceProgress >= g.cfg.StagnationLimit {
					reward += rw.Stagnation
					done = true
				}
			}

			if distance < g.totalBestDistance {
				g.totalBestDistance = distance
			}

			// Past the goal column counts as lost, not as progress
			if pos > float64(goalX)+1 {
				reward += rw.Overshoot
			}
		}
		reward += rw.Existence
	}

	return StepResult{Obs: g.Observe(), Reward: reward, Done: done}, nil
}
