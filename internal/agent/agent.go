// Package agent implements a tabular Q-learning agent with an
// epsilon-greedy policy. States are opaque keys produced by the caller, so
// the agent stays independent of any particular simulation.
package agent

import (
	"math/rand"
	"time"
)

// StateKey identifies one discretized world state in the Q-table.
type StateKey string

// Config holds the learning hyperparameters.
type Config struct {
	ActionSpace  int     `yaml:"-"`             // Number of selectable actions, set by the caller
	Alpha        float64 `yaml:"alpha"`         // Learning rate
	Gamma        float64 `yaml:"gamma"`         // Discount on future value
	Epsilon      float64 `yaml:"epsilon"`       // Exploration rate
	EpsilonDecay float64 `yaml:"epsilon_decay"` // Multiplier applied per episode
	MinEpsilon   float64 `yaml:"min_epsilon"`   // Exploration floor
}

// DefaultConfig returns the standard hyperparameters.
func DefaultConfig() Config {
	return Config{
		ActionSpace:  4,
		Alpha:        0.1,
		Gamma:        0.95,
		Epsilon:      1.0,
		EpsilonDecay: 0.9995,
		MinEpsilon:   0.05,
	}
}

// Transition is one learning sample: the action taken in a state, the reward
// it earned and the state it led to.
type Transition struct {
	State  StateKey
	Action int
	Reward float64
	Next   StateKey
	Done   bool
}

// Agent is a Q-learning agent. It is not safe for concurrent use.
type Agent struct {
	cfg   Config
	table map[StateKey][]float64
	rng   *rand.Rand
}

// New creates an agent with the given hyperparameters. A nil rng falls back
// to a time-seeded source; tests pass a fixed seed for reproducible runs.
func New(cfg Config, rng *rand.Rand) *Agent {
	if cfg.ActionSpace <= 0 {
		cfg.ActionSpace = 4
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Agent{
		cfg:   cfg,
		table: make(map[StateKey][]float64),
		rng:   rng,
	}
}

// ChooseAction picks an action for the state: a uniformly random one with
// probability epsilon, otherwise the highest-valued known action. Ties
// between equally good actions break uniformly at random.
func (a *Agent) ChooseAction(state StateKey) int {
	if a.rng.Float64() < a.cfg.Epsilon {
		return a.rng.Intn(a.cfg.ActionSpace)
	}

	q := a.ensure(state)

	best := q[0]
	for _, v := range q[1:] {
		if v > best {
			best = v
		}
	}

	options := make([]int, 0, len(q))
	for i, v := range q {
		if v == best {
			options = append(options, i)
		}
	}
	return options[a.rng.Intn(len(options))]
}

// Learn applies one Q-update for the transition. Terminal transitions use
// the raw reward as the target; otherwise the discounted best value of the
// next state is added.
func (a *Agent) Learn(tr Transition) {
	q := a.ensure(tr.State)
	next := a.ensure(tr.Next)

	target := tr.Reward
	if !tr.Done {
		maxFuture := next[0]
		for _, v := range next[1:] {
			if v > maxFuture {
				maxFuture = v
			}
		}
		target += a.cfg.Gamma * maxFuture
	}

	q[tr.Action] = (1-a.cfg.Alpha)*q[tr.Action] + a.cfg.Alpha*target
}

// DecayEpsilon lowers the exploration rate by one decay step, never below
// the configured floor.
func (a *Agent) DecayEpsilon() {
	a.cfg.Epsilon = max(a.cfg.MinEpsilon, a.cfg.Epsilon*a.cfg.EpsilonDecay)
}

// ensure returns the action values for the state, materializing a zero row
// on first sight.
func (a *Agent) ensure(state StateKey) []float64 {
	q, ok := a.table[state]
	if !ok {
		q = make([]float64, a.cfg.ActionSpace)
		a.table[state] = q
	}
	return q
}

// Values returns a copy of the action values recorded for state. ok is
// false for a state the agent has never stored.
func (a *Agent) Values(state StateKey) ([]float64, bool) {
	q, ok := a.table[state]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(q))
	copy(out, q)
	return out, true
}

// Epsilon returns the current exploration rate.
func (a *Agent) Epsilon() float64 { return a.cfg.Epsilon }

// ActionSpace returns the number of actions the agent selects from.
func (a *Agent) ActionSpace() int { return a.cfg.ActionSpace }

// States returns the number of distinct states the agent has seen.
func (a *Agent) States() int { return len(a.table) }
