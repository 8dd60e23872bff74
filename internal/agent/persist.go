package agent

import (
	"encoding/json"
	"fmt"
	"os"
)

// snapshot is the on-disk envelope for a trained Q-table.
type snapshot struct {
	ActionSpace int                    `json:"action_space"`
	Q           map[StateKey][]float64 `json:"q"`
}

// Save writes the Q-table to path as JSON, overwriting any previous file.
func (a *Agent) Save(path string) error {
	data, err := json.Marshal(snapshot{ActionSpace: a.cfg.ActionSpace, Q: a.table})
	if err != nil {
		return fmt.Errorf("agent: cannot encode q-table: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("agent: cannot save q-table: %w", err)
	}
	return nil
}

// Load replaces the Q-table with the one stored at path and drops the
// exploration rate to its floor, so a resumed agent mostly exploits what it
// already knows. A missing file leaves the agent untouched; the returned
// error then matches fs.ErrNotExist.
func (a *Agent) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("agent: cannot load q-table: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("agent: cannot decode q-table %s: %w", path, err)
	}
	if snap.ActionSpace != a.cfg.ActionSpace {
		return fmt.Errorf("agent: q-table %s holds %d actions per state, want %d",
			path, snap.ActionSpace, a.cfg.ActionSpace)
	}
	for state, q := range snap.Q {
		if len(q) != a.cfg.ActionSpace {
			return fmt.Errorf("agent: q-table %s has a malformed row for state %q", path, state)
		}
	}
	if snap.Q == nil {
		snap.Q = make(map[StateKey][]float64)
	}

	a.table = snap.Q
	a.cfg.Epsilon = a.cfg.MinEpsilon
	return nil
}
