package game

import (
	"errors"
	"fmt"
)

// Action is a single control input for one physics tick.
type Action int

// Movement actions understood by the simulation.
const (
	ActionIdle  Action = iota // No input, horizontal speed bleeds off
	ActionLeft                // Run left at full speed
	ActionRight               // Run right at full speed
	ActionJump                // Jump when standing on solid ground
	ActionCount               // Number of valid actions
)

// ErrInvalidAction reports an action outside [0, ActionCount).
var ErrInvalidAction = errors.New("game: invalid action")

// String returns a short lowercase name for the action.
func (a Action) String() string {
	switch a {
	case ActionIdle:
		return "idle"
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	case ActionJump:
		return "jump"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ParseAction converts a name produced by String back into an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "idle":
		return ActionIdle, nil
	case "left":
		return ActionLeft, nil
	case "right":
		return ActionRight, nil
	case "jump":
		return ActionJump, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidAction, s)
	}
}
