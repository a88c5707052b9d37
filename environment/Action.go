package environment

import "fmt"

// Action is one of the fixed set of actions an agent can take in a
// pickup and dropoff world
type Action int

const (
	Up Action = iota
	Down
	Left
	Right
	Pickup
	Dropoff
)

// NumActions is the number of actions in the action vocabulary
const NumActions = 6

// Actions lists every action in a fixed order. Any iteration over
// actions that has an observable effect uses this order.
var Actions = [NumActions]Action{Up, Down, Left, Right, Pickup, Dropoff}

// Moves lists the movement actions, which are always available
var Moves = [4]Action{Up, Down, Left, Right}

// Delta returns the unit row and column offset of a movement action.
// The returned ok is false for pickup and dropoff.
func (a Action) Delta() (dr, dc int, ok bool) {
	switch a {
	case Up:
		return -1, 0, true
	case Down:
		return 1, 0, true
	case Left:
		return 0, -1, true
	case Right:
		return 0, 1, true
	case Pickup, Dropoff:
		return 0, 0, false
	}
	panic(fmt.Sprintf("delta: invalid action %d", int(a)))
}

// Valid returns whether the action is part of the action vocabulary
func (a Action) Valid() bool {
	return a >= Up && a <= Dropoff
}

func (a Action) String() string {
	switch a {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case Pickup:
		return "pickup"
	case Dropoff:
		return "dropoff"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction returns the action named s
func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("parseAction: no such action %q", s)
}

// MarshalText implements the encoding.TextMarshaler interface
func (a Action) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("marshalText: invalid action %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface
func (a *Action) UnmarshalText(text []byte) error {
	action, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = action
	return nil
}
