package environment

import "fmt"

// TerminalRule determines when an episode in the Environment is over
type TerminalRule int

const (
	// AllDelivered ends an episode once every dropoff cell is full
	AllDelivered TerminalRule = iota

	// PickupsExhausted ends an episode once every pickup cell is empty
	// and no agent is carrying a block
	PickupsExhausted
)

func (t TerminalRule) String() string {
	switch t {
	case AllDelivered:
		return "all-delivered"
	case PickupsExhausted:
		return "pickups-exhausted"
	}
	return fmt.Sprintf("TerminalRule(%d)", int(t))
}

// MarshalText implements the encoding.TextMarshaler interface
func (t TerminalRule) MarshalText() ([]byte, error) {
	switch t {
	case AllDelivered, PickupsExhausted:
		return []byte(t.String()), nil
	}
	return nil, fmt.Errorf("marshalText: invalid terminal rule %d", int(t))
}

// UnmarshalText implements the encoding.TextUnmarshaler interface
func (t *TerminalRule) UnmarshalText(text []byte) error {
	switch string(text) {
	case AllDelivered.String():
		*t = AllDelivered
	case PickupsExhausted.String():
		*t = PickupsExhausted
	default:
		return fmt.Errorf("unmarshalText: no such terminal rule %q",
			string(text))
	}
	return nil
}
