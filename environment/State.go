package environment

import (
	"fmt"
	"sort"
	"strings"
)

// Layout is a canonical, comparable encoding of a set of positions.
// Two Layouts are equal exactly when they hold the same positions,
// regardless of the order the positions were given in.
type Layout string

// NewLayout returns the Layout of a set of positions
func NewLayout(positions []Position) Layout {
	sorted := make([]Position, len(positions))
	copy(sorted, positions)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Less(sorted[j])
	})

	var b strings.Builder
	for _, p := range sorted {
		b.WriteString(p.String())
	}
	return Layout(b.String())
}

// Positions decodes the Layout into its sorted positions
func (l Layout) Positions() ([]Position, error) {
	s := string(l)
	var positions []Position
	for len(s) > 0 {
		end := strings.IndexByte(s, ')')
		if s[0] != '(' || end < 0 {
			return nil, fmt.Errorf("positions: malformed layout %q", string(l))
		}

		var p Position
		if _, err := fmt.Sscanf(s[:end+1], "(%d,%d)", &p.Row, &p.Col); err != nil {
			return nil, fmt.Errorf("positions: malformed layout %q: %w",
				string(l), err)
		}
		positions = append(positions, p)
		s = s[end+1:]
	}
	return positions, nil
}

// State is the key under which an agent stores its action values. It
// holds the agent's own position together with the pickup and dropoff
// layouts, so that changing the task geometry produces new keys rather
// than overwriting values learned under the old geometry.
type State struct {
	Position Position
	Pickups  Layout
	Dropoffs Layout
}

func (s State) String() string {
	return fmt.Sprintf("%v|%v|%v", s.Position, s.Pickups, s.Dropoffs)
}

// Less orders states by position, then by pickup and dropoff layout
func (s State) Less(o State) bool {
	if s.Position != o.Position {
		return s.Position.Less(o.Position)
	}
	if s.Pickups != o.Pickups {
		return s.Pickups < o.Pickups
	}
	return s.Dropoffs < o.Dropoffs
}

// MarshalText implements the encoding.TextMarshaler interface so that
// States may be used as JSON object keys
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface
func (s *State) UnmarshalText(text []byte) error {
	parts := strings.Split(string(text), "|")
	if len(parts) != 3 {
		return fmt.Errorf("unmarshalText: malformed state %q", string(text))
	}

	position, err := Layout(parts[0]).Positions()
	if err != nil {
		return fmt.Errorf("unmarshalText: %w", err)
	} else if len(position) != 1 {
		return fmt.Errorf("unmarshalText: state %q must have exactly one "+
			"agent position", string(text))
	}

	// Validate both layouts before accepting them
	for _, layout := range parts[1:] {
		if _, err := Layout(layout).Positions(); err != nil {
			return fmt.Errorf("unmarshalText: %w", err)
		}
	}

	s.Position = position[0]
	s.Pickups = Layout(parts[1])
	s.Dropoffs = Layout(parts[2])
	return nil
}
