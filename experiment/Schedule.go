package experiment

import (
	"fmt"

	env "github.com/samuelfneumann/pdworld/environment"
	"github.com/samuelfneumann/pdworld/environment/envconfig"
)

// EffectType is the kind of change an Effect makes to a running
// experiment
type EffectType int

const (
	// ChangePickups replaces the pickup cells. The new cells are
	// stocked by the reset which follows the terminal event.
	ChangePickups EffectType = iota

	// NextPhase routes the metrics of all later steps into a new Phase
	NextPhase

	// Stop ends the run
	Stop
)

var effectNames = map[EffectType]string{
	ChangePickups: "change-pickups",
	NextPhase:     "next-phase",
	Stop:          "stop",
}

func (e EffectType) String() string {
	if name, ok := effectNames[e]; ok {
		return name
	}
	return fmt.Sprintf("EffectType(%d)", int(e))
}

// MarshalText implements the encoding.TextMarshaler interface
func (e EffectType) MarshalText() ([]byte, error) {
	if name, ok := effectNames[e]; ok {
		return []byte(name), nil
	}
	return nil, fmt.Errorf("marshalText: invalid effect type %d", int(e))
}

// UnmarshalText implements the encoding.TextUnmarshaler interface
func (e *EffectType) UnmarshalText(text []byte) error {
	for effect, name := range effectNames {
		if name == string(text) {
			*e = effect
			return nil
		}
	}
	return fmt.Errorf("unmarshalText: no such effect type %q", string(text))
}

// Effect is a single change to a running experiment
type Effect struct {
	Type    EffectType       `json:"type"`
	Pickups []envconfig.Cell `json:"pickups,omitempty"` // For ChangePickups
}

// Event applies its Effects when the experiment reaches its Trigger-th
// terminal state
type Event struct {
	Trigger int      `json:"trigger"`
	Effects []Effect `json:"effects"`
}

// Schedule is a list of Events ordered by strictly increasing Trigger
type Schedule []Event

// At returns the effects to apply at the n-th terminal state, in the
// order they are listed
func (s Schedule) At(n int) []Effect {
	for _, event := range s {
		if event.Trigger == n {
			return event.Effects
		}
	}
	return nil
}

// Validate returns an error describing why the Schedule is invalid in
// the environment configured by c, or nil if it is valid
func (s Schedule) Validate(c envconfig.Config) error {
	last := 0
	for _, event := range s {
		if event.Trigger <= last {
			return fmt.Errorf("validate: event triggers must be positive "+
				"and strictly increasing, have %d after %d", event.Trigger,
				last)
		}
		last = event.Trigger

		for _, effect := range event.Effects {
			if _, err := effect.Type.MarshalText(); err != nil {
				return fmt.Errorf("validate: event %d: %w", event.Trigger, err)
			}
			if effect.Type != ChangePickups {
				continue
			}

			changed := c
			changed.Pickups = effect.Pickups
			if len(effect.Pickups) == 0 {
				return fmt.Errorf("validate: event %d: %v needs pickups",
					event.Trigger, effect.Type)
			}
			if err := changed.Validate(); err != nil {
				return fmt.Errorf("validate: event %d: %w", event.Trigger, err)
			}
		}
	}
	return nil
}

// Perturbation returns the Schedule which, at the 3rd terminal state,
// moves the pickup cells of the canonical world to (4,2), (3,3), and
// (2,4) and opens a new Phase, then stops the run at the 6th terminal
// state
func Perturbation() Schedule {
	return Schedule{
		{
			Trigger: 3,
			Effects: []Effect{
				{
					Type: ChangePickups,
					Pickups: envconfig.Cells(
						env.Position{Row: 4, Col: 2},
						env.Position{Row: 3, Col: 3},
						env.Position{Row: 2, Col: 4},
					),
				},
				{Type: NextPhase},
			},
		},
		{
			Trigger: 6,
			Effects: []Effect{{Type: Stop}},
		},
	}
}
