// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	env "github.com/samuelfneumann/pdworld/environment"
)

// StepType denotes the type of step that a TimeStep can be, either the
// first step of an episode, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// TimeStep packages together a single action of a single agent
type TimeStep struct {
	stepType StepType

	Agent    int        // Index of the acting agent
	Action   env.Action // Action taken
	Reward   float64    // Reward received for the action
	Distance int        // Manhattan distance moved by the action

	Number      int // Global step number, counting from 1
	Episode     int // Episode number, counting from 0
	EpisodeStep int // Step number within the episode, counting from 1
}

// New returns a new TimeStep of type t
func New(t StepType, agent int, a env.Action, r float64, distance int,
	number, episode, episodeStep int) TimeStep {
	return TimeStep{
		stepType:    t,
		Agent:       agent,
		Action:      a,
		Reward:      r,
		Distance:    distance,
		Number:      number,
		Episode:     episode,
		EpisodeStep: episodeStep,
	}
}

// Type returns the StepType of the TimeStep
func (t *TimeStep) Type() StepType {
	return t.stepType
}

// First returns whether a TimeStep is the first in an episode
func (t *TimeStep) First() bool {
	return t.stepType == First
}

// Mid returns whether a TimeStep is a middle step in an episode
func (t *TimeStep) Mid() bool {
	return t.stepType == Mid
}

// Last returns whether a TimeStep is the last step in an episode
func (t *TimeStep) Last() bool {
	return t.stepType == Last
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Agent: %d  |  Action: %v  |  " +
		"Reward:  %.2f  |  Step Number:  %v  |  Episode: %v"

	return fmt.Sprintf(str, t.stepType, t.Agent, t.Action, t.Reward,
		t.Number, t.Episode)
}
