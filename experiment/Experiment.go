// Package experiment implements functionality for running experiments
// in which several agents learn, side by side, to transport blocks in a
// shared pickup and dropoff world.
//
// An experiment runs for a fixed number of simulation steps. In each
// step every agent, in a fixed order, observes its state, selects an
// action, acts, and updates its action values. When an episode ends,
// the world is reset and learning carries on. A Schedule can change the
// world or stop the run after a given number of finished episodes.
package experiment

import (
	"fmt"

	"github.com/samuelfneumann/pdworld/agent"
)

// Learner determines which update rule the agents of an experiment use
type Learner int

const (
	QLearning Learner = iota
	SARSA
)

func (l Learner) String() string {
	switch l {
	case QLearning:
		return "q-learning"
	case SARSA:
		return "sarsa"
	}
	return fmt.Sprintf("Learner(%d)", int(l))
}

// MarshalText implements the encoding.TextMarshaler interface
func (l Learner) MarshalText() ([]byte, error) {
	switch l {
	case QLearning, SARSA:
		return []byte(l.String()), nil
	}
	return nil, fmt.Errorf("marshalText: invalid learner %d", int(l))
}

// UnmarshalText implements the encoding.TextUnmarshaler interface
func (l *Learner) UnmarshalText(text []byte) error {
	for _, learner := range []Learner{QLearning, SARSA} {
		if learner.String() == string(text) {
			*l = learner
			return nil
		}
	}
	return fmt.Errorf("unmarshalText: no such learner %q", string(text))
}

// policy returns the Policy used on global step number step, counting
// from 0
func (c Config) policy(step int) agent.Policy {
	if step < c.WarmupSteps {
		return agent.Random
	}
	return c.Policy
}
