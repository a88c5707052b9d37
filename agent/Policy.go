package agent

import (
	"fmt"

	env "github.com/samuelfneumann/pdworld/environment"
	"github.com/samuelfneumann/pdworld/utils/floatutils"
	"gonum.org/v1/gonum/stat/distuv"
)

// Policy determines how an Agent selects actions
type Policy int

const (
	// Random selects uniformly among the available actions
	Random Policy = iota

	// Greedy selects uniformly among the available actions with the
	// highest value
	Greedy

	// Exploit acts greedily with probability 1 - ε and randomly with
	// probability ε, where ε is the Agent's exploration rate
	Exploit
)

// Policies lists every Policy
var Policies = []Policy{Random, Greedy, Exploit}

func (p Policy) String() string {
	switch p {
	case Random:
		return "random"
	case Greedy:
		return "greedy"
	case Exploit:
		return "exploit"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy returns the Policy named s
func ParsePolicy(s string) (Policy, error) {
	for _, p := range Policies {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("parsePolicy: no such policy %q", s)
}

// MarshalText implements the encoding.TextMarshaler interface
func (p Policy) MarshalText() ([]byte, error) {
	switch p {
	case Random, Greedy, Exploit:
		return []byte(p.String()), nil
	}
	return nil, fmt.Errorf("marshalText: invalid policy %d", int(p))
}

// UnmarshalText implements the encoding.TextUnmarshaler interface
func (p *Policy) UnmarshalText(text []byte) error {
	policy, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = policy
	return nil
}

// random selects an action uniformly from actions
func (a *Agent) random(actions []env.Action) env.Action {
	dist := distuv.NewCategorical(floatutils.Uniform(len(actions)), a.rng)
	return actions[int(dist.Rand())]
}

// greedy selects uniformly among the recorded actions with the highest
// value in state, whether or not they are available
func (a *Agent) greedy(state env.State) env.Action {
	return a.random(a.table.Greedy(state))
}

// exploit selects a greedy action with probability 1 - ε and a random
// action otherwise
func (a *Agent) exploit(state env.State, actions []env.Action) env.Action {
	coin := distuv.Bernoulli{P: a.config.ExplorationRate, Src: a.rng}
	if coin.Rand() == 1.0 {
		return a.random(actions)
	}
	return a.greedy(state)
}
