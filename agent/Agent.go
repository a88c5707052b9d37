// Package agent implements tabular agents for the pickup and dropoff
// world. Each Agent keeps its own action-value table and learns it with
// either Q-learning or SARSA updates.
package agent

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/rand/v2"

	env "github.com/samuelfneumann/pdworld/environment"
)

// Observer reports what an agent can observe of its environment
type Observer interface {
	State(env.Carrier) env.State
	AvailableActions(env.Carrier) []env.Action
}

// Agent implements a tabular agent which occupies a single cell and can
// carry at most one block. An Agent implements env.Carrier.
type Agent struct {
	id       int
	position env.Position
	carrying bool

	config Config
	table  QTable
	rng    *rand.Rand
}

// New creates a new Agent standing at start. The rng is used for
// every random decision of the Agent and may be shared between agents.
func New(id int, start env.Position, c Config, rng *rand.Rand) (*Agent,
	error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	if rng == nil {
		return nil, fmt.Errorf("new: rng must not be nil")
	}

	return &Agent{
		id:       id,
		position: start,
		config:   c,
		table:    make(QTable),
		rng:      rng,
	}, nil
}

// ID returns the Agent's identifier
func (a *Agent) ID() int {
	return a.id
}

// Config returns the Agent's configuration
func (a *Agent) Config() Config {
	return a.config
}

// Position implements env.Carrier
func (a *Agent) Position() env.Position {
	return a.position
}

// MoveTo implements env.Carrier
func (a *Agent) MoveTo(p env.Position) {
	a.position = p
}

// Carrying implements env.Carrier
func (a *Agent) Carrying() bool {
	return a.carrying
}

// SetCarrying implements env.Carrier
func (a *Agent) SetCarrying(carrying bool) {
	a.carrying = carrying
}

// Reset clears the carrying flag. The action-value table is kept.
func (a *Agent) Reset() {
	a.carrying = false
}

// Table returns a copy of the Agent's action-value table
func (a *Agent) Table() QTable {
	return a.table.Clone()
}

// Value returns the value of action in state, or 0 if it is not
// recorded
func (a *Agent) Value(state env.State, action env.Action) float64 {
	v, _ := a.table.Value(state, action)
	return v
}

// SetValue sets the value of action in state
func (a *Agent) SetValue(state env.State, action env.Action, v float64) {
	a.table.ensure(state, []env.Action{action})
	a.table[state][action] = v
}

// ChooseAction selects an action for the Agent's current state using
// policy p. Any available action without a recorded value is first
// recorded with value 0. Random draws only from the available actions,
// while greedy choices range over every action recorded for the state,
// so an unavailable action with the highest value is still chosen and
// executes as a no-op.
func (a *Agent) ChooseAction(o Observer, p Policy) env.Action {
	state := o.State(a)
	available := o.AvailableActions(a)
	if len(available) == 0 {
		panic("chooseAction: no available actions")
	}
	a.table.ensure(state, available)

	switch p {
	case Random:
		return a.random(available)
	case Greedy:
		return a.greedy(state)
	case Exploit:
		return a.exploit(state, available)
	}
	panic(fmt.Sprintf("chooseAction: invalid policy %d", int(p)))
}

// UpdateQTable performs the Q-learning update
//
//	Q(s, a) ← (1 - α) Q(s, a) + α (r + γ max Q(s', ·))
//
// Rows of s and next which do not exist yet are created with every
// action at value 0.
func (a *Agent) UpdateQTable(s env.State, action env.Action, r float64,
	next env.State) {
	a.table.ensureRow(s)
	a.table.ensureRow(next)

	target := r + a.config.Discount*a.table.Max(next)
	a.update(s, action, target)
}

// UpdateQTableSARSA performs the SARSA update
//
//	Q(s, a) ← (1 - α) Q(s, a) + α (r + γ Q(s', a'))
//
// Rows of s and next which do not exist yet are created with every
// action at value 0.
func (a *Agent) UpdateQTableSARSA(s env.State, action env.Action,
	r float64, next env.State, nextAction env.Action) {
	a.table.ensureRow(s)
	a.table.ensureRow(next)

	nextValue, _ := a.table.Value(next, nextAction)
	target := r + a.config.Discount*nextValue
	a.update(s, action, target)
}

func (a *Agent) update(s env.State, action env.Action, target float64) {
	if !action.Valid() {
		panic(fmt.Sprintf("update: invalid action %d", int(action)))
	}
	old, _ := a.table.Value(s, action)
	lr := a.config.LearningRate
	a.table[s][action] = (1-lr)*old + lr*target
}

func (a *Agent) String() string {
	return fmt.Sprintf("Agent %d at %v (carrying: %v)", a.id, a.position,
		a.carrying)
}

// agentData is the serialized form of an Agent
type agentData struct {
	ID       int
	Position env.Position
	Carrying bool
	Config   Config
	Table    QTable
}

// GobEncode implements the gob.GobEncoder interface
func (a *Agent) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	err := enc.Encode(agentData{
		ID:       a.id,
		Position: a.position,
		Carrying: a.carrying,
		Config:   a.config,
		Table:    a.table,
	})
	if err != nil {
		return nil, fmt.Errorf("gobEncode: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface. The Agent's random
// number generator is kept.
func (a *Agent) GobDecode(in []byte) error {
	var data agentData
	dec := gob.NewDecoder(bytes.NewReader(in))
	if err := dec.Decode(&data); err != nil {
		return fmt.Errorf("gobDecode: %w", err)
	}
	if err := data.Config.Validate(); err != nil {
		return fmt.Errorf("gobDecode: %w", err)
	}

	a.id = data.ID
	a.position = data.Position
	a.carrying = data.Carrying
	a.config = data.Config
	a.table = data.Table
	if a.table == nil {
		a.table = make(QTable)
	}
	return nil
}
