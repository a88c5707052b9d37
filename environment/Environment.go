// Package environment implements a grid world in which agents pick up
// blocks at pickup cells and deliver them to dropoff cells.
//
// The Environment owns the Grid and the set of registered agents. It
// computes which actions are available, applies actions, computes
// rewards, and detects terminal states. Agents are only referred to
// through the Carrier interface so that this package does not depend
// on any particular learning algorithm.
package environment

import (
	"fmt"
	"strings"
)

// Carrier is an agent which occupies a single cell and can carry at
// most one block
type Carrier interface {
	Position() Position
	MoveTo(Position)
	Carrying() bool
	SetCarrying(bool)
}

// Outcome describes what the last action of an agent achieved
type Outcome int

const (
	None Outcome = iota
	Moved
	PickedUp
	DroppedOff
)

func (o Outcome) String() string {
	switch o {
	case None:
		return "none"
	case Moved:
		return "moved"
	case PickedUp:
		return "picked up"
	case DroppedOff:
		return "dropped off"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Rewards determines the reward for each outcome of an action
type Rewards struct {
	Pickup  float64 `json:"pickup"`  // Reward for a successful pickup
	Dropoff float64 `json:"dropoff"` // Reward for a successful dropoff
	Step    float64 `json:"step"`    // Reward for anything else, 0 or a small cost
}

// DefaultRewards returns the default reward scheme: 1 for a pickup, 10
// for a dropoff, and 0 otherwise
func DefaultRewards() Rewards {
	return Rewards{Pickup: 1.0, Dropoff: 10.0, Step: 0.0}
}

// Environment implements the pickup and dropoff world
type Environment struct {
	grid     *Grid
	rewards  Rewards
	terminal TerminalRule

	agents   []Carrier
	outcomes []Outcome // Outcome of each agent's last action

	pickupLayout  Layout
	dropoffLayout Layout
}

// New creates a new Environment on a Grid. Agents must be registered
// with AddAgent before they can act.
func New(g *Grid, r Rewards, rule TerminalRule) *Environment {
	e := &Environment{
		grid:     g,
		rewards:  r,
		terminal: rule,
	}
	e.updateLayouts()
	return e
}

// AddAgent registers an agent with the Environment. Agents act in the
// order they are registered.
func (e *Environment) AddAgent(c Carrier) {
	if e.registered(c) >= 0 {
		panic(fmt.Sprintf("addAgent: agent %v already registered", c))
	}
	e.agents = append(e.agents, c)
	e.outcomes = append(e.outcomes, None)
}

// Agents returns the registered agents in registration order
func (e *Environment) Agents() []Carrier {
	return append([]Carrier(nil), e.agents...)
}

// Grid returns the Environment's Grid. The Grid should only be read.
func (e *Environment) Grid() *Grid {
	return e.grid
}

// Rewards returns the Environment's reward scheme
func (e *Environment) Rewards() Rewards {
	return e.rewards
}

// Reset restocks the Grid, moves agent i to starts[i], and clears
// every agent's carrying flag
func (e *Environment) Reset(starts []Position) {
	if len(starts) != len(e.agents) {
		panic(fmt.Sprintf("reset: have %d start positions for %d agents",
			len(starts), len(e.agents)))
	}

	e.grid.restock()
	for i, c := range e.agents {
		if !e.grid.InBounds(starts[i]) {
			panic(fmt.Sprintf("reset: start position %v of agent %d is "+
				"out of bounds", starts[i], i))
		}
		c.MoveTo(starts[i])
		c.SetCarrying(false)
		e.outcomes[i] = None
	}
}

// SetPickups replaces the pickup cells of the Environment. The new
// cells are stocked at the next call to Reset, and States observed
// afterwards carry the new pickup layout.
func (e *Environment) SetPickups(pickups []PickupCell) error {
	if err := e.grid.setPickups(pickups); err != nil {
		return fmt.Errorf("setPickups: %w", err)
	}
	e.updateLayouts()
	return nil
}

// State returns the State of agent c. It does not modify the
// Environment.
func (e *Environment) State(c Carrier) State {
	return State{
		Position: c.Position(),
		Pickups:  e.pickupLayout,
		Dropoffs: e.dropoffLayout,
	}
}

// AvailableActions returns the actions available to agent c, in the
// order of Actions. Movement actions are always available; pickup is
// available when c is not carrying and stands on a cell with blocks;
// dropoff is available when c is carrying and stands on a dropoff cell
// with room left.
func (e *Environment) AvailableActions(c Carrier) []Action {
	actions := make([]Action, 0, NumActions)
	actions = append(actions, Moves[:]...)

	if e.canPickup(c) {
		actions = append(actions, Pickup)
	}
	if e.canDropoff(c) {
		actions = append(actions, Dropoff)
	}
	return actions
}

// ExecuteAction applies action a for agent c and returns the reward.
//
// A move to a cell which is off the grid or occupied by another agent
// leaves the agent where it is. A pickup or dropoff which is not
// available has no effect. Neither case is an error.
func (e *Environment) ExecuteAction(c Carrier, a Action) float64 {
	i := e.index(c)

	outcome := None
	switch a {
	case Up, Down, Left, Right:
		dr, dc, _ := a.Delta()
		target := c.Position().Add(dr, dc)
		if e.grid.InBounds(target) && !e.occupied(target, c) {
			c.MoveTo(target)
			outcome = Moved
		}

	case Pickup:
		if e.canPickup(c) {
			e.grid.takeBlock(c.Position())
			c.SetCarrying(true)
			outcome = PickedUp
		}

	case Dropoff:
		if e.canDropoff(c) {
			e.grid.deliver(c.Position())
			c.SetCarrying(false)
			outcome = DroppedOff
		}

	default:
		panic(fmt.Sprintf("executeAction: invalid action %d", int(a)))
	}

	e.outcomes[i] = outcome
	return e.CalculateReward(c)
}

// CalculateReward returns the reward for the result of agent c's last
// action
func (e *Environment) CalculateReward(c Carrier) float64 {
	switch e.outcomes[e.index(c)] {
	case DroppedOff:
		return e.rewards.Dropoff
	case PickedUp:
		return e.rewards.Pickup
	default:
		return e.rewards.Step
	}
}

// LastOutcome returns the outcome of agent c's last action
func (e *Environment) LastOutcome(c Carrier) Outcome {
	return e.outcomes[e.index(c)]
}

// IsTerminalState returns whether the current episode is over
func (e *Environment) IsTerminalState() bool {
	switch e.terminal {
	case AllDelivered:
		return e.grid.AllDelivered()

	case PickupsExhausted:
		if !e.grid.Exhausted() {
			return false
		}
		for _, c := range e.agents {
			if c.Carrying() {
				return false
			}
		}
		return true
	}
	panic(fmt.Sprintf("isTerminalState: invalid terminal rule %d",
		int(e.terminal)))
}

func (e *Environment) canPickup(c Carrier) bool {
	return !c.Carrying() && e.grid.Blocks(c.Position()) > 0
}

func (e *Environment) canDropoff(c Carrier) bool {
	return c.Carrying() && e.grid.CanAccept(c.Position())
}

// occupied returns whether any agent other than self stands at p
func (e *Environment) occupied(p Position, self Carrier) bool {
	for _, c := range e.agents {
		if c != self && c.Position() == p {
			return true
		}
	}
	return false
}

// registered returns the index of c, or -1 if c is not registered
func (e *Environment) registered(c Carrier) int {
	for i, other := range e.agents {
		if other == c {
			return i
		}
	}
	return -1
}

// index returns the index of c, panicking if c is not registered
func (e *Environment) index(c Carrier) int {
	i := e.registered(c)
	if i < 0 {
		panic(fmt.Sprintf("index: agent %v is not registered", c))
	}
	return i
}

func (e *Environment) updateLayouts() {
	pickups := e.grid.Pickups()
	positions := make([]Position, len(pickups))
	for i := range pickups {
		positions[i] = pickups[i].Position
	}
	e.pickupLayout = NewLayout(positions)

	dropoffs := e.grid.Dropoffs()
	positions = make([]Position, len(dropoffs))
	for i := range dropoffs {
		positions[i] = dropoffs[i].Position
	}
	e.dropoffLayout = NewLayout(positions)
}

func (e *Environment) String() string {
	var b strings.Builder
	r, c := e.grid.Dims()
	fmt.Fprintf(&b, "Environment | Bounds: (%d, %d)  |  Pickups: %v  |  "+
		"Dropoffs: %v  |  Agents:", r, c, e.pickupLayout, e.dropoffLayout)
	for _, a := range e.agents {
		fmt.Fprintf(&b, " %v", a.Position())
	}
	return b.String()
}
