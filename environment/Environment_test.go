package environment_test

import (
	"errors"
	"testing"

	env "github.com/samuelfneumann/pdworld/environment"
	"github.com/samuelfneumann/pdworld/environment/envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type carrier struct {
	position env.Position
	carrying bool
}

func (c *carrier) Position() env.Position { return c.position }

func (c *carrier) MoveTo(p env.Position) { c.position = p }

func (c *carrier) Carrying() bool { return c.carrying }

func (c *carrier) SetCarrying(carrying bool) { c.carrying = carrying }

var (
	starts = []env.Position{{Row: 0, Col: 2}, {Row: 2, Col: 2}, {Row: 4, Col: 2}}

	pickups = []env.Position{{Row: 0, Col: 4}, {Row: 1, Col: 3}, {Row: 4, Col: 1}}

	dropoffs = []env.Position{{Row: 0, Col: 0}, {Row: 2, Col: 0}, {Row: 3, Col: 4}}
)

func newPDWorld(t *testing.T) (*env.Environment, []*carrier) {
	t.Helper()

	e, err := envconfig.PDWorld().Create()
	require.NoError(t, err)

	carriers := make([]*carrier, len(starts))
	for i := range starts {
		carriers[i] = &carrier{}
		e.AddAgent(carriers[i])
	}
	e.Reset(starts)
	return e, carriers
}

// newCorridor returns a 1x3 world with blocks blocks at (0,2) and a
// dropoff of the given capacity at (0,0)
func newCorridor(t *testing.T, blocks, capacity int,
	rule env.TerminalRule) (*env.Environment, *carrier) {
	t.Helper()

	g, err := env.NewGrid(1, 3,
		[]env.PickupCell{{Position: env.Position{Row: 0, Col: 2}, Blocks: blocks}},
		[]env.DropoffCell{{Position: env.Position{Row: 0, Col: 0},
			Capacity: capacity}},
	)
	require.NoError(t, err)

	e := env.New(g, env.DefaultRewards(), rule)
	c := &carrier{}
	e.AddAgent(c)
	e.Reset([]env.Position{{Row: 0, Col: 1}})
	return e, c
}

// deliver teleports c to from, picks up a block, teleports c to to,
// and drops the block off
func deliver(t *testing.T, e *env.Environment, c *carrier, from,
	to env.Position) {
	t.Helper()

	c.MoveTo(from)
	require.Equal(t, 1.0, e.ExecuteAction(c, env.Pickup))
	c.MoveTo(to)
	require.Equal(t, 10.0, e.ExecuteAction(c, env.Dropoff))
}

func TestAvailableActions(t *testing.T) {
	e, carriers := newPDWorld(t)
	c := carriers[0]

	assert.Equal(t, env.Moves[:], e.AvailableActions(c))

	c.MoveTo(pickups[0])
	assert.Equal(t, []env.Action{env.Up, env.Down, env.Left, env.Right,
		env.Pickup}, e.AvailableActions(c))

	e.ExecuteAction(c, env.Pickup)
	assert.Equal(t, env.Moves[:], e.AvailableActions(c))

	c.MoveTo(dropoffs[2])
	assert.Equal(t, []env.Action{env.Up, env.Down, env.Left, env.Right,
		env.Dropoff}, e.AvailableActions(c))
}

func TestPickup(t *testing.T) {
	e, carriers := newPDWorld(t)
	c := carriers[0]

	assert.Equal(t, 0.0, e.ExecuteAction(c, env.Right))
	assert.Equal(t, 0.0, e.ExecuteAction(c, env.Right))
	require.Equal(t, pickups[0], c.Position())

	assert.Equal(t, 1.0, e.ExecuteAction(c, env.Pickup))
	assert.True(t, c.Carrying())
	assert.Equal(t, 4, e.Grid().Blocks(pickups[0]))
	assert.Equal(t, env.PickedUp, e.LastOutcome(c))

	// A second pickup is a no-op
	assert.Equal(t, 0.0, e.ExecuteAction(c, env.Pickup))
	assert.True(t, c.Carrying())
	assert.Equal(t, 4, e.Grid().Blocks(pickups[0]))
	assert.Equal(t, env.None, e.LastOutcome(c))
}

func TestPickupEmptyCell(t *testing.T) {
	e, c := newCorridor(t, 1, 1, env.AllDelivered)

	c.MoveTo(env.Position{Row: 0, Col: 2})
	require.Equal(t, 1.0, e.ExecuteAction(c, env.Pickup))
	c.SetCarrying(false)

	assert.Equal(t, 0.0, e.ExecuteAction(c, env.Pickup))
	assert.False(t, c.Carrying())
	assert.Equal(t, 0, e.Grid().Blocks(env.Position{Row: 0, Col: 2}))
}

func TestDropoffAtFullCell(t *testing.T) {
	e, c := newCorridor(t, 2, 1, env.PickupsExhausted)
	pickup, dropoff := env.Position{Row: 0, Col: 2}, env.Position{Row: 0, Col: 0}

	deliver(t, e, c, pickup, dropoff)
	delivered, ok := e.Grid().Delivered(dropoff)
	require.True(t, ok)
	require.Equal(t, 1, delivered)

	c.MoveTo(pickup)
	require.Equal(t, 1.0, e.ExecuteAction(c, env.Pickup))
	c.MoveTo(dropoff)

	assert.NotContains(t, e.AvailableActions(c), env.Dropoff)
	assert.Equal(t, 0.0, e.ExecuteAction(c, env.Dropoff))
	assert.True(t, c.Carrying())
	delivered, _ = e.Grid().Delivered(dropoff)
	assert.Equal(t, 1, delivered)
}

func TestDropoffOffDropoffCell(t *testing.T) {
	e, carriers := newPDWorld(t)
	c := carriers[0]
	c.MoveTo(pickups[0])
	e.ExecuteAction(c, env.Pickup)

	c.MoveTo(env.Position{Row: 1, Col: 1})
	assert.Equal(t, 0.0, e.ExecuteAction(c, env.Dropoff))
	assert.True(t, c.Carrying())
}

func TestBlockedMoves(t *testing.T) {
	e, carriers := newPDWorld(t)

	// Off the grid
	assert.Equal(t, 0.0, e.ExecuteAction(carriers[0], env.Up))
	assert.Equal(t, starts[0], carriers[0].Position())
	assert.Equal(t, env.None, e.LastOutcome(carriers[0]))

	assert.Equal(t, 0.0, e.ExecuteAction(carriers[2], env.Down))
	assert.Equal(t, starts[2], carriers[2].Position())

	// Onto another agent
	carriers[0].MoveTo(env.Position{Row: 1, Col: 2})
	e.ExecuteAction(carriers[0], env.Down)
	assert.Equal(t, env.Position{Row: 1, Col: 2}, carriers[0].Position())

	e.ExecuteAction(carriers[1], env.Up)
	assert.Equal(t, starts[1], carriers[1].Position())

	// Free cells
	e.ExecuteAction(carriers[1], env.Left)
	assert.Equal(t, env.Position{Row: 2, Col: 1}, carriers[1].Position())
	assert.Equal(t, env.Moved, e.LastOutcome(carriers[1]))
	e.ExecuteAction(carriers[0], env.Down)
	assert.Equal(t, starts[1], carriers[0].Position())
}

func TestTerminalAndReset(t *testing.T) {
	e, carriers := newPDWorld(t)
	c := carriers[0]

	n := 0
	for _, dropoff := range dropoffs {
		for k := 0; k < envconfig.DefaultCapacity; k++ {
			require.False(t, e.IsTerminalState(), "delivery %d", n)
			deliver(t, e, c, pickups[n%len(pickups)], dropoff)
			n++
		}
	}
	assert.True(t, e.IsTerminalState())
	for _, p := range pickups {
		assert.Equal(t, 0, e.Grid().Blocks(p))
	}

	carriers[1].SetCarrying(true)
	e.Reset(starts)

	assert.False(t, e.IsTerminalState())
	for i, c := range carriers {
		assert.Equal(t, starts[i], c.Position())
		assert.False(t, c.Carrying())
		assert.Equal(t, env.None, e.LastOutcome(c))
	}
	for _, p := range pickups {
		assert.Equal(t, envconfig.DefaultBlocks, e.Grid().Blocks(p))
	}
	for _, d := range dropoffs {
		delivered, ok := e.Grid().Delivered(d)
		assert.True(t, ok)
		assert.Equal(t, 0, delivered)
	}
}

func TestPickupsExhausted(t *testing.T) {
	e, c := newCorridor(t, 1, 5, env.PickupsExhausted)

	c.MoveTo(env.Position{Row: 0, Col: 2})
	e.ExecuteAction(c, env.Pickup)
	assert.False(t, e.IsTerminalState(), "agent still carries a block")

	c.MoveTo(env.Position{Row: 0, Col: 0})
	e.ExecuteAction(c, env.Dropoff)
	assert.True(t, e.IsTerminalState())
}

func TestStepReward(t *testing.T) {
	g, err := env.NewGrid(1, 3,
		[]env.PickupCell{{Position: env.Position{Row: 0, Col: 2}, Blocks: 1}},
		[]env.DropoffCell{{Position: env.Position{Row: 0, Col: 0}, Capacity: 1}},
	)
	require.NoError(t, err)

	e := env.New(g, env.Rewards{Pickup: 1, Dropoff: 10, Step: -0.1},
		env.AllDelivered)
	c := &carrier{}
	e.AddAgent(c)
	e.Reset([]env.Position{{Row: 0, Col: 1}})

	assert.Equal(t, -0.1, e.ExecuteAction(c, env.Up))
	assert.Equal(t, -0.1, e.ExecuteAction(c, env.Right))
	assert.Equal(t, 1.0, e.ExecuteAction(c, env.Pickup))
	assert.Equal(t, 1.0, e.CalculateReward(c))
}

func TestState(t *testing.T) {
	e, carriers := newPDWorld(t)

	s := e.State(carriers[1])
	assert.Equal(t, starts[1], s.Position)
	assert.Equal(t, env.Layout("(0,4)(1,3)(4,1)"), s.Pickups)
	assert.Equal(t, env.Layout("(0,0)(2,0)(3,4)"), s.Dropoffs)

	// Carrying a block does not change the state key
	carriers[1].SetCarrying(true)
	assert.Equal(t, s, e.State(carriers[1]))

	text, err := s.MarshalText()
	require.NoError(t, err)
	var decoded env.State
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, s, decoded)

	assert.Error(t, decoded.UnmarshalText([]byte("(0,0)|(1,1)")))
	assert.Error(t, decoded.UnmarshalText([]byte("(0,0)(1,1)||")))
}

func TestLayoutIsCanonical(t *testing.T) {
	reversed := []env.Position{pickups[2], pickups[1], pickups[0]}
	assert.Equal(t, env.NewLayout(pickups), env.NewLayout(reversed))

	positions, err := env.NewLayout(reversed).Positions()
	require.NoError(t, err)
	assert.Equal(t, pickups, positions)
}

func TestSetPickups(t *testing.T) {
	e, carriers := newPDWorld(t)
	before := e.State(carriers[0])

	moved := []env.PickupCell{
		{Position: env.Position{Row: 4, Col: 2}, Blocks: 5},
		{Position: env.Position{Row: 3, Col: 3}, Blocks: 5},
		{Position: env.Position{Row: 2, Col: 4}, Blocks: 5},
	}
	require.NoError(t, e.SetPickups(moved))

	after := e.State(carriers[0])
	assert.Equal(t, before.Position, after.Position)
	assert.NotEqual(t, before, after)
	assert.Equal(t, env.Layout("(2,4)(3,3)(4,2)"), after.Pickups)

	e.Reset(starts)
	assert.Equal(t, 0, e.Grid().Blocks(pickups[0]))
	assert.Equal(t, 5, e.Grid().Blocks(env.Position{Row: 3, Col: 3}))

	err := e.SetPickups([]env.PickupCell{{Position: dropoffs[0], Blocks: 1}})
	assert.True(t, errors.Is(err, env.ErrOverlap))
	err = e.SetPickups([]env.PickupCell{{Position: env.Position{Row: 9,
		Col: 0}, Blocks: 1}})
	assert.True(t, errors.Is(err, env.ErrOutOfBounds))
}

func TestSnapshot(t *testing.T) {
	e, carriers := newPDWorld(t)
	carriers[0].MoveTo(pickups[0])
	e.ExecuteAction(carriers[0], env.Pickup)

	snap := e.Snapshot()
	assert.Equal(t, 5, snap.Rows)
	assert.Equal(t, 5, snap.Cols)
	assert.Equal(t, 4, snap.Blocks[0][4])
	assert.Equal(t, 5, snap.Blocks[1][3])
	assert.Len(t, snap.Dropoffs, 3)
	assert.Equal(t, env.AgentStatus{Position: pickups[0], Carrying: true},
		snap.Agents[0])

	snap.Blocks[0][4] = 100
	assert.Equal(t, 4, e.Grid().Blocks(pickups[0]))
}

func TestPanics(t *testing.T) {
	e, carriers := newPDWorld(t)

	assert.Panics(t, func() { e.AddAgent(carriers[0]) })
	assert.Panics(t, func() { e.Reset(starts[:2]) })
	assert.Panics(t, func() { e.ExecuteAction(carriers[0], env.Action(17)) })
	assert.Panics(t, func() { e.ExecuteAction(&carrier{}, env.Up) })
}

func TestNewGridErrors(t *testing.T) {
	pickup := []env.PickupCell{{Position: env.Position{Row: 0, Col: 1}, Blocks: 1}}
	dropoff := []env.DropoffCell{{Position: env.Position{Row: 0, Col: 0},
		Capacity: 1}}

	_, err := env.NewGrid(2, 2, pickup, nil)
	assert.True(t, errors.Is(err, env.ErrNoDropoffs))

	_, err = env.NewGrid(2, 2, pickup, []env.DropoffCell{
		{Position: env.Position{Row: 2, Col: 0}, Capacity: 1}})
	assert.True(t, errors.Is(err, env.ErrOutOfBounds))

	_, err = env.NewGrid(2, 2, pickup, []env.DropoffCell{
		{Position: env.Position{Row: 1, Col: 0}, Capacity: 0}})
	assert.True(t, errors.Is(err, env.ErrCapacity))

	_, err = env.NewGrid(2, 2, append(pickup, pickup...), dropoff)
	assert.True(t, errors.Is(err, env.ErrOverlap))

	_, err = env.NewGrid(0, 2, pickup, dropoff)
	assert.Error(t, err)
}

func TestActions(t *testing.T) {
	tests := []struct {
		action env.Action
		dr, dc int
		ok     bool
	}{
		{env.Up, -1, 0, true},
		{env.Down, 1, 0, true},
		{env.Left, 0, -1, true},
		{env.Right, 0, 1, true},
		{env.Pickup, 0, 0, false},
		{env.Dropoff, 0, 0, false},
	}
	for _, test := range tests {
		dr, dc, ok := test.action.Delta()
		assert.Equal(t, test.dr, dr, test.action.String())
		assert.Equal(t, test.dc, dc, test.action.String())
		assert.Equal(t, test.ok, ok, test.action.String())

		parsed, err := env.ParseAction(test.action.String())
		require.NoError(t, err)
		assert.Equal(t, test.action, parsed)
	}

	_, err := env.ParseAction("jump")
	assert.Error(t, err)
	assert.False(t, env.Action(6).Valid())
	assert.Panics(t, func() { env.Action(-1).Delta() })
}

func TestPositionDistance(t *testing.T) {
	p := env.Position{Row: 0, Col: 2}
	assert.Equal(t, 0, p.Distance(p))
	assert.Equal(t, 1, p.Distance(env.Position{Row: 0, Col: 1}))
	assert.Equal(t, 5, p.Distance(env.Position{Row: 4, Col: 1}))
}
