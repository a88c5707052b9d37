package envconfig_test

import (
	"encoding/json"
	"testing"

	env "github.com/samuelfneumann/pdworld/environment"
	"github.com/samuelfneumann/pdworld/environment/envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDWorld(t *testing.T) {
	c := envconfig.PDWorld()
	require.NoError(t, c.Validate())

	e, err := c.Create()
	require.NoError(t, err)

	r, cols := e.Grid().Dims()
	assert.Equal(t, 5, r)
	assert.Equal(t, 5, cols)
	for _, p := range c.PickupCells() {
		assert.Equal(t, envconfig.DefaultBlocks, e.Grid().Blocks(p.Position))
	}
	for _, d := range c.DropoffCells() {
		assert.True(t, e.Grid().CanAccept(d.Position))
	}
	assert.Equal(t, env.DefaultRewards(), e.Rewards())
}

func TestCounts(t *testing.T) {
	c := envconfig.PDWorld()
	c.Blocks = 0
	c.Capacity = 2
	c.Pickups[0].Count = 7

	pickups := c.PickupCells()
	assert.Equal(t, 7, pickups[0].Blocks)
	assert.Equal(t, envconfig.DefaultBlocks, pickups[1].Blocks)
	for _, d := range c.DropoffCells() {
		assert.Equal(t, 2, d.Capacity)
	}
}

func TestValidate(t *testing.T) {
	c := envconfig.PDWorld()
	c.Blocks = 1
	assert.Error(t, c.Validate(), "3 blocks cannot fill 15 places")

	c.Terminal = env.PickupsExhausted
	assert.NoError(t, c.Validate())

	c = envconfig.PDWorld()
	c.Dropoffs = nil
	assert.ErrorIs(t, c.Validate(), env.ErrNoDropoffs)

	c = envconfig.PDWorld()
	c.Pickups = append(c.Pickups, envconfig.Cell{Row: 0, Col: 0})
	assert.ErrorIs(t, c.Validate(), env.ErrOverlap)

	_, err := c.Create()
	assert.Error(t, err)
}

func TestJSON(t *testing.T) {
	c := envconfig.PDWorld()
	c.Terminal = env.PickupsExhausted
	c.Rewards.Step = -0.1

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"terminal":"pickups-exhausted"`)

	var decoded envconfig.Config
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, c, decoded)

	err = json.Unmarshal([]byte(`{"terminal":"never"}`), &decoded)
	assert.Error(t, err)
}
