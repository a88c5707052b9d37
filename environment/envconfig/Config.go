// Package envconfig provides configuration structs for configuring
// pickup and dropoff environments with default layouts and rewards.
// Environment configurations in this package are JSON serializable.
package envconfig

import (
	"fmt"

	env "github.com/samuelfneumann/pdworld/environment"
)

// Defaults for cell stocks and capacities
const (
	DefaultBlocks   = 5
	DefaultCapacity = 5
)

// Cell is a JSON serializable cell with an optional count. For pickup
// cells the count is the number of blocks stocked at the cell, for
// dropoff cells it is the cell's capacity. A zero count means the
// default.
type Cell struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Count int `json:"count,omitempty"`
}

// Position returns the position of the cell
func (c Cell) Position() env.Position {
	return env.Position{Row: c.Row, Col: c.Col}
}

// Cells converts positions into Cells with default counts
func Cells(positions ...env.Position) []Cell {
	cells := make([]Cell, len(positions))
	for i, p := range positions {
		cells[i] = Cell{Row: p.Row, Col: p.Col}
	}
	return cells
}

// Config implements a specific configuration of a pickup and dropoff
// environment
type Config struct {
	Rows     int    `json:"rows"`
	Cols     int    `json:"cols"`
	Pickups  []Cell `json:"pickups"`
	Dropoffs []Cell `json:"dropoffs"`

	// Default block stock of pickup cells and capacity of dropoff cells
	Blocks   int `json:"blocks,omitempty"`
	Capacity int `json:"capacity,omitempty"`

	Rewards  env.Rewards      `json:"rewards"`
	Terminal env.TerminalRule `json:"terminal"`
}

// PDWorld returns the canonical 5x5 configuration with three pickup
// cells and three dropoff cells, each holding or accepting five blocks
func PDWorld() Config {
	return Config{
		Rows: 5,
		Cols: 5,
		Pickups: Cells(
			env.Position{Row: 0, Col: 4},
			env.Position{Row: 1, Col: 3},
			env.Position{Row: 4, Col: 1},
		),
		Dropoffs: Cells(
			env.Position{Row: 0, Col: 0},
			env.Position{Row: 2, Col: 0},
			env.Position{Row: 3, Col: 4},
		),
		Blocks:   DefaultBlocks,
		Capacity: DefaultCapacity,
		Rewards:  env.DefaultRewards(),
		Terminal: env.AllDelivered,
	}
}

// PickupCells returns the configured pickup cells with defaults applied
func (c Config) PickupCells() []env.PickupCell {
	cells := make([]env.PickupCell, len(c.Pickups))
	for i, p := range c.Pickups {
		cells[i] = env.PickupCell{
			Position: p.Position(),
			Blocks:   orDefault(p.Count, c.Blocks, DefaultBlocks),
		}
	}
	return cells
}

// DropoffCells returns the configured dropoff cells with defaults
// applied
func (c Config) DropoffCells() []env.DropoffCell {
	cells := make([]env.DropoffCell, len(c.Dropoffs))
	for i, d := range c.Dropoffs {
		cells[i] = env.DropoffCell{
			Position: d.Position(),
			Capacity: orDefault(d.Count, c.Capacity, DefaultCapacity),
		}
	}
	return cells
}

// Validate returns an error describing why the Config is invalid, or
// nil if it is valid. Under the AllDelivered terminal rule, the
// pickup cells must hold enough blocks to fill every dropoff cell,
// otherwise an episode could never end.
func (c Config) Validate() error {
	if _, err := env.NewGrid(c.Rows, c.Cols, c.PickupCells(),
		c.DropoffCells()); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	if c.Terminal == env.AllDelivered {
		var blocks, capacity int
		for _, p := range c.PickupCells() {
			blocks += p.Blocks
		}
		for _, d := range c.DropoffCells() {
			capacity += d.Capacity
		}
		if blocks < capacity {
			return fmt.Errorf("validate: pickups hold %d blocks but "+
				"dropoffs need %d to end an episode", blocks, capacity)
		}
	}
	return nil
}

// Create returns the environment described by the Config
func (c Config) Create() (*env.Environment, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	grid, err := env.NewGrid(c.Rows, c.Cols, c.PickupCells(), c.DropoffCells())
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	return env.New(grid, c.Rewards, c.Terminal), nil
}

func orDefault(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
