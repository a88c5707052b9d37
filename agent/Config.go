package agent

import (
	"errors"
	"fmt"
)

var (
	ErrLearningRate    = errors.New("learning rate must be in (0, 1]")
	ErrDiscount        = errors.New("discount must be in [0, 1]")
	ErrExplorationRate = errors.New("exploration rate must be in [0, 1]")
)

// Config represents a configuration for an Agent
type Config struct {
	LearningRate float64 `json:"learningRate"` // α
	Discount     float64 `json:"discount"`     // γ

	// ExplorationRate is the probability with which the Exploit policy
	// selects an action uniformly at random instead of greedily
	ExplorationRate float64 `json:"explorationRate"`
}

// DefaultConfig returns the default Agent configuration
func DefaultConfig() Config {
	return Config{
		LearningRate:    0.3,
		Discount:        0.5,
		ExplorationRate: 0.2,
	}
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return fmt.Errorf("validate: %w, have %v", ErrLearningRate,
			c.LearningRate)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: %w, have %v", ErrDiscount, c.Discount)
	}
	if c.ExplorationRate < 0 || c.ExplorationRate > 1 {
		return fmt.Errorf("validate: %w, have %v", ErrExplorationRate,
			c.ExplorationRate)
	}
	return nil
}
