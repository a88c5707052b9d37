package experiment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samuelfneumann/pdworld/agent"
	env "github.com/samuelfneumann/pdworld/environment"
	"github.com/samuelfneumann/pdworld/environment/envconfig"
)

// Defaults of an experiment Config
const (
	DefaultWarmupSteps = 500
	DefaultSteps       = 9000
	DefaultSeed        = 1
)

const maxConfigSize = 1 * 1024 * 1024 // 1MB

var (
	ErrNoAgents   = errors.New("experiment needs at least one agent")
	ErrStartCount = errors.New("number of agent configs must match " +
		"number of start positions")
)

// Config represents a configuration of an experiment
type Config struct {
	Name string `json:"name,omitempty"`

	Env    envconfig.Config `json:"env"`
	Starts []env.Position   `json:"starts"` // Start position of each agent

	// Agent configures every agent, unless Agents is given, in which
	// case Agents[i] configures agent i
	Agent  agent.Config   `json:"agent"`
	Agents []agent.Config `json:"agents,omitempty"`

	Learner     Learner      `json:"learner"`
	Policy      agent.Policy `json:"policy"` // Policy after the warm-up
	WarmupSteps int          `json:"warmupSteps"`
	Steps       int          `json:"steps"`
	Seed        uint64       `json:"seed"`

	Schedule Schedule `json:"schedule,omitempty"`
}

// DefaultConfig returns a Q-learning experiment with three agents in
// the canonical pickup and dropoff world
func DefaultConfig() Config {
	return Config{
		Env: envconfig.PDWorld(),
		Starts: []env.Position{
			{Row: 0, Col: 2},
			{Row: 2, Col: 2},
			{Row: 4, Col: 2},
		},
		Agent:       agent.DefaultConfig(),
		Learner:     QLearning,
		Policy:      agent.Exploit,
		WarmupSteps: DefaultWarmupSteps,
		Steps:       DefaultSteps,
		Seed:        DefaultSeed,
	}
}

// AgentConfig returns the configuration of agent i
func (c Config) AgentConfig(i int) agent.Config {
	if len(c.Agents) > 0 {
		return c.Agents[i]
	}
	return c.Agent
}

// Validate returns an error describing why the Config is invalid, or
// nil if it is valid
func (c Config) Validate() error {
	if len(c.Starts) == 0 {
		return fmt.Errorf("validate: %w", ErrNoAgents)
	}
	if len(c.Agents) > 0 && len(c.Agents) != len(c.Starts) {
		return fmt.Errorf("validate: %w: have %d configs for %d agents",
			ErrStartCount, len(c.Agents), len(c.Starts))
	}

	if err := c.Env.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	seen := make(map[env.Position]bool, len(c.Starts))
	for i, s := range c.Starts {
		if s.Row < 0 || s.Row >= c.Env.Rows || s.Col < 0 || s.Col >= c.Env.Cols {
			return fmt.Errorf("validate: start %v of agent %d: %w", s, i,
				env.ErrOutOfBounds)
		}
		if seen[s] {
			return fmt.Errorf("validate: start %v shared by two agents: %w", s,
				env.ErrOverlap)
		}
		seen[s] = true

		if err := c.AgentConfig(i).Validate(); err != nil {
			return fmt.Errorf("validate: agent %d: %w", i, err)
		}
	}

	if c.Learner != QLearning && c.Learner != SARSA {
		return fmt.Errorf("validate: invalid learner %d", int(c.Learner))
	}
	if _, err := c.Policy.MarshalText(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if c.WarmupSteps < 0 {
		return fmt.Errorf("validate: warm-up steps must be non-negative, "+
			"have %d", c.WarmupSteps)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("validate: steps must be positive, have %d",
			c.Steps)
	}

	if err := c.Schedule.Validate(c.Env); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

// LoadConfig loads a Config from a JSON file.
// The file must have a .json extension and be at most 1MB. Fields
// omitted from the JSON file retain their values from DefaultConfig, so
// partial configs are safe. Unknown fields are an error.
func LoadConfig(path string) (Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return Config{}, fmt.Errorf("loadConfig: config file must have "+
			".json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig: %w", err)
	}
	if info.Size() > maxConfigSize {
		return Config{}, fmt.Errorf("loadConfig: config file too large: %d "+
			"bytes (max %d)", info.Size(), maxConfigSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a JSON Config over DefaultConfig and validates
// it. A zero seed is replaced by DefaultSeed.
func ParseConfig(data []byte) (Config, error) {
	c := DefaultConfig()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("parseConfig: %w", err)
	}

	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("parseConfig: %w", err)
	}
	return c, nil
}
