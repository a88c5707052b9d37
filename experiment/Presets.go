package experiment

import (
	"fmt"
	"sort"

	"github.com/samuelfneumann/pdworld/agent"
)

// AltLearningRate is the learning rate of the "3" preset
const AltLearningRate = 0.45

// presets maps preset names to functions which adjust DefaultConfig
var presets = map[string]func(*Config){
	// Q-learning which keeps acting randomly after the warm-up
	"1a": func(c *Config) {
		c.Policy = agent.Random
	},

	// Q-learning which acts greedily after the warm-up
	"1b": func(c *Config) {
		c.Policy = agent.Greedy
	},

	// Q-learning with the exploit policy after the warm-up
	"1c": func(c *Config) {
		c.Policy = agent.Exploit
	},

	// SARSA with the exploit policy after the warm-up
	"2": func(c *Config) {
		c.Learner = SARSA
		c.Policy = agent.Exploit
	},

	// 1c with a different learning rate
	"3": func(c *Config) {
		c.Policy = agent.Exploit
		c.Agent.LearningRate = AltLearningRate
	},

	// 1c, with the pickup cells moved after the third finished episode
	"4": func(c *Config) {
		c.Policy = agent.Exploit
		c.Schedule = Perturbation()
	},
}

// Preset returns the Config of the named experiment
func Preset(name string) (Config, error) {
	adjust, ok := presets[name]
	if !ok {
		return Config{}, fmt.Errorf("preset: no such experiment %q", name)
	}

	c := DefaultConfig()
	c.Name = name
	adjust(&c)
	return c, nil
}

// PresetNames returns the names of every preset experiment, sorted
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
