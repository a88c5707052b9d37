package experiment

import (
	"github.com/google/uuid"
	"github.com/samuelfneumann/pdworld/agent"
	env "github.com/samuelfneumann/pdworld/environment"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Totals accumulates the performance of one agent
type Totals struct {
	Reward    float64 `json:"reward"`
	Successes int     `json:"successes"` // Actions with positive reward
	Distance  int     `json:"distance"`  // Manhattan distance travelled
}

// Record adds the result of one action, taken at from and ending at
// to, to the Totals
func (t *Totals) Record(reward float64, from, to env.Position) {
	t.Reward += reward
	if reward > 0 {
		t.Successes++
	}
	t.Distance += from.Distance(to)
}

// Add returns the sum of two Totals
func (t Totals) Add(o Totals) Totals {
	return Totals{
		Reward:    t.Reward + o.Reward,
		Successes: t.Successes + o.Successes,
		Distance:  t.Distance + o.Distance,
	}
}

// Averages holds Totals divided by a number of steps
type Averages struct {
	Reward    float64 `json:"reward"`
	Successes float64 `json:"successes"`
	Distance  float64 `json:"distance"`
}

// Averages returns the Totals per step. Zero steps give zero averages.
func (t Totals) Averages(steps int) Averages {
	if steps <= 0 {
		return Averages{}
	}
	n := float64(steps)
	return Averages{
		Reward:    t.Reward / n,
		Successes: float64(t.Successes) / n,
		Distance:  float64(t.Distance) / n,
	}
}

// Phase holds the metrics of a contiguous run of steps
type Phase struct {
	Steps  int      `json:"steps"`
	Agents []Totals `json:"agents"` // Totals of each agent
}

// Reward returns the total reward of all agents in the Phase
func (p Phase) Reward() float64 {
	rewards := make([]float64, len(p.Agents))
	for i := range p.Agents {
		rewards[i] = p.Agents[i].Reward
	}
	return floats.Sum(rewards)
}

// Result is the outcome of an experiment run
type Result struct {
	RunID uuid.UUID `json:"runID"`
	Name  string    `json:"name,omitempty"`

	Phases    []Phase `json:"phases"`
	Terminals int     `json:"terminals"` // Terminal states reached
	Stopped   bool    `json:"stopped"`   // Stopped by the Schedule
	Steps     int     `json:"steps"`     // Steps executed

	Tables []agent.QTable `json:"tables,omitempty"` // Final table of each agent
}

// Overall returns the Totals of each agent over every Phase
func (r Result) Overall() []Totals {
	if len(r.Phases) == 0 {
		return nil
	}
	overall := make([]Totals, len(r.Phases[0].Agents))
	for _, phase := range r.Phases {
		for i, t := range phase.Agents {
			overall[i] = overall[i].Add(t)
		}
	}
	return overall
}

// MeanReward returns the mean over agents of the reward each agent
// received in the run
func (r Result) MeanReward() float64 {
	overall := r.Overall()
	if len(overall) == 0 {
		return 0
	}
	rewards := make([]float64, len(overall))
	for i := range overall {
		rewards[i] = overall[i].Reward
	}
	return stat.Mean(rewards, nil)
}
