package experiment

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/samuelfneumann/pdworld/agent"
	env "github.com/samuelfneumann/pdworld/environment"
	"github.com/samuelfneumann/pdworld/experiment/checkpointer"
	"github.com/samuelfneumann/pdworld/experiment/trackers"
	ts "github.com/samuelfneumann/pdworld/timestep"
)

// Online is an experiment in which agents learn online while acting.
// No offline evaluation is performed.
type Online struct {
	config Config
	runID  uuid.UUID

	env    *env.Environment
	agents []*agent.Agent
	starts []env.Position

	trackers      []trackers.Tracker
	checkpointers []checkpointer.Checkpointer

	step        int // Steps executed
	episode     int // Current episode, counting from 0
	episodeStep int // Steps executed in the current episode
	terminals   int // Terminal states reached
	stopped     bool
	phases      []Phase

	// SARSA threads each agent's next state and action between steps
	states  []env.State
	actions []env.Action
}

// NewOnline creates and returns a new online experiment. The
// environment is reset and every agent stands at its start position.
// Every random decision of the experiment is drawn from a single
// generator seeded with c.Seed.
func NewOnline(c Config, t ...trackers.Tracker) (*Online, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newOnline: %w", err)
	}

	e, err := c.Env.Create()
	if err != nil {
		return nil, fmt.Errorf("newOnline: %w", err)
	}

	rng := rand.New(rand.NewPCG(c.Seed, c.Seed))
	agents := make([]*agent.Agent, len(c.Starts))
	for i, start := range c.Starts {
		agents[i], err = agent.New(i, start, c.AgentConfig(i), rng)
		if err != nil {
			return nil, fmt.Errorf("newOnline: agent %d: %w", i, err)
		}
		e.AddAgent(agents[i])
	}

	o := &Online{
		config:   c,
		runID:    uuid.New(),
		env:      e,
		agents:   agents,
		starts:   append([]env.Position(nil), c.Starts...),
		trackers: t,
	}
	o.newPhase()
	o.reset()
	return o, nil
}

// RunID returns the identifier of the run
func (o *Online) RunID() uuid.UUID {
	return o.runID
}

// Agents returns the agents of the experiment in the order they act
func (o *Online) Agents() []*agent.Agent {
	return append([]*agent.Agent(nil), o.agents...)
}

// Environment returns the environment of the experiment
func (o *Online) Environment() *env.Environment {
	return o.env
}

// Register registers a Tracker with the experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t trackers.Tracker) {
	o.trackers = append(o.trackers, t)
}

// RegisterCheckpointer registers a Checkpointer with the experiment
func (o *Online) RegisterCheckpointer(c checkpointer.Checkpointer) {
	o.checkpointers = append(o.checkpointers, c)
}

// Done returns whether the experiment has finished, either because the
// step limit is reached or because the Schedule stopped it
func (o *Online) Done() bool {
	return o.stopped || o.step >= o.config.Steps
}

// RunEpisode runs steps until the current episode ends or the
// experiment is done, and returns whether the experiment is done
func (o *Online) RunEpisode() (bool, error) {
	episode := o.episode
	for !o.Done() && o.episode == episode {
		if err := o.Step(); err != nil {
			return o.Done(), fmt.Errorf("runEpisode: %w", err)
		}
	}
	return o.Done(), nil
}

// Run runs the entire experiment and returns its Result
func (o *Online) Run() (Result, error) {
	for ended := o.Done(); !ended; {
		var err error
		if ended, err = o.RunEpisode(); err != nil {
			return o.Result(), fmt.Errorf("run: %w", err)
		}
	}
	return o.Result(), nil
}

// Step runs a single simulation step in which each agent acts once, in
// order. Later agents see the positions earlier agents moved to in the
// same step. If the step ends in a terminal state, the Schedule is
// applied and the environment is reset.
func (o *Online) Step() error {
	if o.Done() {
		return fmt.Errorf("step: experiment is done")
	}

	policy := o.config.policy(o.step)
	phase := &o.phases[len(o.phases)-1]
	o.step++
	o.episodeStep++

	steps := make([]ts.TimeStep, len(o.agents))
	for i, a := range o.agents {
		var state env.State
		var action env.Action
		if o.config.Learner == SARSA {
			state, action = o.states[i], o.actions[i]
		} else {
			state = o.env.State(a)
			action = a.ChooseAction(o.env, policy)
		}

		from := a.Position()
		reward := o.env.ExecuteAction(a, action)
		next := o.env.State(a)
		phase.Agents[i].Record(reward, from, a.Position())

		switch o.config.Learner {
		case SARSA:
			nextAction := a.ChooseAction(o.env, policy)
			a.UpdateQTableSARSA(state, action, reward, next, nextAction)
			o.states[i], o.actions[i] = next, nextAction

		default:
			a.UpdateQTable(state, action, reward, next)
		}

		steps[i] = ts.New(ts.Mid, i, action, reward,
			from.Distance(a.Position()), o.step, o.episode, o.episodeStep)
	}
	phase.Steps++

	terminal := o.env.IsTerminalState()
	stepType := ts.Mid
	if terminal {
		stepType = ts.Last
	} else if o.episodeStep == 1 {
		stepType = ts.First
	}
	for i := range steps {
		steps[i] = ts.New(stepType, steps[i].Agent, steps[i].Action,
			steps[i].Reward, steps[i].Distance, steps[i].Number,
			steps[i].Episode, steps[i].EpisodeStep)
		o.track(steps[i])
	}

	if err := o.checkpoint(steps[0]); err != nil {
		return fmt.Errorf("step: %w", err)
	}

	if terminal {
		if err := o.endEpisode(); err != nil {
			return fmt.Errorf("step: %w", err)
		}
	}
	return nil
}

// Result returns the Result of the experiment so far
func (o *Online) Result() Result {
	phases := make([]Phase, len(o.phases))
	for i, p := range o.phases {
		phases[i] = Phase{
			Steps:  p.Steps,
			Agents: append([]Totals(nil), p.Agents...),
		}
	}

	tables := make([]agent.QTable, len(o.agents))
	for i, a := range o.agents {
		tables[i] = a.Table()
	}

	return Result{
		RunID:     o.runID,
		Name:      o.config.Name,
		Phases:    phases,
		Terminals: o.terminals,
		Stopped:   o.stopped,
		Steps:     o.step,
		Tables:    tables,
	}
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	var errs []error
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// endEpisode applies the Schedule for the terminal state just reached,
// then resets the environment unless the run was stopped
func (o *Online) endEpisode() error {
	o.terminals++
	o.episode++
	o.episodeStep = 0

	for _, effect := range o.config.Schedule.At(o.terminals) {
		switch effect.Type {
		case ChangePickups:
			cells := o.config.Env
			cells.Pickups = effect.Pickups
			if err := o.env.SetPickups(cells.PickupCells()); err != nil {
				return fmt.Errorf("endEpisode: %w", err)
			}

		case NextPhase:
			o.newPhase()

		case Stop:
			o.stopped = true

		default:
			panic(fmt.Sprintf("endEpisode: invalid effect type %d",
				int(effect.Type)))
		}
	}

	if !o.stopped {
		o.reset()
	}
	return nil
}

// reset resets the environment with the original start positions. For
// SARSA, a new initial action is drawn at random for every agent.
func (o *Online) reset() {
	o.env.Reset(o.starts)

	if o.config.Learner != SARSA {
		return
	}
	o.states = make([]env.State, len(o.agents))
	o.actions = make([]env.Action, len(o.agents))
	for i, a := range o.agents {
		o.states[i] = o.env.State(a)
		o.actions[i] = a.ChooseAction(o.env, agent.Random)
	}
}

func (o *Online) newPhase() {
	o.phases = append(o.phases, Phase{Agents: make([]Totals, len(o.agents))})
}

// track tracks the current timestep by caching its data in each Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}

// checkpoint passes the current timestep to each Checkpointer
func (o *Online) checkpoint(t ts.TimeStep) error {
	for _, c := range o.checkpointers {
		if err := c.Checkpoint(t); err != nil {
			return err
		}
	}
	return nil
}
