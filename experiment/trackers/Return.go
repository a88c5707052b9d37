package trackers

import (
	ts "github.com/samuelfneumann/pdworld/timestep"
)

// Return tracks and saves the episodic return in an experiment. The
// return of an episode is the sum of the rewards of every agent over
// every step of the episode.
//
// Note: An episode must finish for this Tracker to save its data.
// If the last episode in an experiment does not finish, that episode's
// return will not be saved.
type Return struct {
	episodes
	filename string
}

// NewReturn creates and returns a new *Return Tracker
func NewReturn(filename string) *Return {
	return &Return{filename: filename}
}

// Track tracks the reward seen on a timestep. Track panics if the
// timesteps it is called on are out of order.
func (r *Return) Track(step ts.TimeStep) {
	r.track(step)
}

// Returns returns the return of each finished episode
func (r *Return) Returns() []float64 {
	eps := r.list()
	returns := make([]float64, len(eps))
	for i := range eps {
		returns[i] = eps[i].Return
	}
	return returns
}

// Save saves the data tracked by the Return Tracker to disk
func (r *Return) Save() error {
	return save(r.filename, r.Returns())
}
