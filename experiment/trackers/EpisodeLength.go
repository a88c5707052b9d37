package trackers

import (
	"github.com/samuelfneumann/pdworld/timestep"
)

// EpisodeLength tracks and saves the lengths of episodes, in
// simulation steps, in an experiment.
// Note that an episode must finish for this Tracker to save its data.
// If the last episode in an experiment does not finish, that episode's
// length will not be saved.
type EpisodeLength struct {
	episodes
	filename string
}

// NewEpisodeLength returns a new EpisodeLength Tracker which will save
// its data at the specified location filename
func NewEpisodeLength(filename string) *EpisodeLength {
	return &EpisodeLength{filename: filename}
}

// Track tracks the episode lengths in an experiment
func (e *EpisodeLength) Track(t timestep.TimeStep) {
	e.track(t)
}

// Lengths returns the length of each finished episode
func (e *EpisodeLength) Lengths() []int {
	eps := e.list()
	lengths := make([]int, len(eps))
	for i := range eps {
		lengths[i] = eps[i].Steps
	}
	return lengths
}

// Save saves the data tracked by the EpisodeLength Tracker to disk
func (e *EpisodeLength) Save() error {
	return save(e.filename, e.Lengths())
}
