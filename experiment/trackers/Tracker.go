// Package trackers implements Trackers, which track and save data in an
// experiment
package trackers

import (
	"encoding/gob"
	"fmt"
	"os"

	ts "github.com/samuelfneumann/pdworld/timestep"
)

// Interface Tracker keeps track of experiment data and saves the data
// after the experiment has finished.
//
// An experiment sends a Tracker one TimeStep per agent per simulation
// step. Every TimeStep of a step which ends an episode is a Last step.
type Tracker interface {
	Track(t ts.TimeStep)
	Save() error
}

// Episode summarizes a finished episode
type Episode struct {
	Number int     // Episode number, counting from 0
	Steps  int     // Number of simulation steps in the episode
	Return float64 // Sum of the rewards of all agents in the episode
}

// episodes accumulates Episodes from the TimeSteps of all agents.
//
// An episode must finish to be reported. If the last episode in an
// experiment does not finish, it is dropped.
type episodes struct {
	finished []Episode
	current  Episode
	ended    bool

	started    bool
	lastNumber int
}

func (e *episodes) track(t ts.TimeStep) {
	if e.started && t.Number < e.lastNumber {
		panic(fmt.Sprintf("track: timesteps tracked out of order: "+
			"timestep %v --> timestep %v", e.lastNumber, t.Number))
	}

	if e.started && t.Episode != e.current.Number {
		if e.ended {
			e.finished = append(e.finished, e.current)
		}
		e.current = Episode{Number: t.Episode}
		e.ended = false
	} else if !e.started {
		e.current = Episode{Number: t.Episode}
	}
	e.started = true
	e.lastNumber = t.Number

	e.current.Return += t.Reward
	e.current.Steps = t.EpisodeStep
	if t.Last() {
		e.ended = true
	}
}

// list returns every finished episode
func (e *episodes) list() []Episode {
	out := append([]Episode(nil), e.finished...)
	if e.ended {
		out = append(out, e.current)
	}
	return out
}

// save gob encodes data to the file filename
func save(filename string, data interface{}) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(data); err != nil {
		return fmt.Errorf("save: could not encode data: %w", err)
	}
	return file.Close()
}

// LoadData loads and returns the data saved by a Return Tracker
func LoadData(filename string) ([]float64, error) {
	var data []float64
	if err := load(filename, &data); err != nil {
		return nil, fmt.Errorf("loadData: %w", err)
	}
	return data, nil
}

// LoadLengths loads and returns the data saved by an EpisodeLength
// Tracker
func LoadLengths(filename string) ([]int, error) {
	var data []int
	if err := load(filename, &data); err != nil {
		return nil, fmt.Errorf("loadLengths: %w", err)
	}
	return data, nil
}

func load(filename string, data interface{}) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("could not open data file: %w", err)
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(data); err != nil {
		return fmt.Errorf("could not decode data: %w", err)
	}
	return nil
}
