// Package checkpointer implements checkpointing of agents during an
// experiment
package checkpointer

import (
	"encoding/gob"
	"fmt"
	"os"

	ts "github.com/samuelfneumann/pdworld/timestep"
)

// Serializable is an object that can be saved/serialized
type Serializable interface {
	gob.GobEncoder
	gob.GobDecoder
}

// Checkpointer checkpoints/saves serializable objects based on
// timestep.TimeSteps. An experiment calls Checkpoint once per
// simulation step.
type Checkpointer interface {
	Checkpoint(ts.TimeStep) error
}

// Save gob encodes object to the file filename
func Save(filename string, object Serializable) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not create checkpoint: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(object); err != nil {
		return fmt.Errorf("save: could not encode checkpoint: %w", err)
	}
	return file.Close()
}

// Load restores object from the checkpoint saved at filename
func Load(filename string, object Serializable) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("load: could not open checkpoint: %w", err)
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(object); err != nil {
		return fmt.Errorf("load: could not decode checkpoint: %w", err)
	}
	return nil
}
