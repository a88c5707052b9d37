package checkpointer

import (
	"fmt"

	ts "github.com/samuelfneumann/pdworld/timestep"
)

// nStep implements checkpointing every N steps
type nStep struct {
	interval int
	object   Serializable // Object to save

	// filename returns the string filename of the file to save the object
	// in.
	//
	// If each serialized object should be saved in a separate file with
	// each file having an incremented number as a suffix (e.g.
	// agent1.bin, agent2.bin, ..., agentK.bin), then simply use the
	// static function FilenameEnumerator, which will return a function
	// that will enumerate filenames.
	//
	// Otherwise, if each serialized object should be saved in a
	// separate file, but the filename does not matter, use the
	// static function FileTimer to generate the required naming
	// function. For example:
	//
	// n, err := NewNStep(10, agent, FileTimer("agent", ".bin"))
	filename func() string
}

// NewNStep returns a checkpointer that checkpoints object every n
// steps
func NewNStep(n int, object Serializable,
	filename func() string) (Checkpointer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("newNStep: interval must be positive, have %d",
			n)
	}
	return &nStep{
		interval: n,
		object:   object,
		filename: filename,
	}, nil
}

// Checkpoint saves the Checkpointer's tracked object if the step
// number is a multiple of the interval
func (n *nStep) Checkpoint(t ts.TimeStep) error {
	if t.Number%n.interval == 0 {
		if err := Save(n.filename(), n.object); err != nil {
			return fmt.Errorf("checkpoint: step %d: %w", t.Number, err)
		}
	}
	return nil
}
