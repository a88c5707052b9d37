package trackers_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	env "github.com/samuelfneumann/pdworld/environment"
	"github.com/samuelfneumann/pdworld/experiment/trackers"
	ts "github.com/samuelfneumann/pdworld/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// episode returns the TimeSteps of two agents over an episode of n
// steps in which agent 0 receives reward r on the last step
func episode(number, first, n int, r float64) []ts.TimeStep {
	var steps []ts.TimeStep
	for i := 1; i <= n; i++ {
		stepType := ts.Mid
		if i == n {
			stepType = ts.Last
		} else if i == 1 {
			stepType = ts.First
		}

		reward := 0.0
		if i == n {
			reward = r
		}
		for agent := 0; agent < 2; agent++ {
			steps = append(steps, ts.New(stepType, agent, env.Up,
				reward*float64(1-agent), 1, first+i-1, number, i))
		}
	}
	return steps
}

func run(t trackers.Tracker) {
	var steps []ts.TimeStep
	steps = append(steps, episode(0, 1, 3, 10)...)
	steps = append(steps, episode(1, 4, 5, 11)...)

	// Unfinished episode
	steps = append(steps, ts.New(ts.First, 0, env.Down, 1, 1, 9, 2, 1))

	for _, step := range steps {
		t.Track(step)
	}
}

func TestReturn(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "return.bin")
	r := trackers.NewReturn(filename)
	run(r)

	assert.Equal(t, []float64{10, 11}, r.Returns())
	require.NoError(t, r.Save())

	data, err := trackers.LoadData(filename)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 11}, data)
}

func TestEpisodeLength(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "length.bin")
	e := trackers.NewEpisodeLength(filename)
	run(e)

	assert.Equal(t, []int{3, 5}, e.Lengths())
	require.NoError(t, e.Save())

	data, err := trackers.LoadLengths(filename)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 5}, data)
}

func TestOutOfOrder(t *testing.T) {
	r := trackers.NewReturn(filepath.Join(t.TempDir(), "return.bin"))
	r.Track(ts.New(ts.First, 0, env.Up, 0, 1, 5, 0, 1))
	assert.Panics(t, func() {
		r.Track(ts.New(ts.Mid, 0, env.Up, 0, 1, 4, 0, 2))
	})
}

func TestSaveErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing", "return.bin")
	r := trackers.NewReturn(missing)
	run(r)
	assert.Error(t, r.Save())

	// Writes to /dev/full fail once the data reaches the device
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full is not available")
	}
	e := trackers.NewEpisodeLength("/dev/full")
	run(e)
	assert.Error(t, e.Save())
}

func TestLoadDataMissing(t *testing.T) {
	_, err := trackers.LoadData(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	runID := uuid.New()

	s := trackers.NewSQLite(path, runID, "1c")
	run(s)
	require.NoError(t, s.Save())
	// Saving again replaces the rows
	require.NoError(t, s.Save())

	other := trackers.NewSQLite(path, uuid.New(), "2")
	for _, step := range episode(0, 1, 2, 1) {
		other.Track(step)
	}
	require.NoError(t, other.Save())

	eps, err := trackers.LoadEpisodes(path, runID)
	require.NoError(t, err)

	want := []trackers.Episode{
		{Number: 0, Steps: 3, Return: 10},
		{Number: 1, Steps: 5, Return: 11},
	}
	if diff := cmp.Diff(want, eps); diff != "" {
		t.Errorf("episodes mismatch (-want +got):\n%s", diff)
	}
}
