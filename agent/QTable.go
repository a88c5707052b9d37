package agent

import (
	"sort"

	env "github.com/samuelfneumann/pdworld/environment"
	"github.com/samuelfneumann/pdworld/utils/floatutils"
	"gonum.org/v1/gonum/floats"
)

// QTable maps each visited State to the values of the actions recorded
// for it. Rows are created lazily: a State which has never been seen
// has no row, and every read through an Agent creates the row with
// zero values first.
type QTable map[env.State]map[env.Action]float64

// Entry is a single (state, action, value) row of a QTable
type Entry struct {
	State  env.State
	Action env.Action
	Value  float64
}

// Value returns the value of action in state and whether it is
// recorded
func (q QTable) Value(state env.State, action env.Action) (float64, bool) {
	row, ok := q[state]
	if !ok {
		return 0, false
	}
	v, ok := row[action]
	return v, ok
}

// Len returns the number of States in the QTable
func (q QTable) Len() int {
	return len(q)
}

// Max returns the highest value recorded for state, or 0 if nothing is
// recorded
func (q QTable) Max(state env.State) float64 {
	values := q.values(state, env.Actions[:])
	if len(values) == 0 {
		return 0
	}
	return floats.Max(values)
}

// Greedy returns the recorded actions which have the highest value in
// state, in the order of env.Actions. It returns nil if state has no
// row.
func (q QTable) Greedy(state env.State) []env.Action {
	var actions []env.Action
	for _, a := range env.Actions {
		if _, ok := q[state][a]; ok {
			actions = append(actions, a)
		}
	}
	if len(actions) == 0 {
		return nil
	}

	_, indices := floatutils.MaxSlice(q.values(state, actions))
	best := make([]env.Action, len(indices))
	for i, index := range indices {
		best[i] = actions[index]
	}
	return best
}

// Clone returns a deep copy of the QTable
func (q QTable) Clone() QTable {
	clone := make(QTable, len(q))
	for state, row := range q {
		rowCopy := make(map[env.Action]float64, len(row))
		for action, value := range row {
			rowCopy[action] = value
		}
		clone[state] = rowCopy
	}
	return clone
}

// Entries returns every recorded value, ordered by State and then by
// Action
func (q QTable) Entries() []Entry {
	states := make([]env.State, 0, len(q))
	for state := range q {
		states = append(states, state)
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].Less(states[j])
	})

	var entries []Entry
	for _, state := range states {
		for _, action := range env.Actions {
			if value, ok := q[state][action]; ok {
				entries = append(entries, Entry{state, action, value})
			}
		}
	}
	return entries
}

// ensure creates any missing entries of actions in state with value 0.
// Existing values are never overwritten.
func (q QTable) ensure(state env.State, actions []env.Action) {
	row, ok := q[state]
	if !ok {
		row = make(map[env.Action]float64, len(actions))
		q[state] = row
	}
	for _, action := range actions {
		if _, ok := row[action]; !ok {
			row[action] = 0.0
		}
	}
}

// ensureRow creates a row for state holding every action with value 0
// if state has no row yet
func (q QTable) ensureRow(state env.State) {
	if _, ok := q[state]; !ok {
		q.ensure(state, env.Actions[:])
	}
}

// values returns the recorded values of actions in state, in the order
// of actions, skipping unrecorded actions
func (q QTable) values(state env.State, actions []env.Action) []float64 {
	values := make([]float64, 0, len(actions))
	for _, a := range actions {
		if v, ok := q.Value(state, a); ok {
			values = append(values, v)
		}
	}
	return values
}
