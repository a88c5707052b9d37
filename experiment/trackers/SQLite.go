package trackers

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	ts "github.com/samuelfneumann/pdworld/timestep"
	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS episodes (
		run_id         TEXT    NOT NULL,
		experiment     TEXT    NOT NULL,
		episode        INTEGER NOT NULL,
		steps          INTEGER NOT NULL,
		episode_return REAL    NOT NULL,
		created_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (run_id, episode)
	);
`

// SQLite tracks finished episodes and saves them as rows of the
// episodes table of a SQLite database. Rows are keyed by run and
// episode, so saving twice does not duplicate rows and several runs may
// share one database.
type SQLite struct {
	episodes
	path       string
	runID      uuid.UUID
	experiment string
}

// NewSQLite returns a new SQLite Tracker which saves to the database at
// path. Rows are labelled with runID and the experiment name.
func NewSQLite(path string, runID uuid.UUID, experiment string) *SQLite {
	return &SQLite{
		path:       path,
		runID:      runID,
		experiment: experiment,
	}
}

// Track tracks the episodes of an experiment
func (s *SQLite) Track(t ts.TimeStep) {
	s.track(t)
}

// Save writes every finished episode to the database
func (s *SQLite) Save() error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("save: could not create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO episodes
		(run_id, experiment, episode, steps, episode_return)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	defer stmt.Close()

	for _, ep := range s.list() {
		_, err := stmt.Exec(s.runID.String(), s.experiment, ep.Number,
			ep.Steps, ep.Return)
		if err != nil {
			return fmt.Errorf("save: episode %d: %w", ep.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// LoadEpisodes returns the episodes saved for runID in the database at
// path, in episode order
func LoadEpisodes(path string, runID uuid.UUID) ([]Episode, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("loadEpisodes: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT episode, steps, episode_return
		FROM episodes WHERE run_id = ? ORDER BY episode`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("loadEpisodes: %w", err)
	}
	defer rows.Close()

	var eps []Episode
	for rows.Next() {
		var ep Episode
		if err := rows.Scan(&ep.Number, &ep.Steps, &ep.Return); err != nil {
			return nil, fmt.Errorf("loadEpisodes: %w", err)
		}
		eps = append(eps, ep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loadEpisodes: %w", err)
	}
	return eps, nil
}
