package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordFrame(f FrameRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO frames
		(run_id, virtual_ms, wall_time, visible_events, nodes, edges, cumulative_notional)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.RunID, f.VirtualMs, f.WallTime, f.VisibleEvents,
		f.Nodes, f.Edges, f.CumulativeNotional,
	)
	return err
}

func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, dataset, mode, started_at, finished_at, frames, events, total_notional)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Dataset, r.Mode, r.StartedAt, r.FinishedAt,
		r.Frames, r.Events, r.TotalNotional,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
