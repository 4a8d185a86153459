package journal

import (
	"database/sql"
	"fmt"
)

// GetRun returns a single run record by ID.
func (j *SQLite) GetRun(runID string) (RunRecord, error) {
	var rec RunRecord

	row := j.db.QueryRow(`
		SELECT run_id, dataset, mode, started_at, finished_at, frames, events, total_notional
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&rec.RunID,
		&rec.Dataset,
		&rec.Mode,
		&rec.StartedAt,
		&rec.FinishedAt,
		&rec.Frames,
		&rec.Events,
		&rec.TotalNotional,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	return rec, nil
}

// ListFrames returns a run's frames ordered by virtual time.
func (j *SQLite) ListFrames(runID string) ([]FrameRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, virtual_ms, wall_time, visible_events, nodes, edges, cumulative_notional
		FROM frames
		WHERE run_id = ?
		ORDER BY virtual_ms ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FrameRecord
	for rows.Next() {
		var rec FrameRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.VirtualMs,
			&rec.WallTime,
			&rec.VisibleEvents,
			&rec.Nodes,
			&rec.Edges,
			&rec.CumulativeNotional,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
