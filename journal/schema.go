// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	dataset TEXT NOT NULL,
	mode TEXT NOT NULL,
	started_at DATETIME NOT NULL,
	finished_at DATETIME NOT NULL,
	frames INTEGER NOT NULL,
	events INTEGER NOT NULL,
	total_notional REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS frames (
	run_id TEXT NOT NULL,
	virtual_ms REAL NOT NULL,
	wall_time DATETIME NOT NULL,
	visible_events INTEGER NOT NULL,
	nodes INTEGER NOT NULL,
	edges INTEGER NOT NULL,
	cumulative_notional REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_frames_run ON frames(run_id, virtual_ms);
`
