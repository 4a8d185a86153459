// journal/journal.go
package journal

import "time"

// FrameRecord is one emitted playback frame's summary, keyed by the
// run it belongs to.
type FrameRecord struct {
	RunID              string
	VirtualMs          float64
	WallTime           time.Time
	VisibleEvents      int
	Nodes              int
	Edges              int
	CumulativeNotional float64
}

// RunRecord summarizes one replay run over a dataset.
type RunRecord struct {
	RunID         string
	Dataset       string
	Mode          string
	StartedAt     time.Time
	FinishedAt    time.Time
	Frames        int
	Events        int
	TotalNotional float64
}

type Journal interface {
	RecordFrame(FrameRecord) error
	RecordRun(RunRecord) error
	Close() error
}

// Nop discards everything; used when journaling is disabled.
type Nop struct{}

func (Nop) RecordFrame(FrameRecord) error { return nil }
func (Nop) RecordRun(RunRecord) error     { return nil }
func (Nop) Close() error                  { return nil }
