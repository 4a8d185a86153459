// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSV struct {
	frames *csv.Writer
	runs   *csv.Writer
	ff, rf *os.File
}

func NewCSV(framesPath, runsPath string) (*CSV, error) {
	ff, err := os.Create(framesPath)
	if err != nil {
		return nil, err
	}
	rf, err := os.Create(runsPath)
	if err != nil {
		return nil, err
	}

	fw := csv.NewWriter(ff)
	rw := csv.NewWriter(rf)

	if err := fw.Write([]string{"run_id", "virtual_ms", "wall_time", "visible_events", "nodes", "edges", "cumulative_notional"}); err != nil {
		return nil, err
	}
	if err := rw.Write([]string{"run_id", "dataset", "mode", "started_at", "finished_at", "frames", "events", "total_notional"}); err != nil {
		return nil, err
	}

	fw.Flush()
	if err := fw.Error(); err != nil {
		return nil, err
	}
	rw.Flush()
	if err := rw.Error(); err != nil {
		return nil, err
	}

	return &CSV{fw, rw, ff, rf}, nil
}

func (j *CSV) RecordFrame(rec FrameRecord) error {
	err := j.frames.Write([]string{
		rec.RunID,
		f(rec.VirtualMs),
		rec.WallTime.Format(time.RFC3339),
		strconv.Itoa(rec.VisibleEvents),
		strconv.Itoa(rec.Nodes),
		strconv.Itoa(rec.Edges),
		f(rec.CumulativeNotional),
	})
	if err != nil {
		return err
	}
	j.frames.Flush()
	return j.frames.Error()
}

func (j *CSV) RecordRun(rec RunRecord) error {
	err := j.runs.Write([]string{
		rec.RunID,
		rec.Dataset,
		rec.Mode,
		rec.StartedAt.Format(time.RFC3339),
		rec.FinishedAt.Format(time.RFC3339),
		strconv.Itoa(rec.Frames),
		strconv.Itoa(rec.Events),
		f(rec.TotalNotional),
	})
	if err != nil {
		return err
	}
	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSV) Close() error {
	j.frames.Flush()
	j.runs.Flush()
	if err := j.ff.Close(); err != nil {
		return err
	}
	return j.rf.Close()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
