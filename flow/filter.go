package flow

import "sort"

// Cursor remembers where the previous visibility call stopped so that a
// sequence of monotonically increasing cutoffs advances forward instead
// of re-scanning the log each frame. It is plain value state owned by
// the caller; the filter itself holds nothing between calls.
type Cursor struct {
	Index      int   // first event index past the last cutoff
	LastCutoff int64 // virtual ms of the last call
}

// NewCursor returns a cursor positioned before the first event.
func NewCursor() Cursor {
	return Cursor{Index: 0, LastCutoff: -1}
}

// Visible returns the maximal prefix of the log whose timestamps are at
// or before Range.Start + virtualMs, plus the cursor to pass to the
// next call.
//
// Forward cutoffs advance from the cursor's index in time proportional
// to the newly revealed events. A cutoff earlier than the previous one
// (a backward seek) discards the cursor and re-positions by binary
// search; correctness over the cached index.
func (l *Log) Visible(cur Cursor, virtualMs int64) ([]Event, Cursor) {
	cutoff := l.rng.Start + virtualMs

	i := cur.Index
	if virtualMs < cur.LastCutoff || i > len(l.events) {
		i = sort.Search(len(l.events), func(k int) bool {
			return l.events[k].Timestamp > cutoff
		})
	} else {
		for i < len(l.events) && l.events[i].Timestamp <= cutoff {
			i++
		}
	}

	return l.events[:i], Cursor{Index: i, LastCutoff: virtualMs}
}
