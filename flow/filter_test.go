package flow

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func testLog() *Log {
	return NewLog([]Event{
		{Timestamp: 0, Asset: "BTC", NotionalUSD: 100, SourceAccount: "A", TargetAccount: "B"},
		{Timestamp: 10, Asset: "BTC", NotionalUSD: 50, SourceAccount: "B", TargetAccount: "C"},
		{Timestamp: 20, Asset: "ETH", NotionalUSD: 200, SourceAccount: "D", TargetAccount: "E"},
	}, Range{Start: 0, End: 20})
}

func TestVisiblePrefix(t *testing.T) {
	log := testLog()
	cur := NewCursor()

	visible, cur := log.Visible(cur, 10)
	assert.Len(t, visible, 2)
	assert.Equal(t, "BTC", visible[1].Asset)

	visible, cur = log.Visible(cur, 20)
	assert.Len(t, visible, 3)

	visible, _ = log.Visible(cur, 1000)
	assert.Len(t, visible, 3)
}

func TestVisibleForwardAdvance(t *testing.T) {
	log := testLog()
	cur := NewCursor()

	_, cur = log.Visible(cur, 0)
	assert.Equal(t, 1, cur.Index)

	_, cur = log.Visible(cur, 15)
	assert.Equal(t, 2, cur.Index)
	assert.Equal(t, int64(15), cur.LastCutoff)
}

func TestVisibleBackwardSeek(t *testing.T) {
	log := testLog()
	cur := NewCursor()

	_, cur = log.Visible(cur, 20)
	assert.Equal(t, 3, cur.Index)

	// Regressing cutoff must rescan, not return the stale prefix.
	visible, cur := log.Visible(cur, 5)
	assert.Len(t, visible, 1)
	assert.Equal(t, 1, cur.Index)

	visible, _ = log.Visible(cur, 10)
	assert.Len(t, visible, 2)
}

func TestVisibleRangeOffset(t *testing.T) {
	log := NewLog([]Event{
		{Timestamp: 1100, Asset: "BTC", NotionalUSD: 1},
		{Timestamp: 1200, Asset: "BTC", NotionalUSD: 1},
	}, Range{Start: 1000, End: 2000})

	visible, _ := log.Visible(NewCursor(), 150)
	assert.Len(t, visible, 1)
}

func TestVisibleEmptyLog(t *testing.T) {
	log := NewLog(nil, Range{Start: 0, End: 100})
	visible, cur := log.Visible(NewCursor(), 50)
	assert.Empty(t, visible)
	assert.Equal(t, 0, cur.Index)
}

// For all t1 < t2, the visible set at t1 is a prefix of the set at t2,
// whether the cursor is threaded through or reset.
func TestProperty_VisibleMonotonicPrefix(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	log := NewLog(randomEvents(300), Range{Start: 0, End: 10_000})

	properties.Property("visible(t1) is a prefix of visible(t2)", prop.ForAll(
		func(t1, t2 int64) bool {
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			v1, _ := log.Visible(NewCursor(), t1)
			v2, _ := log.Visible(NewCursor(), t2)
			return len(v1) <= len(v2)
		},
		gen.Int64Range(0, 12_000),
		gen.Int64Range(0, 12_000),
	))

	properties.Property("threaded cursor matches fresh cursor", prop.ForAll(
		func(cuts []int64) bool {
			cur := NewCursor()
			for _, c := range cuts {
				var threaded []Event
				threaded, cur = log.Visible(cur, c)
				fresh, _ := log.Visible(NewCursor(), c)
				if len(threaded) != len(fresh) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(0, 12_000)),
	))

	properties.TestingRun(t)
}

func randomEvents(n int) []Event {
	events := make([]Event, n)
	for i := range events {
		events[i] = Event{
			Timestamp:   int64(i*37) % 10_000,
			Asset:       "BTC",
			NotionalUSD: float64(i + 1),
		}
	}
	return events
}
