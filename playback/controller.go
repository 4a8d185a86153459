package playback

import (
	"time"

	"github.com/conejocapital/cascadeflow/agg"
	"github.com/conejocapital/cascadeflow/flow"
	"github.com/conejocapital/cascadeflow/layout"
)

// Options are the view parameters recomputation depends on. Changing
// any of them invalidates the current frame, never the event log.
type Options struct {
	Mode        agg.Mode
	TopAccounts int     // pairwise account pre-restriction, 0 = default
	SankeyTopN  int     // per-column ranking, 0 = default
	MinNotional float64 // pairwise edge threshold
	Buckets     int     // series bucket count, 0 = default

	ChordPad float64
	Sankey   layout.SankeyOptions
	StreamW  float64
	StreamH  float64
}

// Frame is one recomputed view of the event stream at the clock's
// current virtual time: every derived structure plus the clock state,
// handed whole to the rendering surface.
type Frame struct {
	Clock    State
	Visible  int
	Notional float64

	Nodes  []agg.Node
	Edges  []agg.Edge
	Series []agg.AssetSeries

	Chord  layout.ChordDiagram
	Sankey layout.SankeyDiagram
	Stream layout.StreamGraph
}

// Controller owns the playback loop: advance the virtual clock by the
// real frame delta, filter the log to the visible prefix, aggregate,
// lay out, and hand the frame to the sink. Single-threaded and
// frame-driven; the scheduler guarantees at most one frame in flight.
type Controller struct {
	log    *flow.Log
	clock  *Clock
	cursor flow.Cursor
	opts   Options
	sink   func(Frame)

	lastReal time.Time
	frames   int
}

// NewController wires a log and clock to a sink. A nil sink discards
// frames (useful when only Frame() pulls are needed).
func NewController(log *flow.Log, clock *Clock, opts Options, sink func(Frame)) *Controller {
	return &Controller{
		log:    log,
		clock:  clock,
		cursor: flow.NewCursor(),
		opts:   opts,
		sink:   sink,
	}
}

func (c *Controller) Clock() *Clock {
	return c.clock
}

// Frames is the count of frames emitted so far.
func (c *Controller) Frames() int {
	return c.frames
}

// Step runs one frame at the given wall time: real delta since the
// previous step feeds the clock, then the views are rebuilt at the new
// virtual time. Returns the frame and whether playback just reached
// the end of the dataset.
func (c *Controller) Step(now time.Time) (Frame, bool) {
	var delta float64
	if !c.lastReal.IsZero() {
		delta = float64(now.Sub(c.lastReal)) / float64(time.Millisecond)
	}
	c.lastReal = now

	finished := c.clock.Tick(delta)
	return c.emit(), finished
}

// Seek jumps the clock and rebuilds immediately. The visibility cursor
// handles the backward case itself, so seeking mid-playback cannot
// leave a stale prefix behind.
func (c *Controller) Seek(virtualMs float64) Frame {
	c.clock.Seek(virtualMs)
	return c.emit()
}

// SetOptions swaps the view parameters and rebuilds at the current
// virtual time.
func (c *Controller) SetOptions(opts Options) Frame {
	c.opts = opts
	return c.emit()
}

// Run plays the log through the scheduler until the clock reaches the
// dataset end, then stops the scheduler and returns the final frame.
func (c *Controller) Run(sched Scheduler) Frame {
	c.clock.Play()
	done := make(chan Frame, 1)
	sched.Start(func(now time.Time) {
		f, finished := c.Step(now)
		if finished {
			select {
			case done <- f:
			default:
			}
		}
	})
	f := <-done
	sched.Stop()
	return f
}

func (c *Controller) emit() Frame {
	st := c.clock.State()

	var visible []flow.Event
	visible, c.cursor = c.log.Visible(c.cursor, int64(st.VirtualElapsedMs))

	var notional float64
	for _, e := range visible {
		notional += e.NotionalUSD
	}

	nodes, edges := agg.Pairwise(visible, agg.PairwiseOptions{
		Mode:        c.opts.Mode,
		TopAccounts: c.opts.TopAccounts,
		MinNotional: c.opts.MinNotional,
	})

	// Chord geometry is defined over the reflexive asset matrix; when
	// the view is in account mode the chord input is re-aggregated by
	// asset so the circle stays meaningful.
	chordNodes, chordEdges := nodes, edges
	if c.opts.Mode != agg.ByAsset {
		chordNodes, chordEdges = agg.Pairwise(visible, agg.PairwiseOptions{
			Mode:        agg.ByAsset,
			MinNotional: c.opts.MinNotional,
		})
	}

	rank := agg.RankSankey(visible, c.opts.SankeyTopN)
	series := agg.Series(visible, c.log.Range(), c.opts.Buckets)

	f := Frame{
		Clock:    st,
		Visible:  len(visible),
		Notional: notional,
		Nodes:    nodes,
		Edges:    edges,
		Series:   series,
		Chord:    layout.Chord(chordNodes, chordEdges, c.opts.ChordPad),
		Sankey:   layout.Sankey(rank, c.opts.Sankey),
		Stream:   layout.Stream(series, c.opts.StreamW, c.opts.StreamH),
	}

	c.frames++
	if c.sink != nil {
		c.sink(f)
	}
	return f
}
