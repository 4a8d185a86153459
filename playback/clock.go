// Package playback decouples wall-clock playback from the dataset's
// historical span: a virtual clock advanced by real frame deltas, a
// scheduler abstraction for driving frames, and a controller that
// recomputes the derived views each frame.
package playback

import "math"

// Speeds is the fixed set of allowed playback multipliers.
var Speeds = []float64{0.5, 1, 2, 4, 8}

// DefaultTargetPlaybackMs compresses the whole dataset to this long at
// 1x speed, regardless of the dataset's real duration.
const DefaultTargetPlaybackMs = 40_000

// State is the clock snapshot handed to the rendering surface.
type State struct {
	VirtualElapsedMs float64
	Playing          bool
	Speed            float64
}

// Clock maps real playback ticks onto a virtual timestamp within
// [0, datasetDurationMs]. Virtual time is monotonic while playing and
// never leaves the dataset span.
type Clock struct {
	datasetMs float64
	targetMs  float64

	elapsed float64
	playing bool
	speed   float64
}

// NewClock builds a paused clock at virtual zero. Non-positive target
// durations fall back to DefaultTargetPlaybackMs; a negative dataset
// duration is treated as empty.
func NewClock(datasetDurationMs, targetPlaybackMs int64) *Clock {
	if datasetDurationMs < 0 {
		datasetDurationMs = 0
	}
	if targetPlaybackMs <= 0 {
		targetPlaybackMs = DefaultTargetPlaybackMs
	}
	return &Clock{
		datasetMs: float64(datasetDurationMs),
		targetMs:  float64(targetPlaybackMs),
		speed:     1,
	}
}

// Tick advances virtual time by realDeltaMs scaled through the
// dataset/target compression ratio and the speed multiplier. Reaching
// the end of the dataset clamps, pauses, and reports true exactly once
// per arrival; a paused clock never advances. Non-finite or negative
// deltas are zero-length frames.
func (c *Clock) Tick(realDeltaMs float64) (finished bool) {
	if !c.playing {
		return false
	}
	if math.IsNaN(realDeltaMs) || math.IsInf(realDeltaMs, 0) || realDeltaMs < 0 {
		return false
	}

	c.elapsed += realDeltaMs * (c.datasetMs / c.targetMs) * c.speed
	if c.elapsed >= c.datasetMs {
		c.elapsed = c.datasetMs
		c.playing = false
		return true
	}
	return false
}

// Seek jumps to the given virtual time, clamped to the dataset span,
// and pauses: scrubbing implies manual control.
func (c *Clock) Seek(virtualMs float64) {
	if math.IsNaN(virtualMs) || virtualMs < 0 {
		virtualMs = 0
	}
	if virtualMs > c.datasetMs {
		virtualMs = c.datasetMs
	}
	c.elapsed = virtualMs
	c.playing = false
}

// SetSpeed applies a multiplier from Speeds; anything else is ignored.
func (c *Clock) SetSpeed(multiplier float64) {
	for _, s := range Speeds {
		if s == multiplier {
			c.speed = multiplier
			return
		}
	}
}

func (c *Clock) Play() {
	c.playing = true
}

func (c *Clock) Pause() {
	c.playing = false
}

// Reset returns to virtual zero, paused.
func (c *Clock) Reset() {
	c.elapsed = 0
	c.playing = false
}

// AtEnd reports whether virtual time has reached the dataset span.
func (c *Clock) AtEnd() bool {
	return c.elapsed >= c.datasetMs
}

func (c *Clock) State() State {
	return State{
		VirtualElapsedMs: c.elapsed,
		Playing:          c.playing,
		Speed:            c.speed,
	}
}
