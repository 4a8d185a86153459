package playback

import (
	"sync"
	"time"
)

// Scheduler is the frame-callback capability the controller depends
// on. Modeling it explicitly keeps the clock logic testable: tests
// drive frames with synthetic times instead of a real timer.
type Scheduler interface {
	// Start invokes frame repeatedly with the current time until Stop.
	// Invocations are serial; at most one frame is in flight.
	Start(frame func(now time.Time))
	// Stop ceases scheduling. An in-flight frame finishes.
	Stop()
}

// TickerScheduler drives frames from a time.Ticker at a fixed rate.
type TickerScheduler struct {
	interval time.Duration
	done     chan struct{}
	stopped  chan struct{}
}

// NewTickerScheduler runs at the given frames per second (default 30).
func NewTickerScheduler(fps int) *TickerScheduler {
	if fps <= 0 {
		fps = 30
	}
	return &TickerScheduler{
		interval: time.Second / time.Duration(fps),
	}
}

func (s *TickerScheduler) Start(frame func(now time.Time)) {
	s.done = make(chan struct{})
	s.stopped = make(chan struct{})
	go func() {
		defer close(s.stopped)
		t := time.NewTicker(s.interval)
		defer t.Stop()
		for {
			select {
			case <-s.done:
				return
			case now := <-t.C:
				frame(now)
			}
		}
	}()
}

func (s *TickerScheduler) Stop() {
	if s.done == nil {
		return
	}
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	<-s.stopped
}

// ManualScheduler hands frame control to the caller. Step runs one
// frame synchronously; Start only records the callback.
type ManualScheduler struct {
	mu    sync.Mutex
	frame func(now time.Time)
}

func (s *ManualScheduler) Start(frame func(now time.Time)) {
	s.mu.Lock()
	s.frame = frame
	s.mu.Unlock()
}

func (s *ManualScheduler) Stop() {
	s.mu.Lock()
	s.frame = nil
	s.mu.Unlock()
}

func (s *ManualScheduler) Step(now time.Time) {
	s.mu.Lock()
	frame := s.frame
	s.mu.Unlock()
	if frame != nil {
		frame(now)
	}
}
