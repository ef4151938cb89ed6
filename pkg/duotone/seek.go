// ABOUTME: Debounced seek coordination
// ABOUTME: Coalesces bursts of seek requests into a single stream restart
package duotone

import (
	"sync"
	"time"
)

type seekMode int

const (
	seekNone seekMode = iota
	seekAbsolute
	seekRelative
)

// seekCoordinator accumulates seek requests made during playback and applies
// them as one stream restart once the host has been quiet for the debounce
// interval. Restarting a device stream costs tens of milliseconds, so a
// scrubbing host (slider drag, key repeat) would otherwise trigger a restart
// storm.
//
// Pending state is either one absolute target or one accumulated relative
// delta. Mixing the two collapses to relative: an absolute target becomes a
// delta against the last published position, so "seek to 10, then +5" lands
// at 15.
type seekCoordinator struct {
	engine *Engine

	mu       sync.Mutex
	mode     seekMode
	absolute float64
	delta    float64
	timer    *time.Timer
	debounce time.Duration
}

func newSeekCoordinator(engine *Engine, debounce time.Duration) *seekCoordinator {
	return &seekCoordinator{engine: engine, debounce: debounce}
}

// scheduleAbsolute registers a debounced absolute seek, replacing any
// pending request.
func (s *seekCoordinator) scheduleAbsolute(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = seekAbsolute
	s.absolute = seconds
	s.delta = 0
	s.rearm()
}

// scheduleRelative adds a debounced relative seek to the pending request.
func (s *seekCoordinator) scheduleRelative(deltaSeconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == seekAbsolute {
		s.delta = s.absolute - s.engine.Position()
		s.absolute = 0
	}
	s.mode = seekRelative
	s.delta += deltaSeconds
	s.rearm()
}

// rearm restarts the debounce timer. Caller holds s.mu.
func (s *seekCoordinator) rearm() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.flush)
}

// cancel discards any pending request and stops the timer. Called on pause,
// stop, and close; a timer that already fired finds no pending mode and
// does nothing.
func (s *seekCoordinator) cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mode = seekNone
	s.absolute = 0
	s.delta = 0
}

// flush runs when the debounce timer expires: it consumes the pending
// request, resolves it to an absolute target, and dispatches the restart on
// a worker goroutine.
//
// Relative targets resolve against the live monitor cursor, not the
// once-per-second published position, so back-to-back bursts ("+-5" three
// times, settle, three more) accumulate from where playback actually is.
func (s *seekCoordinator) flush() {
	s.mu.Lock()
	mode := s.mode
	absolute := s.absolute
	delta := s.delta
	s.mode = seekNone
	s.absolute = 0
	s.delta = 0
	s.timer = nil
	s.mu.Unlock()

	if mode == seekNone {
		// A newer request or a cancel already consumed this timer.
		return
	}

	target := absolute
	if mode == seekRelative {
		target = s.engine.livePosition() + delta
	}

	go s.engine.restartAt(target)
}
