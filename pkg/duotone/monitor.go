// ABOUTME: Playback monitor loop
// ABOUTME: Publishes position and detects end of track while streams run
package duotone

import "time"

// playbackMonitor runs on its own goroutine for the lifetime of one stream
// session. It mirrors the monitor stream's cursor into the host-visible
// position about once per interval and, when both streams have gone
// inactive, flips the engine to Stopped, emits the ended event, and tears
// the streams down.
//
// gen identifies the session that started this loop. Every restart bumps the
// engine generation before closing the old streams, so a retiring loop sees
// the stale generation and exits without touching the new session's streams
// or emitting a spurious ended event.
func (e *Engine) playbackMonitor(gen uint64) {
	for {
		if !e.currentGeneration(gen) {
			return
		}
		if e.State() == Stopped {
			break
		}

		if pos, ok := e.core.cursorSeconds(monitorSlot); ok {
			e.publishPosition(pos)
		}

		time.Sleep(e.monitorInterval)

		if !e.currentGeneration(gen) {
			return
		}
		monitorActive, broadcastActive := e.pair.active()
		if !monitorActive && !broadcastActive {
			break
		}
	}

	// Teardown happens under the restart mutex: a restart bumps the
	// generation before it swaps streams, so if the generation is still
	// ours here, the open streams are ours to close.
	e.restartMu.Lock()
	if !e.currentGeneration(gen) {
		e.restartMu.Unlock()
		return
	}

	// Reached end of track, or found the session already stopped by a
	// pause. Only the transition out of Playing counts as an ended event.
	e.mu.Lock()
	ended := e.state == Playing
	if ended {
		e.state = Stopped
	}
	e.mu.Unlock()

	e.pair.close()
	e.restartMu.Unlock()

	if ended {
		e.notifyEnded()
	}
}

// currentGeneration reports whether gen is still the live stream session.
func (e *Engine) currentGeneration(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen == gen
}

// bumpGenerationLocked advances the stream session counter. Caller holds
// e.mu.
func (e *Engine) bumpGenerationLocked() uint64 {
	e.gen++
	return e.gen
}
