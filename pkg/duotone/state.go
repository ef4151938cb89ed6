// ABOUTME: Playback state enumeration
// ABOUTME: Stopped/Opening/Playing lifecycle reported to hosts
package duotone

// State describes the engine's playback lifecycle. Stopped covers both
// "nothing loaded" and "paused": pausing closes the output streams, so the
// only difference is whether the cursors sit at zero.
type State int

const (
	// Stopped means no output streams are open.
	Stopped State = iota
	// Opening means a stream open or restart is in flight on a worker.
	Opening
	// Playing means at least one output stream was started.
	Playing
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Opening:
		return "opening"
	case Playing:
		return "playing"
	default:
		return "unknown"
	}
}
