// ABOUTME: Sentinel errors for the playback engine
// ABOUTME: Exposed so hosts can branch on failure categories with errors.Is
package duotone

import "errors"

var (
	// ErrNoTracks is returned by playback operations before any track pair
	// has been loaded.
	ErrNoTracks = errors.New("no tracks loaded")

	// ErrNotStopped is returned by Load while the engine is playing or
	// opening; hosts must stop playback before swapping tracks.
	ErrNotStopped = errors.New("engine not stopped")

	// ErrNilBuffer is returned by Load when either track buffer is nil.
	ErrNilBuffer = errors.New("nil track buffer")

	// ErrSampleRateMismatch is returned by Load when the instrumental and
	// vocal buffers disagree on sample rate.
	ErrSampleRateMismatch = errors.New("track sample rates differ")

	// ErrNoStreams wraps the device errors when every requested output
	// stream failed to open.
	ErrNoStreams = errors.New("no output streams could be started")

	// ErrEngineClosed is returned by operations on a closed engine.
	ErrEngineClosed = errors.New("engine closed")
)
