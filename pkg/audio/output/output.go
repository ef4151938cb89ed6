// ABOUTME: Audio output interface definition
// ABOUTME: Common contract for callback-driven playback backends
package output

// RenderResult tells a backend whether to keep invoking the render function.
type RenderResult int

const (
	// Continue means the stream has more audio to render.
	Continue RenderResult = iota
	// Stop means the stream is finished; the backend latches the stream
	// inactive and renders silence for any further device callbacks.
	Stop
)

func (r RenderResult) String() string {
	switch r {
	case Continue:
		return "continue"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// RenderFunc fills out with interleaved stereo float32 samples for the
// requested number of frames (len(out) == 2*frames). It runs on the audio
// subsystem's realtime thread: it must not allocate, block, or panic, and
// must return promptly. The returned result is checked by the backend
// adapter after every invocation.
type RenderFunc func(out []float32, frames int) RenderResult

// DeviceID identifies an output device within a backend. The empty string
// selects the system default device.
type DeviceID string

// DeviceInfo describes an available playback device.
type DeviceInfo struct {
	ID      DeviceID
	Name    string
	Default bool
}

// Stream is one running playback stream on a device.
type Stream interface {
	// Active reports whether the stream is still rendering. It becomes
	// false once the render function returns Stop or Close is called.
	Active() bool

	// Close stops playback and releases the device. Idempotent; must not
	// be called from the stream's own realtime callback.
	Close() error
}

// Backend opens callback-driven playback streams on output devices.
type Backend interface {
	// Devices enumerates the available playback devices.
	Devices() ([]DeviceInfo, error)

	// OpenStream opens a stereo stream on the given device at the given
	// sample rate and starts invoking render on the device's schedule.
	OpenStream(device DeviceID, sampleRate int, render RenderFunc) (Stream, error)

	// Close releases backend resources. Streams must be closed first.
	Close() error
}

// fillSilence zeroes an output buffer.
func fillSilence(out []float32) {
	for i := range out {
		out[i] = 0
	}
}
