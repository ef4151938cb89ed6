// ABOUTME: Realtime mixing core shared by the output streams
// ABOUTME: Per-stream cursors, atomic gains, and the two render callbacks
package duotone

import (
	"log"
	"math"
	"sync"
	"sync/atomic"

	"github.com/duotone-audio/duotone-go/pkg/audio"
	"github.com/duotone-audio/duotone-go/pkg/audio/output"
)

// Cursor slots. Each output stream advances its own read position so the
// monitor and broadcast devices can drift or stop independently.
const (
	monitorSlot = iota
	broadcastSlot
	cursorSlots
)

// Default gains applied until the host pushes its own settings.
const (
	DefaultInstrumentalVolume float32 = 0.7
	DefaultVocalVolume        float32 = 1.0

	// MaxVolume caps the gain setters. Values above 1.0 boost quiet stems;
	// the render path clips the mixed result back into [-1, 1].
	MaxVolume float32 = 1.5
)

// trackSet is one loaded instrumental/vocal pair. The buffers share a sample
// rate but may differ in length; rendering zero-fills whichever track ends
// first. A trackSet is immutable once adopted.
type trackSet struct {
	inst *audio.Buffer
	voc  *audio.Buffer
	rate int
}

// duration returns the instrumental track's length in seconds. This is the
// track duration hosts see and the range seeks clamp to; a longer vocal
// still plays out past it on the monitor stream.
func (t *trackSet) duration() float64 {
	return audio.TimeForFrame(t.inst.Frames(), t.rate)
}

// renderCore holds the state both render callbacks read: the current track
// set, one cursor per stream, and the channel gains. The mutex is held only
// for pointer and integer swaps so callbacks never wait on each other for
// more than a few instructions.
type renderCore struct {
	mu      sync.Mutex
	tracks  *trackSet
	cursors [cursorSlots]int

	// Gains are float32 bit patterns so the render path reads them without
	// taking the lock.
	instGainBits atomic.Uint32
	vocGainBits  atomic.Uint32
}

func newRenderCore() *renderCore {
	c := &renderCore{}
	c.instGainBits.Store(math.Float32bits(DefaultInstrumentalVolume))
	c.vocGainBits.Store(math.Float32bits(DefaultVocalVolume))
	return c
}

// adopt installs a new track set and rewinds both cursors.
func (c *renderCore) adopt(t *trackSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tracks = t
	for i := range c.cursors {
		c.cursors[i] = 0
	}
}

// snapshot returns the current track set, or nil before the first load.
func (c *renderCore) snapshot() *trackSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracks
}

// setCursors moves every stream cursor to the same frame. Called before
// streams start and for seeks while stopped.
func (c *renderCore) setCursors(frame int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.cursors {
		c.cursors[i] = frame
	}
}

// cursorFrame returns one stream's read position.
func (c *renderCore) cursorFrame(slot int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursors[slot]
}

// cursorSeconds converts one stream's cursor to seconds. ok is false before
// any tracks are loaded.
func (c *renderCore) cursorSeconds(slot int) (seconds float64, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tracks == nil {
		return 0, false
	}
	return audio.TimeForFrame(c.cursors[slot], c.tracks.rate), true
}

func clampGain(gain float32) float32 {
	if gain < 0 {
		return 0
	}
	if gain > MaxVolume {
		return MaxVolume
	}
	return gain
}

func (c *renderCore) setInstrumentalGain(gain float32) {
	c.instGainBits.Store(math.Float32bits(clampGain(gain)))
}

func (c *renderCore) setVocalGain(gain float32) {
	c.vocGainBits.Store(math.Float32bits(clampGain(gain)))
}

func (c *renderCore) instrumentalGain() float32 {
	return math.Float32frombits(c.instGainBits.Load())
}

func (c *renderCore) vocalGain() float32 {
	return math.Float32frombits(c.vocGainBits.Load())
}

// takeMonitorBlock snapshots the track set and claims the next block of
// frames for the monitor stream. The monitor cursor always advances so the
// stop check below sees the pre-advance position exactly once.
func (c *renderCore) takeMonitorBlock(frames int) (*trackSet, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tracks := c.tracks
	start := c.cursors[monitorSlot]
	if tracks != nil {
		c.cursors[monitorSlot] = start + frames
	}
	return tracks, start
}

// takeBroadcastBlock claims the next block for the broadcast stream. Unlike
// the monitor, the broadcast cursor freezes at end of track: past reports the
// cursor already reached the instrumental's end, in which case it does not
// advance further.
func (c *renderCore) takeBroadcastBlock(frames int) (tracks *trackSet, start int, past bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tracks = c.tracks
	start = c.cursors[broadcastSlot]
	past = tracks == nil || tracks.inst == nil || start >= tracks.inst.Frames()
	if !past {
		c.cursors[broadcastSlot] = start + frames
	}
	return tracks, start, past
}

// monitorRender fills the monitor device block: instrumental and vocal mixed
// at their current gains, each track zero-padded past its own end, the sum
// clipped to [-1, 1]. Signals Stop once the cursor has passed the end of both
// tracks. Runs on the audio thread; must not allocate or block.
func (c *renderCore) monitorRender(out []float32, frames int) (result output.RenderResult) {
	defer func() {
		if r := recover(); r != nil {
			zeroBlock(out)
			log.Printf("Monitor render fault, stopping stream: %v", r)
			result = output.Stop
		}
	}()

	tracks, start := c.takeMonitorBlock(frames)
	if tracks == nil {
		zeroBlock(out)
		return output.Stop
	}

	instGain := c.instrumentalGain()
	vocGain := c.vocalGain()
	inst := tracks.inst.Samples()
	voc := tracks.voc.Samples()
	instFrames := tracks.inst.Frames()
	vocFrames := tracks.voc.Frames()

	for i := 0; i < frames; i++ {
		frame := start + i
		var left, right float32
		if frame < instFrames {
			left = inst[2*frame] * instGain
			right = inst[2*frame+1] * instGain
		}
		if frame < vocFrames {
			left += voc[2*frame] * vocGain
			right += voc[2*frame+1] * vocGain
		}
		out[2*i] = audio.Clip(left)
		out[2*i+1] = audio.Clip(right)
	}

	if start >= instFrames && start >= vocFrames {
		return output.Stop
	}
	return output.Continue
}

// broadcastRender fills the broadcast device block: instrumental only, at the
// instrumental gain, clipped. Signals Stop at the end of the instrumental
// track without advancing the cursor past it. Runs on the audio thread; must
// not allocate or block.
func (c *renderCore) broadcastRender(out []float32, frames int) (result output.RenderResult) {
	defer func() {
		if r := recover(); r != nil {
			zeroBlock(out)
			log.Printf("Broadcast render fault, stopping stream: %v", r)
			result = output.Stop
		}
	}()

	tracks, start, past := c.takeBroadcastBlock(frames)
	if past {
		zeroBlock(out)
		return output.Stop
	}

	gain := c.instrumentalGain()
	inst := tracks.inst.Samples()
	instFrames := tracks.inst.Frames()

	for i := 0; i < frames; i++ {
		frame := start + i
		var left, right float32
		if frame < instFrames {
			left = inst[2*frame] * gain
			right = inst[2*frame+1] * gain
		}
		out[2*i] = audio.Clip(left)
		out[2*i+1] = audio.Clip(right)
	}
	return output.Continue
}

func zeroBlock(out []float32) {
	for i := range out {
		out[i] = 0
	}
}
