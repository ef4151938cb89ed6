// ABOUTME: High-level playback engine API
// ABOUTME: Dual-track load, transport, seek, volume, and device routing
package duotone

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/duotone-audio/duotone-go/pkg/audio"
	"github.com/duotone-audio/duotone-go/pkg/audio/output"
	"github.com/google/uuid"
)

const (
	// DefaultSeekDebounce is the quiet interval before accumulated seek
	// requests are applied.
	DefaultSeekDebounce = 150 * time.Millisecond

	// DefaultMonitorInterval is how often the playback position is
	// published while streams run.
	DefaultMonitorInterval = 1 * time.Second
)

// Load progress stages reported through OnLoadProgress.
const (
	LoadStageValidate = "validate"
	LoadStageAdopt    = "adopt"
)

// Config holds engine configuration. The zero value is usable: it selects
// the default backend and intervals and reports events through the log.
type Config struct {
	// Backend is the audio output backend. Defaults to the miniaudio
	// backend when nil; pass output.NewMock() in tests.
	Backend output.Backend

	// SeekDebounce overrides DefaultSeekDebounce when non-zero.
	SeekDebounce time.Duration

	// MonitorInterval overrides DefaultMonitorInterval when non-zero.
	MonitorInterval time.Duration

	// OnPosition is called about once per MonitorInterval with the
	// playback position in seconds.
	OnPosition func(seconds float64)

	// OnEnded is called once when playback runs off the end of the tracks.
	OnEnded func()

	// OnError is called for playback errors, including partial device
	// failures that playback survives.
	OnError func(error)

	// OnLoadProgress is called with coarse progress while a load runs.
	OnLoadProgress func(LoadProgress)

	// OnLoadDone is called when a load finishes or fails.
	OnLoadDone func(LoadResult)
}

// LoadProgress reports one step of an in-flight track load.
type LoadProgress struct {
	LoadID  string
	Percent int
	Stage   string
}

// LoadResult reports the outcome of a track load.
type LoadResult struct {
	LoadID string
	Err    error
}

// Engine plays one instrumental/vocal track pair to up to two output
// devices: the monitor device carries the full mix, the broadcast device
// carries instrumental only. All methods are safe for concurrent use;
// callbacks are invoked from the engine's worker goroutines and must not
// block for long.
type Engine struct {
	config Config

	backend     output.Backend
	ownsBackend bool

	core *renderCore
	pair *streamPair
	seek *seekCoordinator

	monitorInterval time.Duration

	// restartMu serializes every stream open/close sequence: play, pause,
	// stop, seek restarts, and monitor teardown.
	restartMu sync.Mutex

	mu          sync.Mutex
	state       State
	position    float64
	monitorID   *output.DeviceID
	broadcastID *output.DeviceID
	warning     error
	gen         uint64
	closed      bool
}

// New creates an engine with the given configuration.
func New(config Config) (*Engine, error) {
	if config.SeekDebounce == 0 {
		config.SeekDebounce = DefaultSeekDebounce
	}
	if config.MonitorInterval == 0 {
		config.MonitorInterval = DefaultMonitorInterval
	}

	backend := config.Backend
	ownsBackend := false
	if backend == nil {
		var err error
		backend, err = output.NewMalgo()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize audio backend: %w", err)
		}
		ownsBackend = true
	}

	e := &Engine{
		config:          config,
		backend:         backend,
		ownsBackend:     ownsBackend,
		core:            newRenderCore(),
		monitorInterval: config.MonitorInterval,
	}
	e.pair = newStreamPair(backend, e.core)
	e.seek = newSeekCoordinator(e, config.SeekDebounce)
	return e, nil
}

// Load adopts a new track pair. Validation runs synchronously; the adopt
// itself runs on a worker goroutine and reports through OnLoadProgress and
// OnLoadDone under the returned load id. The engine must be stopped.
func (e *Engine) Load(instrumental, vocal *audio.Buffer) (string, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return "", ErrEngineClosed
	}
	if e.state != Stopped {
		e.mu.Unlock()
		return "", ErrNotStopped
	}
	e.mu.Unlock()

	if instrumental == nil || vocal == nil {
		return "", ErrNilBuffer
	}
	if instrumental.SampleRate() != vocal.SampleRate() {
		return "", fmt.Errorf("%w: instrumental %dHz, vocal %dHz",
			ErrSampleRateMismatch, instrumental.SampleRate(), vocal.SampleRate())
	}

	loadID := uuid.New().String()
	go e.loadWorker(loadID, instrumental, vocal)
	return loadID, nil
}

// loadWorker adopts the validated buffers and resets the position. If the
// engine started playing between Load and the adopt, the previous tracks
// stay authoritative and the load fails.
func (e *Engine) loadWorker(loadID string, instrumental, vocal *audio.Buffer) {
	e.notifyLoadProgress(LoadProgress{LoadID: loadID, Percent: 0, Stage: LoadStageValidate})
	e.notifyLoadProgress(LoadProgress{LoadID: loadID, Percent: 50, Stage: LoadStageAdopt})

	tracks := &trackSet{inst: instrumental, voc: vocal, rate: instrumental.SampleRate()}

	e.mu.Lock()
	if e.closed || e.state != Stopped {
		e.mu.Unlock()
		e.notifyLoadDone(LoadResult{LoadID: loadID, Err: ErrNotStopped})
		return
	}
	e.core.adopt(tracks)
	e.position = 0
	e.mu.Unlock()

	e.notifyLoadProgress(LoadProgress{LoadID: loadID, Percent: 100, Stage: LoadStageAdopt})
	log.Printf("Tracks loaded: %.1fs at %dHz", tracks.duration(), tracks.rate)
	e.notifyLoadDone(LoadResult{LoadID: loadID})
}

// PlayPause toggles playback. From Stopped it opens the streams at the
// current position on a worker goroutine; otherwise it pauses, closing the
// streams synchronously and keeping the position for resume.
func (e *Engine) PlayPause() error {
	tracks := e.core.snapshot()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	if tracks == nil {
		e.mu.Unlock()
		return ErrNoTracks
	}
	if e.state == Stopped {
		e.state = Opening
		start := e.position
		e.mu.Unlock()
		go e.openAt(start)
		return nil
	}
	e.mu.Unlock()

	e.pause()
	return nil
}

// Stop halts playback synchronously. The position is left where playback
// stopped; hosts that want a full reset call Seek(0) afterwards.
func (e *Engine) Stop() {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return
	}
	e.pause()
}

// pause cancels pending seeks and tears the streams down. Waits for any
// in-flight open or restart to finish first.
func (e *Engine) pause() {
	e.seek.cancel()

	e.restartMu.Lock()
	e.pair.close()
	e.mu.Lock()
	e.state = Stopped
	e.mu.Unlock()
	e.restartMu.Unlock()
}

// openAt runs on a worker goroutine: it opens the stream pair at the given
// position and starts the playback monitor. Aborts if a stop or close
// landed between the PlayPause and the open.
func (e *Engine) openAt(seconds float64) {
	e.restartMu.Lock()

	tracks := e.core.snapshot()
	e.mu.Lock()
	aborted := e.closed || e.state != Opening || tracks == nil
	if aborted && e.state == Opening {
		e.state = Stopped
	}
	e.mu.Unlock()
	if aborted {
		e.restartMu.Unlock()
		return
	}

	frame := audio.FrameForTime(seconds, tracks.rate)
	warn, err := e.startStreams(frame, tracks)
	e.restartMu.Unlock()

	if warn != nil {
		e.notifyError(warn)
	}
	if err != nil {
		e.notifyError(err)
	}
}

// restartAt closes the current streams and reopens them at the target
// position. Runs on a worker goroutine for debounced seeks; the restart
// mutex guarantees at most one open/close sequence at a time.
func (e *Engine) restartAt(target float64) {
	e.restartMu.Lock()

	tracks := e.core.snapshot()
	e.mu.Lock()
	if e.closed || e.state != Playing || tracks == nil {
		e.mu.Unlock()
		e.restartMu.Unlock()
		return
	}
	e.state = Opening
	// Retire the current monitor loop before its streams disappear.
	e.bumpGenerationLocked()
	e.mu.Unlock()

	e.pair.close()

	target = clampSeconds(target, tracks.duration())
	warn, err := e.startStreams(audio.FrameForTime(target, tracks.rate), tracks)
	e.restartMu.Unlock()

	if warn != nil {
		e.notifyError(warn)
	}
	if err != nil {
		e.notifyError(err)
	}
}

// startStreams opens the pair at frame and, on success, marks the engine
// Playing and starts a fresh monitor loop. Caller holds restartMu and
// reports the returned warning and error after releasing it.
func (e *Engine) startStreams(frame int, tracks *trackSet) (warn, err error) {
	monitorID, broadcastID := e.deviceSelection()
	warn, err = e.pair.open(frame, monitorID, broadcastID, tracks.rate)

	e.mu.Lock()
	e.warning = warn
	if err != nil {
		e.state = Stopped
		e.mu.Unlock()
		return warn, err
	}
	e.state = Playing
	e.position = audio.TimeForFrame(frame, tracks.rate)
	gen := e.bumpGenerationLocked()
	e.mu.Unlock()

	go e.playbackMonitor(gen)
	return warn, nil
}

// Seek moves playback to an absolute position in seconds. While stopped it
// applies immediately; while playing it is debounced and coalesced with
// other pending seeks. Ignored before any tracks are loaded.
func (e *Engine) Seek(seconds float64) {
	tracks, ok := e.seekReady()
	if !ok {
		return
	}

	seconds = clampSeconds(seconds, tracks.duration())
	if e.State() == Stopped {
		e.applyStoppedSeek(seconds, tracks)
		return
	}
	e.seek.scheduleAbsolute(seconds)
}

// Rewind moves playback back by the given number of seconds.
func (e *Engine) Rewind(seconds float64) {
	e.seekRelative(-seconds)
}

// Forward moves playback ahead by the given number of seconds.
func (e *Engine) Forward(seconds float64) {
	e.seekRelative(seconds)
}

func (e *Engine) seekRelative(delta float64) {
	tracks, ok := e.seekReady()
	if !ok {
		return
	}

	if e.State() == Stopped {
		target := clampSeconds(e.Position()+delta, tracks.duration())
		e.applyStoppedSeek(target, tracks)
		return
	}
	e.seek.scheduleRelative(delta)
}

// seekReady returns the current tracks if seeking is possible at all.
func (e *Engine) seekReady() (*trackSet, bool) {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return nil, false
	}
	tracks := e.core.snapshot()
	if tracks == nil {
		return nil, false
	}
	return tracks, true
}

// applyStoppedSeek moves the cursors directly; no streams are open.
func (e *Engine) applyStoppedSeek(seconds float64, tracks *trackSet) {
	e.core.setCursors(audio.FrameForTime(seconds, tracks.rate))
	e.mu.Lock()
	e.position = seconds
	e.mu.Unlock()
}

// livePosition reads the monitor stream's live cursor, which is fresher
// than the once-per-interval published position. Falls back to the
// published position before any tracks are loaded.
func (e *Engine) livePosition() float64 {
	if pos, ok := e.core.cursorSeconds(monitorSlot); ok {
		return pos
	}
	return e.Position()
}

// SetInstrumentalVolume sets the instrumental gain, clamped to
// [0, MaxVolume]. Applies to both outputs and takes effect on the next
// rendered block.
func (e *Engine) SetInstrumentalVolume(gain float32) {
	e.core.setInstrumentalGain(gain)
}

// SetVocalVolume sets the vocal gain, clamped to [0, MaxVolume]. The vocal
// track is only heard on the monitor output.
func (e *Engine) SetVocalVolume(gain float32) {
	e.core.setVocalGain(gain)
}

// InstrumentalVolume returns the current instrumental gain.
func (e *Engine) InstrumentalVolume() float32 {
	return e.core.instrumentalGain()
}

// VocalVolume returns the current vocal gain.
func (e *Engine) VocalVolume() float32 {
	return e.core.vocalGain()
}

// SetDevices selects the output devices for the next open or restart;
// streams already running are not moved. A nil monitor means the system
// default device. A nil broadcast, or one equal to the monitor device,
// means no broadcast stream.
func (e *Engine) SetDevices(monitor, broadcast *output.DeviceID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.monitorID = cloneDeviceID(monitor)
	e.broadcastID = cloneDeviceID(broadcast)
}

// deviceSelection resolves the device choice for an open.
func (e *Engine) deviceSelection() (output.DeviceID, *output.DeviceID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var monitor output.DeviceID
	if e.monitorID != nil {
		monitor = *e.monitorID
	}
	return monitor, cloneDeviceID(e.broadcastID)
}

func cloneDeviceID(id *output.DeviceID) *output.DeviceID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

// State returns the current playback state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Position returns the last known playback position in seconds. During
// playback it advances about once per MonitorInterval.
func (e *Engine) Position() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position
}

// Duration returns the instrumental track's length in seconds, or 0 before
// any load. Seek targets clamp to this range; a vocal track that runs
// longer still plays out past it.
func (e *Engine) Duration() float64 {
	tracks := e.core.snapshot()
	if tracks == nil {
		return 0
	}
	return tracks.duration()
}

// LastWarning returns the partial-failure warning from the most recent
// stream open, or nil if every requested stream started.
func (e *Engine) LastWarning() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.warning
}

// Close stops playback and releases the backend if the engine created it.
// The engine cannot be reused afterwards. Idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	e.seek.cancel()

	e.restartMu.Lock()
	e.pair.close()
	e.mu.Lock()
	e.state = Stopped
	e.mu.Unlock()
	e.restartMu.Unlock()

	if e.ownsBackend {
		if err := e.backend.Close(); err != nil {
			return fmt.Errorf("failed to close audio backend: %w", err)
		}
	}
	return nil
}

// publishPosition records and reports the playback position. Publishes are
// dropped once the engine leaves Playing so a monitor iteration racing a
// pause cannot overwrite a position the host just set.
func (e *Engine) publishPosition(seconds float64) {
	e.mu.Lock()
	if e.state != Playing {
		e.mu.Unlock()
		return
	}
	e.position = seconds
	e.mu.Unlock()
	if e.config.OnPosition != nil {
		e.config.OnPosition(seconds)
	}
}

// notifyEnded calls the OnEnded callback if set.
func (e *Engine) notifyEnded() {
	log.Printf("Playback finished")
	if e.config.OnEnded != nil {
		e.config.OnEnded()
	}
}

// notifyError calls the OnError callback if set.
func (e *Engine) notifyError(err error) {
	if e.config.OnError != nil {
		e.config.OnError(err)
	} else {
		log.Printf("Playback error: %v", err)
	}
}

// notifyLoadProgress calls the OnLoadProgress callback if set.
func (e *Engine) notifyLoadProgress(p LoadProgress) {
	if e.config.OnLoadProgress != nil {
		e.config.OnLoadProgress(p)
	}
}

// notifyLoadDone calls the OnLoadDone callback if set.
func (e *Engine) notifyLoadDone(r LoadResult) {
	if r.Err != nil {
		log.Printf("Load %s failed: %v", r.LoadID, r.Err)
	}
	if e.config.OnLoadDone != nil {
		e.config.OnLoadDone(r)
	}
}

func clampSeconds(seconds, duration float64) float64 {
	if seconds < 0 {
		return 0
	}
	if seconds > duration {
		return duration
	}
	return seconds
}
