// ABOUTME: Realtime mixing core tests
// ABOUTME: Mix math, cursor independence, stop conditions, fault containment
package duotone

import (
	"testing"

	"github.com/duotone-audio/duotone-go/pkg/audio"
	"github.com/duotone-audio/duotone-go/pkg/audio/output"
)

// constBuffer builds a stereo buffer holding one value in every sample.
func constBuffer(tb testing.TB, value float32, frames, rate int) *audio.Buffer {
	tb.Helper()
	samples := make([]float32, frames*2)
	for i := range samples {
		samples[i] = value
	}
	buf, err := audio.NewBuffer(samples, 2, rate)
	if err != nil {
		tb.Fatalf("NewBuffer failed: %v", err)
	}
	return buf
}

func adoptConstTracks(tb testing.TB, core *renderCore, instValue, vocValue float32, instFrames, vocFrames, rate int) {
	tb.Helper()
	core.adopt(&trackSet{
		inst: constBuffer(tb, instValue, instFrames, rate),
		voc:  constBuffer(tb, vocValue, vocFrames, rate),
		rate: rate,
	})
}

func near(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-6
}

func TestMonitorRenderMixesBothTracks(t *testing.T) {
	core := newRenderCore()
	adoptConstTracks(t, core, 0.5, 0.2, 1000, 1000, 44100)
	core.setInstrumentalGain(1.0)
	core.setVocalGain(0.5)

	out := make([]float32, 64*2)
	result := core.monitorRender(out, 64)

	if result != output.Continue {
		t.Fatalf("expected Continue, got %v", result)
	}
	for i, s := range out {
		if !near(s, 0.6) {
			t.Fatalf("sample %d: expected 0.6, got %f", i, s)
		}
	}
	if got := core.cursorFrame(monitorSlot); got != 64 {
		t.Errorf("expected monitor cursor at 64, got %d", got)
	}
}

func TestBroadcastRenderInstrumentalOnly(t *testing.T) {
	core := newRenderCore()
	adoptConstTracks(t, core, 0.5, 0.9, 1000, 1000, 44100)
	core.setInstrumentalGain(1.0)
	core.setVocalGain(1.5)

	out := make([]float32, 64*2)
	result := core.broadcastRender(out, 64)

	if result != output.Continue {
		t.Fatalf("expected Continue, got %v", result)
	}
	for i, s := range out {
		if !near(s, 0.5) {
			t.Fatalf("sample %d: vocal leaked into broadcast output: got %f", i, s)
		}
	}
}

func TestMonitorRenderZeroFillsShorterTrack(t *testing.T) {
	core := newRenderCore()
	adoptConstTracks(t, core, 0.25, 0.5, 100, 200, 44100)
	core.setInstrumentalGain(1.0)
	core.setVocalGain(1.0)

	out := make([]float32, 200*2)
	result := core.monitorRender(out, 200)
	if result != output.Continue {
		t.Fatalf("expected Continue, got %v", result)
	}

	for i := 0; i < 100; i++ {
		if !near(out[2*i], 0.75) {
			t.Fatalf("frame %d: expected both tracks (0.75), got %f", i, out[2*i])
		}
	}
	for i := 100; i < 200; i++ {
		if !near(out[2*i], 0.5) {
			t.Fatalf("frame %d: expected vocal only (0.5), got %f", i, out[2*i])
		}
	}

	// Cursor is now past both tracks: next block is silence and Stop.
	result = core.monitorRender(out, 64)
	if result != output.Stop {
		t.Fatalf("expected Stop past both tracks, got %v", result)
	}
	for i, s := range out[:64*2] {
		if s != 0 {
			t.Fatalf("sample %d: expected silence past end, got %f", i, s)
		}
	}
}

func TestMonitorRenderFinalPartialBlock(t *testing.T) {
	core := newRenderCore()
	adoptConstTracks(t, core, 0.5, 0.5, 10, 10, 44100)
	core.setInstrumentalGain(1.0)
	core.setVocalGain(1.0)

	out := make([]float32, 64*2)
	result := core.monitorRender(out, 64)
	if result != output.Continue {
		t.Fatalf("block starting before the end should continue, got %v", result)
	}
	if !near(out[0], 1.0) {
		t.Errorf("expected mixed audio at frame 0, got %f", out[0])
	}
	if out[2*10] != 0 {
		t.Errorf("expected zero fill after frame 10, got %f", out[2*10])
	}

	if result = core.monitorRender(out, 64); result != output.Stop {
		t.Fatalf("expected Stop once cursor passed both ends, got %v", result)
	}
}

func TestBroadcastRenderStopsWithoutAdvancing(t *testing.T) {
	core := newRenderCore()
	adoptConstTracks(t, core, 0.5, 0.5, 10, 50, 44100)
	core.setCursors(10)

	out := make([]float32, 64*2)
	result := core.broadcastRender(out, 64)
	if result != output.Stop {
		t.Fatalf("expected Stop at instrumental end, got %v", result)
	}
	for i, s := range out {
		if s != 0 {
			t.Fatalf("sample %d: expected silence, got %f", i, s)
		}
	}
	if got := core.cursorFrame(broadcastSlot); got != 10 {
		t.Errorf("broadcast cursor must freeze at end: expected 10, got %d", got)
	}
}

func TestMonitorOutlivesBroadcast(t *testing.T) {
	core := newRenderCore()
	adoptConstTracks(t, core, 0.25, 0.5, 10, 50, 44100)
	core.setInstrumentalGain(1.0)
	core.setVocalGain(1.0)
	core.setCursors(10)

	out := make([]float32, 16*2)

	if result := core.broadcastRender(out, 16); result != output.Stop {
		t.Fatalf("broadcast should stop at instrumental end, got %v", result)
	}

	// The monitor still has 40 vocal frames to play.
	result := core.monitorRender(out, 16)
	if result != output.Continue {
		t.Fatalf("monitor should continue through the vocal tail, got %v", result)
	}
	if !near(out[0], 0.5) {
		t.Errorf("expected vocal-only tail (0.5), got %f", out[0])
	}
	if got := core.cursorFrame(monitorSlot); got != 26 {
		t.Errorf("monitor cursor should keep advancing: expected 26, got %d", got)
	}
}

func TestRenderClipsMixedOutput(t *testing.T) {
	core := newRenderCore()
	adoptConstTracks(t, core, 0.9, 0.9, 100, 100, 44100)
	core.setInstrumentalGain(1.5)
	core.setVocalGain(1.5)

	out := make([]float32, 32*2)
	core.monitorRender(out, 32)
	for i, s := range out {
		if s != 1.0 {
			t.Fatalf("sample %d: expected clip to 1.0, got %f", i, s)
		}
	}

	adoptConstTracks(t, core, -0.9, -0.9, 100, 100, 44100)
	core.broadcastRender(out, 32)
	for i, s := range out {
		if s != -1.0 {
			t.Fatalf("sample %d: expected clip to -1.0, got %f", i, s)
		}
	}
}

func TestRenderWithoutTracksStops(t *testing.T) {
	core := newRenderCore()
	out := make([]float32, 32*2)
	out[0] = 0.7

	if result := core.monitorRender(out, 32); result != output.Stop {
		t.Errorf("monitor render without tracks should stop, got %v", result)
	}
	if out[0] != 0 {
		t.Errorf("expected silence, got %f", out[0])
	}

	if result := core.broadcastRender(out, 32); result != output.Stop {
		t.Errorf("broadcast render without tracks should stop, got %v", result)
	}
}

func TestMonitorRenderContainsFault(t *testing.T) {
	core := newRenderCore()
	voc := constBuffer(t, 0.5, 100, 44100)
	core.adopt(&trackSet{inst: nil, voc: voc, rate: 44100})

	out := make([]float32, 32*2)
	out[0] = 0.7

	result := core.monitorRender(out, 32)
	if result != output.Stop {
		t.Fatalf("faulted render must stop the stream, got %v", result)
	}
	if out[0] != 0 {
		t.Errorf("faulted render must leave silence, got %f", out[0])
	}
}

func TestBroadcastRenderContainsFault(t *testing.T) {
	core := newRenderCore()
	adoptConstTracks(t, core, 0.5, 0.5, 100, 100, 44100)
	core.setCursors(-64)

	out := make([]float32, 32*2)
	out[0] = 0.7

	result := core.broadcastRender(out, 32)
	if result != output.Stop {
		t.Fatalf("faulted render must stop the stream, got %v", result)
	}
	if out[0] != 0 {
		t.Errorf("faulted render must leave silence, got %f", out[0])
	}
}

func TestGainDefaultsAndClamp(t *testing.T) {
	core := newRenderCore()
	if g := core.instrumentalGain(); !near(g, DefaultInstrumentalVolume) {
		t.Errorf("expected default instrumental gain %f, got %f", DefaultInstrumentalVolume, g)
	}
	if g := core.vocalGain(); !near(g, DefaultVocalVolume) {
		t.Errorf("expected default vocal gain %f, got %f", DefaultVocalVolume, g)
	}

	core.setInstrumentalGain(2.0)
	if g := core.instrumentalGain(); g != MaxVolume {
		t.Errorf("expected clamp to %f, got %f", MaxVolume, g)
	}
	core.setVocalGain(-0.3)
	if g := core.vocalGain(); g != 0 {
		t.Errorf("expected clamp to 0, got %f", g)
	}
}

func TestAdoptResetsCursors(t *testing.T) {
	core := newRenderCore()
	adoptConstTracks(t, core, 0.5, 0.5, 100, 100, 44100)
	core.setCursors(50)
	adoptConstTracks(t, core, 0.5, 0.5, 100, 100, 44100)

	if got := core.cursorFrame(monitorSlot); got != 0 {
		t.Errorf("adopt should rewind monitor cursor, got %d", got)
	}
	if got := core.cursorFrame(broadcastSlot); got != 0 {
		t.Errorf("adopt should rewind broadcast cursor, got %d", got)
	}
}

func TestTrackSetDuration(t *testing.T) {
	// Duration follows the instrumental track; a longer vocal does not
	// extend it.
	set := &trackSet{
		inst: constBuffer(t, 0, 44100, 44100),
		voc:  constBuffer(t, 0, 88200, 44100),
		rate: 44100,
	}
	if d := set.duration(); d != 1.0 {
		t.Errorf("expected instrumental duration 1.0s, got %f", d)
	}

	set.inst = constBuffer(t, 0, 88200, 44100)
	if d := set.duration(); d != 2.0 {
		t.Errorf("expected instrumental duration 2.0s, got %f", d)
	}
}

func TestCursorSeconds(t *testing.T) {
	core := newRenderCore()
	if _, ok := core.cursorSeconds(monitorSlot); ok {
		t.Error("cursorSeconds should report not-ok before any load")
	}

	adoptConstTracks(t, core, 0, 0, 44100, 44100, 44100)
	core.setCursors(22050)
	pos, ok := core.cursorSeconds(monitorSlot)
	if !ok {
		t.Fatal("cursorSeconds should be ok after load")
	}
	if pos != 0.5 {
		t.Errorf("expected 0.5s, got %f", pos)
	}
}

func BenchmarkMonitorRender(b *testing.B) {
	core := newRenderCore()
	adoptConstTracks(b, core, 0.5, 0.3, 1<<16, 1<<16, 44100)

	out := make([]float32, 512*2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if core.monitorRender(out, 512) == output.Stop {
			core.setCursors(0)
		}
	}
}

func BenchmarkBroadcastRender(b *testing.B) {
	core := newRenderCore()
	adoptConstTracks(b, core, 0.5, 0.3, 1<<16, 1<<16, 44100)

	out := make([]float32, 512*2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if core.broadcastRender(out, 512) == output.Stop {
			core.setCursors(0)
		}
	}
}
