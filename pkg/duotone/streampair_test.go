// ABOUTME: Stream pair lifecycle tests
// ABOUTME: Device routing, cursor priming, partial and total open failure
package duotone

import (
	"errors"
	"strings"
	"testing"

	"github.com/duotone-audio/duotone-go/pkg/audio/output"
)

func newTestPair(tb testing.TB) (*streamPair, *output.Mock, *renderCore) {
	tb.Helper()
	core := newRenderCore()
	adoptConstTracks(tb, core, 0.5, 0.5, 44100, 44100, 44100)
	mock := output.NewMock()
	return newStreamPair(mock, core), mock, core
}

func deviceID(id string) *output.DeviceID {
	d := output.DeviceID(id)
	return &d
}

func TestOpenMonitorOnly(t *testing.T) {
	pair, mock, _ := newTestPair(t)

	warn, err := pair.open(0, "mock-0", nil, 44100)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if warn != nil {
		t.Fatalf("unexpected warning: %v", warn)
	}

	streams := mock.Streams()
	if len(streams) != 1 {
		t.Fatalf("expected 1 stream without a broadcast device, got %d", len(streams))
	}
	if streams[0].Device != "mock-0" {
		t.Errorf("expected monitor on mock-0, got %s", streams[0].Device)
	}
}

func TestOpenBothStreams(t *testing.T) {
	pair, mock, _ := newTestPair(t)

	warn, err := pair.open(0, "mock-0", deviceID("mock-1"), 44100)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if warn != nil {
		t.Fatalf("unexpected warning: %v", warn)
	}

	streams := mock.Streams()
	if len(streams) != 2 {
		t.Fatalf("expected 2 streams, got %d", len(streams))
	}
	if streams[0].Device != "mock-0" || streams[1].Device != "mock-1" {
		t.Errorf("unexpected device routing: %s, %s", streams[0].Device, streams[1].Device)
	}

	monitorActive, broadcastActive := pair.active()
	if !monitorActive || !broadcastActive {
		t.Errorf("expected both streams active, got monitor=%v broadcast=%v", monitorActive, broadcastActive)
	}
}

func TestOpenSharedDeviceSingleStream(t *testing.T) {
	pair, mock, _ := newTestPair(t)

	warn, err := pair.open(0, "mock-0", deviceID("mock-0"), 44100)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if warn != nil {
		t.Fatalf("unexpected warning: %v", warn)
	}
	if got := mock.OpenCount(); got != 1 {
		t.Errorf("same device for both roles should open one stream, got %d", got)
	}
}

func TestOpenPrimesCursorsBeforeStart(t *testing.T) {
	pair, _, core := newTestPair(t)

	if _, err := pair.open(777, "mock-0", deviceID("mock-1"), 44100); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if got := core.cursorFrame(monitorSlot); got != 777 {
		t.Errorf("monitor cursor not primed: expected 777, got %d", got)
	}
	if got := core.cursorFrame(broadcastSlot); got != 777 {
		t.Errorf("broadcast cursor not primed: expected 777, got %d", got)
	}
}

func TestOpenPartialBroadcastFailure(t *testing.T) {
	pair, mock, _ := newTestPair(t)
	mock.FailDevice("mock-1", errors.New("device busy"))

	warn, err := pair.open(0, "mock-0", deviceID("mock-1"), 44100)
	if err != nil {
		t.Fatalf("partial failure should not fail the open: %v", err)
	}
	if warn == nil {
		t.Fatal("expected a warning for the failed broadcast stream")
	}
	if !strings.Contains(warn.Error(), "broadcast:") {
		t.Errorf("warning should name the broadcast stream: %v", warn)
	}

	monitorActive, broadcastActive := pair.active()
	if !monitorActive {
		t.Error("monitor should be active after broadcast failure")
	}
	if broadcastActive {
		t.Error("broadcast should be inactive after failing to open")
	}
}

func TestOpenPartialMonitorFailure(t *testing.T) {
	pair, mock, _ := newTestPair(t)
	mock.FailDevice("mock-0", errors.New("device unplugged"))

	warn, err := pair.open(0, "mock-0", deviceID("mock-1"), 44100)
	if err != nil {
		t.Fatalf("partial failure should not fail the open: %v", err)
	}
	if warn == nil || !strings.Contains(warn.Error(), "monitor:") {
		t.Errorf("warning should name the monitor stream: %v", warn)
	}

	monitorActive, broadcastActive := pair.active()
	if monitorActive {
		t.Error("monitor should be inactive after failing to open")
	}
	if !broadcastActive {
		t.Error("broadcast should carry playback alone after monitor failure")
	}
}

func TestOpenTotalFailure(t *testing.T) {
	pair, mock, _ := newTestPair(t)
	mock.FailDevice("mock-0", errors.New("no such device"))
	mock.FailDevice("mock-1", errors.New("device busy"))

	warn, err := pair.open(0, "mock-0", deviceID("mock-1"), 44100)
	if warn != nil {
		t.Errorf("total failure should not produce a warning, got %v", warn)
	}
	if err == nil {
		t.Fatal("expected an error when every stream fails")
	}
	if !errors.Is(err, ErrNoStreams) {
		t.Errorf("error should wrap ErrNoStreams: %v", err)
	}
	if !strings.Contains(err.Error(), "monitor:") || !strings.Contains(err.Error(), "broadcast:") {
		t.Errorf("error should carry both device failures: %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	pair, mock, _ := newTestPair(t)

	// Closing an unopened pair is a no-op.
	pair.close()

	if _, err := pair.open(0, "mock-0", deviceID("mock-1"), 44100); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	pair.close()
	pair.close()

	for i, s := range mock.Streams() {
		if !s.Closed() {
			t.Errorf("stream %d not closed", i)
		}
	}
	monitorActive, broadcastActive := pair.active()
	if monitorActive || broadcastActive {
		t.Error("closed pair should report both streams inactive")
	}
}
