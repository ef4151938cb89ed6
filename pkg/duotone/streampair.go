// ABOUTME: Monitor/broadcast output stream lifecycle
// ABOUTME: Opens, tracks, and tears down the device stream pair
package duotone

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/duotone-audio/duotone-go/pkg/audio/output"
)

// streamPair owns the two output streams. The monitor stream is always
// requested; the broadcast stream only when a distinct broadcast device is
// selected. Partial hardware failure is survivable: playback continues on
// whichever stream opened.
type streamPair struct {
	backend output.Backend
	core    *renderCore

	mu        sync.Mutex
	monitor   output.Stream
	broadcast output.Stream
}

func newStreamPair(backend output.Backend, core *renderCore) *streamPair {
	return &streamPair{backend: backend, core: core}
}

// open starts the stream pair at startFrame. Both cursors are positioned
// before either stream starts so the first device callback already reads
// from the right place.
//
// broadcast nil, or equal to the monitor device, means monitor-only. When
// one stream fails open returns a non-nil warn describing it; when every
// requested stream fails it returns err wrapping ErrNoStreams and the
// per-device errors.
func (p *streamPair) open(startFrame int, monitor output.DeviceID, broadcast *output.DeviceID, sampleRate int) (warn, err error) {
	p.core.setCursors(startFrame)

	var opened int
	var errs []error

	mon, monErr := p.backend.OpenStream(monitor, sampleRate, p.core.monitorRender)
	if monErr != nil {
		errs = append(errs, fmt.Errorf("monitor: %w", monErr))
	} else {
		p.mu.Lock()
		p.monitor = mon
		p.mu.Unlock()
		opened++
	}

	if broadcast != nil && *broadcast != monitor {
		bc, bcErr := p.backend.OpenStream(*broadcast, sampleRate, p.core.broadcastRender)
		if bcErr != nil {
			errs = append(errs, fmt.Errorf("broadcast: %w", bcErr))
		} else {
			p.mu.Lock()
			p.broadcast = bc
			p.mu.Unlock()
			opened++
		}
	}

	if opened == 0 {
		return nil, errors.Join(append([]error{ErrNoStreams}, errs...)...)
	}
	return errors.Join(errs...), nil
}

// close stops and releases both streams. Idempotent; close errors are logged
// rather than returned because teardown must always complete.
func (p *streamPair) close() {
	p.mu.Lock()
	monitor, broadcast := p.monitor, p.broadcast
	p.monitor, p.broadcast = nil, nil
	p.mu.Unlock()

	if monitor != nil {
		if err := monitor.Close(); err != nil {
			log.Printf("Warning: monitor stream close error: %v", err)
		}
	}
	if broadcast != nil {
		if err := broadcast.Close(); err != nil {
			log.Printf("Warning: broadcast stream close error: %v", err)
		}
	}
}

// active reports whether each stream is still rendering. A stream that was
// never opened reports inactive.
func (p *streamPair) active() (monitorActive, broadcastActive bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.monitor != nil {
		monitorActive = p.monitor.Active()
	}
	if p.broadcast != nil {
		broadcastActive = p.broadcast.Active()
	}
	return monitorActive, broadcastActive
}
