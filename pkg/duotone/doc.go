// ABOUTME: Package documentation for the playback engine
// ABOUTME: Describes the dual-track, dual-device playback model
// Package duotone implements a realtime dual-track playback engine.
//
// The engine plays one track pair, an instrumental and a vocal recording at
// the same sample rate, to up to two output devices at once:
//
//   - the monitor device carries the full mix (instrumental + vocal) for
//     the operator
//   - the broadcast device carries instrumental only, for feeding a stream
//     or house PA that must never receive the guide vocal
//
// Each device stream has its own read cursor into the shared buffers, its
// own gain-applied render callback, and stops independently at its own end
// condition. Seeks during playback are debounced and coalesced: a burst of
// requests (a scrubbed slider, a held key) becomes a single stream restart
// at the final target.
//
// Basic use:
//
//	engine, err := duotone.New(duotone.Config{
//		OnPosition: func(s float64) { fmt.Printf("at %.0fs\n", s) },
//		OnEnded:    func() { fmt.Println("done") },
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer engine.Close()
//
//	engine.Load(instrumental, vocal)
//	engine.PlayPause()
//
// All Engine methods are safe for concurrent use. Callbacks run on the
// engine's worker goroutines; they may call back into the engine but must
// not block for long.
package duotone
