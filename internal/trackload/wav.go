// ABOUTME: WAV file decoding
// ABOUTME: Reads PCM WAV files into normalized float32 buffers
package trackload

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/go-audio/wav"

	"github.com/duotone-audio/duotone-go/pkg/audio"
)

func loadWAV(path string) (*audio.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid WAV file: %s", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode WAV: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	var maxVal float32
	switch bitDepth {
	case 16:
		maxVal = 32768.0
	case 24:
		maxVal = 8388608.0
	case 32:
		maxVal = 2147483648.0
	default:
		return nil, fmt.Errorf("unsupported WAV bit depth: %d", bitDepth)
	}

	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(v) / maxVal
	}

	out, err := audio.NewBuffer(samples, buf.Format.NumChannels, buf.Format.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("invalid WAV data: %w", err)
	}

	log.Printf("Loaded WAV: %s (%d Hz, %d ch, %d bit, %.1fs)",
		filepath.Base(path), out.SampleRate(), buf.Format.NumChannels, bitDepth, out.Duration())
	return out, nil
}
