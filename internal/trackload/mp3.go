// ABOUTME: MP3 file decoding
// ABOUTME: Reads MP3 files into normalized float32 buffers
package trackload

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	mp3 "github.com/hajimehoshi/go-mp3"

	"github.com/duotone-audio/duotone-go/pkg/audio"
)

func loadMP3(path string) (*audio.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open MP3 file: %w", err)
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode MP3: %w", err)
	}

	// go-mp3 always emits 16-bit little-endian stereo.
	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to read MP3 samples: %w", err)
	}

	samples := make([]float32, len(data)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(data[2*i:]))
		samples[i] = float32(v) / 32768.0
	}

	out, err := audio.NewBuffer(samples, 2, dec.SampleRate())
	if err != nil {
		return nil, fmt.Errorf("invalid MP3 data: %w", err)
	}

	log.Printf("Loaded MP3: %s (%d Hz, %.1fs)",
		filepath.Base(path), out.SampleRate(), out.Duration())
	return out, nil
}
