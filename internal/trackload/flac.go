// ABOUTME: FLAC file decoding
// ABOUTME: Reads FLAC files frame by frame into normalized float32 buffers
package trackload

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/mewkiz/flac"

	"github.com/duotone-audio/duotone-go/pkg/audio"
)

func loadFLAC(path string) (*audio.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open FLAC file: %w", err)
	}
	defer f.Close()

	stream, err := flac.New(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}

	info := stream.Info
	channels := int(info.NChannels)
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("unsupported FLAC channel count: %d", channels)
	}
	scale := float32(int64(1) << (info.BitsPerSample - 1))

	samples := make([]float32, 0, int(info.NSamples)*channels)
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse FLAC frame: %w", err)
		}
		for i := 0; i < int(frame.BlockSize); i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, float32(frame.Subframes[ch].Samples[i])/scale)
			}
		}
	}

	out, err := audio.NewBuffer(samples, channels, int(info.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("invalid FLAC data: %w", err)
	}

	log.Printf("Loaded FLAC: %s (%d Hz, %d ch, %d bit, %.1fs)",
		filepath.Base(path), out.SampleRate(), channels, info.BitsPerSample, out.Duration())
	return out, nil
}
