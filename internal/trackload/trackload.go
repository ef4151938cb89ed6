// ABOUTME: Track file loading for the playback engine
// ABOUTME: Dispatches on extension and normalizes pairs to one sample rate
package trackload

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/duotone-audio/duotone-go/pkg/audio"
	"github.com/duotone-audio/duotone-go/pkg/audio/resample"
)

// ErrUnsupportedFormat is returned for file extensions no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Load reads one audio file into a stereo buffer at its native sample rate.
// The format is chosen by file extension.
func Load(path string) (*audio.Buffer, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		return loadWAV(path)
	case ".mp3":
		return loadMP3(path)
	case ".flac":
		return loadFLAC(path)
	default:
		return nil, fmt.Errorf("%w: %q (supported: .wav, .mp3, .flac)", ErrUnsupportedFormat, ext)
	}
}

// LoadPair reads both tracks of an instrumental/vocal pair. The engine
// requires one shared sample rate, so the vocal is resampled to the
// instrumental's rate when the source files disagree.
func LoadPair(instrumentalPath, vocalPath string) (instrumental, vocal *audio.Buffer, err error) {
	instrumental, err = Load(instrumentalPath)
	if err != nil {
		return nil, nil, fmt.Errorf("instrumental: %w", err)
	}
	vocal, err = Load(vocalPath)
	if err != nil {
		return nil, nil, fmt.Errorf("vocal: %w", err)
	}

	if vocal.SampleRate() != instrumental.SampleRate() {
		log.Printf("Resampling vocal track: %d Hz -> %d Hz",
			vocal.SampleRate(), instrumental.SampleRate())
		r := resample.New(vocal.SampleRate(), instrumental.SampleRate(), 2)
		vocal, err = audio.NewBuffer(r.Apply(vocal.Samples()), 2, instrumental.SampleRate())
		if err != nil {
			return nil, nil, fmt.Errorf("vocal: %w", err)
		}
	}
	return instrumental, vocal, nil
}
