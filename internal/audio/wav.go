package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"
)

// Duration returns the playing time of a WAV file. ok is false for other
// containers, whose duration cannot be read without decoding.
func Duration(path string) (d time.Duration, ok bool, err error) {
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		return 0, false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, false, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, false, fmt.Errorf("invalid wav file: %s", path)
	}
	if err := dec.FwdToPCM(); err != nil {
		return 0, false, fmt.Errorf("seek pcm: %w", err)
	}
	bytesPerSecond := int64(dec.SampleRate) * int64(dec.NumChans) * int64(dec.BitDepth) / 8
	if bytesPerSecond == 0 {
		return 0, false, fmt.Errorf("wav file %s has no audio format", path)
	}
	d = time.Duration(int64(dec.PCMSize) * int64(time.Second) / bytesPerSecond)
	return d, true, nil
}

// CheckPCM verifies that path is a valid WAV file with a non-zero sample rate.
func CheckPCM(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return fmt.Errorf("invalid wav file: %s", path)
	}
	if dec.SampleRate == 0 || dec.NumChans == 0 {
		return fmt.Errorf("wav file %s has no audio format", path)
	}
	return nil
}
