package serializer

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcript"
)

// FormatTimestamp renders seconds as an SRT timestamp, HH:MM:SS,mmm.
// The value is first rounded to the microsecond and then truncated to
// the millisecond, so 1.2 renders as 00:00:01,200 despite float error.
// Negative input renders as zero; hours are not wrapped at 24.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	micros := int64(math.Round(seconds * 1e6))
	whole := micros / 1_000_000
	millis := (micros % 1_000_000) / 1000

	hours := whole / 3600
	minutes := (whole % 3600) / 60
	secs := whole % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// SRT renders segments as 1-indexed subtitle blocks in input order.
func SRT(segments []transcript.Segment) ([]byte, error) {
	var b bytes.Buffer
	for i, seg := range segments {
		if err := seg.Validate(); err != nil {
			return nil, fmt.Errorf("%w: segment %d: %v", transcript.ErrInferenceFailure, i+1, err)
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1,
			FormatTimestamp(seg.Start),
			FormatTimestamp(seg.End),
			strings.TrimSpace(seg.Text),
		)
	}
	return b.Bytes(), nil
}
