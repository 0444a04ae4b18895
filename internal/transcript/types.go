// Package transcript holds the values that flow through the pipeline:
// the staged audio artifact, the validated run options and the segments
// produced by a recognizer.
package transcript

import (
	"fmt"
	"math"
	"strings"
)

// Artifact is an audio file staged on local disk, ready for inference.
type Artifact struct {
	Path  string
	Title string
	Size  int64
}

// Segment is one timed span of recognized speech. Times are in seconds.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Validate reports a segment that breaks the timing invariants.
func (s Segment) Validate() error {
	if !finite(s.Start) || !finite(s.End) {
		return fmt.Errorf("non-finite time %v -> %v", s.Start, s.End)
	}
	if s.Start < 0 {
		return fmt.Errorf("negative start %.3f", s.Start)
	}
	if s.End < s.Start {
		return fmt.Errorf("end %.3f before start %.3f", s.End, s.Start)
	}
	return nil
}

// Blank reports whether the segment carries no text once trimmed.
func (s Segment) Blank() bool {
	return strings.TrimSpace(s.Text) == ""
}

// Result is the recognizer output. Text is the engine's own full-text
// field, kept verbatim.
type Result struct {
	Segments []Segment
	Text     string
	Language string
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
