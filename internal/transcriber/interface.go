package transcriber

import (
	"context"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcript"
)

// Transcriber runs speech recognition over a staged artifact.
type Transcriber interface {
	Transcribe(ctx context.Context, artifact transcript.Artifact, opts transcript.Options) (transcript.Result, error)
}

// Step names one observable phase of a transcription.
type Step string

const (
	StepModelLoad Step = "model load"
	StepInference Step = "inference"
)

// Observer is notified around each step. Both calls happen on the
// goroutine running Transcribe.
type Observer interface {
	StepStarted(ctx context.Context, step Step)
	StepFinished(ctx context.Context, step Step, err error)
}

// Config holds the adapter limits.
type Config struct {
	MaxBytes int64
	Observer Observer
}
