package recognizer

import (
	"context"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcript"
)

// Recognizer is a speech-recognition capability. Loading a model and
// running inference are separate, separately observable steps.
type Recognizer interface {
	Name() string
	Load(ctx context.Context, size transcript.ModelSize) (Model, error)
}

// Model is a loaded recognition model.
type Model interface {
	Transcribe(ctx context.Context, req Request) (transcript.Result, error)
	Close() error
}

// Request is one inference call.
type Request struct {
	AudioPath string
	// Language is an ISO 639 code, or "" to auto-detect.
	Language string
	// Prompt is optional priming text.
	Prompt string
	// ReducedPrecision permits fp16 / accelerated computation.
	ReducedPrecision bool
}
