package transcript

import "errors"

// Error kinds surfaced by the pipeline. Components wrap these with context;
// callers classify failures with errors.Is.
var (
	ErrUnsupportedFormat        = errors.New("unsupported format")
	ErrSizeLimitExceeded        = errors.New("size limit exceeded")
	ErrDownloadFailure          = errors.New("download failure")
	ErrModelLoadFailure         = errors.New("model load failure")
	ErrInferenceFailure         = errors.New("inference failure")
	ErrEmptyTranscriptionResult = errors.New("empty transcription result")
	ErrInvalidConfig            = errors.New("invalid transcription config")
)
