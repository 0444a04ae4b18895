package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcript"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps a pipeline failure to a distinct process status so
// scripts can tell the error kinds apart.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, transcript.ErrInvalidConfig), errors.Is(err, transcript.ErrUnsupportedFormat):
		return 2
	case errors.Is(err, transcript.ErrSizeLimitExceeded):
		return 3
	case errors.Is(err, transcript.ErrDownloadFailure):
		return 4
	case errors.Is(err, transcript.ErrModelLoadFailure):
		return 5
	case errors.Is(err, transcript.ErrInferenceFailure):
		return 6
	case errors.Is(err, transcript.ErrEmptyTranscriptionResult):
		return 7
	default:
		return 1
	}
}
