package processor

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/resolver"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcript"
)

// Processor runs one resolve -> transcribe -> serialize pipeline.
type Processor interface {
	Process(ctx context.Context, in resolver.Input, opts transcript.Options) (Output, error)
}

// Output describes the file a successful run wrote.
type Output struct {
	Path     string
	Title    string
	Kind     transcript.OutputKind
	Language string
	Segments int
	Bytes    int64
	Elapsed  time.Duration
}

// Config holds the pipeline's working-directory context.
type Config struct {
	OutputDir string
}
