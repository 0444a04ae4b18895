package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/logger"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/resolver"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcript"
)

// Process orchestrates the entire transcription pipeline. Every failure is
// terminal for the run; the staged artifact is released either way and no
// output file is left behind unless the run succeeded.
func (p *implProcessor) Process(ctx context.Context, in resolver.Input, opts transcript.Options) (Output, error) {
	if !opts.Valid() {
		return Output{}, fmt.Errorf("%w: options were not built with NewOptions", transcript.ErrInvalidConfig)
	}
	if logger.RunID(ctx) == "" {
		ctx = logger.WithRunID(ctx, uuid.NewString())
	}

	startTime := time.Now()

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting transcription: %s", describeInput(in))
	p.logger.Info(ctx, "Options: %s", opts)
	p.logger.Info(ctx, "========================================")

	// Step 1: Stage the audio
	artifact, err := p.resolver.Resolve(ctx, in)
	if err != nil {
		return Output{}, fmt.Errorf("resolve: %w", err)
	}
	defer p.release(ctx, artifact)

	// Step 2: Recognize speech
	result, err := p.transcriber.Transcribe(ctx, artifact, opts)
	if err != nil {
		return Output{}, fmt.Errorf("transcribe: %w", err)
	}

	// Step 3: Encode
	name, data, err := p.serializer.Serialize(result, opts.Output(), artifact.Title)
	if err != nil {
		return Output{}, fmt.Errorf("serialize: %w", err)
	}
	if len(data) == 0 {
		return Output{}, fmt.Errorf("serialize: %w: nothing to write for %s", transcript.ErrEmptyTranscriptionResult, artifact.Title)
	}

	// Step 4: Publish
	outputPath, err := p.writeOutput(ctx, name, data)
	if err != nil {
		return Output{}, fmt.Errorf("write output: %w", err)
	}

	out := Output{
		Path:     outputPath,
		Title:    artifact.Title,
		Kind:     opts.Output(),
		Language: result.Language,
		Segments: len(result.Segments),
		Bytes:    int64(len(data)),
		Elapsed:  time.Since(startTime),
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Transcription completed successfully!")
	p.logger.Info(ctx, "Output: %s (%s)", out.Path, humanize.Bytes(uint64(out.Bytes)))
	p.logger.Info(ctx, "Processing time: %s", out.Elapsed.Round(time.Millisecond))
	p.logger.Info(ctx, "========================================")

	return out, nil
}

func describeInput(in resolver.Input) string {
	if in.File != nil {
		return "upload " + in.File.Name
	}
	return in.URL
}
