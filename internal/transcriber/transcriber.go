package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/audio"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/recognizer"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcript"
)

// Transcribe loads the configured model and runs it over the artifact.
// It returns only after both steps have completed or one has failed.
func (t *implTranscriber) Transcribe(ctx context.Context, artifact transcript.Artifact, opts transcript.Options) (transcript.Result, error) {
	if !opts.Valid() {
		return transcript.Result{}, fmt.Errorf("%w: options were not built with NewOptions", transcript.ErrInvalidConfig)
	}

	// The file may have changed since it was resolved.
	info, err := os.Stat(artifact.Path)
	if err != nil {
		return transcript.Result{}, fmt.Errorf("stat artifact: %w", err)
	}
	if t.cfg.MaxBytes > 0 && info.Size() > t.cfg.MaxBytes {
		return transcript.Result{}, fmt.Errorf("%w: %s is %s, limit %s", transcript.ErrSizeLimitExceeded,
			artifact.Path, humanize.IBytes(uint64(info.Size())), humanize.IBytes(uint64(t.cfg.MaxBytes)))
	}

	reduced := t.prober.Accelerated(ctx)
	t.logger.Info(ctx, "Transcribing %s with %s (%s, reduced precision: %t)", artifact.Title, t.recognizer.Name(), opts, reduced)

	model, err := t.load(ctx, opts.Model())
	if err != nil {
		return transcript.Result{}, err
	}
	defer func() {
		if err := model.Close(); err != nil {
			t.logger.Warn(ctx, "Failed to release model: %v", err)
		}
	}()

	result, err := t.infer(ctx, model, recognizer.Request{
		AudioPath:        artifact.Path,
		Language:         opts.Language(),
		Prompt:           opts.Prompt(),
		ReducedPrecision: reduced,
	})
	if err != nil {
		return transcript.Result{}, err
	}

	segments, err := checkSegments(result.Segments)
	if err != nil {
		return transcript.Result{}, err
	}
	result.Segments = segments

	if len(result.Segments) == 0 && nonTrivial(artifact.Path, info.Size()) {
		return transcript.Result{}, fmt.Errorf("%w: %s", transcript.ErrEmptyTranscriptionResult, artifact.Title)
	}

	t.logger.Info(ctx, "Recognized %d segments (language %q)", len(result.Segments), result.Language)
	return result, nil
}

func (t *implTranscriber) load(ctx context.Context, size transcript.ModelSize) (recognizer.Model, error) {
	t.cfg.Observer.StepStarted(ctx, StepModelLoad)
	start := time.Now()
	model, err := t.recognizer.Load(ctx, size)
	if err != nil {
		err = fmt.Errorf("load model %s: %w", size, classify(err, transcript.ErrModelLoadFailure))
	}
	t.cfg.Observer.StepFinished(ctx, StepModelLoad, err)
	if err != nil {
		return nil, err
	}
	t.logger.Debug(ctx, "Model %s loaded in %s", size, time.Since(start).Round(time.Millisecond))
	return model, nil
}

func (t *implTranscriber) infer(ctx context.Context, model recognizer.Model, req recognizer.Request) (transcript.Result, error) {
	t.cfg.Observer.StepStarted(ctx, StepInference)
	start := time.Now()
	result, err := model.Transcribe(ctx, req)
	if err != nil {
		err = fmt.Errorf("inference: %w", classify(err, transcript.ErrInferenceFailure))
	}
	t.cfg.Observer.StepFinished(ctx, StepInference, err)
	if err != nil {
		return transcript.Result{}, err
	}
	t.logger.Debug(ctx, "Inference took %s", time.Since(start).Round(time.Millisecond))
	return result, nil
}

// classify makes sure err carries kind without hiding a kind it already has.
func classify(err, kind error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// checkSegments rejects out-of-order timing and drops segments with no text.
func checkSegments(in []transcript.Segment) ([]transcript.Segment, error) {
	out := make([]transcript.Segment, 0, len(in))
	for i, seg := range in {
		if err := seg.Validate(); err != nil {
			return nil, fmt.Errorf("%w: segment %d: %v", transcript.ErrInferenceFailure, i+1, err)
		}
		if seg.Blank() {
			continue
		}
		out = append(out, seg)
	}
	return out, nil
}

// nonTrivial reports whether the artifact holds any audio. Only WAV
// duration can be read without decoding, so other containers count as
// non-trivial whenever they have bytes.
func nonTrivial(path string, size int64) bool {
	if size == 0 {
		return false
	}
	d, ok, err := audio.Duration(path)
	if err != nil || !ok {
		return true
	}
	return d > 0
}
