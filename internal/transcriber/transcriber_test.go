package transcriber

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/logger"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/probe"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/recognizer"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcript"
)

type stubRecognizer struct {
	loadErr  error
	inferErr error
	result   transcript.Result

	loaded  transcript.ModelSize
	request recognizer.Request
	closed  bool
}

func (s *stubRecognizer) Name() string { return "stub" }

func (s *stubRecognizer) Load(ctx context.Context, size transcript.ModelSize) (recognizer.Model, error) {
	s.loaded = size
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s, nil
}

func (s *stubRecognizer) Transcribe(ctx context.Context, req recognizer.Request) (transcript.Result, error) {
	s.request = req
	return s.result, s.inferErr
}

func (s *stubRecognizer) Close() error {
	s.closed = true
	return nil
}

type recordingObserver struct {
	events []string
}

func (o *recordingObserver) StepStarted(ctx context.Context, step Step) {
	o.events = append(o.events, "start "+string(step))
}

func (o *recordingObserver) StepFinished(ctx context.Context, step Step, err error) {
	if err != nil {
		o.events = append(o.events, "fail "+string(step))
		return
	}
	o.events = append(o.events, "done "+string(step))
}

func stageArtifact(t *testing.T, name string, body []byte) transcript.Artifact {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, body, 0644); err != nil {
		t.Fatal(err)
	}
	return transcript.Artifact{Path: path, Title: "talk", Size: int64(len(body))}
}

func mustOptions(t *testing.T, model, lang, prompt string) transcript.Options {
	t.Helper()
	opts, err := transcript.NewOptions(model, lang, prompt, "srt")
	if err != nil {
		t.Fatal(err)
	}
	return opts
}

func TestTranscribe(t *testing.T) {
	rec := &stubRecognizer{result: transcript.Result{
		Text: " Hi there",
		Segments: []transcript.Segment{
			{Start: 0, End: 1.2, Text: " Hi"},
			{Start: 1.2, End: 1.3, Text: "  "},
			{Start: 1.3, End: 2.5, Text: " there"},
		},
	}}
	obs := &recordingObserver{}
	tr := New(Config{MaxBytes: 1 << 20, Observer: obs}, rec, probe.Fixed(true), logger.Discard())

	artifact := stageArtifact(t, "talk.mp3", []byte("ID3 audio bytes"))
	got, err := tr.Transcribe(context.Background(), artifact, mustOptions(t, "small", "fr", "Bonjour"))
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	if len(got.Segments) != 2 {
		t.Fatalf("got %d segments, want blank one dropped", len(got.Segments))
	}
	if got.Text != " Hi there" {
		t.Errorf("Text = %q, want engine text verbatim", got.Text)
	}
	if rec.loaded != transcript.ModelSmall {
		t.Errorf("loaded %q, want small", rec.loaded)
	}
	want := recognizer.Request{AudioPath: artifact.Path, Language: "fr", Prompt: "Bonjour", ReducedPrecision: true}
	if rec.request != want {
		t.Errorf("request = %+v, want %+v", rec.request, want)
	}
	if !rec.closed {
		t.Error("model was not closed")
	}

	wantEvents := []string{"start model load", "done model load", "start inference", "done inference"}
	if len(obs.events) != len(wantEvents) {
		t.Fatalf("events = %v, want %v", obs.events, wantEvents)
	}
	for i := range wantEvents {
		if obs.events[i] != wantEvents[i] {
			t.Errorf("event %d = %q, want %q", i, obs.events[i], wantEvents[i])
		}
	}
}

func TestTranscribeAutoDetectFullPrecision(t *testing.T) {
	rec := &stubRecognizer{result: transcript.Result{
		Text:     "Hallo",
		Segments: []transcript.Segment{{Start: 0, End: 1, Text: "Hallo"}},
	}}
	tr := New(Config{}, rec, probe.Fixed(false), logger.Discard())

	artifact := stageArtifact(t, "talk.ogg", []byte("OggS"))
	if _, err := tr.Transcribe(context.Background(), artifact, mustOptions(t, "base", "auto", "")); err != nil {
		t.Fatal(err)
	}
	if rec.request.Language != "" || rec.request.ReducedPrecision {
		t.Errorf("request = %+v, want auto-detect at full precision", rec.request)
	}
}

func TestTranscribeErrors(t *testing.T) {
	tests := []struct {
		name    string
		rec     *stubRecognizer
		body    []byte
		max     int64
		wantErr error
		events  int
	}{
		{
			name:    "artifact grew past the ceiling",
			rec:     &stubRecognizer{},
			body:    make([]byte, 64),
			max:     32,
			wantErr: transcript.ErrSizeLimitExceeded,
		},
		{
			name:    "model load",
			rec:     &stubRecognizer{loadErr: errors.New("out of memory")},
			body:    []byte("audio"),
			wantErr: transcript.ErrModelLoadFailure,
			events:  2,
		},
		{
			name:    "inference",
			rec:     &stubRecognizer{inferErr: errors.New("corrupt frame")},
			body:    []byte("audio"),
			wantErr: transcript.ErrInferenceFailure,
			events:  4,
		},
		{
			name: "end before start",
			rec: &stubRecognizer{result: transcript.Result{
				Segments: []transcript.Segment{{Start: 2, End: 1, Text: "backwards"}},
			}},
			body:    []byte("audio"),
			wantErr: transcript.ErrInferenceFailure,
			events:  4,
		},
		{
			name: "infinite end",
			rec: &stubRecognizer{result: transcript.Result{
				Segments: []transcript.Segment{{Start: 1, End: math.Inf(1), Text: "forever"}},
			}},
			body:    []byte("audio"),
			wantErr: transcript.ErrInferenceFailure,
			events:  4,
		},
		{
			name:    "no segments",
			rec:     &stubRecognizer{result: transcript.Result{Text: ""}},
			body:    []byte("audio"),
			wantErr: transcript.ErrEmptyTranscriptionResult,
			events:  4,
		},
		{
			name: "only blank segments",
			rec: &stubRecognizer{result: transcript.Result{
				Segments: []transcript.Segment{{Start: 0, End: 1, Text: "   "}},
			}},
			body:    []byte("audio"),
			wantErr: transcript.ErrEmptyTranscriptionResult,
			events:  4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &recordingObserver{}
			tr := New(Config{MaxBytes: tt.max, Observer: obs}, tt.rec, probe.Fixed(false), logger.Discard())

			artifact := stageArtifact(t, "talk.mp3", tt.body)
			_, err := tr.Transcribe(context.Background(), artifact, mustOptions(t, "tiny", "en", ""))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Transcribe() error = %v, want %v", err, tt.wantErr)
			}
			if len(obs.events) != tt.events {
				t.Errorf("events = %v, want %d", obs.events, tt.events)
			}
		})
	}
}

func TestTranscribeTrivialArtifact(t *testing.T) {
	rec := &stubRecognizer{}
	tr := New(Config{}, rec, probe.Fixed(false), logger.Discard())

	artifact := stageArtifact(t, "empty.mp3", nil)
	got, err := tr.Transcribe(context.Background(), artifact, mustOptions(t, "tiny", "en", ""))
	if err != nil {
		t.Fatalf("Transcribe() error = %v, want an empty result for an empty artifact", err)
	}
	if len(got.Segments) != 0 {
		t.Errorf("got %d segments", len(got.Segments))
	}
}

func TestTranscribeMissingArtifact(t *testing.T) {
	tr := New(Config{}, &stubRecognizer{}, probe.Fixed(false), logger.Discard())
	artifact := transcript.Artifact{Path: filepath.Join(t.TempDir(), "gone.mp3"), Title: "gone"}
	if _, err := tr.Transcribe(context.Background(), artifact, mustOptions(t, "tiny", "en", "")); err == nil {
		t.Error("Transcribe() should fail when the artifact is gone")
	}
}

func TestTranscribeRejectsZeroOptions(t *testing.T) {
	tr := New(Config{}, &stubRecognizer{}, probe.Fixed(false), logger.Discard())
	artifact := stageArtifact(t, "talk.mp3", []byte("audio"))
	if _, err := tr.Transcribe(context.Background(), artifact, transcript.Options{}); !errors.Is(err, transcript.ErrInvalidConfig) {
		t.Errorf("Transcribe() error = %v, want ErrInvalidConfig", err)
	}
}

func TestClassify(t *testing.T) {
	already := transcript.ErrInferenceFailure
	if got := classify(already, transcript.ErrInferenceFailure); got != already {
		t.Errorf("classify() rewrapped an already classified error: %v", got)
	}

	wrapped := classify(errors.New("boom"), transcript.ErrModelLoadFailure)
	if !errors.Is(wrapped, transcript.ErrModelLoadFailure) {
		t.Errorf("classify() = %v, want ErrModelLoadFailure", wrapped)
	}
}
