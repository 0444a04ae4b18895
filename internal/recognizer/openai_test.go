package recognizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/logger"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcript"
)

func newOpenAIServer(t *testing.T) (*httptest.Server, url.Values) {
	t.Helper()
	seen := url.Values{}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models/whisper-1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"whisper-1","object":"model","created":1,"owned_by":"openai"}`)
	})
	mux.HandleFunc("/v1/audio/transcriptions", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for k, v := range r.MultipartForm.Value {
			seen[k] = v
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"task": "transcribe",
			"language": "english",
			"duration": 2.5,
			"text": "Hello world",
			"segments": [
				{"id": 0, "seek": 0, "start": 0, "end": 1.2, "text": " Hello"},
				{"id": 1, "seek": 0, "start": 1.2, "end": 2.5, "text": " world"}
			]
		}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, seen
}

func TestOpenAITranscribe(t *testing.T) {
	srv, seen := newOpenAIServer(t)
	audioPath := filepath.Join(t.TempDir(), "talk.mp3")
	if err := os.WriteFile(audioPath, []byte("ID3 audio"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewOpenAI(OpenAIConfig{
		BaseURL: srv.URL + "/v1",
		APIKey:  "test",
		Model:   "whisper-1",
	}, logger.Discard())

	model, err := r.Load(context.Background(), transcript.ModelBase)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	result, err := model.Transcribe(context.Background(), Request{
		AudioPath: audioPath,
		Language:  "en",
		Prompt:    "greeting",
	})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	if len(result.Segments) != 2 || result.Segments[1].Start != 1.2 || result.Segments[1].End != 2.5 {
		t.Errorf("segments = %+v", result.Segments)
	}
	if result.Text != "Hello world" {
		t.Errorf("Text = %q", result.Text)
	}
	if got := seen.Get("response_format"); got != "verbose_json" {
		t.Errorf("response_format = %q, want verbose_json", got)
	}
	if got := seen.Get("language"); got != "en" {
		t.Errorf("language = %q, want en", got)
	}
	if got := seen.Get("prompt"); got != "greeting" {
		t.Errorf("prompt = %q, want greeting", got)
	}
}

func TestOpenAILoadUnknownModel(t *testing.T) {
	srv, _ := newOpenAIServer(t)
	r := NewOpenAI(OpenAIConfig{
		BaseURL: srv.URL + "/v1",
		APIKey:  "test",
		Model:   "whisper-1",
		Models:  map[string]string{"large": "whisper-large-v3"},
	}, logger.Discard())

	if _, err := r.Load(context.Background(), transcript.ModelLarge); !errors.Is(err, transcript.ErrModelLoadFailure) {
		t.Errorf("Load() error = %v, want ErrModelLoadFailure", err)
	}
}
