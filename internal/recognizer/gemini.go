package recognizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/audio"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/logger"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcript"
)

const geminiPollInterval = 2 * time.Second

const geminiPrompt = `Transcribe the speech in the attached audio verbatim.
Split the transcript into segments of at most one or two sentences.
For every segment give its start and end time in seconds from the beginning of the audio.
Return "text" as the full transcript and "segments" in chronological order.`

// GeminiConfig configures the Gemini backend.
type GeminiConfig struct {
	// APIKeys are tried in order; a rate-limited key rotates to the next.
	APIKeys []string
	Model   string
}

type geminiRecognizer struct {
	cfg    GeminiConfig
	logger logger.Logger

	// mu guards currentKey; watch mode shares one recognizer between runs.
	mu         sync.Mutex
	currentKey int
}

// NewGemini creates a Recognizer that asks a Gemini model for a
// timestamped transcript. Gemini has no model sizes; every size maps to
// the configured model.
func NewGemini(cfg GeminiConfig, log logger.Logger) Recognizer {
	return &geminiRecognizer{cfg: cfg, logger: log}
}

func (g *geminiRecognizer) Name() string { return "gemini" }

// Load creates a client and checks the model exists, rotating API keys
// on 429 / quota errors.
func (g *geminiRecognizer) Load(ctx context.Context, size transcript.ModelSize) (Model, error) {
	if len(g.cfg.APIKeys) == 0 {
		return nil, fmt.Errorf("%w: gemini api key is not set", transcript.ErrModelLoadFailure)
	}

	var lastErr error
	idx := g.startKey()
	for range len(g.cfg.APIKeys) {
		key := g.cfg.APIKeys[idx]

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			idx = g.rotateKey(idx)
			continue
		}

		if _, err := client.Models.Get(ctx, g.cfg.Model, nil); err != nil {
			if isRateLimited(err) {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				idx = g.rotateKey(idx)
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("%w: model %q: %v", transcript.ErrModelLoadFailure, g.cfg.Model, err)
		}

		g.logger.Debug(ctx, "Gemini model %s ready (requested size %s)", g.cfg.Model, size)
		return &geminiModel{client: client, model: g.cfg.Model, logger: g.logger}, nil
	}

	return nil, fmt.Errorf("%w: all API keys exhausted: %v", transcript.ErrModelLoadFailure, lastErr)
}

func (g *geminiRecognizer) startKey() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentKey
}

// rotateKey moves past the failed key idx and returns the next one to try.
// The shared index only advances if no other run has moved it already.
func (g *geminiRecognizer) rotateKey(idx int) int {
	next := (idx + 1) % len(g.cfg.APIKeys)
	g.mu.Lock()
	if g.currentKey == idx {
		g.currentKey = next
	}
	g.mu.Unlock()
	return next
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

type geminiModel struct {
	client *genai.Client
	model  string
	logger logger.Logger
}

func (m *geminiModel) Close() error { return nil }

func (m *geminiModel) Transcribe(ctx context.Context, req Request) (transcript.Result, error) {
	file, err := m.upload(ctx, req.AudioPath)
	if err != nil {
		return transcript.Result{}, fmt.Errorf("%w: %v", transcript.ErrInferenceFailure, err)
	}
	defer func() {
		if _, err := m.client.Files.Delete(context.Background(), file.Name, nil); err != nil {
			m.logger.Warn(ctx, "Failed to delete uploaded file %s: %v", file.Name, err)
		}
	}()

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromURI(file.URI, file.MIMEType),
			genai.NewPartFromText(buildGeminiPrompt(req)),
		}, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		ResponseMIMEType: "application/json",
		ResponseSchema:   geminiTranscriptSchema,
	}

	result, err := m.client.Models.GenerateContent(ctx, m.model, contents, cfg)
	if err != nil {
		return transcript.Result{}, fmt.Errorf("%w: generate content: %v", transcript.ErrInferenceFailure, err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return transcript.Result{}, fmt.Errorf("%w: empty response from Gemini", transcript.ErrInferenceFailure)
	}
	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}

	return parseGeminiTranscript(text.String())
}

// upload sends the artifact to the Files API and waits until it is usable.
func (m *geminiModel) upload(ctx context.Context, path string) (*genai.File, error) {
	file, err := m.client.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{
		MIMEType: audio.ContentType(path),
	})
	if err != nil {
		return nil, fmt.Errorf("upload audio: %w", err)
	}

	for file.State == genai.FileStateProcessing {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(geminiPollInterval):
		}
		file, err = m.client.Files.Get(ctx, file.Name, nil)
		if err != nil {
			return nil, fmt.Errorf("poll upload: %w", err)
		}
	}
	if file.State == genai.FileStateFailed {
		return nil, fmt.Errorf("upload %s was rejected", file.Name)
	}
	return file, nil
}

var geminiTranscriptSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"language": {Type: genai.TypeString},
		"text":     {Type: genai.TypeString},
		"segments": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"start": {Type: genai.TypeNumber},
					"end":   {Type: genai.TypeNumber},
					"text":  {Type: genai.TypeString},
				},
				Required: []string{"start", "end", "text"},
			},
		},
	},
	Required: []string{"text", "segments"},
}

func buildGeminiPrompt(req Request) string {
	var b strings.Builder
	b.WriteString(geminiPrompt)
	if req.Language != "" {
		fmt.Fprintf(&b, "\nThe spoken language is %q (ISO 639-1).", req.Language)
	} else {
		b.WriteString("\nDetect the spoken language and report its ISO 639-1 code as \"language\".")
	}
	if req.Prompt != "" {
		fmt.Fprintf(&b, "\nVocabulary and context hints:\n---\n%s\n---", req.Prompt)
	}
	return b.String()
}

type geminiTranscript struct {
	Language string `json:"language"`
	Text     string `json:"text"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func parseGeminiTranscript(raw string) (transcript.Result, error) {
	var out geminiTranscript
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &out); err != nil {
		return transcript.Result{}, fmt.Errorf("%w: parse Gemini response: %v", transcript.ErrInferenceFailure, err)
	}

	result := transcript.Result{Text: out.Text, Language: out.Language}
	for _, seg := range out.Segments {
		result.Segments = append(result.Segments, transcript.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}
	return result, nil
}
