package recognizer

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/logger"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcript"
)

// OpenAIConfig configures an OpenAI-compatible transcription endpoint
// (OpenAI, LocalAI, a whisper.cpp server).
type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	// Models maps a model size to a server-side model name.
	Models map[string]string
}

type openAIRecognizer struct {
	cfg    OpenAIConfig
	client *openai.Client
	logger logger.Logger
}

// NewOpenAI creates a Recognizer backed by the /audio/transcriptions API.
func NewOpenAI(cfg OpenAIConfig, log logger.Logger) Recognizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &openAIRecognizer{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientCfg),
		logger: log,
	}
}

func (o *openAIRecognizer) Name() string { return "openai" }

func (o *openAIRecognizer) modelName(size transcript.ModelSize) string {
	if name := o.cfg.Models[string(size)]; name != "" {
		return name
	}
	return o.cfg.Model
}

// Load confirms the server knows the model.
func (o *openAIRecognizer) Load(ctx context.Context, size transcript.ModelSize) (Model, error) {
	name := o.modelName(size)
	if _, err := o.client.GetModel(ctx, name); err != nil {
		return nil, fmt.Errorf("%w: model %q: %v", transcript.ErrModelLoadFailure, name, err)
	}
	return &openAIModel{parent: o, name: name}, nil
}

type openAIModel struct {
	parent *openAIRecognizer
	name   string
}

func (m *openAIModel) Close() error { return nil }

func (m *openAIModel) Transcribe(ctx context.Context, req Request) (transcript.Result, error) {
	m.parent.logger.Debug(ctx, "openai transcription with model %s (precision is server-side)", m.name)

	resp, err := m.parent.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    m.name,
		FilePath: req.AudioPath,
		Prompt:   req.Prompt,
		Language: req.Language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return transcript.Result{}, fmt.Errorf("%w: %v", transcript.ErrInferenceFailure, err)
	}

	result := transcript.Result{
		Text:     resp.Text,
		Language: resp.Language,
	}
	for _, seg := range resp.Segments {
		result.Segments = append(result.Segments, transcript.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}
	return result, nil
}
