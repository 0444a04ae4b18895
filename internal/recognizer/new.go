package recognizer

import (
	"fmt"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/config"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/logger"
	"github.com/nguyentantai21042004/whisper-subtitler/pkg/executor"
)

// New builds the recognizer selected by cfg.Engine.Backend.
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) (Recognizer, error) {
	switch cfg.Engine.Backend {
	case config.BackendWhisperCPP:
		return NewWhisperCPP(WhisperCPPConfig{
			BinaryPath: cfg.Whisper.BinaryPath,
			ModelsDir:  cfg.Whisper.ModelsDir,
			Models:     cfg.Whisper.Models,
			Threads:    cfg.Whisper.Threads,
			FFmpegPath: cfg.FFmpeg.BinaryPath,
		}, exec, log), nil
	case config.BackendOpenAI:
		return NewOpenAI(OpenAIConfig{
			BaseURL: cfg.OpenAI.BaseURL,
			APIKey:  config.APIKey(cfg.OpenAI.APIKeyEnv),
			Model:   cfg.OpenAI.Model,
			Models:  cfg.OpenAI.Models,
		}, log), nil
	case config.BackendGemini:
		return NewGemini(GeminiConfig{
			APIKeys: config.APIKeys(cfg.Gemini.APIKeyEnv),
			Model:   cfg.Gemini.Model,
		}, log), nil
	}
	return nil, fmt.Errorf("unknown recognizer backend %q", cfg.Engine.Backend)
}
