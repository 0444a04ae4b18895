package config

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcript"
)

// DefaultMaxArtifactBytes is the staged audio ceiling: 2 GiB.
const DefaultMaxArtifactBytes int64 = 2 * 1024 * 1024 * 1024

type Config struct {
	Engine      EngineConfig      `yaml:"engine"`
	Whisper     WhisperConfig     `yaml:"whisper"`
	OpenAI      OpenAIConfig      `yaml:"openai"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Downloader  DownloaderConfig  `yaml:"downloader"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Paths       PathsConfig       `yaml:"paths"`
	Limits      LimitsConfig      `yaml:"limits"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

// EngineConfig holds the default transcription choices. CLI flags override them per run.
type EngineConfig struct {
	Backend   string `yaml:"backend"`
	Model     string `yaml:"model"`
	Language  string `yaml:"language"`
	Prompt    string `yaml:"prompt"`
	Output    string `yaml:"output"`
	Precision string `yaml:"precision"`
}

type WhisperConfig struct {
	BinaryPath string            `yaml:"binary_path"`
	ModelsDir  string            `yaml:"models_dir"`
	Models     map[string]string `yaml:"models"`
	Threads    int               `yaml:"threads"`
}

type OpenAIConfig struct {
	BaseURL   string            `yaml:"base_url"`
	Model     string            `yaml:"model"`
	Models    map[string]string `yaml:"models"`
	APIKeyEnv string            `yaml:"api_key_env"`
}

type GeminiConfig struct {
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

type DownloaderConfig struct {
	BinaryPath   string `yaml:"binary_path"`
	AudioFormat  string `yaml:"audio_format"`
	AudioQuality string `yaml:"audio_quality"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
}

type PathsConfig struct {
	Staging string `yaml:"staging"`
	Output  string `yaml:"output"`
	Watch   string `yaml:"watch"`
}

type LimitsConfig struct {
	MaxArtifactBytes int64 `yaml:"max_artifact_bytes"`
	KeepArtifacts    bool  `yaml:"keep_artifacts"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// Backends understood by the recognizer factory.
const (
	BackendWhisperCPP = "whispercpp"
	BackendOpenAI     = "openai"
	BackendGemini     = "gemini"
)

// Precision modes. Auto defers to the hardware probe.
const (
	PrecisionAuto = "auto"
	PrecisionFP16 = "fp16"
	PrecisionFP32 = "fp32"
)

// Validate checks the config and fills defaults in place. Failures wrap
// transcript.ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("%w: %w", transcript.ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) validate() error {
	c.Engine.Backend = strings.ToLower(strings.TrimSpace(c.Engine.Backend))
	if c.Engine.Backend == "" {
		c.Engine.Backend = BackendWhisperCPP
	}
	switch c.Engine.Backend {
	case BackendWhisperCPP, BackendOpenAI, BackendGemini:
	default:
		return fmt.Errorf("engine.backend %q is not one of whispercpp, openai, gemini", c.Engine.Backend)
	}

	c.Engine.Precision = strings.ToLower(strings.TrimSpace(c.Engine.Precision))
	if c.Engine.Precision == "" {
		c.Engine.Precision = PrecisionAuto
	}
	switch c.Engine.Precision {
	case PrecisionAuto, PrecisionFP16, PrecisionFP32:
	default:
		return fmt.Errorf("engine.precision %q is not one of auto, fp16, fp32", c.Engine.Precision)
	}

	if c.Limits.MaxArtifactBytes < 0 {
		return fmt.Errorf("limits.max_artifact_bytes must be positive")
	}
	if c.Limits.MaxArtifactBytes == 0 {
		c.Limits.MaxArtifactBytes = DefaultMaxArtifactBytes
	}
	if c.Performance.MaxConcurrent < 0 {
		return fmt.Errorf("performance.max_concurrent must not be negative")
	}

	if c.Engine.Model == "" {
		c.Engine.Model = "base"
	}
	if c.Engine.Language == "" {
		c.Engine.Language = "auto"
	}
	if c.Engine.Output == "" {
		c.Engine.Output = "srt"
	}
	if c.Whisper.BinaryPath == "" {
		c.Whisper.BinaryPath = "whisper-cli"
	}
	if c.Whisper.ModelsDir == "" {
		c.Whisper.ModelsDir = "models"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "whisper-1"
	}
	if c.OpenAI.APIKeyEnv == "" {
		c.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.APIKeyEnv == "" {
		c.Gemini.APIKeyEnv = "GEMINI_API_KEY"
	}
	if c.Downloader.BinaryPath == "" {
		c.Downloader.BinaryPath = "yt-dlp"
	}
	if c.Downloader.AudioFormat == "" {
		c.Downloader.AudioFormat = "mp3"
	}
	if c.Downloader.AudioQuality == "" {
		c.Downloader.AudioQuality = "192K"
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.Paths.Staging == "" {
		c.Paths.Staging = "audio_source"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "."
	}
	if c.Paths.Watch == "" {
		c.Paths.Watch = "data/input"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 1
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	return nil
}
