package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcript"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "empty config gets defaults",
			config:  Config{},
			wantErr: false,
		},
		{
			name: "explicit backend",
			config: Config{
				Engine: EngineConfig{Backend: "OpenAI", Precision: "fp32"},
			},
			wantErr: false,
		},
		{
			name: "unknown backend",
			config: Config{
				Engine: EngineConfig{Backend: "vosk"},
			},
			wantErr: true,
		},
		{
			name: "unknown precision",
			config: Config{
				Engine: EngineConfig{Precision: "int8"},
			},
			wantErr: true,
		},
		{
			name: "negative ceiling",
			config: Config{
				Limits: LimitsConfig{MaxArtifactBytes: -1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, transcript.ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	var cfg Config
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	if cfg.Limits.MaxArtifactBytes != 2*1024*1024*1024 {
		t.Errorf("MaxArtifactBytes = %d", cfg.Limits.MaxArtifactBytes)
	}
	if cfg.Engine.Backend != BackendWhisperCPP {
		t.Errorf("Backend = %q", cfg.Engine.Backend)
	}
	if cfg.Engine.Precision != PrecisionAuto {
		t.Errorf("Precision = %q", cfg.Engine.Precision)
	}
	if cfg.Paths.Staging != "audio_source" {
		t.Errorf("Staging = %q", cfg.Paths.Staging)
	}
	if cfg.Paths.Output != "." {
		t.Errorf("Output = %q", cfg.Paths.Output)
	}
	if cfg.Performance.MaxConcurrent != 1 {
		t.Errorf("MaxConcurrent = %d", cfg.Performance.MaxConcurrent)
	}
}

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	content := `
engine:
  backend: "whispercpp"
  model: "small"
  language: "en"
  prompt: "test"
  output: "txt"

whisper:
  binary_path: "./whisper-cli"
  models_dir: "models"
  models:
    large: "ggml-large-v3-turbo.bin"

paths:
  staging: "data/staging"
  output: "data/output"

limits:
  max_artifact_bytes: 1048576

logging:
  level: "debug"
  format: "json"
`

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Engine.Model != "small" {
		t.Errorf("Model = %v, want %v", cfg.Engine.Model, "small")
	}
	if cfg.Paths.Staging != "data/staging" {
		t.Errorf("Staging = %v, want %v", cfg.Paths.Staging, "data/staging")
	}
	if cfg.Limits.MaxArtifactBytes != 1048576 {
		t.Errorf("MaxArtifactBytes = %d", cfg.Limits.MaxArtifactBytes)
	}
	if cfg.Whisper.Models["large"] != "ggml-large-v3-turbo.bin" {
		t.Errorf("Models[large] = %q", cfg.Whisper.Models["large"])
	}
	if cfg.Downloader.BinaryPath != "yt-dlp" {
		t.Errorf("Downloader default not applied: %q", cfg.Downloader.BinaryPath)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestLoadOptional(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadOptional() error = %v", err)
	}
	if cfg.Engine.Output != "srt" {
		t.Errorf("Output = %q, want srt", cfg.Engine.Output)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("engine: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOptional(bad); err == nil {
		t.Error("LoadOptional() should fail on malformed YAML")
	}
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("SUBTITLER_TEST_KEY=secret\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SUBTITLER_TEST_KEY", "")
	os.Unsetenv("SUBTITLER_TEST_KEY")

	if err := LoadEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if got := APIKey("SUBTITLER_TEST_KEY"); got != "secret" {
		t.Errorf("APIKey() = %q, want secret", got)
	}
}

func TestAPIKeys(t *testing.T) {
	t.Setenv("SUBTITLER_TEST_KEYS", " k1, ,k2,")
	got := APIKeys("SUBTITLER_TEST_KEYS")
	if len(got) != 2 || got[0] != "k1" || got[1] != "k2" {
		t.Errorf("APIKeys() = %q, want [k1 k2]", got)
	}

	t.Setenv("SUBTITLER_TEST_KEYS", "")
	if got := APIKeys("SUBTITLER_TEST_KEYS"); got != nil {
		t.Errorf("APIKeys() = %q, want nil", got)
	}
}
