package recognizer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/audio"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/logger"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcript"
	"github.com/nguyentantai21042004/whisper-subtitler/pkg/executor"
)

// WhisperCPPConfig configures the whisper.cpp command-line backend.
type WhisperCPPConfig struct {
	BinaryPath string
	ModelsDir  string
	// Models overrides the ggml file name per model size.
	Models     map[string]string
	Threads    int
	FFmpegPath string
}

// defaultGGML maps model sizes to the file names published by whisper.cpp.
var defaultGGML = map[transcript.ModelSize]string{
	transcript.ModelTiny:   "ggml-tiny.bin",
	transcript.ModelBase:   "ggml-base.bin",
	transcript.ModelSmall:  "ggml-small.bin",
	transcript.ModelMedium: "ggml-medium.bin",
	transcript.ModelLarge:  "ggml-large-v3.bin",
}

type whisperCPP struct {
	cfg      WhisperCPPConfig
	executor executor.Executor
	logger   logger.Logger
	lookPath func(string) (string, error)
}

// NewWhisperCPP creates a Recognizer that runs whisper.cpp's CLI.
func NewWhisperCPP(cfg WhisperCPPConfig, exec executor.Executor, log logger.Logger) Recognizer {
	return &whisperCPP{
		cfg:      cfg,
		executor: exec,
		logger:   log,
		lookPath: lookPath,
	}
}

func lookPath(file string) (string, error) { return exec.LookPath(file) }

func (w *whisperCPP) Name() string { return "whisper.cpp" }

func (w *whisperCPP) modelPath(size transcript.ModelSize) string {
	name := defaultGGML[size]
	if override := w.cfg.Models[string(size)]; override != "" {
		name = override
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(w.cfg.ModelsDir, name)
}

// Load checks the binary and model weights are present. whisper.cpp maps
// the weights itself on every invocation.
func (w *whisperCPP) Load(ctx context.Context, size transcript.ModelSize) (Model, error) {
	if _, err := w.lookPath(w.cfg.BinaryPath); err != nil {
		return nil, fmt.Errorf("%w: whisper binary %q: %v", transcript.ErrModelLoadFailure, w.cfg.BinaryPath, err)
	}

	path := w.modelPath(size)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: model %s: %v", transcript.ErrModelLoadFailure, size, err)
	}
	if info.IsDir() || info.Size() == 0 {
		return nil, fmt.Errorf("%w: model %s: %s is not a weights file", transcript.ErrModelLoadFailure, size, path)
	}

	w.logger.Debug(ctx, "whisper.cpp model %s at %s", size, path)
	return &whisperCPPModel{parent: w, modelPath: path}, nil
}

type whisperCPPModel struct {
	parent    *whisperCPP
	modelPath string
}

func (m *whisperCPPModel) Close() error { return nil }

func (m *whisperCPPModel) Transcribe(ctx context.Context, req Request) (transcript.Result, error) {
	w := m.parent

	workDir, err := os.MkdirTemp("", "whispercpp-*")
	if err != nil {
		return transcript.Result{}, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	wavPath, err := m.extractAudio(ctx, req.AudioPath, workDir)
	if err != nil {
		return transcript.Result{}, fmt.Errorf("%w: %v", transcript.ErrInferenceFailure, err)
	}

	outputPrefix := filepath.Join(workDir, "transcript")
	lang := req.Language
	if lang == "" {
		lang = "auto"
	}

	// -oj: JSON output with millisecond offsets per segment
	// -of: output file prefix (whisper appends .json)
	// -ng: keep inference on the CPU at full precision
	args := []string{
		"-m", m.modelPath,
		"-f", wavPath,
		"-oj",
		"-of", outputPrefix,
		"-l", lang,
		"-t", strconv.Itoa(w.cfg.Threads),
	}
	if req.Prompt != "" {
		args = append(args, "--prompt", req.Prompt)
	}
	if !req.ReducedPrecision {
		args = append(args, "-ng")
	}

	w.logger.Info(ctx, "Starting whisper.cpp with %d threads: %s", w.cfg.Threads, req.AudioPath)
	if _, err := w.executor.Execute(ctx, w.cfg.BinaryPath, args...); err != nil {
		return transcript.Result{}, fmt.Errorf("%w: whisper transcribe: %v", transcript.ErrInferenceFailure, err)
	}

	data, err := os.ReadFile(outputPrefix + ".json")
	if err != nil {
		return transcript.Result{}, fmt.Errorf("%w: read whisper output: %v", transcript.ErrInferenceFailure, err)
	}
	return parseWhisperCPPJSON(data)
}

// extractAudio converts the artifact to the 16kHz mono PCM WAV whisper.cpp expects.
func (m *whisperCPPModel) extractAudio(ctx context.Context, src, workDir string) (string, error) {
	w := m.parent
	wavPath := filepath.Join(workDir, "audio.wav")

	// -vn: drop video, -ar 16000 -ac 1: 16kHz mono, pcm_s16le: 16-bit PCM
	args := []string{
		"-i", src,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		wavPath,
	}
	if _, err := w.executor.Execute(ctx, w.cfg.FFmpegPath, args...); err != nil {
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}
	if err := audio.CheckPCM(wavPath); err != nil {
		return "", fmt.Errorf("decoded audio: %w", err)
	}
	return wavPath, nil
}

type whisperCPPOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// parseWhisperCPPJSON converts whisper.cpp's -oj output. The full text is
// the concatenation of the raw segment texts, which is what whisper prints.
func parseWhisperCPPJSON(data []byte) (transcript.Result, error) {
	var out whisperCPPOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return transcript.Result{}, fmt.Errorf("%w: parse whisper output: %v", transcript.ErrInferenceFailure, err)
	}

	result := transcript.Result{Language: out.Result.Language}
	var text strings.Builder
	for _, seg := range out.Transcription {
		result.Segments = append(result.Segments, transcript.Segment{
			Start: float64(seg.Offsets.From) / 1000,
			End:   float64(seg.Offsets.To) / 1000,
			Text:  seg.Text,
		})
		text.WriteString(seg.Text)
	}
	result.Text = text.String()
	return result, nil
}
