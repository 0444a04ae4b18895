package resolver

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/whisper-subtitler/pkg/executor"
)

// YTDLPConfig configures the yt-dlp downloader.
type YTDLPConfig struct {
	BinaryPath   string
	AudioFormat  string
	AudioQuality string
}

type ytdlpDownloader struct {
	cfg      YTDLPConfig
	executor executor.Executor
}

// NewYTDLP creates a Downloader that shells out to yt-dlp.
func NewYTDLP(cfg YTDLPConfig, exec executor.Executor) Downloader {
	return &ytdlpDownloader{cfg: cfg, executor: exec}
}

// Download extracts the best audio stream of url into dir and reports the
// final file path and the video title.
func (d *ytdlpDownloader) Download(ctx context.Context, url, dir string) (string, string, error) {
	// -f: best audio, falling back to best combined stream
	// -x: extract audio with ffmpeg
	// --print after_move: report title and final path once post-processing is done
	args := []string{
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", d.cfg.AudioFormat,
		"--audio-quality", d.cfg.AudioQuality,
		"--no-playlist",
		"--quiet",
		"--no-warnings",
		"--no-simulate",
		"-o", filepath.Join(dir, "%(title)s.%(ext)s"),
		"--print", "after_move:%(title)s\t%(filepath)s",
		url,
	}

	// Run inside dir so fragments and .part files stay in the private download dir.
	out, err := d.executor.ExecuteInDir(ctx, dir, d.cfg.BinaryPath, args...)
	if err != nil {
		return "", "", fmt.Errorf("yt-dlp: %w", err)
	}

	return parseYTDLPOutput(out)
}

// parseYTDLPOutput reads the last "title<TAB>path" line printed by yt-dlp.
func parseYTDLPOutput(out string) (string, string, error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		title, path, ok := strings.Cut(line, "\t")
		if !ok || path == "" {
			break
		}
		return path, title, nil
	}
	return "", "", fmt.Errorf("yt-dlp: no output file reported")
}
