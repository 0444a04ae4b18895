package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcript"
)

// writeOutput publishes data under name in the output directory. The bytes
// go to a temp file first and are renamed into place, so a reader never
// sees a truncated transcript and a failed run leaves the previous file
// of the same name untouched.
func (p *implProcessor) writeOutput(ctx context.Context, name string, data []byte) (string, error) {
	if err := os.MkdirAll(p.cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	destPath := filepath.Join(p.cfg.OutputDir, name)

	tmp, err := os.CreateTemp(p.cfg.OutputDir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp output: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		p.cleanupTempFile(ctx, tmpPath)
		return "", fmt.Errorf("write temp output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		p.cleanupTempFile(ctx, tmpPath)
		return "", fmt.Errorf("close temp output: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		p.cleanupTempFile(ctx, tmpPath)
		return "", fmt.Errorf("chmod output: %w", err)
	}

	p.logger.Info(ctx, "Writing output: %s", destPath)

	if err := os.Rename(tmpPath, destPath); err != nil {
		p.cleanupTempFile(ctx, tmpPath)
		return "", fmt.Errorf("move output into place: %w", err)
	}

	return destPath, nil
}

// release hands the staged artifact back to the resolver, logs warning if fails
func (p *implProcessor) release(ctx context.Context, artifact transcript.Artifact) {
	if err := p.resolver.Release(ctx, artifact); err != nil {
		p.logger.Warn(ctx, "Failed to release %s: %v", artifact.Path, err)
	} else {
		p.logger.Debug(ctx, "Released staged artifact: %s", artifact.Path)
	}
}

// cleanupTempFile removes a temporary file, logs warning if fails
func (p *implProcessor) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}
