package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/textutil"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcript"
)

// Resolve stages a URL download or an uploaded file.
func (r *implResolver) Resolve(ctx context.Context, in Input) (transcript.Artifact, error) {
	switch {
	case in.URL != "" && in.File != nil:
		return transcript.Artifact{}, fmt.Errorf("resolve: both url and file given")
	case in.URL != "":
		return r.resolveURL(ctx, in.URL)
	case in.File != nil:
		return r.resolveFile(ctx, in.File)
	default:
		return transcript.Artifact{}, fmt.Errorf("resolve: no input given")
	}
}

func (r *implResolver) resolveURL(ctx context.Context, url string) (transcript.Artifact, error) {
	if err := os.MkdirAll(r.cfg.StagingDir, 0755); err != nil {
		return transcript.Artifact{}, fmt.Errorf("create staging dir: %w", err)
	}

	// Download into a private directory so a concurrent run with the same
	// title never sees a half-written file.
	tmpDir, err := os.MkdirTemp(r.cfg.StagingDir, ".download-*")
	if err != nil {
		return transcript.Artifact{}, fmt.Errorf("create download dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	r.logger.Info(ctx, "Downloading audio: %s", url)
	path, title, err := r.downloader.Download(ctx, url, tmpDir)
	if err != nil {
		return transcript.Artifact{}, fmt.Errorf("%w: %v", transcript.ErrDownloadFailure, err)
	}
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	dest := r.stagedPath(title, filepath.Ext(path))
	if err := r.locks.acquire(ctx, dest); err != nil {
		return transcript.Artifact{}, fmt.Errorf("lock title %q: %w", title, err)
	}

	if err := os.Rename(path, dest); err != nil {
		r.locks.release(dest)
		return transcript.Artifact{}, fmt.Errorf("stage download: %w", err)
	}

	return r.finish(ctx, dest, title)
}

func (r *implResolver) resolveFile(ctx context.Context, blob *FileBlob) (transcript.Artifact, error) {
	name := filepath.Base(blob.Name)
	if !IsSupported(name) {
		return transcript.Artifact{}, fmt.Errorf("%w: %q (accepted: %s)",
			transcript.ErrUnsupportedFormat, name, strings.Join(AcceptedExtensions, ", "))
	}
	if blob.Body == nil {
		return transcript.Artifact{}, fmt.Errorf("resolve: file %q has no body", name)
	}

	if err := os.MkdirAll(r.cfg.StagingDir, 0755); err != nil {
		return transcript.Artifact{}, fmt.Errorf("create staging dir: %w", err)
	}

	ext := filepath.Ext(name)
	title := strings.TrimSuffix(name, ext)
	dest := r.stagedPath(title, ext)

	if err := r.locks.acquire(ctx, dest); err != nil {
		return transcript.Artifact{}, fmt.Errorf("lock title %q: %w", title, err)
	}

	if err := r.writeStaged(blob.Body, dest); err != nil {
		r.locks.release(dest)
		return transcript.Artifact{}, err
	}

	return r.finish(ctx, dest, title)
}

// writeStaged copies body to dest through a temp file so a failed copy
// never leaves a truncated artifact. At most MaxBytes+1 bytes are copied;
// that is enough for the size check to fail.
func (r *implResolver) writeStaged(body io.Reader, dest string) error {
	tmp, err := os.CreateTemp(r.cfg.StagingDir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create staging file: %w", err)
	}
	tmpName := tmp.Name()

	src := body
	if r.cfg.MaxBytes > 0 {
		src = io.LimitReader(body, r.cfg.MaxBytes+1)
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write staging file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close staging file: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("stage upload: %w", err)
	}
	return nil
}

// finish runs the post-hoc size check on the staged file. An oversized
// artifact is deleted before the error is returned.
func (r *implResolver) finish(ctx context.Context, dest, title string) (transcript.Artifact, error) {
	info, err := os.Stat(dest)
	if err != nil {
		r.locks.release(dest)
		return transcript.Artifact{}, fmt.Errorf("stat staged file: %w", err)
	}

	if r.cfg.MaxBytes > 0 && info.Size() > r.cfg.MaxBytes {
		if err := os.Remove(dest); err != nil {
			r.logger.Warn(ctx, "Failed to remove oversized file %s: %v", dest, err)
		}
		r.locks.release(dest)
		return transcript.Artifact{}, fmt.Errorf("%w: %s exceeds the %s limit",
			transcript.ErrSizeLimitExceeded, title, humanize.IBytes(uint64(r.cfg.MaxBytes)))
	}

	r.logger.Info(ctx, "Staged %q at %s (%s)", title, dest, humanize.Bytes(uint64(info.Size())))
	return transcript.Artifact{
		Path:  dest,
		Title: title,
		Size:  info.Size(),
	}, nil
}

// Release deletes the staged file unless artifacts are kept, then unlocks the title.
func (r *implResolver) Release(ctx context.Context, artifact transcript.Artifact) error {
	var errs []error
	if !r.cfg.KeepArtifacts {
		if err := os.Remove(artifact.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove staged file: %w", err))
		} else {
			r.logger.Debug(ctx, "Removed staged file: %s", artifact.Path)
		}
	}
	if err := r.locks.release(artifact.Path); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (r *implResolver) stagedPath(title, ext string) string {
	return filepath.Join(r.cfg.StagingDir, textutil.SanitizeFileName(title)+strings.ToLower(ext))
}
