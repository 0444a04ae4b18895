package resolver

import (
	"context"
	"io"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcript"
)

// Resolver turns a URL or an uploaded file into a staged audio artifact.
type Resolver interface {
	// Resolve stages the input and enforces the size ceiling. The returned
	// artifact's title stays locked until Release is called.
	Resolve(ctx context.Context, in Input) (transcript.Artifact, error)
	// Release removes the staged file (unless artifacts are kept) and
	// unlocks its title.
	Release(ctx context.Context, artifact transcript.Artifact) error
}

// Downloader fetches a remote media URL and extracts its audio track into dir.
type Downloader interface {
	Download(ctx context.Context, url, dir string) (path, title string, err error)
}

// Input is either a URL or an uploaded file. Exactly one must be set.
type Input struct {
	URL  string
	File *FileBlob
}

// FileBlob is an uploaded file: its original name and its bytes.
type FileBlob struct {
	Name string
	Body io.Reader
}

// Config holds the resolver's working-directory context.
type Config struct {
	StagingDir    string
	MaxBytes      int64
	KeepArtifacts bool
}
