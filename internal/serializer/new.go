package serializer

import (
	"github.com/nguyentantai21042004/whisper-subtitler/internal/logger"
)

type implSerializer struct {
	tempDir string
	logger  logger.Logger
}

// New creates a Serializer. tempDir hosts scratch files for formats that
// can only be rendered through the filesystem; "" means the OS default.
func New(tempDir string, log logger.Logger) Serializer {
	return &implSerializer{
		tempDir: tempDir,
		logger:  log,
	}
}
