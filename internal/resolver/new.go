package resolver

import (
	"github.com/nguyentantai21042004/whisper-subtitler/internal/logger"
)

type implResolver struct {
	cfg        Config
	downloader Downloader
	logger     logger.Logger
	locks      *titleLocks
}

// New creates a Resolver staging files under cfg.StagingDir.
func New(cfg Config, dl Downloader, log logger.Logger) Resolver {
	return &implResolver{
		cfg:        cfg,
		downloader: dl,
		logger:     log,
		locks:      newTitleLocks(cfg.StagingDir),
	}
}
