package processor

import (
	"github.com/nguyentantai21042004/whisper-subtitler/internal/logger"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/resolver"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/serializer"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcriber"
)

type implProcessor struct {
	cfg         Config
	resolver    resolver.Resolver
	transcriber transcriber.Transcriber
	serializer  serializer.Serializer
	logger      logger.Logger
}

// New creates a new Processor instance
func New(cfg Config, res resolver.Resolver, tr transcriber.Transcriber, ser serializer.Serializer, log logger.Logger) Processor {
	return &implProcessor{
		cfg:         cfg,
		resolver:    res,
		transcriber: tr,
		serializer:  ser,
		logger:      log,
	}
}
