package transcriber

import (
	"context"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/logger"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/probe"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/recognizer"
)

type implTranscriber struct {
	cfg        Config
	recognizer recognizer.Recognizer
	prober     probe.Prober
	logger     logger.Logger
}

// New creates a Transcriber. A nil cfg.Observer reports steps to the log.
func New(cfg Config, rec recognizer.Recognizer, prober probe.Prober, log logger.Logger) Transcriber {
	if cfg.Observer == nil {
		cfg.Observer = logObserver{logger: log}
	}
	return &implTranscriber{
		cfg:        cfg,
		recognizer: rec,
		prober:     prober,
		logger:     log,
	}
}

type logObserver struct {
	logger logger.Logger
}

func (o logObserver) StepStarted(ctx context.Context, step Step) {
	o.logger.Info(ctx, "Starting %s", step)
}

func (o logObserver) StepFinished(ctx context.Context, step Step, err error) {
	if err != nil {
		o.logger.Error(ctx, "Failed %s: %v", step, err)
		return
	}
	o.logger.Info(ctx, "Finished %s", step)
}
