package probe

import (
	"sync"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/config"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/logger"
)

type implProber struct {
	mode   string
	logger logger.Logger
	detect func() (string, bool)

	once   sync.Once
	result bool
}

// New creates a Prober. mode is one of config.PrecisionAuto, PrecisionFP16
// or PrecisionFP32; the fixed modes bypass hardware detection.
func New(mode string, log logger.Logger) Prober {
	return &implProber{
		mode:   mode,
		logger: log,
		detect: detectGPU,
	}
}

// Fixed returns a Prober that always answers the given value, skipping detection.
func Fixed(accelerated bool) Prober {
	mode := config.PrecisionFP32
	if accelerated {
		mode = config.PrecisionFP16
	}
	return &implProber{mode: mode, logger: logger.Discard()}
}
