package probe

import (
	"context"
	"testing"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/config"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/logger"
)

func TestFixedModes(t *testing.T) {
	ctx := context.Background()
	if !Fixed(true).Accelerated(ctx) {
		t.Error("Fixed(true) reported no acceleration")
	}
	if Fixed(false).Accelerated(ctx) {
		t.Error("Fixed(false) reported acceleration")
	}
	if !New(config.PrecisionFP16, logger.Discard()).Accelerated(ctx) {
		t.Error("fp16 mode reported no acceleration")
	}
}

func TestAutoDetectsOnce(t *testing.T) {
	calls := 0
	p := New(config.PrecisionAuto, logger.Discard()).(*implProber)
	p.detect = func() (string, bool) {
		calls++
		return "NVIDIA Tesla T4", true
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if !p.Accelerated(ctx) {
			t.Fatal("Accelerated() = false with a detected GPU")
		}
	}
	if calls != 1 {
		t.Errorf("detect called %d times, want 1", calls)
	}
}
