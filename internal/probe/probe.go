package probe

import (
	"context"
	"runtime"
	"strings"

	"github.com/jaypipes/ghw"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/config"
)

// Vendors whose cards the recognizers can offload to.
var acceleratedVendors = []string{"nvidia", "advanced micro devices", "amd"}

// Accelerated answers once per process; hardware does not change mid-run.
func (p *implProber) Accelerated(ctx context.Context) bool {
	switch p.mode {
	case config.PrecisionFP16:
		return true
	case config.PrecisionFP32:
		return false
	}

	p.once.Do(func() {
		name, ok := p.detect()
		p.result = ok
		if ok {
			p.logger.Info(ctx, "Accelerator detected: %s (reduced precision enabled)", name)
		} else {
			p.logger.Info(ctx, "No accelerator detected, using full precision")
		}
	})
	return p.result
}

// detectGPU returns the first usable accelerator. Apple silicon always
// has Metal available.
func detectGPU() (string, bool) {
	if runtime.GOOS == "darwin" && runtime.GOARCH == "arm64" {
		return "Apple silicon (Metal)", true
	}

	info, err := ghw.GPU()
	if err != nil || info == nil {
		return "", false
	}
	for _, card := range info.GraphicsCards {
		if card == nil || card.DeviceInfo == nil || card.DeviceInfo.Vendor == nil {
			continue
		}
		vendor := strings.ToLower(card.DeviceInfo.Vendor.Name)
		for _, v := range acceleratedVendors {
			if strings.Contains(vendor, v) {
				name := card.DeviceInfo.Vendor.Name
				if card.DeviceInfo.Product != nil {
					name += " " + card.DeviceInfo.Product.Name
				}
				return name, true
			}
		}
	}
	return "", false
}
