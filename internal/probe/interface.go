package probe

import "context"

// Prober reports whether accelerated, reduced-precision inference is available.
type Prober interface {
	Accelerated(ctx context.Context) bool
}
