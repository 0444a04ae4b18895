package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcriber"
)

// spinnerObserver draws one spinner per transcription step. Model load and
// inference report no fraction done, so an indeterminate bar is used.
type spinnerObserver struct {
	w io.Writer

	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	started time.Time
	stop    chan struct{}
	done    chan struct{}
}

// newProgressObserver returns a spinner observer when w is a terminal and
// nil otherwise, which makes the transcriber log the steps instead.
func newProgressObserver(w io.Writer) transcriber.Observer {
	if !isTerminal(w) {
		return nil
	}
	return &spinnerObserver{w: w}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (s *spinnerObserver) StepStarted(ctx context.Context, step transcriber.Step) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(s.w),
		progressbar.OptionSetDescription(string(step)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	s.started = time.Now()
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go func(bar *progressbar.ProgressBar, stop, done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}(s.bar, s.stop, s.done)
}

func (s *spinnerObserver) StepFinished(ctx context.Context, step transcriber.Step, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bar == nil {
		return
	}
	close(s.stop)
	<-s.done
	_ = s.bar.Finish()
	s.bar = nil

	elapsed := time.Since(s.started).Round(100 * time.Millisecond)
	if err != nil {
		fmt.Fprintf(s.w, "x %s failed after %s\n", step, elapsed)
		return
	}
	fmt.Fprintf(s.w, "ok %s (%s)\n", step, elapsed)
}
