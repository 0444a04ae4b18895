package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/resolver"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcript"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Transcribe every media file dropped into the watch directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := ctx.logger

			opts, err := transcript.NewOptions(cfg.Engine.Model, cfg.Engine.Language, cfg.Engine.Prompt, cfg.Engine.Output)
			if err != nil {
				return err
			}

			if err := ensureDirectories(cfg.Paths.Watch, cfg.Paths.Staging, cfg.Paths.Output); err != nil {
				return err
			}

			// Progress goes to the log; concurrent spinners would interleave.
			proc, err := ctx.newProcessor(nil)
			if err != nil {
				return err
			}

			handler := func(runCtx context.Context, path string) error {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("open %s: %w", path, err)
				}
				defer f.Close()

				in := resolver.Input{File: &resolver.FileBlob{Name: filepath.Base(path), Body: f}}
				_, err = proc.Process(runCtx, in, opts)
				return err
			}

			w, err := watcher.New(cfg.Paths.Watch, resolver.IsSupported, handler, log, cfg.Performance.MaxConcurrent)
			if err != nil {
				return err
			}
			defer w.Stop()

			runCtx, stop := signalContext(cmd.Context())
			defer stop()

			log.Info(runCtx, "========================================")
			log.Info(runCtx, "Subtitler is watching %s", cfg.Paths.Watch)
			log.Info(runCtx, "System: %s/%s, %d CPU cores", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
			log.Info(runCtx, "Backend: %s, %s", cfg.Engine.Backend, opts)
			log.Info(runCtx, "Output: %s", cfg.Paths.Output)
			log.Info(runCtx, "Max concurrent: %d", cfg.Performance.MaxConcurrent)
			log.Info(runCtx, "Press Ctrl+C to stop")
			log.Info(runCtx, "========================================")

			err = w.Start(runCtx)
			if errors.Is(err, context.Canceled) {
				log.Info(context.Background(), "Subtitler stopped")
				return nil
			}
			return err
		},
	}
}
