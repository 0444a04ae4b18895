package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/config"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/resolver"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcript"
)

type transcribeFlags struct {
	model    string
	language string
	prompt   string
	format   string
	backend  string
	keep     bool
}

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var flags transcribeFlags

	cmd := &cobra.Command{
		Use:   "transcribe <url|file>",
		Short: "Transcribe one video URL or local media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyTranscribeFlags(cmd, cfg, flags); err != nil {
				return err
			}

			opts, err := transcript.NewOptions(cfg.Engine.Model, cfg.Engine.Language, cfg.Engine.Prompt, cfg.Engine.Output)
			if err != nil {
				return err
			}

			in, closeInput, err := inputFromArg(args[0])
			if err != nil {
				return err
			}
			defer closeInput()

			obs := newProgressObserver(cmd.ErrOrStderr())
			proc, err := ctx.newProcessor(obs)
			if err != nil {
				return err
			}

			runCtx, stop := signalContext(cmd.Context())
			defer stop()

			out, err := proc.Process(runCtx, in, opts)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.model, "model", "m", "", "Model size: tiny, base, small, medium or large")
	cmd.Flags().StringVarP(&flags.language, "language", "l", "", "ISO 639-1 language code, or auto")
	cmd.Flags().StringVarP(&flags.prompt, "prompt", "p", "", "Priming text (vocabulary, names)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "Output kind: txt, srt or docx")
	cmd.Flags().StringVarP(&flags.backend, "backend", "b", "", "Recognizer: whispercpp, openai or gemini")
	cmd.Flags().BoolVar(&flags.keep, "keep-audio", false, "Keep the staged audio after the run")

	return cmd
}

// applyTranscribeFlags overrides config defaults with the flags the user set.
func applyTranscribeFlags(cmd *cobra.Command, cfg *config.Config, flags transcribeFlags) error {
	changed := cmd.Flags().Changed
	if changed("model") {
		cfg.Engine.Model = flags.model
	}
	if changed("language") {
		cfg.Engine.Language = flags.language
	}
	if changed("prompt") {
		cfg.Engine.Prompt = flags.prompt
	}
	if changed("format") {
		cfg.Engine.Output = flags.format
	}
	if changed("keep-audio") {
		cfg.Limits.KeepArtifacts = flags.keep
	}
	if changed("backend") {
		cfg.Engine.Backend = flags.backend
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// inputFromArg treats http(s) arguments as URLs and anything else as a
// local file to upload into staging.
func inputFromArg(arg string) (resolver.Input, func(), error) {
	noop := func() {}
	lower := strings.ToLower(arg)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return resolver.Input{URL: arg}, noop, nil
	}

	// Check the extension before touching the file.
	if !resolver.IsSupported(arg) {
		return resolver.Input{}, noop, fmt.Errorf("%w: %q (accepted: %s)",
			transcript.ErrUnsupportedFormat, filepath.Base(arg), strings.Join(resolver.AcceptedExtensions, ", "))
	}

	f, err := os.Open(arg)
	if err != nil {
		return resolver.Input{}, noop, fmt.Errorf("open input: %w", err)
	}
	in := resolver.Input{File: &resolver.FileBlob{Name: filepath.Base(arg), Body: f}}
	return in, func() { f.Close() }, nil
}
