package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/whisper-subtitler/internal/config"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/logger"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/probe"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/processor"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/recognizer"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/resolver"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/serializer"
	"github.com/nguyentantai21042004/whisper-subtitler/internal/transcriber"
	"github.com/nguyentantai21042004/whisper-subtitler/pkg/executor"
)

type commandContext struct {
	configFlag *string
	envFlag    *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
	logger     logger.Logger
}

func newCommandContext(configFlag, envFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		envFlag:    envFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if err := config.LoadEnv(strings.TrimSpace(*c.envFlag)); err != nil {
			c.configErr = err
			return
		}
		cfg, err := config.LoadOptional(strings.TrimSpace(*c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = logger.New(cfg.Logging.Level, logger.WithFormat(cfg.Logging.Format))
	})
	return c.config, c.configErr
}

// newProcessor wires one pipeline from the loaded configuration. A nil
// observer reports model load and inference to the log.
func (c *commandContext) newProcessor(obs transcriber.Observer) (processor.Processor, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	log := c.logger
	exec := executor.New()

	dl := resolver.NewYTDLP(resolver.YTDLPConfig{
		BinaryPath:   cfg.Downloader.BinaryPath,
		AudioFormat:  cfg.Downloader.AudioFormat,
		AudioQuality: cfg.Downloader.AudioQuality,
	}, exec)
	res := resolver.New(resolver.Config{
		StagingDir:    cfg.Paths.Staging,
		MaxBytes:      cfg.Limits.MaxArtifactBytes,
		KeepArtifacts: cfg.Limits.KeepArtifacts,
	}, dl, log)

	rec, err := recognizer.New(cfg, exec, log)
	if err != nil {
		return nil, err
	}
	tr := transcriber.New(transcriber.Config{
		MaxBytes: cfg.Limits.MaxArtifactBytes,
		Observer: obs,
	}, rec, probe.New(cfg.Engine.Precision, log), log)

	ser := serializer.New("", log)

	return processor.New(processor.Config{OutputDir: cfg.Paths.Output}, res, tr, ser, log), nil
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
