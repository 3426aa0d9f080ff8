package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"spool/internal/catalog"
	"spool/internal/config"
	"spool/internal/logging"
	"spool/internal/services"
	"spool/internal/services/llm"
	"spool/internal/services/whisper"
	"spool/internal/services/ytdlp"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	runID string
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		runID:      uuid.NewString(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the shared logger: stderr plus the pipeline log file.
// The per-invocation run ID travels on the context (runContext) and is
// attached to records by logging.WithContext at the call sites that have one.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.loggerOnce.Do(func() {
		logger, err := logging.New(logging.Options{
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			Output:  os.Stderr,
			LogFile: cfg.LogFilePath(),
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// runContext tags a command context with the run ID for downstream logging.
func (c *commandContext) runContext(ctx context.Context) context.Context {
	return services.WithRunID(ctx, c.runID)
}

func (c *commandContext) catalogStore() (*catalog.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return catalog.NewStore(cfg.Paths.CatalogFile, logger), nil
}

func (c *commandContext) ytdlpService() (*ytdlp.Service, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return ytdlp.NewService(cfg.Tools.YtDlp), nil
}

func (c *commandContext) whisperService() (*whisper.Service, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return whisper.NewService(cfg.Tools.Whisper, cfg.Transcribe.Model, cfg.Subtitles.Language), nil
}

func (c *commandContext) llmClient() (*llm.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	}), nil
}
