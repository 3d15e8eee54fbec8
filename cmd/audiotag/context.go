package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/simonhull/audiotag"
	"github.com/simonhull/audiotag/internal/config"
	"github.com/simonhull/audiotag/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	logger     *slog.Logger
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && *c.logLevelFlag != "" {
			cfg.LogLevel = *c.logLevelFlag
		}
		logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
		if err != nil {
			c.configErr = err
			return
		}
		c.config, c.configPath, c.configSeen, c.logger = cfg, resolved, exists, logger
	})
	return c.config, c.configErr
}

// open reads path with the configured options.
func (c *commandContext) open(path string) (*audiotag.Handle, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts := append(cfg.OpenOptions(), audiotag.WithLogger(c.logger.With(slog.String("path", path))))
	return audiotag.OpenFile(path, opts...)
}

// save writes h back to path with the configured save options.
func (c *commandContext) save(h *audiotag.Handle, path string) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if err := h.SaveFile(path, cfg.SaveOptions()...); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	c.logger.Info("saved", slog.String("path", path))
	return nil
}

// withHandle opens path, runs fn and releases the handle.
func (c *commandContext) withHandle(path string, fn func(*audiotag.Handle) error) error {
	h, err := c.open(path)
	if err != nil {
		return err
	}
	defer h.Release() //nolint:errcheck // first release of a live handle cannot fail
	return fn(h)
}

func requireFiles(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%s: at least one file is required", cmd.CommandPath())
	}
	return nil
}
