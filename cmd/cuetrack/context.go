package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"cuetrack/internal/config"
	"cuetrack/internal/cue"
	"cuetrack/internal/logging"
	"cuetrack/internal/sessionstore"
)

const storeLockWait = 5 * time.Second

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
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
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger(console io.Writer) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg, console)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// withStore runs fn while holding the store lock. Log records go to the
// command's stderr.
func (c *commandContext) withStore(cmd *cobra.Command, fn func(*sessionstore.Store, *slog.Logger) error) error {
	ctx := cmd.Context()
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	lock, err := sessionstore.AcquireLock(ctx, cfg.LockPath(), storeLockWait)
	if err != nil {
		if errors.Is(err, sessionstore.ErrLocked) {
			return fmt.Errorf("session store busy: %w", err)
		}
		return err
	}
	defer lock.Release()

	deprecations := cue.NewDeprecations(logger, cue.ParseWarnMode(cfg.Timeline.DeprecationWarnings))
	store, err := sessionstore.Open(cfg,
		sessionstore.WithLogger(logger),
		sessionstore.WithDeprecations(deprecations),
	)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	return fn(store, logging.NewComponentLogger(logger, "cli"))
}

// sessionScope tags the context and logger with the session id so every
// record about the session carries it.
func sessionScope(ctx context.Context, logger *slog.Logger, id string) (context.Context, *slog.Logger) {
	ctx = logging.WithSessionID(ctx, id)
	return ctx, logging.WithContext(ctx, logger)
}

// saveSession persists the session, logging failures with their cause.
func saveSession(ctx context.Context, store *sessionstore.Store, session *sessionstore.Session, logger *slog.Logger) error {
	if err := store.Save(ctx, session); err != nil {
		logger.Error("session save failed",
			logging.Error(err),
			logging.Any("ready_state", session.Source.ReadyState()),
		)
		return fmt.Errorf("save session: %w", err)
	}
	logger.Debug("session saved",
		logging.Int("captions", session.Captions.Len()),
		logging.Int("metadata", session.Metadata.Len()),
		logging.Float64("duration", session.Source.Duration()),
	)
	return nil
}

// loadSession loads an existing session, reporting a friendly error for
// unknown ids.
func loadSession(ctx context.Context, store *sessionstore.Store, id string) (*sessionstore.Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("--session is required")
	}
	session, err := store.Load(ctx, id)
	if errors.Is(err, sessionstore.ErrNotFound) {
		return nil, fmt.Errorf("session %s not found", id)
	}
	return session, err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
