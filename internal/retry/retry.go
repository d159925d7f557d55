package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrSessionRefreshed signals that a platform call observed an expired
// session, refreshed it, and needs the whole enclosing operation re-driven
// so the fresh credential is actually used.
var ErrSessionRefreshed = errors.New("session refreshed")

// Config bounds one retried operation.
type Config struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 5
	}
	if c.InitialBackoff == 0 {
		c.InitialBackoff = 1 * time.Second
	}
	if c.MaxBackoff == 0 {
		c.MaxBackoff = 5 * time.Minute
	}
	return c
}

// Do runs op until it returns nil or the attempt budget is exhausted,
// sleeping an exponentially growing backoff between attempts. A session
// refresh is retried like any other failure; the distinction only matters
// for logging.
func Do(ctx context.Context, cfg Config, logger *slog.Logger, name string, op func() error) error {
	cfg = cfg.withDefaults()

	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err = op()
		if err == nil {
			return nil
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		backoff := calculateBackoff(cfg, attempt)
		if errors.Is(err, ErrSessionRefreshed) {
			logger.Info("session refreshed, re-driving operation",
				"op", name,
				"attempt", attempt,
				"backoff", backoff,
			)
		} else {
			logger.Warn("operation failed, retrying",
				"op", name,
				"attempt", attempt,
				"backoff", backoff,
				"error", err,
			)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("%s: after %d attempts: %w", name, cfg.MaxAttempts, err)
}

func calculateBackoff(cfg Config, attempt int) time.Duration {
	backoff := cfg.InitialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > cfg.MaxBackoff {
		backoff = cfg.MaxBackoff
	}
	return backoff
}
