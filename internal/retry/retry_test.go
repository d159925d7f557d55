package retry

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(3), testLogger(), "op", func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(5), testLogger(), "op", func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsBudget(t *testing.T) {
	last := errors.New("still broken")
	calls := 0
	err := Do(context.Background(), fastConfig(3), testLogger(), "reserve", func() error {
		calls++
		return last
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, last)
	assert.Contains(t, err.Error(), "reserve: after 3 attempts")
}

func TestDo_SessionRefreshConsumesAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(3), testLogger(), "op", func() error {
		calls++
		if calls == 1 {
			return ErrSessionRefreshed
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, fastConfig(3), testLogger(), "op", func() error {
		calls++
		return errors.New("transient")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestCalculateBackoff_DoublesAndCaps(t *testing.T) {
	cfg := Config{
		InitialBackoff: time.Second,
		MaxBackoff:     5 * time.Second,
	}

	assert.Equal(t, time.Second, calculateBackoff(cfg, 1))
	assert.Equal(t, 2*time.Second, calculateBackoff(cfg, 2))
	assert.Equal(t, 4*time.Second, calculateBackoff(cfg, 3))
	assert.Equal(t, 5*time.Second, calculateBackoff(cfg, 4))
}
