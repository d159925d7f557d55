package alert

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingSink struct {
	levels   []string
	loggers  []string
	messages []string
}

func (s *recordingSink) Publish(ctx context.Context, level, logger, message string) error {
	s.levels = append(s.levels, level)
	s.loggers = append(s.loggers, logger)
	s.messages = append(s.messages, message)
	return nil
}

func TestMirrorHandler_MirrorsWarningsAndAbove(t *testing.T) {
	sink := &recordingSink{}
	var buf bytes.Buffer
	inner := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(NewMirrorHandler(inner, sink, slog.LevelWarn))

	logger.Info("just info")
	logger.Warn("something off")
	logger.Error("something broken")

	assert.Equal(t, []string{"WARN", "ERROR"}, sink.levels)
	assert.Equal(t, []string{"something off", "something broken"}, sink.messages)
	assert.Contains(t, buf.String(), "just info")
}

func TestMirrorHandler_MirrorsEvenWhenInnerFilters(t *testing.T) {
	sink := &recordingSink{}
	var buf bytes.Buffer
	inner := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError})
	logger := slog.New(NewMirrorHandler(inner, sink, slog.LevelWarn))

	logger.Warn("operator should hear this")

	assert.Equal(t, []string{"WARN"}, sink.levels)
	assert.NotContains(t, buf.String(), "operator should hear this")
}

func TestMirrorHandler_WithAttrsKeepsMirroring(t *testing.T) {
	sink := &recordingSink{}
	inner := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(NewMirrorHandler(inner, sink, slog.LevelWarn)).With("component", "live")

	logger.Warn("scoped warning")

	assert.Equal(t, []string{"scoped warning"}, sink.messages)
	assert.Equal(t, []string{"live"}, sink.loggers)
}
