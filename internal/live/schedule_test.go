package live

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"quotecast/internal/config"
)

func testSchedule(t *testing.T) Schedule {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewSchedule(config.ScheduleConfig{
		AnchorHours:    []int{4, 10, 16, 22},
		UTCOffsetHours: 9,
	}, logger)
}

func TestNextSlotStart_SameDay(t *testing.T) {
	s := testSchedule(t)

	// 09:00 in the broadcast zone; the 10:00 anchor is next.
	ref := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	got := s.NextSlotStart(ref)

	want := time.Date(2025, 4, 1, 1, 0, 0, 0, time.UTC)
	assert.True(t, got.Equal(want), "got %v", got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestNextSlotStart_ExactAnchorIsInclusive(t *testing.T) {
	s := testSchedule(t)

	// Exactly on the 10:00 anchor.
	ref := time.Date(2025, 4, 1, 1, 0, 0, 0, time.UTC)
	got := s.NextSlotStart(ref)

	assert.True(t, got.Equal(ref), "got %v", got)
}

func TestNextSlotStart_RollsToNextDay(t *testing.T) {
	s := testSchedule(t)

	// 23:30 in the broadcast zone; the next anchor is 04:00 tomorrow.
	ref := time.Date(2025, 4, 1, 14, 30, 0, 0, time.UTC)
	got := s.NextSlotStart(ref)

	want := time.Date(2025, 4, 1, 19, 0, 0, 0, time.UTC)
	assert.True(t, got.Equal(want), "got %v", got)
}

func TestNextSlotStartAfter_SkipsExactAnchor(t *testing.T) {
	s := testSchedule(t)

	// On the 10:00 anchor; strictly-after must yield 16:00.
	ref := time.Date(2025, 4, 1, 1, 0, 0, 0, time.UTC)
	got := s.nextSlotStartAfter(ref)

	want := time.Date(2025, 4, 1, 7, 0, 0, 0, time.UTC)
	assert.True(t, got.Equal(want), "got %v", got)
}

func TestNextSlotStart_UnsortedAnchorsAreSorted(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s := NewSchedule(config.ScheduleConfig{
		AnchorHours:    []int{22, 4, 16, 10},
		UTCOffsetHours: 9,
	}, logger)

	ref := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	got := s.NextSlotStart(ref)

	want := time.Date(2025, 4, 1, 1, 0, 0, 0, time.UTC)
	assert.True(t, got.Equal(want), "got %v", got)
}
