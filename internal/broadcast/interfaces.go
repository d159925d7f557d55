package broadcast

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"quotecast/internal/domain"
)

// SlotService is the slot reservation manager plus the slot-scoped on-air
// message channel.
type SlotService interface {
	LiveState(ctx context.Context) (domain.LiveState, error)
	Reserve(ctx context.Context) error
	StartTime(ctx context.Context, slotID string) (time.Time, error)
	EndTime(ctx context.Context, slotID string) (time.Time, error)
	PostMessage(ctx context.Context, slotID, text string, permanent bool) error
}

// QuoteService controls the quotation on a slot.
type QuoteService interface {
	Current(ctx context.Context, slotID string) (string, error)
	Stop(ctx context.Context, slotID string) error
	VideoInfo(ctx context.Context, videoID string) (domain.VideoInfo, error)
	Once(ctx context.Context, slotID, videoID string) (time.Duration, error)
	Loop(ctx context.Context, slotID, videoID string) error
}

// Queue is the remote work-queue and viewer-request store.
type Queue interface {
	Dequeue(ctx context.Context) (string, error)
	Enqueue(ctx context.Context, videoID string, priority bool) error
	EnqueueBatch(ctx context.Context, videoIDs []string) error
	TakeRequests(ctx context.Context) ([]string, error)
}

// Selector picks content when the queue runs dry.
type Selector interface {
	FromRequests(requests []string, n int) []string
	Random(ctx context.Context, tags []string) (string, error)
}

// Clock provides now and wall-clock waits.
type Clock interface {
	Now() time.Time
	WaitUntil(ctx context.Context, t time.Time) error
}
