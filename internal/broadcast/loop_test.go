package broadcast

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"quotecast/internal/broadcast/mocks"
	"quotecast/internal/config"
	"quotecast/internal/domain"
)

type LoopTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	slots    *mocks.MockSlotService
	quotes   *mocks.MockQuoteService
	queue    *mocks.MockQueue
	selector *mocks.MockSelector
	clock    *mocks.MockClock

	loop *Loop
	cfg  config.BroadcastConfig
}

func (s *LoopTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.slots = mocks.NewMockSlotService(s.ctrl)
	s.quotes = mocks.NewMockQuoteService(s.ctrl)
	s.queue = mocks.NewMockQueue(s.ctrl)
	s.selector = mocks.NewMockSelector(s.ctrl)
	s.clock = mocks.NewMockClock(s.ctrl)

	s.cfg = config.BroadcastConfig{
		Tags:             []string{"music"},
		RequestTags:      []string{"requests"},
		ApologyMessage:   "sorry",
		ClosingMessage:   "bye",
		MaintenanceVideo: "sm17759202",
		ClosingVideo:     "sm17572946",
		SafetyMargin:     time.Minute,
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.loop = NewLoop(s.cfg, 5, s.slots, s.quotes, s.queue, s.selector, s.clock, logger)
}

func (s *LoopTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestLoopTestSuite(t *testing.T) {
	suite.Run(t, new(LoopTestSuite))
}

// Bootstrap scenario: no slots at all, then a next slot that has not
// begun, then a current slot without a next one, then steady state.
func (s *LoopTestSuite) TestReconcileSlots_Bootstrap() {
	ctx := context.Background()
	begin := time.Date(2025, 4, 1, 19, 0, 0, 0, time.UTC)

	// Round 1: nothing on air and nothing reserved.
	s.slots.EXPECT().LiveState(ctx).Return(domain.LiveState{}, nil)
	s.slots.EXPECT().Reserve(ctx).Return(nil)
	s.slots.EXPECT().LiveState(ctx).Return(domain.LiveState{NextID: "lv200"}, nil)

	s.loop.state = stateReconcileSlots
	next, err := s.loop.step(ctx)
	s.NoError(err)
	s.Equal(stateReconcileSlots, next)

	// Round 2: the reserved slot exists but has not begun.
	s.slots.EXPECT().LiveState(ctx).Return(domain.LiveState{NextID: "lv200"}, nil)
	s.slots.EXPECT().StartTime(ctx, "lv200").Return(begin, nil)
	s.clock.EXPECT().WaitUntil(ctx, begin).Return(nil)

	next, err = s.loop.step(ctx)
	s.NoError(err)
	s.Equal(stateReconcileSlots, next)

	// Round 3: on air with no next slot; reserve it and proceed.
	s.slots.EXPECT().LiveState(ctx).Return(domain.LiveState{CurrentID: "lv200"}, nil)
	s.slots.EXPECT().Reserve(ctx).Return(nil)
	s.slots.EXPECT().LiveState(ctx).Return(domain.LiveState{CurrentID: "lv200", NextID: "lv201"}, nil)

	next, err = s.loop.step(ctx)
	s.NoError(err)
	s.Equal(stateReconcileQuote, next)
	s.Equal("lv200", s.loop.currentID)
	s.Equal("lv201", s.loop.nextID)
}

func (s *LoopTestSuite) TestReconcileSlots_FatalWhenReservationNotAcknowledged() {
	ctx := context.Background()

	s.slots.EXPECT().LiveState(ctx).Return(domain.LiveState{}, nil)
	s.slots.EXPECT().Reserve(ctx).Return(nil)
	s.slots.EXPECT().LiveState(ctx).Return(domain.LiveState{}, nil)

	s.loop.state = stateReconcileSlots
	_, err := s.loop.step(ctx)
	s.ErrorIs(err, ErrNoSlotAfterReserve)
}

func (s *LoopTestSuite) TestReconcileQuote_NothingQuoted() {
	ctx := context.Background()
	end := time.Date(2025, 4, 1, 22, 0, 0, 0, time.UTC)
	s.loop.currentID = "lv200"
	s.loop.nextID = "lv201"

	s.slots.EXPECT().EndTime(ctx, "lv200").Return(end, nil)
	s.quotes.EXPECT().Current(ctx, "lv200").Return("", nil)

	s.loop.state = stateReconcileQuote
	next, err := s.loop.step(ctx)
	s.NoError(err)
	s.Equal(stateContent, next)
}

func (s *LoopTestSuite) TestReconcileQuote_StuckMaintenanceFiller() {
	ctx := context.Background()
	end := time.Date(2025, 4, 1, 22, 0, 0, 0, time.UTC)
	s.loop.currentID = "lv200"
	s.loop.nextID = "lv201"

	s.slots.EXPECT().EndTime(ctx, "lv200").Return(end, nil)
	s.quotes.EXPECT().Current(ctx, "lv200").Return("sm17759202", nil)
	s.quotes.EXPECT().Stop(ctx, "lv200").Return(nil)
	s.quotes.EXPECT().Once(ctx, "lv200", "sm17759202").Return(3*time.Minute, nil)

	s.loop.state = stateReconcileQuote
	next, err := s.loop.step(ctx)
	s.NoError(err)
	s.Equal(stateContent, next)
}

func (s *LoopTestSuite) TestReconcileQuote_ClosingFillerFromPreviousRun() {
	ctx := context.Background()
	end := time.Date(2025, 4, 1, 22, 0, 0, 0, time.UTC)
	nextBegin := end.Add(time.Hour)
	s.loop.currentID = "lv200"
	s.loop.nextID = "lv201"

	s.slots.EXPECT().EndTime(ctx, "lv200").Return(end, nil)
	s.quotes.EXPECT().Current(ctx, "lv200").Return("sm17572946", nil)
	s.slots.EXPECT().StartTime(ctx, "lv201").Return(nextBegin, nil)
	s.clock.EXPECT().WaitUntil(ctx, end).Return(nil)
	s.slots.EXPECT().Reserve(ctx).Return(nil)
	s.clock.EXPECT().WaitUntil(ctx, nextBegin).Return(nil)

	s.loop.state = stateReconcileQuote
	next, err := s.loop.step(ctx)
	s.NoError(err)
	s.Equal(stateReconcileSlots, next)
}

func (s *LoopTestSuite) TestReconcileQuote_CrashRecovery() {
	ctx := context.Background()
	end := time.Date(2025, 4, 1, 22, 0, 0, 0, time.UTC)
	now := end.Add(-3 * time.Hour)
	span := 2 * time.Minute
	s.loop.currentID = "lv200"
	s.loop.nextID = "lv201"

	s.slots.EXPECT().EndTime(ctx, "lv200").Return(end, nil)
	s.quotes.EXPECT().Current(ctx, "lv200").Return("sm9", nil)
	s.quotes.EXPECT().Stop(ctx, "lv200").Return(nil)
	s.quotes.EXPECT().Once(ctx, "lv200", "sm17759202").Return(span, nil)
	s.slots.EXPECT().PostMessage(ctx, "lv200", "sorry", false).Return(nil)
	s.clock.EXPECT().Now().Return(now)
	s.clock.EXPECT().WaitUntil(ctx, now.Add(span)).Return(nil)

	s.loop.state = stateReconcileQuote
	next, err := s.loop.step(ctx)
	s.NoError(err)
	s.Equal(stateContent, next)
}

// A candidate finishing inside the safety margin must trigger the
// slot-ending path instead of being quoted.
func (s *LoopTestSuite) TestContent_CandidateInsideSafetyMargin() {
	ctx := context.Background()
	end := time.Date(2025, 4, 1, 22, 0, 0, 0, time.UTC)
	length := 5 * time.Minute
	// The candidate would finish 30 seconds before slot end.
	now := end.Add(-length).Add(-30 * time.Second)
	s.loop.currentID = "lv200"

	s.queue.EXPECT().Dequeue(ctx).Return("sm100", nil)
	s.slots.EXPECT().EndTime(ctx, "lv200").Return(end, nil)
	s.quotes.EXPECT().VideoInfo(ctx, "sm100").Return(domain.VideoInfo{Quotable: true, Length: length, Caption: "a / sm100"}, nil)
	s.clock.EXPECT().Now().Return(now)
	s.queue.EXPECT().Enqueue(ctx, "sm100", true).Return(nil)
	s.quotes.EXPECT().Loop(ctx, "lv200", "sm17572946").Return(nil)
	s.slots.EXPECT().PostMessage(ctx, "lv200", "bye", true).Return(nil)
	s.clock.EXPECT().WaitUntil(ctx, end).Return(nil)

	s.loop.state = stateContent
	next, err := s.loop.step(ctx)
	s.NoError(err)
	s.Equal(stateSlotEnd, next)
}

func (s *LoopTestSuite) TestContent_QuotesThenEndsSlot() {
	ctx := context.Background()
	end := time.Date(2025, 4, 1, 22, 0, 0, 0, time.UTC)
	length := 5 * time.Minute
	now := end.Add(-4 * time.Hour)
	s.loop.currentID = "lv200"

	// First pick fits and is quoted.
	s.queue.EXPECT().Dequeue(ctx).Return("sm100", nil)
	s.slots.EXPECT().EndTime(ctx, "lv200").Return(end, nil)
	s.quotes.EXPECT().VideoInfo(ctx, "sm100").Return(domain.VideoInfo{Quotable: true, Length: length, Caption: "a / sm100"}, nil)
	s.clock.EXPECT().Now().Return(now)
	s.quotes.EXPECT().Once(ctx, "lv200", "sm100").Return(length, nil)
	s.slots.EXPECT().PostMessage(ctx, "lv200", "a / sm100", false).Return(nil)
	s.clock.EXPECT().Now().Return(now)
	s.clock.EXPECT().WaitUntil(ctx, now.Add(length)).Return(nil)

	// Second pick no longer fits; the slot winds down.
	lateNow := end.Add(-length).Add(-30 * time.Second)
	s.queue.EXPECT().Dequeue(ctx).Return("sm101", nil)
	s.slots.EXPECT().EndTime(ctx, "lv200").Return(end, nil)
	s.quotes.EXPECT().VideoInfo(ctx, "sm101").Return(domain.VideoInfo{Quotable: true, Length: length, Caption: "b / sm101"}, nil)
	s.clock.EXPECT().Now().Return(lateNow)
	s.queue.EXPECT().Enqueue(ctx, "sm101", true).Return(nil)
	s.quotes.EXPECT().Loop(ctx, "lv200", "sm17572946").Return(nil)
	s.slots.EXPECT().PostMessage(ctx, "lv200", "bye", true).Return(nil)
	s.clock.EXPECT().WaitUntil(ctx, end).Return(nil)

	s.loop.state = stateContent
	next, err := s.loop.step(ctx)
	s.NoError(err)
	s.Equal(stateSlotEnd, next)
}

func (s *LoopTestSuite) TestContent_UnquotableQueuedVideoIsFatal() {
	ctx := context.Background()
	end := time.Date(2025, 4, 1, 22, 0, 0, 0, time.UTC)
	s.loop.currentID = "lv200"

	s.queue.EXPECT().Dequeue(ctx).Return("sm666", nil)
	s.slots.EXPECT().EndTime(ctx, "lv200").Return(end, nil)
	s.quotes.EXPECT().VideoInfo(ctx, "sm666").Return(domain.VideoInfo{Quotable: false}, nil)

	s.loop.state = stateContent
	_, err := s.loop.step(ctx)
	s.ErrorIs(err, ErrUnquotableQueued)
}

func (s *LoopTestSuite) TestNextVideo_QueueHit() {
	ctx := context.Background()

	s.queue.EXPECT().Dequeue(ctx).Return("sm100", nil)

	id, err := s.loop.nextVideo(ctx)
	s.NoError(err)
	s.Equal("sm100", id)
}

func (s *LoopTestSuite) TestNextVideo_RequestWinners() {
	ctx := context.Background()
	requests := []string{"sm1", "sm2", "sm2", "sm3"}

	s.queue.EXPECT().Dequeue(ctx).Return("", nil)
	s.queue.EXPECT().TakeRequests(ctx).Return(requests, nil)
	s.selector.EXPECT().FromRequests(requests, 5).Return([]string{"sm2", "sm1", "sm3"})
	s.queue.EXPECT().EnqueueBatch(ctx, []string{"sm1", "sm3"}).Return(nil)

	id, err := s.loop.nextVideo(ctx)
	s.NoError(err)
	s.Equal("sm2", id)
}

func (s *LoopTestSuite) TestNextVideo_NoRequestsFallsBackToDiscovery() {
	ctx := context.Background()

	s.queue.EXPECT().Dequeue(ctx).Return("", nil)
	s.queue.EXPECT().TakeRequests(ctx).Return(nil, nil)
	s.selector.EXPECT().Random(ctx, []string{"requests"}).Return("sm500", nil)

	id, err := s.loop.nextVideo(ctx)
	s.NoError(err)
	s.Equal("sm500", id)
}

func (s *LoopTestSuite) TestNextVideo_NoWinnersFallsBackToDiscovery() {
	ctx := context.Background()
	requests := []string{"bad", "bad"}

	s.queue.EXPECT().Dequeue(ctx).Return("", nil)
	s.queue.EXPECT().TakeRequests(ctx).Return(requests, nil)
	s.selector.EXPECT().FromRequests(requests, 5).Return(nil)
	s.selector.EXPECT().Random(ctx, []string{"music"}).Return("sm500", nil)

	id, err := s.loop.nextVideo(ctx)
	s.NoError(err)
	s.Equal("sm500", id)
}
