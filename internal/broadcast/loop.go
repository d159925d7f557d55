package broadcast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"quotecast/internal/config"
)

// ErrNoSlotAfterReserve means the platform did not acknowledge a slot the
// loop just reserved. The loop cannot broadcast without a slot ID, so this
// is terminal.
var ErrNoSlotAfterReserve = errors.New("reserved slot not acknowledged by platform")

// ErrUnquotableQueued means the work queue produced a video the platform
// refuses to quote. The queue is only ever fed with vetted content, so
// this indicates an upstream selection bug, not a transient fault.
var ErrUnquotableQueued = errors.New("queue contained an unquotable video")

// Loop is the broadcast lifecycle state machine. It runs strictly
// sequentially: no two remote operations are ever in flight at once.
type Loop struct {
	cfg      config.BroadcastConfig
	winners  int
	slots    SlotService
	quotes   QuoteService
	queue    Queue
	selector Selector
	clock    Clock
	logger   *slog.Logger

	state     state
	currentID string
	nextID    string
}

func NewLoop(
	cfg config.BroadcastConfig,
	requestWinners int,
	slots SlotService,
	quotes QuoteService,
	queue Queue,
	selector Selector,
	clk Clock,
	logger *slog.Logger,
) *Loop {
	return &Loop{
		cfg:      cfg,
		winners:  requestWinners,
		slots:    slots,
		quotes:   quotes,
		queue:    queue,
		selector: selector,
		clock:    clk,
		logger:   logger.With("component", "broadcast"),
	}
}

// Run drives the machine until a terminal error or ctx cancellation.
func (l *Loop) Run(ctx context.Context) error {
	l.state = stateReconcileSlots
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		next, err := l.step(ctx)
		if err != nil {
			return err
		}
		l.state = next
	}
}

func (l *Loop) step(ctx context.Context) (state, error) {
	l.logger.Debug("entering state", "state", l.state.String())
	switch l.state {
	case stateReconcileSlots:
		return l.reconcileSlots(ctx)
	case stateReconcileQuote:
		return l.reconcileQuote(ctx)
	case stateContent:
		return l.runContent(ctx)
	case stateSlotEnd:
		return l.slotEnd(ctx)
	default:
		return 0, fmt.Errorf("invalid state %d", l.state)
	}
}

// reconcileSlots classifies the platform's slot state and acts until a
// current and a next slot both exist.
func (l *Loop) reconcileSlots(ctx context.Context) (state, error) {
	st, err := l.slots.LiveState(ctx)
	if err != nil {
		return 0, err
	}

	switch {
	case !st.HasCurrent() && !st.HasNext():
		l.logger.Warn("no on-air slot and no next slot, reserving")
		if err := l.slots.Reserve(ctx); err != nil {
			return 0, err
		}
		st, err = l.slots.LiveState(ctx)
		if err != nil {
			return 0, err
		}
		if !st.HasCurrent() && !st.HasNext() {
			return 0, ErrNoSlotAfterReserve
		}
		return stateReconcileSlots, nil

	case !st.HasCurrent():
		// The next slot exists but has not begun; wait for its start.
		begin, err := l.slots.StartTime(ctx, st.NextID)
		if err != nil {
			return 0, err
		}
		l.logger.Info("waiting for slot to begin", "slot", st.NextID, "begin", begin)
		if err := l.clock.WaitUntil(ctx, begin); err != nil {
			return 0, err
		}
		return stateReconcileSlots, nil

	case !st.HasNext():
		if err := l.slots.Reserve(ctx); err != nil {
			return 0, err
		}
	}

	// Confirm both slots before broadcasting.
	st, err = l.slots.LiveState(ctx)
	if err != nil {
		return 0, err
	}
	if !st.HasCurrent() || !st.HasNext() {
		l.logger.Error("slot state did not resolve", "current", st.CurrentID, "next", st.NextID)
		return 0, ErrNoSlotAfterReserve
	}

	l.currentID = st.CurrentID
	l.nextID = st.NextID
	l.logger.Info("slots reconciled", "current", l.currentID, "next", l.nextID)
	return stateReconcileQuote, nil
}

// reconcileQuote inspects what is already quoted on the current slot and
// recovers from the three recognized abnormal states before steady-state
// content starts.
func (l *Loop) reconcileQuote(ctx context.Context) (state, error) {
	end, err := l.slots.EndTime(ctx, l.currentID)
	if err != nil {
		return 0, err
	}
	current, err := l.quotes.Current(ctx, l.currentID)
	if err != nil {
		return 0, err
	}

	switch current {
	case "":
		// Nothing quoted; normal cold start.

	case l.cfg.MaintenanceVideo:
		// A stuck idle filler from an interrupted maintenance window;
		// restart it cleanly.
		l.logger.Info("maintenance filler found quoted, restarting it")
		if err := l.quotes.Stop(ctx, l.currentID); err != nil {
			return 0, err
		}
		if _, err := l.quotes.Once(ctx, l.currentID, l.cfg.MaintenanceVideo); err != nil {
			return 0, err
		}

	case l.cfg.ClosingVideo:
		// The previous run ended this slot on purpose and left the
		// closing filler looping. Ride it out and move to the next slot.
		l.logger.Info("closing filler found quoted, waiting out the slot")
		nextBegin, err := l.slots.StartTime(ctx, l.nextID)
		if err != nil {
			return 0, err
		}
		if err := l.clock.WaitUntil(ctx, end); err != nil {
			return 0, err
		}
		if err := l.slots.Reserve(ctx); err != nil {
			return 0, err
		}
		if err := l.clock.WaitUntil(ctx, nextBegin); err != nil {
			return 0, err
		}
		return stateReconcileSlots, nil

	default:
		// Any other quotation at loop start means the process died
		// mid-quotation. Reset through a maintenance window and apologize
		// on air.
		l.logger.Warn("unexpected quotation found, resetting", "video", current)
		if err := l.quotes.Stop(ctx, l.currentID); err != nil {
			return 0, err
		}
		span, err := l.quotes.Once(ctx, l.currentID, l.cfg.MaintenanceVideo)
		if err != nil {
			return 0, err
		}
		if err := l.slots.PostMessage(ctx, l.currentID, l.cfg.ApologyMessage, false); err != nil {
			return 0, err
		}
		if err := l.clock.WaitUntil(ctx, l.clock.Now().Add(span)); err != nil {
			return 0, err
		}
	}

	return stateContent, nil
}

// runContent is the steady-state inner loop: pick, quote, wait, repeat,
// until a candidate no longer fits before the slot's end.
func (l *Loop) runContent(ctx context.Context) (state, error) {
	l.logger.Info("broadcast ready", "slot", l.currentID)

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		videoID, err := l.nextVideo(ctx)
		if err != nil {
			return 0, err
		}

		end, err := l.slots.EndTime(ctx, l.currentID)
		if err != nil {
			return 0, err
		}

		info, err := l.quotes.VideoInfo(ctx, videoID)
		if err != nil {
			return 0, err
		}
		if !info.Quotable {
			l.logger.Error("queued video is not quotable", "video", videoID, "slot", l.currentID)
			return 0, fmt.Errorf("%w: %s", ErrUnquotableQueued, videoID)
		}

		if l.clock.Now().Add(info.Length).After(end.Add(-l.cfg.SafetyMargin)) {
			l.logger.Info("candidate would not finish before slot end", "video", videoID)
			if err := l.queue.Enqueue(ctx, videoID, true); err != nil {
				return 0, err
			}
			if err := l.quotes.Loop(ctx, l.currentID, l.cfg.ClosingVideo); err != nil {
				return 0, err
			}
			if err := l.slots.PostMessage(ctx, l.currentID, l.cfg.ClosingMessage, true); err != nil {
				return 0, err
			}
			if err := l.clock.WaitUntil(ctx, end); err != nil {
				return 0, err
			}
			return stateSlotEnd, nil
		}

		l.logger.Info("quoting", "video", videoID, "length", info.Length)
		if _, err := l.quotes.Once(ctx, l.currentID, videoID); err != nil {
			return 0, err
		}
		if err := l.slots.PostMessage(ctx, l.currentID, info.Caption, false); err != nil {
			return 0, err
		}
		if err := l.clock.WaitUntil(ctx, l.clock.Now().Add(info.Length)); err != nil {
			return 0, err
		}
	}
}

// nextVideo drains the queue, then falls back to viewer requests with
// fairness selection, then to tag-based random discovery.
func (l *Loop) nextVideo(ctx context.Context) (string, error) {
	videoID, err := l.queue.Dequeue(ctx)
	if err != nil {
		return "", err
	}
	if videoID != "" {
		return videoID, nil
	}

	l.logger.Debug("queue empty, refilling")
	requests, err := l.queue.TakeRequests(ctx)
	if err != nil {
		return "", err
	}

	if len(requests) > 0 {
		winners := l.selector.FromRequests(requests, l.winners)
		if len(winners) > 0 {
			if len(winners) > 1 {
				if err := l.queue.EnqueueBatch(ctx, winners[1:]); err != nil {
					return "", err
				}
			}
			return winners[0], nil
		}
		l.logger.Error("requests produced no winners, check the request filter", "requests", len(requests))
		return l.selector.Random(ctx, l.cfg.Tags)
	}

	return l.selector.Random(ctx, l.cfg.RequestTags)
}

func (l *Loop) slotEnd(ctx context.Context) (state, error) {
	l.logger.Info("slot finished", "slot", l.currentID)
	l.currentID, l.nextID = "", ""
	return stateReconcileSlots, nil
}
