package live

import (
	"log/slog"
	"sort"
	"time"

	"quotecast/internal/config"
)

// Schedule computes slot-start instants from the fixed daily anchors.
type Schedule struct {
	anchors []int
	loc     *time.Location
	logger  *slog.Logger
}

func NewSchedule(cfg config.ScheduleConfig, logger *slog.Logger) Schedule {
	anchors := append([]int(nil), cfg.AnchorHours...)
	sort.Ints(anchors)
	return Schedule{
		anchors: anchors,
		loc:     time.FixedZone("broadcast", cfg.UTCOffsetHours*3600),
		logger:  logger.With("component", "schedule"),
	}
}

// NextSlotStart returns the smallest anchor instant >= ref, in UTC. A ref
// exactly on an anchor returns that anchor. The fallback branch cannot be
// reached while at least one anchor exists per day; it is kept to match the
// reservation manager's contract of never failing to produce a start time.
func (s Schedule) NextSlotStart(ref time.Time) time.Time {
	local := ref.In(s.loc)
	year, month, day := local.Date()

	for dayOffset := 0; dayOffset <= 1; dayOffset++ {
		for _, hour := range s.anchors {
			candidate := time.Date(year, month, day+dayOffset, hour, 0, 0, 0, s.loc)
			if !candidate.Before(local) {
				return candidate.UTC()
			}
		}
	}

	s.logger.Error("no slot-start anchor found within lookahead", "ref", ref)
	return time.Date(year, month, day+1, s.anchors[0], 0, 0, 0, s.loc).UTC()
}

// nextSlotStartAfter returns the first anchor strictly after ref.
func (s Schedule) nextSlotStartAfter(ref time.Time) time.Time {
	return s.NextSlotStart(ref.Add(time.Minute))
}
