package domain

import (
	"regexp"
	"time"
)

// VideoInfo is the platform's answer about one candidate video, fetched
// fresh per selection decision. Quotability can change between fetch and
// use, so instances are never cached.
type VideoInfo struct {
	Quotable bool
	Length   time.Duration
	Caption  string // on-air introduction text, "title / id"
}

// QueueEntry is one pending item in the remote work queue.
type QueueEntry struct {
	ID         int64     `db:"id"`
	VideoID    string    `db:"video_id"`
	Priority   bool      `db:"priority"`
	EnqueuedAt time.Time `db:"enqueued_at"`
}

var videoIDPattern = regexp.MustCompile(`^[a-z][a-z][0-9]+$`)

// ValidVideoID reports whether s has the platform's video-ID shape
// (two lowercase letters followed by digits, e.g. "sm9").
func ValidVideoID(s string) bool {
	return videoIDPattern.MatchString(s)
}
