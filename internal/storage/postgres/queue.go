package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"

	"quotecast/internal/domain"
)

// QueueStore holds the pending work queue: video IDs waiting to be quoted.
// Dequeue order is priority entries first, then most-recently-enqueued
// first within each priority class.
type QueueStore struct {
	db     *sqlx.DB
	tm     *TransactionManager
	logger *slog.Logger
}

func NewQueueStore(db *sqlx.DB, tm *TransactionManager, logger *slog.Logger) *QueueStore {
	return &QueueStore{db: db, tm: tm, logger: logger.With("component", "queue")}
}

// Dequeue removes and returns the next video ID, or "" when the queue is
// empty. Read and delete run in one transaction, so a consumed entry does
// not survive the call.
func (s *QueueStore) Dequeue(ctx context.Context) (string, error) {
	var videoID string
	err := s.tm.WithTransaction(ctx, func(txCtx context.Context) error {
		ex := GetExecutor(txCtx, s.db)

		var entry domain.QueueEntry
		query := `
			SELECT id, video_id, priority, enqueued_at
			FROM queue_entries
			ORDER BY priority DESC, id DESC
			LIMIT 1
			FOR UPDATE`
		err := sqlx.GetContext(txCtx, ex, &entry, query)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		if _, err := ex.ExecContext(txCtx, "DELETE FROM queue_entries WHERE id = $1", entry.ID); err != nil {
			return err
		}
		videoID = entry.VideoID
		return nil
	})
	return videoID, err
}

// Enqueue appends one entry. IDs that do not look like platform video IDs
// are logged and dropped rather than stored; a malformed ID in the queue
// would later be a fatal condition for the broadcast loop.
func (s *QueueStore) Enqueue(ctx context.Context, videoID string, priority bool) error {
	if !domain.ValidVideoID(videoID) {
		s.logger.Error("refusing to enqueue malformed video ID", "video", videoID, "priority", priority)
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO queue_entries (video_id, priority) VALUES ($1, $2)",
		videoID, priority,
	)
	return err
}

// EnqueueBatch appends normal-priority entries in order, skipping
// malformed IDs.
func (s *QueueStore) EnqueueBatch(ctx context.Context, videoIDs []string) error {
	valid := make([]string, 0, len(videoIDs))
	for _, id := range videoIDs {
		if !domain.ValidVideoID(id) {
			s.logger.Error("refusing to enqueue malformed video ID", "video", id)
			continue
		}
		valid = append(valid, id)
	}
	if len(valid) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO queue_entries (video_id) VALUES ")
	args := make([]interface{}, 0, len(valid))
	for i, id := range valid {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("($")
		sb.WriteString(itoa(i + 1))
		sb.WriteString(")")
		args = append(args, id)
	}

	_, err := s.db.ExecContext(ctx, sb.String(), args...)
	return err
}

func itoa(i int) string {
	if i < 10 {
		return string(rune('0' + i))
	}
	return itoa(i/10) + string(rune('0'+i%10))
}
