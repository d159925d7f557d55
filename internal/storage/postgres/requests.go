package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// RequestStore holds viewer-submitted video requests pending triage.
type RequestStore struct {
	db *sqlx.DB
	tm *TransactionManager

	// afterFetch runs between the read and the delete; tests use it to
	// interleave a concurrent writer.
	afterFetch func()
}

func NewRequestStore(db *sqlx.DB, tm *TransactionManager) *RequestStore {
	return &RequestStore{db: db, tm: tm}
}

// TakeRequests reads every pending request and clears exactly those rows in
// the same transaction. Requests are written by an external process, so a
// row committed after the read must survive for the next drain. Returns nil
// when there are none. Duplicate video IDs are preserved; the fairness
// selector depends on seeing them.
func (s *RequestStore) TakeRequests(ctx context.Context) ([]string, error) {
	var videoIDs []string
	err := s.tm.WithTransaction(ctx, func(txCtx context.Context) error {
		ex := GetExecutor(txCtx, s.db)

		rows, err := ex.QueryContext(txCtx, "SELECT id, video_id FROM request_entries ORDER BY id FOR UPDATE")
		if err != nil {
			return err
		}
		defer rows.Close()

		var ids []int64
		for rows.Next() {
			var id int64
			var videoID string
			if err := rows.Scan(&id, &videoID); err != nil {
				return err
			}
			ids = append(ids, id)
			videoIDs = append(videoIDs, videoID)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if s.afterFetch != nil {
			s.afterFetch()
		}

		_, err = ex.ExecContext(txCtx, "DELETE FROM request_entries WHERE id = ANY($1)", pq.Array(ids))
		return err
	})
	if err != nil {
		return nil, err
	}
	return videoIDs, nil
}
