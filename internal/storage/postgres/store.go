package postgres

import (
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Store bundles the queue and request stores behind one handle for the
// broadcast loop.
type Store struct {
	*QueueStore
	*RequestStore
}

func NewStore(db *sqlx.DB, logger *slog.Logger) *Store {
	tm := NewTransactionManager(db)
	return &Store{
		QueueStore:   NewQueueStore(db, tm, logger),
		RequestStore: NewRequestStore(db, tm),
	}
}
