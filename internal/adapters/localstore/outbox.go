package localstore

import (
	"context"
	"fmt"
	"time"
)

// PendingWrite is a request that failed for lack of network and waits to be
// replayed.
type PendingWrite struct {
	ID       int64     `db:"id" json:"id"`
	Method   string    `db:"method" json:"method"`
	Path     string    `db:"path" json:"path"`
	Body     []byte    `db:"body" json:"body,omitempty"`
	QueuedAt time.Time `db:"-" json:"queued_at"`
	RawTime  string    `db:"queued_at" json:"-"`
}

func (s *Store) Enqueue(ctx context.Context, method, path string, body []byte) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO outbox (method, path, body, queued_at) VALUES (?, ?, ?, ?)`,
		method, path, body, s.timestamp())
	if err != nil {
		return 0, fmt.Errorf("localstore: enqueue: %w", err)
	}
	return res.LastInsertId()
}

// Pending drops writes older than OutboxMaxAge and returns the rest, oldest
// first.
func (s *Store) Pending(ctx context.Context) ([]PendingWrite, error) {
	cutoff := s.now().Add(-OutboxMaxAge).UTC().Format(timeLayout)
	if _, err := s.db.ExecContext(ctx, `DELETE FROM outbox WHERE queued_at < ?`, cutoff); err != nil {
		return nil, fmt.Errorf("localstore: prune outbox: %w", err)
	}

	var writes []PendingWrite
	if err := s.db.SelectContext(ctx, &writes,
		`SELECT id, method, path, body, queued_at FROM outbox ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("localstore: list outbox: %w", err)
	}
	for i := range writes {
		writes[i].QueuedAt, _ = time.Parse(timeLayout, writes[i].RawTime)
	}
	return writes, nil
}

func (s *Store) Remove(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM outbox WHERE id = ?`, id)
	return err
}
