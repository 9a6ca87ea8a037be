package localstore

import (
	"context"
	"fmt"
	"time"
)

type ErrorReport struct {
	ID         int64     `db:"id" json:"id"`
	Message    string    `db:"message" json:"message"`
	Context    string    `db:"context" json:"context,omitempty"`
	ReportedAt time.Time `db:"-" json:"reported_at"`
	RawTime    string    `db:"reported_at" json:"-"`
}

// ReportError appends to the error log, keeping only the newest
// MaxErrorReports entries.
func (s *Store) ReportError(ctx context.Context, message, where string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO error_reports (message, context, reported_at) VALUES (?, ?, ?)`,
		message, where, s.timestamp()); err != nil {
		return fmt.Errorf("localstore: report error: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM error_reports
		WHERE id NOT IN (SELECT id FROM error_reports ORDER BY id DESC LIMIT ?)`,
		MaxErrorReports); err != nil {
		return fmt.Errorf("localstore: trim error log: %w", err)
	}
	return tx.Commit()
}

// ErrorReports returns the log newest first.
func (s *Store) ErrorReports(ctx context.Context) ([]ErrorReport, error) {
	var reports []ErrorReport
	if err := s.db.SelectContext(ctx, &reports,
		`SELECT id, message, context, reported_at FROM error_reports ORDER BY id DESC`); err != nil {
		return nil, fmt.Errorf("localstore: list errors: %w", err)
	}
	for i := range reports {
		reports[i].ReportedAt, _ = time.Parse(timeLayout, reports[i].RawTime)
	}
	return reports, nil
}

func (s *Store) ClearErrorReports(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM error_reports`)
	return err
}
