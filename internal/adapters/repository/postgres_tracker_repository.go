package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var _ domain.TrackerRepository = (*PostgresTrackerRepository)(nil)

type PostgresTrackerRepository struct {
	db *sqlx.DB
}

func NewPostgresTrackerRepository(db *sqlx.DB) *PostgresTrackerRepository {
	return &PostgresTrackerRepository{db: db}
}

const trackerColumns = `
    id, owner_id, collection, kind, name, icon, color, description, difficulty,
    start_date, duration, day_progress,
    completed_days, missed_days, current_streak, longest_streak, consecutive_missed,
    recovery_mode, is_extended, current_points,
    created_at, updated_at`

// trackerSelect reads day_progress in its text form, which pq.Int64Array scans
// under both the pgx and lib/pq drivers.
const trackerSelect = `
    id, owner_id, collection, kind, name, icon, color, description, difficulty,
    start_date, duration, day_progress::text AS day_progress,
    completed_days, missed_days, current_streak, longest_streak, consecutive_missed,
    recovery_mode, is_extended, current_points,
    created_at, updated_at`

// trackerRow is the storage shape of a tracker document.
type trackerRow struct {
	ID                string        `db:"id"`
	OwnerID           string        `db:"owner_id"`
	Collection        string        `db:"collection"`
	Kind              string        `db:"kind"`
	Name              string        `db:"name"`
	Icon              string        `db:"icon"`
	Color             string        `db:"color"`
	Description       string        `db:"description"`
	Difficulty        string        `db:"difficulty"`
	StartDate         time.Time     `db:"start_date"`
	Duration          int           `db:"duration"`
	DayProgress       pq.Int64Array `db:"day_progress"`
	CompletedDays     int           `db:"completed_days"`
	MissedDays        int           `db:"missed_days"`
	CurrentStreak     int           `db:"current_streak"`
	LongestStreak     int           `db:"longest_streak"`
	ConsecutiveMissed int           `db:"consecutive_missed"`
	RecoveryMode      bool          `db:"recovery_mode"`
	IsExtended        bool          `db:"is_extended"`
	CurrentPoints     int           `db:"current_points"`
	CreatedAt         time.Time     `db:"created_at"`
	UpdatedAt         time.Time     `db:"updated_at"`
}

func toRow(t *domain.Tracker) trackerRow {
	progress := make(pq.Int64Array, len(t.Progress))
	for i, m := range t.Progress {
		progress[i] = int64(m)
	}
	return trackerRow{
		ID:                t.ID,
		OwnerID:           t.OwnerID,
		Collection:        string(t.Collection),
		Kind:              string(t.Kind),
		Name:              t.Name,
		Icon:              t.Icon,
		Color:             t.Color,
		Description:       t.Description,
		Difficulty:        string(t.Difficulty),
		StartDate:         t.StartDate,
		Duration:          t.Duration,
		DayProgress:       progress,
		CompletedDays:     t.CompletedDays,
		MissedDays:        t.MissedDays,
		CurrentStreak:     t.CurrentStreak,
		LongestStreak:     t.LongestStreak,
		ConsecutiveMissed: t.ConsecutiveMissed,
		RecoveryMode:      t.RecoveryMode,
		IsExtended:        t.IsExtended,
		CurrentPoints:     t.CurrentPoints,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

// toDomain rebuilds the tracker and fills schema defaults. Unknown mark values
// are read as unset.
func (r trackerRow) toDomain() *domain.Tracker {
	progress := make([]domain.Mark, len(r.DayProgress))
	for i, v := range r.DayProgress {
		switch m := domain.Mark(v); m {
		case domain.MarkDone, domain.MarkMissed:
			progress[i] = m
		}
	}

	t := &domain.Tracker{
		ID:                r.ID,
		OwnerID:           r.OwnerID,
		Collection:        domain.Collection(r.Collection),
		Kind:              domain.Kind(r.Kind),
		Name:              r.Name,
		Icon:              r.Icon,
		Color:             r.Color,
		Description:       r.Description,
		Difficulty:        domain.Difficulty(r.Difficulty),
		StartDate:         r.StartDate,
		Duration:          r.Duration,
		Progress:          progress,
		CompletedDays:     r.CompletedDays,
		MissedDays:        r.MissedDays,
		CurrentStreak:     r.CurrentStreak,
		LongestStreak:     r.LongestStreak,
		ConsecutiveMissed: r.ConsecutiveMissed,
		RecoveryMode:      r.RecoveryMode,
		IsExtended:        r.IsExtended,
		CurrentPoints:     r.CurrentPoints,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	t.Normalize()
	return t
}

func (r *PostgresTrackerRepository) Create(ctx context.Context, t *domain.Tracker) error {
	query := `INSERT INTO trackers (` + trackerColumns + `) VALUES (
        :id, :owner_id, :collection, :kind, :name, :icon, :color, :description, :difficulty,
        :start_date, :duration, :day_progress,
        :completed_days, :missed_days, :current_streak, :longest_streak, :consecutive_missed,
        :recovery_mode, :is_extended, :current_points,
        :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, toRow(t)); err != nil {
		return fmt.Errorf("failed to insert tracker: %w", err)
	}
	return nil
}

func (r *PostgresTrackerRepository) GetByID(ctx context.Context, id string) (*domain.Tracker, error) {
	var row trackerRow
	err := r.db.GetContext(ctx, &row, `SELECT `+trackerSelect+` FROM trackers WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTrackerNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}
	return row.toDomain(), nil
}

func (r *PostgresTrackerRepository) ListByOwner(ctx context.Context, ownerID string, coll domain.Collection) ([]*domain.Tracker, error) {
	query := `SELECT ` + trackerSelect + `
        FROM trackers
        WHERE owner_id = $1 AND collection = $2
        ORDER BY created_at DESC`

	var rows []trackerRow
	if err := r.db.SelectContext(ctx, &rows, query, ownerID, string(coll)); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	trackers := make([]*domain.Tracker, 0, len(rows))
	for _, row := range rows {
		trackers = append(trackers, row.toDomain())
	}
	return trackers, nil
}

func (r *PostgresTrackerRepository) Update(ctx context.Context, t *domain.Tracker) error {
	query := `
        UPDATE trackers SET
            name=:name, icon=:icon, color=:color, description=:description, difficulty=:difficulty,
            start_date=:start_date, duration=:duration, day_progress=:day_progress,
            completed_days=:completed_days, missed_days=:missed_days,
            current_streak=:current_streak, longest_streak=:longest_streak,
            consecutive_missed=:consecutive_missed, recovery_mode=:recovery_mode,
            is_extended=:is_extended, current_points=:current_points,
            updated_at=:updated_at
        WHERE id=:id`

	res, err := r.db.NamedExecContext(ctx, query, toRow(t))
	if err != nil {
		return fmt.Errorf("update query failed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrTrackerNotFound
	}
	return nil
}

func (r *PostgresTrackerRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trackers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrTrackerNotFound
	}
	return nil
}
