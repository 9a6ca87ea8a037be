// Package localstore is the device-local storage of the terminal client:
// settings, the error-report log, the offline write queue and the response
// cache, all in one sqlite file.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/comitanigiacomo/itera-sync/internal/adapters/migrate"
	"github.com/comitanigiacomo/itera-sync/internal/adapters/offline"
	"github.com/comitanigiacomo/itera-sync/internal/core/domain"
	"github.com/jmoiron/sqlx"

	_ "modernc.org/sqlite"
)

const (
	MaxErrorReports = 10
	OutboxMaxAge    = 7 * 24 * time.Hour

	// timeLayout is fixed width so stored timestamps compare as strings.
	timeLayout = "2006-01-02T15:04:05.000000000Z"

	KeyNotificationSettings = "notification_settings"
	KeySession              = "session"
)

var _ offline.Cache = (*Store)(nil)

type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open creates the data directory and the database if needed and applies the
// schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("localstore: create data directory: %w", err)
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("localstore: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := migrate.Up(ctx, db, migrate.SQLite); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(timeLayout)
}

// GetSetting decodes the JSON value stored under key into dst and reports
// whether the key existed.
func (s *Store) GetSetting(ctx context.Context, key string, dst any) (bool, error) {
	var raw string
	err := s.db.GetContext(ctx, &raw, `SELECT value FROM settings WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("localstore: get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("localstore: decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) PutSetting(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("localstore: encode %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), s.timestamp())
	if err != nil {
		return fmt.Errorf("localstore: put %s: %w", key, err)
	}
	return nil
}

func (s *Store) DeleteSetting(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	return err
}

// NotificationSettings returns the stored settings, or the zero value (all
// notifications off) when none were saved.
func (s *Store) NotificationSettings(ctx context.Context) (domain.NotificationSettings, error) {
	var ns domain.NotificationSettings
	if _, err := s.GetSetting(ctx, KeyNotificationSettings, &ns); err != nil {
		return domain.NotificationSettings{}, err
	}
	return ns, nil
}

func (s *Store) SaveNotificationSettings(ctx context.Context, ns domain.NotificationSettings) error {
	if err := ns.Validate(); err != nil {
		return err
	}
	return s.PutSetting(ctx, KeyNotificationSettings, ns)
}
