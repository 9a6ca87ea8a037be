// Package migrate applies the embedded, numbered schema files to a database.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Load returns the migrations of a dialect sorted by version.
func Load(d Dialect) ([]Migration, error) {
	sub, err := fs.Sub(files, string(d))
	if err != nil {
		return nil, fmt.Errorf("migrate: unknown dialect %q: %w", d, err)
	}

	entries, err := fs.ReadDir(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("migrate: read %s: %w", d, err)
	}

	var out []Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		parts := strings.SplitN(e.Name(), "_", 2)
		if len(parts) < 2 {
			return nil, fmt.Errorf("migrate: invalid filename %s (expected NNN_name.sql)", e.Name())
		}
		version, err := strconv.Atoi(parts[0])
		if err != nil || version < 1 {
			return nil, fmt.Errorf("migrate: invalid version in %s", e.Name())
		}
		content, err := fs.ReadFile(sub, e.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{
			Version: version,
			Name:    strings.TrimSuffix(parts[1], ".sql"),
			SQL:     string(content),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("migrate: duplicate version %d", out[i].Version)
		}
	}
	return out, nil
}

// Up applies every pending migration, each in its own transaction, and
// returns how many were applied.
func Up(ctx context.Context, db *sqlx.DB, d Dialect) (int, error) {
	migrations, err := Load(d)
	if err != nil {
		return 0, err
	}

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`); err != nil {
		return 0, fmt.Errorf("migrate: schema_version: %w", err)
	}

	current, err := currentVersion(ctx, db)
	if err != nil {
		return 0, err
	}
	if n := len(migrations); n > 0 && current > migrations[n-1].Version {
		return 0, fmt.Errorf("migrate: database version %d is newer than supported version %d", current, migrations[n-1].Version)
	}

	applied := 0
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := apply(ctx, db, m); err != nil {
			return applied, err
		}
		log.Printf("[MIGRATE] Applied %s %03d_%s", d, m.Version, m.Name)
		applied++
	}
	return applied, nil
}

func currentVersion(ctx context.Context, db *sqlx.DB) (int, error) {
	var v sql.NullInt64
	err := db.GetContext(ctx, &v, `SELECT MAX(version) FROM schema_version`)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("migrate: current version: %w", err)
	}
	return int(v.Int64), nil
}

func apply(ctx context.Context, db *sqlx.DB, m Migration) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("migrate: %03d_%s: %w", m.Version, m.Name, err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO schema_version (version) VALUES (?)`), m.Version); err != nil {
		return fmt.Errorf("migrate: record %d: %w", m.Version, err)
	}
	return tx.Commit()
}
