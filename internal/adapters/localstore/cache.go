package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/comitanigiacomo/itera-sync/internal/adapters/offline"
)

type cacheRow struct {
	URL      string `db:"url"`
	Status   int    `db:"status"`
	Header   string `db:"header"`
	Body     []byte `db:"body"`
	StoredAt string `db:"stored_at"`
}

func (s *Store) Get(ctx context.Context, generation, url string) (*offline.CachedResponse, bool, error) {
	var row cacheRow
	err := s.db.GetContext(ctx, &row,
		`SELECT url, status, header, body, stored_at FROM cached_responses WHERE generation = ? AND url = ?`,
		generation, url)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("localstore: cache get: %w", err)
	}

	var header http.Header
	if err := json.Unmarshal([]byte(row.Header), &header); err != nil {
		return nil, false, fmt.Errorf("localstore: cache header: %w", err)
	}
	storedAt, _ := time.Parse(timeLayout, row.StoredAt)

	return &offline.CachedResponse{
		URL:      row.URL,
		Status:   row.Status,
		Header:   header,
		Body:     row.Body,
		StoredAt: storedAt,
	}, true, nil
}

func (s *Store) Put(ctx context.Context, generation string, resp offline.CachedResponse) error {
	header, err := json.Marshal(resp.Header)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cached_responses (generation, url, status, header, body, stored_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (generation, url) DO UPDATE SET
			status = excluded.status, header = excluded.header,
			body = excluded.body, stored_at = excluded.stored_at`,
		generation, resp.URL, resp.Status, string(header), resp.Body,
		resp.StoredAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("localstore: cache put: %w", err)
	}
	return nil
}

func (s *Store) Generations(ctx context.Context) ([]string, error) {
	var gens []string
	err := s.db.SelectContext(ctx, &gens,
		`SELECT DISTINCT generation FROM cached_responses ORDER BY generation`)
	return gens, err
}

func (s *Store) DeleteGeneration(ctx context.Context, generation string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cached_responses WHERE generation = ?`, generation)
	return err
}
