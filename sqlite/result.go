package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/distill"
)

// Compile-time interface verification.
var _ distill.ResultStore = (*ResultStore)(nil)

// ResultStore implements distill.ResultStore using SQLite. Each URL keeps
// only its latest result.
type ResultStore struct {
	db *DB

	// Now returns the storage time. Defaults to time.Now.
	Now func() time.Time
}

// NewResultStore creates a new ResultStore.
func NewResultStore(db *DB) *ResultStore {
	return &ResultStore{db: db, Now: time.Now}
}

// WriteResult stores result, replacing any earlier result for its URL.
// Failed results are stored too.
func (s *ResultStore) WriteResult(ctx context.Context, result *distill.CrawlResult) error {
	if result == nil || result.URL == "" {
		return distill.Errorf(distill.EINVALID, "result URL required")
	}
	u, err := url.Parse(result.URL)
	if err != nil || u.Host == "" {
		return distill.Errorf(distill.EINVALID, "invalid result URL %q", result.URL)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return distill.Errorf(distill.EINTERNAL, "encode result: %v", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO results (url, id, host, title, success, content_hash, data, crawled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			id = excluded.id,
			host = excluded.host,
			title = excluded.title,
			success = excluded.success,
			content_hash = excluded.content_hash,
			data = excluded.data,
			crawled_at = excluded.crawled_at
	`, result.URL, result.ID, u.Host, result.Title, result.Success, result.ContentHash,
		string(data), s.Now().UTC().Format(time.RFC3339))

	return err
}

// FindResult retrieves the stored result for rawURL.
func (s *ResultStore) FindResult(ctx context.Context, rawURL string) (*distill.StoredResult, error) {
	var data, crawledAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT data, crawled_at FROM results WHERE url = ?
	`, rawURL).Scan(&data, &crawledAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, distill.Errorf(distill.ENOTFOUND, "no result stored for %s", rawURL)
	}
	if err != nil {
		return nil, err
	}
	return decodeResult(data, crawledAt)
}

// FindResults retrieves results matching the filter, newest first.
func (s *ResultStore) FindResults(ctx context.Context, filter distill.ResultFilter) ([]*distill.StoredResult, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT data, crawled_at FROM results WHERE 1=1")

	if filter.Host != nil {
		query.WriteString(" AND host = ?")
		args = append(args, *filter.Host)
	}
	if filter.Success != nil {
		query.WriteString(" AND success = ?")
		args = append(args, *filter.Success)
	}

	query.WriteString(" ORDER BY crawled_at DESC, url ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*distill.StoredResult
	for rows.Next() {
		var data, crawledAt string
		if err := rows.Scan(&data, &crawledAt); err != nil {
			return nil, err
		}
		r, err := decodeResult(data, crawledAt)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// DeleteResult permanently removes the result for rawURL.
func (s *ResultStore) DeleteResult(ctx context.Context, rawURL string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM results WHERE url = ?", rawURL)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return distill.Errorf(distill.ENOTFOUND, "no result stored for %s", rawURL)
	}

	return nil
}

func decodeResult(data, crawledAt string) (*distill.StoredResult, error) {
	var result distill.CrawlResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, distill.Errorf(distill.EINTERNAL, "decode stored result: %v", err)
	}
	t, err := parseRFC3339(crawledAt, "crawled_at")
	if err != nil {
		return nil, err
	}
	return &distill.StoredResult{Result: &result, CrawledAt: t}, nil
}
