package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/pagecollect"
)

// Compile-time interface verification.
var _ pagecollect.PageService = (*PageService)(nil)

// PageService implements pagecollect.PageService using SQLite.
type PageService struct {
	db *DB
}

// NewPageService creates a new PageService.
func NewPageService(db *DB) *PageService {
	return &PageService{db: db}
}

// hashContent returns the hex xxHash of a page's main content and full
// text.
func hashContent(c pagecollect.PageContent) string {
	d := xxhash.New()
	_, _ = d.WriteString(c.MainContent)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(c.FullText)
	return hex.EncodeToString(d.Sum(nil))
}

const pageColumns = "url, title, main_content, full_text, content_hash, collected_at"

// UpsertPage stores a page, replacing any page with the same URL in place.
// A zero Timestamp is set to the current time.
func (s *PageService) UpsertPage(ctx context.Context, page *pagecollect.PageRecord) (bool, error) {
	if err := page.Validate(); err != nil {
		return false, err
	}
	if page.Timestamp.IsZero() {
		page.Timestamp = time.Now().UTC()
	}

	var created bool
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		created, err = upsertPage(ctx, tx, page)
		return err
	})
	return created, err
}

// upsertPage writes a page at the end of the collection, or over the
// existing page with the same URL. The text columns of an existing page are
// only rewritten when its content hash changed.
func upsertPage(ctx context.Context, q queryer, page *pagecollect.PageRecord) (bool, error) {
	hash := hashContent(page.Content)
	collectedAt := formatTime(page.Timestamp)
	page.ContentHash = hash

	var stored string
	err := q.QueryRowContext(ctx, "SELECT content_hash FROM pages WHERE url = ?", page.URL).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err := q.ExecContext(ctx, `
			INSERT INTO pages (url, title, main_content, full_text, content_hash, position, collected_at)
			VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM pages), ?)
		`, page.URL, page.Title, page.Content.MainContent, page.Content.FullText, hash, collectedAt)
		return err == nil, err
	case err != nil:
		return false, err
	case stored == hash:
		_, err := q.ExecContext(ctx, `
			UPDATE pages SET title = ?, collected_at = ? WHERE url = ?
		`, page.Title, collectedAt, page.URL)
		return false, err
	}

	_, err = q.ExecContext(ctx, `
		UPDATE pages
		SET title = ?, main_content = ?, full_text = ?, content_hash = ?, collected_at = ?
		WHERE url = ?
	`, page.Title, page.Content.MainContent, page.Content.FullText, hash, collectedAt, page.URL)
	return false, err
}

// FindPageByURL retrieves a page by URL.
func (s *PageService) FindPageByURL(ctx context.Context, url string) (*pagecollect.PageRecord, error) {
	pages, err := s.FindPages(ctx, pagecollect.PageFilter{URL: &url})
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, pagecollect.Errorf(pagecollect.ENOTFOUND, "page not found")
	}
	return pages[0], nil
}

// FindPages retrieves pages matching the filter in collection order.
func (s *PageService) FindPages(ctx context.Context, filter pagecollect.PageFilter) ([]*pagecollect.PageRecord, error) {
	return findPages(ctx, s.db, filter)
}

func findPages(ctx context.Context, q queryer, filter pagecollect.PageFilter) ([]*pagecollect.PageRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + pageColumns + " FROM pages WHERE 1=1")

	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	query.WriteString(" ORDER BY position ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := q.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := make([]*pagecollect.PageRecord, 0)
	for rows.Next() {
		var page pagecollect.PageRecord
		var collectedAt string

		if err := rows.Scan(&page.URL, &page.Title, &page.Content.MainContent,
			&page.Content.FullText, &page.ContentHash, &collectedAt); err != nil {
			return nil, err
		}

		if page.Timestamp, err = parseRFC3339(collectedAt, "collected_at"); err != nil {
			return nil, err
		}

		pages = append(pages, &page)
	}

	return pages, rows.Err()
}

// CountPages returns the number of collected pages.
func (s *PageService) CountPages(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages").Scan(&n)
	return n, err
}

// DeletePage permanently removes a page.
func (s *PageService) DeletePage(ctx context.Context, url string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM pages WHERE url = ?", url)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return pagecollect.Errorf(pagecollect.ENOTFOUND, "page not found")
	}

	return nil
}

// DeleteAllPages removes every collected page.
func (s *PageService) DeleteAllPages(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM pages")
	return err
}
