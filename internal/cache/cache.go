// Package cache stores finished outlines in SQLite, keyed by the content hash
// and format of the source document and the engine tuning that produced them.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/dgallion1/docoutline/internal/outline"
)

const schema = `
CREATE TABLE IF NOT EXISTS extractions (
	content_hash TEXT NOT NULL,
	format       TEXT NOT NULL,
	options      TEXT NOT NULL,
	filename     TEXT NOT NULL,
	source       TEXT NOT NULL,
	title_source TEXT NOT NULL,
	outline      TEXT NOT NULL,
	pages        INTEGER NOT NULL DEFAULT 0,
	lines        INTEGER NOT NULL DEFAULT 0,
	candidates   INTEGER NOT NULL DEFAULT 0,
	created_at   DATETIME NOT NULL,
	hits         INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (content_hash, format, options)
)`

// Key identifies a cached outline. Format is the lower-cased file extension,
// since it selects the parser.
type Key struct {
	ContentHash string
	Format      string
	Options     string
}

// Entry is a cached outline together with the diagnostics of the run that
// produced it.
type Entry struct {
	Key
	Filename    string
	Source      outline.Source
	TitleSource outline.TitleSource
	Outline     *outline.Outline
	Pages       int
	Lines       int
	Candidates  int
	CreatedAt   time.Time
	Hits        int
}

// Cache is safe for concurrent use.
type Cache struct {
	db *sql.DB
}

// Open creates or opens the cache database at path.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the outline cached under key. A miss returns (nil, nil).
func (c *Cache) Get(ctx context.Context, key Key) (*Entry, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT filename, source, title_source, outline, pages, lines, candidates, created_at, hits
		FROM extractions WHERE content_hash = ? AND format = ? AND options = ?`,
		key.ContentHash, key.Format, key.Options)

	var (
		e           = Entry{Key: key}
		source      string
		titleSource string
		payload     string
	)
	err := row.Scan(&e.Filename, &source, &titleSource, &payload,
		&e.Pages, &e.Lines, &e.Candidates, &e.CreatedAt, &e.Hits)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cached outline: %w", err)
	}
	e.Source = outline.Source(source)
	e.TitleSource = outline.TitleSource(titleSource)
	if err := json.Unmarshal([]byte(payload), &e.Outline); err != nil {
		return nil, fmt.Errorf("decoding cached outline: %w", err)
	}

	if _, err := c.db.ExecContext(ctx, `
		UPDATE extractions SET hits = hits + 1
		WHERE content_hash = ? AND format = ? AND options = ?`,
		key.ContentHash, key.Format, key.Options); err != nil {
		return nil, fmt.Errorf("updating cache hits: %w", err)
	}
	e.Hits++
	return &e, nil
}

// Put stores an entry under e.Key, replacing any previous one. CreatedAt and
// Hits are managed by the cache.
func (c *Cache) Put(ctx context.Context, e *Entry) error {
	payload, err := json.Marshal(e.Outline)
	if err != nil {
		return fmt.Errorf("encoding outline: %w", err)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO extractions (content_hash, format, options, filename, source, title_source,
			outline, pages, lines, candidates, created_at, hits)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT (content_hash, format, options) DO UPDATE SET
			filename = excluded.filename,
			source = excluded.source,
			title_source = excluded.title_source,
			outline = excluded.outline,
			pages = excluded.pages,
			lines = excluded.lines,
			candidates = excluded.candidates,
			created_at = excluded.created_at`,
		e.ContentHash, e.Format, e.Options, e.Filename, string(e.Source), string(e.TitleSource),
		string(payload), e.Pages, e.Lines, e.Candidates, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("storing outline: %w", err)
	}
	return nil
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries int `json:"entries"`
	Hits    int `json:"hits"`
}

// Stats returns the entry count and total hit count.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	row := c.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(hits), 0) FROM extractions`)
	if err := row.Scan(&s.Entries, &s.Hits); err != nil {
		return s, fmt.Errorf("reading cache stats: %w", err)
	}
	return s, nil
}

// Prune removes entries created before cutoff and reports how many went.
func (c *Cache) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM extractions WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	return res.RowsAffected()
}
