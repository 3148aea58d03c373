package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite. The table holds at most one row.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) the content database at path and ensures the
// schema exists.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("content: open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("content: ensure schema: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS site_content (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	hero_title TEXT NOT NULL DEFAULT '',
	hero_description TEXT NOT NULL DEFAULT '',
	hero_button TEXT NOT NULL DEFAULT '',
	site_title TEXT NOT NULL DEFAULT '',
	site_description TEXT NOT NULL DEFAULT '',
	updated_at TEXT NOT NULL DEFAULT ''
);`

// NewSQLiteStore creates the store over an opened database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get returns the saved content, or ErrNotFound when nothing was saved yet.
func (s *SQLiteStore) Get(ctx context.Context) (SiteContent, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT hero_title, hero_description, hero_button, site_title, site_description, updated_at
		FROM site_content
		WHERE id = 1
	`)
	var c SiteContent
	var updated string
	err := row.Scan(&c.HeroTitle, &c.HeroDescription, &c.HeroButton, &c.SiteTitle, &c.SiteDescription, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return SiteContent{}, ErrNotFound
	}
	if err != nil {
		return SiteContent{}, err
	}
	if ts, err := time.Parse(time.RFC3339, updated); err == nil {
		c.UpdatedAt = ts
	}
	return c, nil
}

// Save upserts the single content row.
func (s *SQLiteStore) Save(ctx context.Context, c SiteContent) error {
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO site_content (id, hero_title, hero_description, hero_button, site_title, site_description, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			hero_title=excluded.hero_title,
			hero_description=excluded.hero_description,
			hero_button=excluded.hero_button,
			site_title=excluded.site_title,
			site_description=excluded.site_description,
			updated_at=excluded.updated_at
	`, c.HeroTitle, c.HeroDescription, c.HeroButton, c.SiteTitle, c.SiteDescription,
		c.UpdatedAt.Format(time.RFC3339))
	return err
}
