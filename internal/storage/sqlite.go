package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/newshound/newshound/internal/config"
	"github.com/newshound/newshound/internal/types"
)

const createArticlesTable = `
CREATE TABLE IF NOT EXISTS articles (
	fingerprint  TEXT PRIMARY KEY,
	source_id    TEXT NOT NULL,
	url          TEXT NOT NULL,
	title        TEXT NOT NULL,
	body         TEXT NOT NULL DEFAULT '',
	author       TEXT NOT NULL DEFAULT '',
	published_at TEXT,
	fetched_at   TEXT NOT NULL,
	UNIQUE (source_id, url)
);
CREATE INDEX IF NOT EXISTS idx_articles_source_published
	ON articles (source_id, published_at DESC);
`

// SQLiteStore persists records in an embedded SQLite database. The
// primary key on fingerprint and the (source_id, url) constraint make
// INSERT OR IGNORE an atomic check-and-insert.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (creating if needed) the database file and schema.
func NewSQLiteStore(cfg config.StorageConfig, logger *slog.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(createArticlesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "sqlite_storage"),
	}, nil
}

func (s *SQLiteStore) Name() string { return "sqlite" }

func (s *SQLiteStore) Find(ctx context.Context, fingerprint string) (*types.ArticleRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT fingerprint, source_id, url, title, body, author, published_at, fetched_at
		FROM articles WHERE fingerprint = ?`, fingerprint)

	var rec types.ArticleRecord
	var published sql.NullString
	var fetched string
	err := row.Scan(&rec.ContentFingerprint, &rec.SourceID, &rec.URL, &rec.Title,
		&rec.Body, &rec.Author, &published, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite find: %w", err)
	}

	if published.Valid {
		if t, err := time.Parse(time.RFC3339, published.String); err == nil {
			rec.PublishedAt = &t
		}
	}
	if t, err := time.Parse(time.RFC3339, fetched); err == nil {
		rec.FetchedAt = t
	}
	return &rec, nil
}

func (s *SQLiteStore) InsertIfAbsent(ctx context.Context, rec *types.ArticleRecord) (bool, error) {
	var published any
	if rec.PublishedAt != nil {
		published = rec.PublishedAt.UTC().Format(time.RFC3339)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (fingerprint, source_id, url, title, body, author, published_at, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		rec.ContentFingerprint, rec.SourceID, rec.URL, rec.Title, rec.Body,
		rec.Author, published, rec.FetchedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("sqlite insert: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite insert result: %w", err)
	}
	return affected > 0, nil
}

func (s *SQLiteStore) Close(ctx context.Context) error {
	return s.db.Close()
}
