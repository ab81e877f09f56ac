package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite stores documents in a single-file database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (and creates if needed) the database at path.
func NewSQLite(path string) (*SQLite, error) {
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", cleanPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		kind       TEXT NOT NULL,
		id         TEXT NOT NULL,
		body       TEXT NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (kind, id)
	)`)
	if err != nil {
		return fmt.Errorf("migrate documents: %w", err)
	}
	return nil
}

// Load returns every document of kind ordered by id.
func (s *SQLite) Load(ctx context.Context, kind string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, body FROM documents WHERE kind = ? ORDER BY id`, kind)
	if err != nil {
		return nil, fmt.Errorf("load %s documents: %w", kind, err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var (
			id   string
			body string
		)
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scan %s document: %w", kind, err)
		}
		out = append(out, Document{Kind: kind, ID: id, Body: []byte(body)})
	}
	return out, rows.Err()
}

// Put upserts docs in one transaction.
func (s *SQLite) Put(ctx context.Context, docs ...Document) error {
	if len(docs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO documents (kind, id, body, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (kind, id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, d := range docs {
		if _, err := stmt.ExecContext(ctx, d.Kind, d.ID, string(d.Body), now); err != nil {
			return fmt.Errorf("put %s/%s: %w", d.Kind, d.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
