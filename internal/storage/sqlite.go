package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/claude/gymlog/internal/models"
)

// SQLite stores state in a local database file.
type SQLite struct {
	db    *sql.DB
	retry retryConfig
}

// OpenSQLite opens (or creates) the database at path and applies migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
		}
	}
	if err := runMigrations("migrations/sqlite", "sqlite://"+path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}
	return &SQLite{db: db, retry: defaultRetryConfig}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Load returns the stored state, or an empty one for a new database.
func (s *SQLite) Load(ctx context.Context) (*models.State, error) {
	rows := map[string][]byte{}
	err := retryOp(ctx, s.retry, func() error {
		clear(rows)
		r, err := s.db.QueryContext(ctx, `SELECT key, value FROM kv`)
		if err != nil {
			return err
		}
		defer r.Close()
		for r.Next() {
			var key, value string
			if err := r.Scan(&key, &value); err != nil {
				return err
			}
			rows[key] = []byte(value)
		}
		return r.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	return decodeState(rows)
}

// Save writes every state key in one transaction.
func (s *SQLite) Save(ctx context.Context, st *models.State) error {
	kvs, err := encodeState(st)
	if err != nil {
		return err
	}
	return retryOp(ctx, s.retry, func() error {
		return s.inTx(ctx, func(tx *sql.Tx) error {
			for _, kv := range kvs {
				if _, err := tx.ExecContext(ctx,
					`INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`,
					kv.key, string(kv.value)); err != nil {
					return fmt.Errorf("writing %s: %w", kv.key, err)
				}
			}
			return nil
		})
	})
}

// GetFile returns the file stored at path.
func (s *SQLite) GetFile(ctx context.Context, path string) (models.File, bool, error) {
	f := models.File{Path: path}
	err := retryOp(ctx, s.retry, func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT content, created_at FROM files WHERE path = ?`, path,
		).Scan(&f.Content, &f.CreatedAt)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.File{}, false, nil
	}
	if err != nil {
		return models.File{}, false, fmt.Errorf("reading file %s: %w", path, err)
	}
	return f, true, nil
}

// PutFile creates or replaces one file.
func (s *SQLite) PutFile(ctx context.Context, f models.File) error {
	err := retryOp(ctx, s.retry, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO files (path, content, created_at) VALUES (?, ?, ?)`,
			f.Path, f.Content, f.CreatedAt)
		return err
	})
	if err != nil {
		return fmt.Errorf("writing file %s: %w", f.Path, err)
	}
	return nil
}

// ListFiles returns every file ordered by path.
func (s *SQLite) ListFiles(ctx context.Context) ([]models.File, error) {
	var files []models.File
	err := retryOp(ctx, s.retry, func() error {
		files = []models.File{}
		r, err := s.db.QueryContext(ctx, `SELECT path, content, created_at FROM files ORDER BY path`)
		if err != nil {
			return err
		}
		defer r.Close()
		for r.Next() {
			var f models.File
			if err := r.Scan(&f.Path, &f.Content, &f.CreatedAt); err != nil {
				return err
			}
			files = append(files, f)
		}
		return r.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	return files, nil
}

// ReplaceFiles swaps the whole file store for files.
func (s *SQLite) ReplaceFiles(ctx context.Context, files []models.File) error {
	return retryOp(ctx, s.retry, func() error {
		return s.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `DELETE FROM files`); err != nil {
				return fmt.Errorf("clearing files: %w", err)
			}
			for _, f := range files {
				if _, err := tx.ExecContext(ctx,
					`INSERT OR REPLACE INTO files (path, content, created_at) VALUES (?, ?, ?)`,
					f.Path, f.Content, f.CreatedAt); err != nil {
					return fmt.Errorf("writing file %s: %w", f.Path, err)
				}
			}
			return nil
		})
	})
}

func (s *SQLite) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
