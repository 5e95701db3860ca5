package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claude/gymlog/internal/models"
)

// Postgres stores state in PostgreSQL with one JSONB value per key.
type Postgres struct {
	Pool *pgxpool.Pool
}

// OpenPostgres creates a connection pool and verifies it.
// Migrations are applied separately with RunMigrations.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Postgres{Pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	p.Pool.Close()
	return nil
}

// Load returns the stored state, or an empty one for a new database.
func (p *Postgres) Load(ctx context.Context) (*models.State, error) {
	r, err := p.Pool.Query(ctx, `SELECT key, value FROM kv`)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	defer r.Close()

	rows := map[string][]byte{}
	for r.Next() {
		var key string
		var value []byte
		if err := r.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning state: %w", err)
		}
		rows[key] = value
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	return decodeState(rows)
}

// Save writes every state key in one transaction.
func (p *Postgres) Save(ctx context.Context, st *models.State) error {
	kvs, err := encodeState(st)
	if err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, p.Pool, func(tx pgx.Tx) error {
		for _, kv := range kvs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, now())
				 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
				kv.key, kv.value); err != nil {
				return fmt.Errorf("writing %s: %w", kv.key, err)
			}
		}
		return nil
	})
}

// GetFile returns the file stored at path.
func (p *Postgres) GetFile(ctx context.Context, path string) (models.File, bool, error) {
	f := models.File{Path: path}
	err := p.Pool.QueryRow(ctx,
		`SELECT content, created_at FROM files WHERE path = $1`, path,
	).Scan(&f.Content, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.File{}, false, nil
	}
	if err != nil {
		return models.File{}, false, fmt.Errorf("reading file %s: %w", path, err)
	}
	return f, true, nil
}

// PutFile creates or replaces one file.
func (p *Postgres) PutFile(ctx context.Context, f models.File) error {
	_, err := p.Pool.Exec(ctx,
		`INSERT INTO files (path, content, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (path) DO UPDATE SET content = EXCLUDED.content, created_at = EXCLUDED.created_at`,
		f.Path, f.Content, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("writing file %s: %w", f.Path, err)
	}
	return nil
}

// ListFiles returns every file ordered by path.
func (p *Postgres) ListFiles(ctx context.Context) ([]models.File, error) {
	r, err := p.Pool.Query(ctx, `SELECT path, content, created_at FROM files ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	defer r.Close()

	files := []models.File{}
	for r.Next() {
		var f models.File
		if err := r.Scan(&f.Path, &f.Content, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		files = append(files, f)
	}
	return files, r.Err()
}

// ReplaceFiles swaps the whole file store for files.
func (p *Postgres) ReplaceFiles(ctx context.Context, files []models.File) error {
	return pgx.BeginFunc(ctx, p.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM files`); err != nil {
			return fmt.Errorf("clearing files: %w", err)
		}
		if len(files) == 0 {
			return nil
		}
		batch := &pgx.Batch{}
		for _, f := range files {
			batch.Queue(`INSERT INTO files (path, content, created_at) VALUES ($1, $2, $3)
				ON CONFLICT (path) DO UPDATE SET content = EXCLUDED.content, created_at = EXCLUDED.created_at`,
				f.Path, f.Content, f.CreatedAt)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}
