package storage

import (
	"context"
	"fmt"

	"github.com/claude/gymlog/internal/config"
	"github.com/claude/gymlog/internal/tracker"
)

var (
	_ tracker.Store = (*SQLite)(nil)
	_ tracker.Store = (*Postgres)(nil)
)

// Backend is a tracker store that owns its connection.
type Backend interface {
	tracker.Store
	Close() error
}

// Open connects the backend selected by cfg. Pending migrations are applied
// before the store is returned.
func Open(ctx context.Context, cfg config.Config) (Backend, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.Storage.Path)
	case config.DriverPostgres:
		dsn := cfg.Database.DSN()
		if err := RunMigrations(dsn); err != nil {
			return nil, err
		}
		return OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
