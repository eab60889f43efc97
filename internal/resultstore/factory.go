package resultstore

import (
	"context"
	"fmt"
	"os"
	"time"

	"stock-ranker/internal/interfaces"
	"stock-ranker/internal/store"
)

// New opens the configured backend. The returned close func releases it.
func New(ctx context.Context, cfg *store.Config) (interfaces.ResultStore, func() error, error) {
	switch cfg.Output.Backend {
	case "postgres":
		db, err := Connect(ctx, os.Getenv(cfg.Postgres.DSNEnv), PoolConfig{
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Minute,
		})
		if err != nil {
			return nil, nil, err
		}
		pg := NewPostgresStore(db)
		if err := pg.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to migrate results table: %w", err)
		}
		return pg, db.Close, nil
	case "file":
		fs, err := NewFileStore(cfg.Output.Dir)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown output backend '%s'", cfg.Output.Backend)
	}
}
