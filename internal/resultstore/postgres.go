package resultstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"stock-ranker/internal/types"
)

const schema = `CREATE TABLE IF NOT EXISTS daily_results (
	result_date DATE PRIMARY KEY,
	run_id      TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	payload     JSONB NOT NULL
)`

type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// PostgresStore keeps one JSON payload per date in daily_results.
type PostgresStore struct {
	db *sql.DB
}

// Connect opens a pgx-backed pool and verifies it with a ping.
func Connect(ctx context.Context, dsn string, pool PoolConfig) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is empty")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	pingCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return db, nil
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the results table when it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *PostgresStore) Save(ctx context.Context, result *types.DailyResult) error {
	if result == nil {
		return errors.New("cannot save nil result")
	}
	if _, err := time.Parse(dateLayout, result.Date); err != nil {
		return fmt.Errorf("invalid result date %q: %w", result.Date, err)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO daily_results (result_date, run_id, created_at, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (result_date) DO UPDATE
		SET run_id = EXCLUDED.run_id, created_at = EXCLUDED.created_at, payload = EXCLUDED.payload`,
		result.Date, result.RunID, time.Now().UTC(), payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save result %s: %w", result.Date, err)
	}
	return nil
}

func (s *PostgresStore) LoadRange(ctx context.Context, from, to time.Time) ([]types.DailyResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM daily_results
		WHERE result_date BETWEEN $1 AND $2
		ORDER BY result_date`,
		from.Format(dateLayout), to.Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	results := []types.DailyResult{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var r types.DailyResult
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, fmt.Errorf("failed to decode stored result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
