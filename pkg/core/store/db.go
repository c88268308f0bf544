// Package store persists underwriting scorecards, deal documents, and
// rendered memos. Postgres is the system of record; the scorecard table
// is keyed by assumptions hash so a rerun on unchanged input is a single
// lookup away from being detected.
package store

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool *pgxpool.Pool
	once sync.Once
)

// startupPingTimeout bounds the reachability check at init. Pool
// creation itself is lazy, so without the ping an unreachable database
// would only surface on the first scorecard write.
const startupPingTimeout = 5 * time.Second

// InitDB initializes the shared connection pool from DATABASE_URL and
// verifies the database answers. On failure the pool stays nil and the
// callers fall back to memoless, file-only operation.
func InitDB(ctx context.Context) error {
	var err error
	once.Do(func() {
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			err = fmt.Errorf("DATABASE_URL environment variable not set")
			return
		}

		config, parseErr := pgxpool.ParseConfig(dbURL)
		if parseErr != nil {
			err = fmt.Errorf("failed to parse database config: %w", parseErr)
			return
		}

		pool, err = pgxpool.NewWithConfig(ctx, config)
		if err != nil {
			return
		}

		pingCtx, cancel := context.WithTimeout(ctx, startupPingTimeout)
		defer cancel()
		if pingErr := pool.Ping(pingCtx); pingErr != nil {
			pool.Close()
			pool = nil
			err = fmt.Errorf("database unreachable: %w", pingErr)
		}
	})
	return err
}

// GetPool returns the shared connection pool.
func GetPool() *pgxpool.Pool {
	return pool
}

// Close closes the shared connection pool.
func Close() {
	if pool != nil {
		pool.Close()
	}
}
