package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MemoArchive stores rendered investment memos. Hybrid vault: DB when a
// pool is configured, file system otherwise, so the CLI works without a
// database.
type MemoArchive struct {
	pool    *pgxpool.Pool
	fileDir string
}

// NewMemoArchive creates an archive. With a nil pool and empty dir it
// defaults to a local .memos directory.
func NewMemoArchive(pool *pgxpool.Pool, dir string) *MemoArchive {
	if pool == nil && dir == "" {
		dir = ".memos"
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("[WARNING] memo archive dir: %v\n", err)
		}
	}
	return &MemoArchive{pool: pool, fileDir: dir}
}

// Save archives one memo under the deal name and assumptions hash.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS memos (
//   assumptions_hash TEXT PRIMARY KEY,
//   deal_name TEXT,
//   memo_markdown TEXT,
//   created_at TIMESTAMPTZ
// );
func (a *MemoArchive) Save(ctx context.Context, dealName, hash, memo string) error {
	if a.pool != nil {
		query := `
			INSERT INTO memos (assumptions_hash, deal_name, memo_markdown, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (assumptions_hash)
			DO UPDATE SET memo_markdown = EXCLUDED.memo_markdown, created_at = EXCLUDED.created_at;
		`
		if _, err := a.pool.Exec(ctx, query, hash, dealName, memo, time.Now()); err != nil {
			return fmt.Errorf("failed to archive memo: %w", err)
		}
		return nil
	}

	path := filepath.Join(a.fileDir, memoFileName(dealName, hash))
	if err := os.WriteFile(path, []byte(memo), 0644); err != nil {
		return fmt.Errorf("failed to write memo file: %w", err)
	}
	return nil
}

// Load retrieves an archived memo by hash. An absent memo is empty
// string with no error; anything else (connection loss, bad query,
// unreadable file) surfaces so callers do not mistake an outage for a
// missing memo.
func (a *MemoArchive) Load(ctx context.Context, dealName, hash string) (string, error) {
	if a.pool != nil {
		var memo string
		err := a.pool.QueryRow(ctx, `SELECT memo_markdown FROM memos WHERE assumptions_hash = $1`, hash).Scan(&memo)
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to load memo: %w", err)
		}
		return memo, nil
	}

	raw, err := os.ReadFile(filepath.Join(a.fileDir, memoFileName(dealName, hash)))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read memo file: %w", err)
	}
	return string(raw), nil
}

// memoFileName builds a stable slug: deal name lowered and underscored,
// plus a hash prefix for uniqueness.
func memoFileName(dealName, hash string) string {
	slug := strings.ToLower(strings.TrimSpace(dealName))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, slug)
	if slug == "" {
		slug = "deal"
	}
	if len(hash) > 12 {
		hash = hash[:12]
	}
	return fmt.Sprintf("%s_%s.md", slug, hash)
}
