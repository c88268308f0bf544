package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"gpc_underwriting/pkg/core/underwrite"
)

// ScorecardRepo stores computed underwriting results for audit and
// rerun comparison.
type ScorecardRepo struct{}

// NewScorecardRepo creates a new repository instance.
func NewScorecardRepo() *ScorecardRepo {
	return &ScorecardRepo{}
}

// Save upserts a scorecard keyed by assumptions hash. Recomputing an
// unchanged deal overwrites with byte-identical content; only the
// updated_at timestamp moves.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS scorecards (
//   assumptions_hash TEXT PRIMARY KEY,
//   deal_name TEXT,
//   decision TEXT,
//   recommendation TEXT,
//   scorecard_json JSONB,
//   updated_at TIMESTAMPTZ
// );
func (r *ScorecardRepo) Save(ctx context.Context, dealName string, res *underwrite.Result) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal scorecard: %w", err)
	}

	query := `
		INSERT INTO scorecards (assumptions_hash, deal_name, decision, recommendation, scorecard_json, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (assumptions_hash)
		DO UPDATE SET
			deal_name = EXCLUDED.deal_name,
			decision = EXCLUDED.decision,
			recommendation = EXCLUDED.recommendation,
			scorecard_json = EXCLUDED.scorecard_json,
			updated_at = EXCLUDED.updated_at;
	`

	_, err = pool.Exec(ctx, query,
		res.AssumptionsHash, dealName, string(res.Triage.Decision), string(res.Recommendation), jsonData, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save scorecard: %w", err)
	}
	return nil
}

// LoadByHash retrieves a stored scorecard by its assumptions hash.
// pgx.ErrNoRows maps to a nil result, not an error: an unseen hash is
// the normal first-run case.
func (r *ScorecardRepo) LoadByHash(ctx context.Context, hash string) (*underwrite.Result, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT scorecard_json FROM scorecards WHERE assumptions_hash = $1`

	var jsonData []byte
	err := pool.QueryRow(ctx, query, hash).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load scorecard: %w", err)
	}

	var res underwrite.Result
	if err := json.Unmarshal(jsonData, &res); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scorecard: %w", err)
	}
	return &res, nil
}

// LatestHashForDeal returns the most recently stored assumptions hash
// for a deal name, or empty string when the deal has never been run.
// The underwriter feeds this into the rerun policy.
func (r *ScorecardRepo) LatestHashForDeal(ctx context.Context, dealName string) (string, error) {
	pool := GetPool()
	if pool == nil {
		return "", fmt.Errorf("database pool not initialized")
	}

	query := `SELECT assumptions_hash FROM scorecards WHERE deal_name = $1 ORDER BY updated_at DESC LIMIT 1`

	var hash string
	err := pool.QueryRow(ctx, query, dealName).Scan(&hash)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to look up deal hash: %w", err)
	}
	return hash, nil
}
