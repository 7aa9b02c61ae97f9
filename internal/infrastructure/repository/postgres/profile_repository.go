package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/trustlane/kyb-service/internal/core/domain"
)

// ProfileRepository stores unified company profiles as append-only
// JSONB snapshots. Every KYB run produces a new snapshot; readers see
// the latest one per company.
type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082902)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS company_profiles (
	id BIGSERIAL PRIMARY KEY,
	company_id TEXT NOT NULL,
	profile JSONB NOT NULL,
	generated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_company_profiles_company_id
	ON company_profiles(company_id, generated_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *ProfileRepository) SaveProfile(ctx context.Context, companyID string, profile *domain.UnifiedCompanyProfile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO company_profiles (company_id, profile, generated_at)
VALUES ($1, $2, $3)
`, companyID, payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert profile snapshot: %w", err)
	}
	return nil
}

func (r *ProfileRepository) GetLatestProfile(ctx context.Context, companyID string) (*domain.UnifiedCompanyProfile, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT profile
FROM company_profiles
WHERE company_id = $1
ORDER BY generated_at DESC
LIMIT 1
`, companyID)

	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrProfileNotFound, "get latest profile", fmt.Errorf("company %s", companyID))
		}
		return nil, fmt.Errorf("scan profile snapshot: %w", err)
	}

	var profile domain.UnifiedCompanyProfile
	if err := json.Unmarshal(payload, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile snapshot: %w", err)
	}
	return &profile, nil
}
