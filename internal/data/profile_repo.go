package data

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/localspot/localspot-api/internal/data/pgxutil"
	domainauth "github.com/localspot/localspot-api/internal/domain/auth"
	apperrors "github.com/localspot/localspot-api/internal/errors"
	"github.com/localspot/localspot-api/internal/ports"
)

// ProfileRepo provides database operations for application-owned profile rows.
// The profile row itself is created by a provider-side trigger on first
// authentication; this repo only reads it and reconciles the role columns.
type ProfileRepo struct {
	DB *sql.DB
}

// NewProfileRepo creates a new ProfileRepo.
func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{DB: db}
}

// profileRow mirrors the full profiles column set.
type profileRow struct {
	UserID                string     `db:"user_id"`
	Role                  *string    `db:"role"`
	AccountRole           *string    `db:"account_role"`
	OnboardingStep        *string    `db:"onboarding_step"`
	OnboardingComplete    bool       `db:"onboarding_complete"`
	OnboardingCompletedAt *time.Time `db:"onboarding_completed_at"`
}

// account_role was added after the role column and still trips stale schema
// caches on read replicas. The reduced query below omits it so a retry can
// succeed while the cache catches up.
const profileSelectFull = `
	SELECT user_id, role, account_role, onboarding_step, onboarding_complete, onboarding_completed_at
	FROM profiles
	WHERE user_id = $1
`

const profileSelectReduced = `
	SELECT user_id, role, NULL AS account_role, onboarding_step, onboarding_complete, onboarding_completed_at
	FROM profiles
	WHERE user_id = $1
`

// GetProfile retrieves the profile for a user. Returns ports.ErrProfileNotFound
// when the row does not exist and a schema-cache AppError when the read hit a
// stale cached plan.
func (r *ProfileRepo) GetProfile(ctx context.Context, userID string) (domainauth.Profile, error) {
	return r.getByQuery(ctx, profileSelectFull, userID)
}

// GetProfileReduced retries the lookup with the pre-migration column set.
func (r *ProfileRepo) GetProfileReduced(ctx context.Context, userID string) (domainauth.Profile, error) {
	return r.getByQuery(ctx, profileSelectReduced, userID)
}

func (r *ProfileRepo) getByQuery(ctx context.Context, query, userID string) (domainauth.Profile, error) {
	if userID == "" {
		return domainauth.Profile{}, errors.New("user ID is required")
	}

	var row profileRow
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[profileRow])
		return err
	}); err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsNotFound(mapped) {
			return domainauth.Profile{}, ports.ErrProfileNotFound
		}
		return domainauth.Profile{}, mapped
	}

	return row.toDomain(), nil
}

// UpdateRoles writes both legacy role columns to the same value. Idempotent:
// re-running with the same inputs leaves the row unchanged.
func (r *ProfileRepo) UpdateRoles(ctx context.Context, userID string, fields ports.ProfileFields) error {
	if userID == "" {
		return errors.New("user ID is required")
	}

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, execErr := conn.Exec(ctx, `
			UPDATE profiles
			SET role = $2, account_role = $3, updated_at = now()
			WHERE user_id = $1
		`, userID, string(fields.Role), string(fields.AccountRole))
		if execErr != nil {
			return execErr
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	if err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsNotFound(mapped) {
			return ports.ErrProfileNotFound
		}
		return mapped
	}
	return nil
}

// toDomain collapses the two legacy role columns into the single domain role.
// role wins over account_role; both unset stays unresolved.
func (row profileRow) toDomain() domainauth.Profile {
	role := domainauth.ParseRole(deref(row.Role))
	if !role.Resolved() {
		role = domainauth.ParseRole(deref(row.AccountRole))
	}
	return domainauth.Profile{
		UserID:                row.UserID,
		Role:                  role,
		OnboardingStep:        deref(row.OnboardingStep),
		OnboardingComplete:    row.OnboardingComplete,
		OnboardingCompletedAt: row.OnboardingCompletedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
