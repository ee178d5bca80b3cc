package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/localspot/localspot-api/internal/data/pgxutil"
	"github.com/localspot/localspot-api/internal/domain/model"
	apperrors "github.com/localspot/localspot-api/internal/errors"
)

// OwnershipRepo answers business-ownership questions for the tie-in check.
// The business tables are owned by the directory CRUD surface; this repo
// only reads them.
type OwnershipRepo struct {
	DB *sql.DB
}

// NewOwnershipRepo creates a new OwnershipRepo.
func NewOwnershipRepo(db *sql.DB) *OwnershipRepo {
	return &OwnershipRepo{DB: db}
}

// ListOwnedBusinesses returns active businesses the user owns.
func (r *OwnershipRepo) ListOwnedBusinesses(ctx context.Context, userID string) ([]model.BusinessRef, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}

	var out []model.BusinessRef
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT b.id, b.name, b.status, b.created_at
			FROM business_owners bo
			JOIN businesses b ON b.id = bo.business_id
			WHERE bo.user_id = $1 AND b.status = $2
			ORDER BY b.created_at
		`, userID, model.BusinessActive)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.BusinessRef])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// ListApprovedOwnershipRequests returns the user's ownership requests with
// status approved. Pending and rejected requests do not count as a tie-in.
func (r *OwnershipRepo) ListApprovedOwnershipRequests(ctx context.Context, userID string) ([]model.OwnershipRequestRef, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}

	var out []model.OwnershipRequestRef
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, business_id, status, created_at
			FROM business_ownership_requests
			WHERE user_id = $1 AND status = $2
			ORDER BY created_at
		`, userID, model.OwnershipRequestApproved)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.OwnershipRequestRef])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}
