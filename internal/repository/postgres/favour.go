package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/favours/internal/apperrors"
	"github.com/nkiryanov/favours/internal/models"
)

type FavourRepo struct {
	DB DBTX
}

const createFavour = `-- name: CreateFavour
INSERT INTO favours (id, creator_id, partner_id, title, status, start_time, end_time, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, creator_id, partner_id, title, status, start_time, end_time, created_at, updated_at
`

func (r *FavourRepo) CreateFavour(ctx context.Context, f models.Favour) (models.Favour, error) {
	row := r.DB.QueryRow(ctx, createFavour,
		f.ID, f.CreatorID, f.PartnerID, f.Title, string(f.Status), f.StartTime, f.EndTime, f.CreatedAt, f.UpdatedAt,
	)
	favour, err := scanFavour(row)
	if err != nil {
		return favour, favourError(err)
	}

	return favour, nil
}

const getFavour = `-- name: GetFavour
SELECT id, creator_id, partner_id, title, status, start_time, end_time, created_at, updated_at
FROM favours
WHERE id = $1 AND (creator_id = $2 OR partner_id = $2)
`

func (r *FavourRepo) GetFavour(ctx context.Context, favourID uuid.UUID, userID uuid.UUID, lock bool) (models.Favour, error) {
	query := getFavour
	if lock {
		query += "FOR UPDATE\n"
	}

	favour, err := scanFavour(r.DB.QueryRow(ctx, query, favourID, userID))

	switch {
	case err == nil:
		return favour, nil
	case errors.Is(err, pgx.ErrNoRows):
		return favour, apperrors.ErrFavourNotFound
	default:
		return favour, fmt.Errorf("db error: %w", err)
	}
}

const listFavours = `-- name: ListFavours
SELECT id, creator_id, partner_id, title, status, start_time, end_time, created_at, updated_at
FROM favours
WHERE creator_id = $1 OR partner_id = $1
ORDER BY start_time DESC, id
`

func (r *FavourRepo) ListFavours(ctx context.Context, userID uuid.UUID) ([]models.Favour, error) {
	rows, err := r.DB.Query(ctx, listFavours, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	favours, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Favour, error) {
		return scanFavour(row)
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return favours, nil
}

const updateFavour = `-- name: UpdateFavour
UPDATE favours
SET title = $2, status = $3, start_time = $4, end_time = $5, updated_at = $6
WHERE id = $1
RETURNING id, creator_id, partner_id, title, status, start_time, end_time, created_at, updated_at
`

func (r *FavourRepo) UpdateFavour(ctx context.Context, f models.Favour) (models.Favour, error) {
	row := r.DB.QueryRow(ctx, updateFavour, f.ID, f.Title, string(f.Status), f.StartTime, f.EndTime, f.UpdatedAt)
	favour, err := scanFavour(row)

	switch {
	case err == nil:
		return favour, nil
	case errors.Is(err, pgx.ErrNoRows):
		return favour, apperrors.ErrFavourNotFound
	default:
		return favour, favourError(err)
	}
}

const deleteFavour = `-- name: DeleteFavour
DELETE FROM favours
WHERE id = $1 AND creator_id = $2
`

func (r *FavourRepo) DeleteFavour(ctx context.Context, favourID uuid.UUID, creatorID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteFavour, favourID, creatorID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrFavourNotFound
	}

	return nil
}

// Translate constraint violations to well known errors
func favourError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("db error: %w", err)
	}

	switch {
	case pgErr.Code == pgerrcode.ForeignKeyViolation:
		return apperrors.ErrPartnerNotFound
	case pgErr.Code == pgerrcode.CheckViolation && pgErr.ConstraintName == "favours_time_range_check":
		return apperrors.ErrFavourTimeRange
	case pgErr.Code == pgerrcode.CheckViolation && pgErr.ConstraintName == "favours_participants_check":
		return apperrors.ErrFavourSelfPartner
	case pgErr.Code == pgerrcode.CheckViolation && pgErr.ConstraintName == "favours_status_check":
		return apperrors.ErrFavourStatus
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

func scanFavour(row pgx.Row) (models.Favour, error) {
	var f models.Favour
	var status string

	err := row.Scan(&f.ID, &f.CreatorID, &f.PartnerID, &f.Title, &status, &f.StartTime, &f.EndTime, &f.CreatedAt, &f.UpdatedAt)
	f.Status = models.FavourStatus(status)

	return f, err
}
