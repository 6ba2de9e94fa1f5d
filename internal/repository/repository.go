package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/nkiryanov/favours/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with username exists already has to return error apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, username string, hashedPassword string) (models.User, error)

	// Get user by it's id or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
}

// Favour repository interface
// Every read is scoped to a participant: favours of other users are reported as not found
type FavourRepo interface {
	// Create favour as is
	// If partner does not exist has to return apperrors.ErrPartnerNotFound
	CreateFavour(ctx context.Context, favour models.Favour) (models.Favour, error)

	// Get favour where user is creator or partner
	// If lock is true the row is locked until transaction ends
	// If not found must return apperrors.ErrFavourNotFound
	GetFavour(ctx context.Context, favourID uuid.UUID, userID uuid.UUID, lock bool) (models.Favour, error)

	// List favours where user is creator or partner, newest first
	ListFavours(ctx context.Context, userID uuid.UUID) ([]models.Favour, error)

	// Save title, status and time range of existing favour
	UpdateFavour(ctx context.Context, favour models.Favour) (models.Favour, error)

	// Delete favour created by the user
	// If favour not found or user is not its creator must return apperrors.ErrFavourNotFound
	DeleteFavour(ctx context.Context, favourID uuid.UUID, creatorID uuid.UUID) error
}

type Storage interface {
	User() UserRepo
	Favour() FavourRepo

	// Run fn in transaction. Commit if fn returns nil, rollback otherwise
	InTx(ctx context.Context, fn func(Storage) error) error
}
