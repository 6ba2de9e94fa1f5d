// Package favour manages favours between two users.
// A favour is visible to its creator and its partner, only the creator may delete it.
package favour

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/favours/internal/apperrors"
	"github.com/nkiryanov/favours/internal/models"
	"github.com/nkiryanov/favours/internal/repository"
)

const defaultTimeout = 5 * time.Second

type Config struct {
	// Upper bound for a single service call to the store
	// If not set than default is used
	Timeout time.Duration

	// Clock for default start time and updated at
	// If not set than time.Now is used
	Now func() time.Time
}

type CreateParams struct {
	PartnerID uuid.UUID
	Title     string

	// Now if not set
	StartTime *time.Time
	EndTime   *time.Time
}

// Fields to change. Nil means keep as is
type UpdateParams struct {
	Title     *string
	Status    *models.FavourStatus
	StartTime *time.Time
	EndTime   *time.Time
}

type FavourService struct {
	storage repository.Storage
	timeout time.Duration
	now     func() time.Time
}

func NewService(cfg Config, storage repository.Storage) *FavourService {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &FavourService{
		storage: storage,
		timeout: cfg.Timeout,
		now:     cfg.Now,
	}
}

// List favours where user is creator or partner, newest first
func (s *FavourService) List(ctx context.Context, userID uuid.UUID) ([]models.Favour, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	favours, err := s.storage.Favour().ListFavours(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("can't list favours. Err: %w", err)
	}

	return favours, nil
}

// Get favour if user participates in it, apperrors.ErrFavourNotFound otherwise
func (s *FavourService) Get(ctx context.Context, favourID uuid.UUID, userID uuid.UUID) (models.Favour, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.storage.Favour().GetFavour(ctx, favourID, userID, false)
}

func (s *FavourService) Create(ctx context.Context, creatorID uuid.UUID, p CreateParams) (models.Favour, error) {
	if p.PartnerID == creatorID {
		return models.Favour{}, apperrors.ErrFavourSelfPartner
	}

	now := s.now().UTC()
	start := now
	if p.StartTime != nil {
		start = *p.StartTime
	}
	if p.EndTime != nil && !p.EndTime.After(start) {
		return models.Favour{}, apperrors.ErrFavourTimeRange
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.storage.Favour().CreateFavour(ctx, models.Favour{
		ID:        uuid.New(),
		CreatorID: creatorID,
		PartnerID: p.PartnerID,
		Title:     p.Title,
		Status:    models.FavourPending,
		StartTime: start,
		EndTime:   p.EndTime,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Update favour the user participates in.
// Status may be moved to verified or rejected only; end time must stay after start time
func (s *FavourService) Update(ctx context.Context, favourID uuid.UUID, userID uuid.UUID, p UpdateParams) (models.Favour, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var updated models.Favour
	err := s.storage.InTx(ctx, func(storage repository.Storage) error {
		favour, err := storage.Favour().GetFavour(ctx, favourID, userID, true)
		if err != nil {
			return err
		}

		// Checked after lookup so strangers get not found whatever they send
		if p.Status != nil && *p.Status != models.FavourVerified && *p.Status != models.FavourRejected {
			return apperrors.ErrFavourStatus
		}

		if p.Title != nil {
			favour.Title = *p.Title
		}
		if p.Status != nil {
			favour.Status = *p.Status
		}
		if p.StartTime != nil {
			favour.StartTime = *p.StartTime
		}
		if p.EndTime != nil {
			favour.EndTime = p.EndTime
		}
		if favour.EndTime != nil && !favour.EndTime.After(favour.StartTime) {
			return apperrors.ErrFavourTimeRange
		}
		favour.UpdatedAt = s.now().UTC()

		updated, err = storage.Favour().UpdateFavour(ctx, favour)
		return err
	})
	if err != nil {
		return models.Favour{}, err
	}

	return updated, nil
}

// Delete favour created by the user.
// Partner and strangers get apperrors.ErrFavourNotFound
func (s *FavourService) Delete(ctx context.Context, favourID uuid.UUID, userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.storage.Favour().DeleteFavour(ctx, favourID, userID)
}
