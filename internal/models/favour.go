package models

import (
	"time"

	"github.com/google/uuid"
)

type FavourStatus string

const (
	FavourPending  FavourStatus = "pending"
	FavourVerified FavourStatus = "verified"
	FavourRejected FavourStatus = "rejected"
)

type Favour struct {
	ID        uuid.UUID
	CreatorID uuid.UUID
	PartnerID uuid.UUID
	Title     string
	Status    FavourStatus
	StartTime time.Time
	EndTime   *time.Time // nil if favour is still open
	CreatedAt time.Time
	UpdatedAt time.Time
}
