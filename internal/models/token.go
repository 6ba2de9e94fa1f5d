package models

import (
	"time"
)

// Signed access token issued by TokenManager
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}
