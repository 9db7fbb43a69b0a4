package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/sportweather/sportweather-api/internal/core/domain/sport"
)

// User is a registered account with its sport selection and weather tolerance.
type User struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Email        string          `json:"email" db:"email"`
	Username     string          `json:"username" db:"username"`
	PasswordHash string          `json:"-" db:"password_hash"`
	Sports       pq.StringArray  `json:"sports" db:"sports"`
	Tolerance    sport.Tolerance `json:"tolerance" db:"tolerance"`
	LastLoginAt  *time.Time      `json:"last_login_at" db:"last_login_at"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// RegisterRequest is the payload for account creation. Sports and tolerance
// are optional; the onboarding wizard fills them in later via profile update.
type RegisterRequest struct {
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	Username  string          `json:"username"`
	Sports    []string        `json:"sports,omitempty"`
	Tolerance sport.Tolerance `json:"tolerance,omitempty"`
}

// UpdateProfileRequest updates onboarding selections. Nil fields are left
// unchanged.
type UpdateProfileRequest struct {
	Username  *string          `json:"username,omitempty"`
	Sports    *[]string        `json:"sports,omitempty"`
	Tolerance *sport.Tolerance `json:"tolerance,omitempty"`
}
