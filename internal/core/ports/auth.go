package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sportweather/sportweather-api/internal/core/domain/auth"
	"github.com/sportweather/sportweather-api/internal/core/domain/user"
)

// AuthService defines the interface for authentication operations.
type AuthService interface {
	Login(ctx context.Context, req *auth.LoginRequest) (*auth.AuthTokens, error)
	RefreshToken(ctx context.Context, refreshToken string) (*auth.AuthTokens, error)
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
	Logout(ctx context.Context, refreshToken string) error
	GenerateTokens(ctx context.Context, u *user.User) (*auth.AuthTokens, error)
}

// TokenRepository stores refresh tokens keyed by their hash.
type TokenRepository interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (uuid.UUID, error)
	DeleteRefreshToken(ctx context.Context, token string) error
}
