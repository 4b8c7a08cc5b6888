package ports

import (
	"context"
	"time"

	"github.com/chatloop/chatloop-server/internal/core/domain/auth"
	"github.com/chatloop/chatloop-server/internal/core/domain/user"
	"github.com/google/uuid"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Login(ctx context.Context, req *auth.LoginRequest) (*auth.AuthTokens, error)
	RefreshToken(ctx context.Context, refreshToken string) (*auth.AuthTokens, error)
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
	Logout(ctx context.Context, userID uuid.UUID, token string) error
	GenerateTokens(ctx context.Context, user *user.User) (*auth.AuthTokens, error)
	GetTokenHash(token string) string
}

// TokenRepository defines the interface for session token storage
type TokenRepository interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	BlacklistToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	IsTokenBlacklisted(ctx context.Context, tokenHash string) (bool, error)
}

// RefreshToken represents a stored refresh token
type RefreshToken struct {
	UserID    uuid.UUID `json:"user_id"`
	TokenHash string    `json:"token_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
