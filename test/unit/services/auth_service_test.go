package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	config "github.com/chatloop/chatloop-server/configs"
	impl "github.com/chatloop/chatloop-server/internal/application/services"
	"github.com/chatloop/chatloop-server/internal/core/domain/auth"
	"github.com/chatloop/chatloop-server/internal/core/domain/user"
	"github.com/chatloop/chatloop-server/internal/core/ports"
	"github.com/chatloop/chatloop-server/test/mocks"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:          "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}
}

func verifiedUser(t *testing.T, password string) *user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return &user.User{
		ID:            uuid.New(),
		Email:         "a@b.com",
		PasswordHash:  string(hash),
		IsActive:      true,
		EmailVerified: true,
	}
}

func TestLogin_Success(t *testing.T) {
	u := verifiedUser(t, "TestPass123")
	ur := &mocks.UserRepositoryMock{GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return u, nil }}
	svc := impl.NewAuthService(ur, &mocks.TokenRepositoryMock{}, testJWTConfig(), nil)

	tokens, err := svc.Login(context.Background(), &auth.LoginRequest{Email: "a@b.com", Password: "TestPass123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	u := verifiedUser(t, "TestPass123")
	ur := &mocks.UserRepositoryMock{GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return u, nil }}
	svc := impl.NewAuthService(ur, &mocks.TokenRepositoryMock{}, testJWTConfig(), nil)

	if _, err := svc.Login(context.Background(), &auth.LoginRequest{Email: "a@b.com", Password: "wrong"}); err == nil {
		t.Fatal("expected invalid credentials error")
	}
}

func TestLogin_UnverifiedEmailRejected(t *testing.T) {
	u := verifiedUser(t, "TestPass123")
	u.EmailVerified = false
	ur := &mocks.UserRepositoryMock{GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return u, nil }}
	svc := impl.NewAuthService(ur, &mocks.TokenRepositoryMock{}, testJWTConfig(), nil)

	_, err := svc.Login(context.Background(), &auth.LoginRequest{Email: "a@b.com", Password: "TestPass123"})
	if err == nil || err.Error() != "email not verified" {
		t.Fatalf("expected email not verified error, got %v", err)
	}
}

func TestLogin_DisabledAccountRejected(t *testing.T) {
	u := verifiedUser(t, "TestPass123")
	u.IsActive = false
	ur := &mocks.UserRepositoryMock{GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return u, nil }}
	svc := impl.NewAuthService(ur, &mocks.TokenRepositoryMock{}, testJWTConfig(), nil)

	if _, err := svc.Login(context.Background(), &auth.LoginRequest{Email: "a@b.com", Password: "TestPass123"}); err == nil {
		t.Fatal("expected disabled account error")
	}
}

func TestValidateToken_RoundTrip(t *testing.T) {
	u := verifiedUser(t, "TestPass123")
	svc := impl.NewAuthService(&mocks.UserRepositoryMock{}, &mocks.TokenRepositoryMock{}, testJWTConfig(), nil)

	tokens, err := svc.GenerateTokens(context.Background(), u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := svc.ValidateToken(context.Background(), tokens.AccessToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != u.ID || claims.Email != u.Email {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateToken_BlacklistedRejected(t *testing.T) {
	u := verifiedUser(t, "TestPass123")
	tr := &mocks.TokenRepositoryMock{IsTokenBlacklistedFn: func(ctx context.Context, tokenHash string) (bool, error) { return true, nil }}
	svc := impl.NewAuthService(&mocks.UserRepositoryMock{}, tr, testJWTConfig(), nil)

	tokens, err := svc.GenerateTokens(context.Background(), u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ValidateToken(context.Background(), tokens.AccessToken); err == nil {
		t.Fatal("expected blacklisted token to be rejected")
	}
}

func TestRefreshToken_RotatesAndDeletesOld(t *testing.T) {
	u := verifiedUser(t, "TestPass123")
	deleted := false
	tr := &mocks.TokenRepositoryMock{
		GetRefreshTokenFn: func(ctx context.Context, token string) (*ports.RefreshToken, error) {
			return &ports.RefreshToken{UserID: u.ID, ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
		DeleteRefreshTokenFn: func(ctx context.Context, token string) error {
			deleted = true
			return nil
		},
	}
	ur := &mocks.UserRepositoryMock{GetByIDFn: func(ctx context.Context, id uuid.UUID) (*user.User, error) { return u, nil }}
	svc := impl.NewAuthService(ur, tr, testJWTConfig(), nil)

	tokens, err := svc.RefreshToken(context.Background(), "old-refresh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens.AccessToken == "" {
		t.Fatal("expected a fresh access token")
	}
	if !deleted {
		t.Fatal("old refresh token was not rotated out")
	}
}

func TestRefreshToken_ExpiredRejected(t *testing.T) {
	tr := &mocks.TokenRepositoryMock{
		GetRefreshTokenFn: func(ctx context.Context, token string) (*ports.RefreshToken, error) {
			return &ports.RefreshToken{UserID: uuid.New(), ExpiresAt: time.Now().Add(-time.Minute)}, nil
		},
	}
	svc := impl.NewAuthService(&mocks.UserRepositoryMock{}, tr, testJWTConfig(), nil)

	if _, err := svc.RefreshToken(context.Background(), "stale"); err == nil {
		t.Fatal("expected expired refresh token to be rejected")
	}
}
