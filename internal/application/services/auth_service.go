package services

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	config "github.com/chatloop/chatloop-server/configs"
	"github.com/chatloop/chatloop-server/internal/core/domain/auth"
	"github.com/chatloop/chatloop-server/internal/core/domain/user"
	"github.com/chatloop/chatloop-server/internal/core/ports"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo  ports.UserRepository
	tokenRepo ports.TokenRepository
	jwtConfig *config.JWTConfig
	logger    *logrus.Logger
}

func NewAuthService(userRepo ports.UserRepository, tokenRepo ports.TokenRepository, jwtConfig *config.JWTConfig, logger *logrus.Logger) ports.AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwtConfig: jwtConfig,
		logger:    logger,
	}
}

func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.AuthTokens, error) {
	foundUser, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(foundUser.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	if !foundUser.IsActive {
		return nil, fmt.Errorf("user account is disabled")
	}

	if !foundUser.EmailVerified {
		return nil, fmt.Errorf("email not verified")
	}

	tokens, err := s.GenerateTokens(ctx, foundUser)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	foundUser.LastLoginAt = &now
	foundUser.UpdatedAt = now
	if err := s.userRepo.Update(ctx, foundUser); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": foundUser.ID}).WithError(err).Warn("failed to update user last login time")
		}
	}

	return tokens, nil
}

func (s *AuthService) GetTokenHash(token string) string {
	hasher := sha256.New()
	hasher.Write([]byte(token))
	return fmt.Sprintf("%x", hasher.Sum(nil))
}

func (s *AuthService) GenerateTokens(ctx context.Context, u *user.User) (*auth.AuthTokens, error) {
	now := time.Now()

	claims := &auth.Claims{
		UserID: u.ID,
		Email:  u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessTokenString, err := accessToken.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   u.ID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.RefreshTokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	refreshTokenString, err := refreshToken.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	err = s.tokenRepo.StoreRefreshToken(ctx, u.ID, refreshTokenString, now.Add(s.jwtConfig.RefreshTokenTTL))
	if err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &auth.AuthTokens{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
		ExpiresIn:    int64(s.jwtConfig.AccessTokenTTL.Seconds()),
	}, nil
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*auth.AuthTokens, error) {
	storedToken, err := s.tokenRepo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token")
	}

	if time.Now().After(storedToken.ExpiresAt) {
		if err := s.tokenRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
			if s.logger != nil {
				s.logger.WithError(err).Warn("failed to delete expired refresh token")
			}
		}
		return nil, fmt.Errorf("refresh token expired")
	}

	foundUser, err := s.userRepo.GetByID(ctx, storedToken.UserID)
	if err != nil {
		return nil, fmt.Errorf("user not found")
	}

	if !foundUser.IsActive {
		return nil, fmt.Errorf("user account is disabled")
	}

	// Rotate: the old refresh token is single-use.
	if err := s.tokenRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": foundUser.ID}).WithError(err).Warn("failed to delete rotated refresh token")
		}
	}

	return s.GenerateTokens(ctx, foundUser)
}

func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &auth.Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC (prevent alg confusion)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	isBlacklisted, err := s.tokenRepo.IsTokenBlacklisted(ctx, s.GetTokenHash(tokenString))
	if err != nil {
		return nil, err
	}

	if isBlacklisted {
		return nil, fmt.Errorf("token is blacklisted")
	}

	return claims, nil
}

func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, token string) error {
	claims, err := s.ValidateToken(ctx, token)
	if err != nil {
		return fmt.Errorf("invalid token")
	}

	expiresAt := time.Now().Add(s.jwtConfig.AccessTokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := s.tokenRepo.BlacklistToken(ctx, userID, s.GetTokenHash(token), expiresAt); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	return nil
}
