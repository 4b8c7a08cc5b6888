package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chatloop/chatloop-server/internal/core/domain/auth"
	"github.com/chatloop/chatloop-server/internal/core/domain/chat"
	"github.com/chatloop/chatloop-server/internal/core/domain/user"
	"github.com/chatloop/chatloop-server/internal/core/domain/verification"
	"github.com/chatloop/chatloop-server/internal/core/ports"
)

// TokenIssuerMock is a lightweight mock for TokenIssuer
type TokenIssuerMock struct {
	GenerateFn func() (string, error)
}

func (m *TokenIssuerMock) Generate() (string, error) {
	if m.GenerateFn != nil {
		return m.GenerateFn()
	}
	return "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef", nil
}

// VerificationStoreMock is a lightweight mock for VerificationStore
type VerificationStoreMock struct {
	CreateFn                  func(ctx context.Context, record *verification.Record) error
	FindValidFn               func(ctx context.Context, email, token string) (*verification.Record, error)
	MarkVerifiedAndActivateFn func(ctx context.Context, recordID, userID uuid.UUID) error
}

func (m *VerificationStoreMock) Create(ctx context.Context, record *verification.Record) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, record)
	}
	return nil
}
func (m *VerificationStoreMock) FindValid(ctx context.Context, email, token string) (*verification.Record, error) {
	if m.FindValidFn != nil {
		return m.FindValidFn(ctx, email, token)
	}
	return nil, verification.ErrRecordNotFound
}
func (m *VerificationStoreMock) MarkVerifiedAndActivate(ctx context.Context, recordID, userID uuid.UUID) error {
	if m.MarkVerifiedAndActivateFn != nil {
		return m.MarkVerifiedAndActivateFn(ctx, recordID, userID)
	}
	return nil
}

// VerificationServiceMock is a lightweight mock for VerificationService
type VerificationServiceMock struct {
	IssueAndSendFn func(ctx context.Context, userID uuid.UUID, email, displayName string) error
	VerifyFn       func(ctx context.Context, email, token string) error
}

func (m *VerificationServiceMock) IssueAndSend(ctx context.Context, userID uuid.UUID, email, displayName string) error {
	if m.IssueAndSendFn != nil {
		return m.IssueAndSendFn(ctx, userID, email, displayName)
	}
	return nil
}
func (m *VerificationServiceMock) Verify(ctx context.Context, email, token string) error {
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, email, token)
	}
	return nil
}

// EmailServiceMock is a lightweight mock for EmailService
type EmailServiceMock struct {
	SendVerificationEmailFn func(ctx context.Context, email, token, displayName string) error
}

func (m *EmailServiceMock) SendVerificationEmail(ctx context.Context, email, token, displayName string) error {
	if m.SendVerificationEmailFn != nil {
		return m.SendVerificationEmailFn(ctx, email, token, displayName)
	}
	return nil
}

// UserRepositoryMock is a lightweight mock for UserRepository
type UserRepositoryMock struct {
	CreateFn     func(ctx context.Context, u *user.User) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*user.User, error)
	UpdateFn     func(ctx context.Context, u *user.User) error
}

func (m *UserRepositoryMock) Create(ctx context.Context, u *user.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}
func (m *UserRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, fmt.Errorf("not found")
}
func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, fmt.Errorf("not found")
}
func (m *UserRepositoryMock) Update(ctx context.Context, u *user.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, u)
	}
	return nil
}

// UserServiceMock is a lightweight mock for UserService
type UserServiceMock struct {
	SignupFn                  func(ctx context.Context, req *user.SignupRequest) (*user.SignupResult, error)
	GetUserFn                 func(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetUserByEmailFn          func(ctx context.Context, email string) (*user.User, error)
	ResendVerificationEmailFn func(ctx context.Context, email string) error
}

func (m *UserServiceMock) Signup(ctx context.Context, req *user.SignupRequest) (*user.SignupResult, error) {
	if m.SignupFn != nil {
		return m.SignupFn(ctx, req)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *UserServiceMock) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, id)
	}
	return nil, fmt.Errorf("not found")
}
func (m *UserServiceMock) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetUserByEmailFn != nil {
		return m.GetUserByEmailFn(ctx, email)
	}
	return nil, fmt.Errorf("not found")
}
func (m *UserServiceMock) ResendVerificationEmail(ctx context.Context, email string) error {
	if m.ResendVerificationEmailFn != nil {
		return m.ResendVerificationEmailFn(ctx, email)
	}
	return nil
}

// AuthServiceMock is a lightweight mock for AuthService
type AuthServiceMock struct {
	LoginFn          func(ctx context.Context, req *auth.LoginRequest) (*auth.AuthTokens, error)
	RefreshFn        func(ctx context.Context, refreshToken string) (*auth.AuthTokens, error)
	ValidateTokenFn  func(ctx context.Context, token string) (*auth.Claims, error)
	LogoutFn         func(ctx context.Context, userID uuid.UUID, token string) error
	GenerateTokensFn func(ctx context.Context, u *user.User) (*auth.AuthTokens, error)
	GetTokenHashFn   func(token string) string
}

func (m *AuthServiceMock) Login(ctx context.Context, req *auth.LoginRequest) (*auth.AuthTokens, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, req)
	}
	return nil, fmt.Errorf("invalid credentials")
}
func (m *AuthServiceMock) RefreshToken(ctx context.Context, refreshToken string) (*auth.AuthTokens, error) {
	if m.RefreshFn != nil {
		return m.RefreshFn(ctx, refreshToken)
	}
	return nil, fmt.Errorf("invalid refresh token")
}
func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	return nil, fmt.Errorf("invalid token")
}
func (m *AuthServiceMock) Logout(ctx context.Context, userID uuid.UUID, token string) error {
	if m.LogoutFn != nil {
		return m.LogoutFn(ctx, userID, token)
	}
	return nil
}
func (m *AuthServiceMock) GenerateTokens(ctx context.Context, u *user.User) (*auth.AuthTokens, error) {
	if m.GenerateTokensFn != nil {
		return m.GenerateTokensFn(ctx, u)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *AuthServiceMock) GetTokenHash(token string) string {
	if m.GetTokenHashFn != nil {
		return m.GetTokenHashFn(token)
	}
	return "hash-" + token
}

// TokenRepositoryMock is a lightweight mock for TokenRepository
type TokenRepositoryMock struct {
	StoreRefreshTokenFn  func(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	GetRefreshTokenFn    func(ctx context.Context, token string) (*ports.RefreshToken, error)
	DeleteRefreshTokenFn func(ctx context.Context, token string) error
	BlacklistTokenFn     func(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	IsTokenBlacklistedFn func(ctx context.Context, tokenHash string) (bool, error)
}

func (m *TokenRepositoryMock) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	if m.StoreRefreshTokenFn != nil {
		return m.StoreRefreshTokenFn(ctx, userID, token, expiresAt)
	}
	return nil
}
func (m *TokenRepositoryMock) GetRefreshToken(ctx context.Context, token string) (*ports.RefreshToken, error) {
	if m.GetRefreshTokenFn != nil {
		return m.GetRefreshTokenFn(ctx, token)
	}
	return nil, fmt.Errorf("not found")
}
func (m *TokenRepositoryMock) DeleteRefreshToken(ctx context.Context, token string) error {
	if m.DeleteRefreshTokenFn != nil {
		return m.DeleteRefreshTokenFn(ctx, token)
	}
	return nil
}
func (m *TokenRepositoryMock) BlacklistToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	if m.BlacklistTokenFn != nil {
		return m.BlacklistTokenFn(ctx, userID, tokenHash, expiresAt)
	}
	return nil
}
func (m *TokenRepositoryMock) IsTokenBlacklisted(ctx context.Context, tokenHash string) (bool, error) {
	if m.IsTokenBlacklistedFn != nil {
		return m.IsTokenBlacklistedFn(ctx, tokenHash)
	}
	return false, nil
}

// ChatRepositoryMock is a lightweight mock for ChatRepository
type ChatRepositoryMock struct {
	CreateChatFn    func(ctx context.Context, c *chat.Chat) error
	GetChatFn       func(ctx context.Context, id uuid.UUID) (*chat.Chat, error)
	ListChatsFn     func(ctx context.Context, userID uuid.UUID) ([]*chat.Chat, error)
	DeleteChatFn    func(ctx context.Context, id uuid.UUID) error
	CreateMessageFn func(ctx context.Context, msg *chat.Message) error
	ListMessagesFn  func(ctx context.Context, chatID uuid.UUID, after time.Time) ([]*chat.Message, error)
}

func (m *ChatRepositoryMock) CreateChat(ctx context.Context, c *chat.Chat) error {
	if m.CreateChatFn != nil {
		return m.CreateChatFn(ctx, c)
	}
	return nil
}
func (m *ChatRepositoryMock) GetChat(ctx context.Context, id uuid.UUID) (*chat.Chat, error) {
	if m.GetChatFn != nil {
		return m.GetChatFn(ctx, id)
	}
	return nil, fmt.Errorf("not found")
}
func (m *ChatRepositoryMock) ListChats(ctx context.Context, userID uuid.UUID) ([]*chat.Chat, error) {
	if m.ListChatsFn != nil {
		return m.ListChatsFn(ctx, userID)
	}
	return nil, nil
}
func (m *ChatRepositoryMock) DeleteChat(ctx context.Context, id uuid.UUID) error {
	if m.DeleteChatFn != nil {
		return m.DeleteChatFn(ctx, id)
	}
	return nil
}
func (m *ChatRepositoryMock) CreateMessage(ctx context.Context, msg *chat.Message) error {
	if m.CreateMessageFn != nil {
		return m.CreateMessageFn(ctx, msg)
	}
	return nil
}
func (m *ChatRepositoryMock) ListMessages(ctx context.Context, chatID uuid.UUID, after time.Time) ([]*chat.Message, error) {
	if m.ListMessagesFn != nil {
		return m.ListMessagesFn(ctx, chatID, after)
	}
	return nil, nil
}

// ChatServiceMock is a lightweight mock for ChatService
type ChatServiceMock struct {
	CreateChatFn   func(ctx context.Context, userID uuid.UUID, req *chat.CreateChatRequest) (*chat.Chat, error)
	GetChatFn      func(ctx context.Context, userID, chatID uuid.UUID) (*chat.Chat, error)
	ListChatsFn    func(ctx context.Context, userID uuid.UUID) ([]*chat.Chat, error)
	DeleteChatFn   func(ctx context.Context, userID, chatID uuid.UUID) error
	SendMessageFn  func(ctx context.Context, userID, chatID uuid.UUID, req *chat.SendMessageRequest) (*chat.SendMessageResult, error)
	ListMessagesFn func(ctx context.Context, userID, chatID uuid.UUID, after time.Time) ([]*chat.Message, error)
}

func (m *ChatServiceMock) CreateChat(ctx context.Context, userID uuid.UUID, req *chat.CreateChatRequest) (*chat.Chat, error) {
	if m.CreateChatFn != nil {
		return m.CreateChatFn(ctx, userID, req)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *ChatServiceMock) GetChat(ctx context.Context, userID, chatID uuid.UUID) (*chat.Chat, error) {
	if m.GetChatFn != nil {
		return m.GetChatFn(ctx, userID, chatID)
	}
	return nil, fmt.Errorf("chat not found")
}
func (m *ChatServiceMock) ListChats(ctx context.Context, userID uuid.UUID) ([]*chat.Chat, error) {
	if m.ListChatsFn != nil {
		return m.ListChatsFn(ctx, userID)
	}
	return nil, nil
}
func (m *ChatServiceMock) DeleteChat(ctx context.Context, userID, chatID uuid.UUID) error {
	if m.DeleteChatFn != nil {
		return m.DeleteChatFn(ctx, userID, chatID)
	}
	return nil
}
func (m *ChatServiceMock) SendMessage(ctx context.Context, userID, chatID uuid.UUID, req *chat.SendMessageRequest) (*chat.SendMessageResult, error) {
	if m.SendMessageFn != nil {
		return m.SendMessageFn(ctx, userID, chatID, req)
	}
	return nil, fmt.Errorf("not implemented")
}
func (m *ChatServiceMock) ListMessages(ctx context.Context, userID, chatID uuid.UUID, after time.Time) ([]*chat.Message, error) {
	if m.ListMessagesFn != nil {
		return m.ListMessagesFn(ctx, userID, chatID, after)
	}
	return nil, nil
}

// BotResponderMock is a lightweight mock for BotResponder
type BotResponderMock struct {
	ReplyFn func(ctx context.Context, chatID uuid.UUID, content string) (string, error)
}

func (m *BotResponderMock) Reply(ctx context.Context, chatID uuid.UUID, content string) (string, error) {
	if m.ReplyFn != nil {
		return m.ReplyFn(ctx, chatID, content)
	}
	return "ok", nil
}

// RateLimiterServiceMock is a lightweight mock for RateLimiterService
type RateLimiterServiceMock struct {
	AllowFn func(ctx context.Context, key string) (bool, int, int, time.Time, error)
}

func (m *RateLimiterServiceMock) Allow(ctx context.Context, key string) (bool, int, int, time.Time, error) {
	if m.AllowFn != nil {
		return m.AllowFn(ctx, key)
	}
	return true, 1, 1, time.Now().Add(time.Minute), nil
}
