package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chatloop/chatloop-server/internal/core/domain/user"
	"github.com/chatloop/chatloop-server/internal/core/domain/verification"
	"github.com/chatloop/chatloop-server/internal/core/ports"
	"github.com/chatloop/chatloop-server/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo            ports.UserRepository
	verificationSvc ports.VerificationService
	logger          *logrus.Logger
}

func NewUserService(repo ports.UserRepository, verificationSvc ports.VerificationService, logger *logrus.Logger) ports.UserService {
	return &UserService{
		repo:            repo,
		verificationSvc: verificationSvc,
		logger:          logger,
	}
}

// Signup creates an account and kicks off email verification. A failure to
// persist the verification record fails the whole signup: reporting success
// for a token that was never stored would strand the user with no way to
// verify. A failed email send does not; the account exists and the user can
// request a resend.
func (s *UserService) Signup(ctx context.Context, req *user.SignupRequest) (*user.SignupResult, error) {
	if existingUser, err := s.repo.GetByEmail(ctx, req.Email); err == nil && existingUser != nil {
		return nil, fmt.Errorf("email '%s' is already taken", req.Email)
	}

	if err := utils.ValidatePasswordStrength(req.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := &user.User{
		ID:            uuid.New(),
		Email:         req.Email,
		PasswordHash:  string(hashedPassword),
		DisplayName:   req.DisplayName,
		IsActive:      true,
		EmailVerified: false,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	result := &user.SignupResult{User: newUser, EmailSent: true}

	if err := s.verificationSvc.IssueAndSend(ctx, newUser.ID, newUser.Email, newUser.DisplayName); err != nil {
		var deliveryErr *verification.DeliveryError
		if errors.As(err, &deliveryErr) {
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{
					"user_id": newUser.ID,
					"email":   newUser.Email,
				}).WithError(err).Warn("verification email not delivered; account pending verification")
			}
			result.EmailSent = false
			return result, nil
		}
		return nil, fmt.Errorf("failed to start email verification: %w", err)
	}

	return result, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// ResendVerificationEmail issues a fresh token for an unverified account.
func (s *UserService) ResendVerificationEmail(ctx context.Context, email string) error {
	usr, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("user not found")
	}

	if usr.EmailVerified {
		return fmt.Errorf("email already verified")
	}

	return s.verificationSvc.IssueAndSend(ctx, usr.ID, usr.Email, usr.DisplayName)
}
