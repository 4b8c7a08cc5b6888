package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chatloop/chatloop-server/internal/core/domain/verification"
	"github.com/chatloop/chatloop-server/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// VerificationService implements the email verification workflow: issuing
// tokens at signup and consuming them when the user follows the emailed
// link. It holds no state of its own; correctness under concurrent verify
// attempts rests on the store's conditional update.
type VerificationService struct {
	store        ports.VerificationStore
	issuer       ports.TokenIssuer
	emailService ports.EmailService
	logger       *logrus.Logger
}

func NewVerificationService(store ports.VerificationStore, issuer ports.TokenIssuer, emailService ports.EmailService, logger *logrus.Logger) ports.VerificationService {
	return &VerificationService{
		store:        store,
		issuer:       issuer,
		emailService: emailService,
		logger:       logger,
	}
}

// IssueAndSend creates a verification record for the user and emails the
// link. The record must be persisted before anything is sent: a store
// failure aborts the sequence, a notifier failure leaves the record in
// place and is reported as a delivery error.
func (s *VerificationService) IssueAndSend(ctx context.Context, userID uuid.UUID, email, displayName string) error {
	token, err := s.issuer.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate verification token: %w", err)
	}

	record := &verification.Record{
		ID:        uuid.New(),
		Email:     email,
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(verification.TokenTTL),
		Verified:  false,
		CreatedAt: time.Now(),
	}

	if err := s.store.Create(ctx, record); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": userID, "email": email}).WithError(err).Error("failed to store verification record")
		}
		return err
	}

	if err := s.emailService.SendVerificationEmail(ctx, email, token, displayName); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": userID, "email": email}).WithError(err).Warn("verification email delivery failed")
		}
		return &verification.DeliveryError{Email: email, Err: err}
	}

	return nil
}

// Verify consumes a presented (email, token) pair. The lookup already
// filters out expired, used and mismatched records, so an absent result is
// reported uniformly as invalid-or-expired with no hint of the cause.
func (s *VerificationService) Verify(ctx context.Context, email, token string) error {
	record, err := s.store.FindValid(ctx, email, token)
	if err != nil {
		if errors.Is(err, verification.ErrRecordNotFound) {
			return verification.ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("verification lookup failed: %w", err)
	}

	if err := s.store.MarkVerifiedAndActivate(ctx, record.ID, record.UserID); err != nil {
		// A concurrent attempt consumed the record between lookup and
		// commit. That token is spent, not retryable.
		if errors.Is(err, verification.ErrRecordNotFound) {
			return verification.ErrInvalidOrExpiredToken
		}
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"record_id": record.ID, "user_id": record.UserID}).WithError(err).Error("failed to commit verification")
		}
		return &verification.CommitError{Err: err}
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": record.UserID, "email": email}).Info("email verified")
	}

	return nil
}
