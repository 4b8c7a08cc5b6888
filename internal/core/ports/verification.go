package ports

import (
	"context"

	"github.com/chatloop/chatloop-server/internal/core/domain/verification"
	"github.com/google/uuid"
)

// TokenIssuer generates opaque verification tokens. Tokens carry no semantic
// content and are not derived from the email or the clock.
type TokenIssuer interface {
	Generate() (string, error)
}

// VerificationStore persists verification records. Implementations back onto
// a relational store; records are inserted once, consumed at most once and
// retained afterwards.
type VerificationStore interface {
	// Create inserts a new record. A rejected or unreachable write returns a
	// *verification.PersistenceError; the caller must treat it as fatal to
	// the signup sequence rather than proceed to send an email for a token
	// that was never stored.
	Create(ctx context.Context, record *verification.Record) error

	// FindValid returns the record matching (email, token) exactly, iff it
	// is unverified and unexpired. Every other case, wrong token, already
	// used, expired or never existed, returns verification.ErrRecordNotFound
	// uniformly.
	FindValid(ctx context.Context, email, token string) (*verification.Record, error)

	// MarkVerifiedAndActivate flips the record's verified flag and the
	// owning account's email_verified flag in one transaction. The record
	// update is conditional on verified = false, so of two concurrent
	// attempts at most one succeeds; the loser sees
	// verification.ErrRecordNotFound.
	MarkVerifiedAndActivate(ctx context.Context, recordID, userID uuid.UUID) error
}

// VerificationService drives the email verification workflow.
type VerificationService interface {
	// IssueAndSend generates a token, persists a record for the user and
	// hands the verification link to the notifier. A store failure is
	// returned as *verification.PersistenceError and nothing is sent; a
	// notifier failure is returned as *verification.DeliveryError with the
	// record already persisted.
	IssueAndSend(ctx context.Context, userID uuid.UUID, email, displayName string) error

	// Verify consumes a presented (email, token) pair. It returns
	// verification.ErrInvalidOrExpiredToken when no usable record matches
	// and *verification.CommitError when the record matched but the state
	// transition could not be committed (retryable).
	Verify(ctx context.Context, email, token string) error
}
