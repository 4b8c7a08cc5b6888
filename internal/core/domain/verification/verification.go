package verification

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TokenTTL is how long a verification token stays usable after issuance.
const TokenTTL = 24 * time.Hour

// Record is a single email verification attempt. Records are created at
// signup, consumed at most once and never deleted afterwards.
type Record struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Token     string    `json:"token" db:"token"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	Verified  bool      `json:"verified" db:"verified"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsExpired reports whether the record's token has passed its expiry.
func (r *Record) IsExpired() bool {
	return !time.Now().Before(r.ExpiresAt)
}

// IsUsable reports whether the record can still be consumed.
func (r *Record) IsUsable() bool {
	return !r.Verified && !r.IsExpired()
}

// ErrRecordNotFound is the uniform "no eligible record" result. Lookups do
// not distinguish wrong token, already used, expired or never existed, so a
// caller probing tokens learns nothing about which case applied.
var ErrRecordNotFound = errors.New("verification record not found")

// ErrInvalidOrExpiredToken is the user-facing failure for a verification
// attempt that matched no usable record. Not retryable.
var ErrInvalidOrExpiredToken = errors.New("verification token is invalid or has expired")

// PersistenceError wraps a store write that was rejected or unreachable.
// It is fatal to the signup step that produced it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("verification store: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// CommitError reports that an eligible record was found but the verified
// state transition could not be committed. Unlike ErrInvalidOrExpiredToken
// the token is still valid, so the caller may retry.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("failed to commit verification: %v", e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// DeliveryError reports a notifier failure. The account and record already
// exist, so this is a warning relative to account creation.
type DeliveryError struct {
	Email string
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver verification email to %s: %v", e.Email, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// VerifyRequest is the JSON body of a POST verification attempt.
type VerifyRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// ResendRequest asks for a fresh verification email.
type ResendRequest struct {
	Email string `json:"email"`
}
