package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chatloop/chatloop-server/internal/core/domain/verification"
	"github.com/chatloop/chatloop-server/internal/core/ports"
	"github.com/chatloop/chatloop-server/internal/infrastructure/db"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// VerificationRepository implements the verification store on Postgres.
// Records are append-then-flip: inserted once at signup, updated at most
// once on consumption, never deleted.
type VerificationRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewVerificationRepository(database *db.Database, logger *logrus.Logger) ports.VerificationStore {
	return &VerificationRepository{
		db:     database,
		logger: logger,
	}
}

// Create inserts a verification record. Any rejected write, duplicate
// token, lost connectivity, denied permission, comes back as a
// *verification.PersistenceError so callers abort the signup sequence
// instead of mailing a link that resolves to nothing.
func (r *VerificationRepository) Create(ctx context.Context, rec *verification.Record) error {
	query := `
		INSERT INTO email_verifications (id, email, token, user_id, expires_at, verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.DB.ExecContext(ctx, query,
		rec.ID, rec.Email, rec.Token, rec.UserID, rec.ExpiresAt, rec.Verified, rec.CreatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": rec.UserID, "email": rec.Email}).WithError(err).Error("db: failed to create verification record")
		}
		return &verification.PersistenceError{Op: "create record", Err: err}
	}

	return nil
}

// FindValid returns the record matching (email, token) exactly, provided it
// is still unverified and unexpired. Every miss, wrong token, expired,
// already consumed or never existed, is the same ErrRecordNotFound.
func (r *VerificationRepository) FindValid(ctx context.Context, email, token string) (*verification.Record, error) {
	var rec verification.Record
	query := `
		SELECT id, email, token, user_id, expires_at, verified, created_at
		FROM email_verifications
		WHERE email = $1 AND token = $2 AND verified = FALSE AND expires_at > NOW()`

	err := r.db.DB.GetContext(ctx, &rec, query, email, token)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, verification.ErrRecordNotFound
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"email": email}).WithError(err).Error("db: failed to look up verification record")
		}
		return nil, fmt.Errorf("failed to look up verification record: %w", err)
	}

	return &rec, nil
}

// MarkVerifiedAndActivate consumes the record and activates the account in
// one transaction. The record update is predicated on verified = FALSE, so
// when two attempts race only one sees an affected row; the other gets
// ErrRecordNotFound and the caller reports the token as spent.
func (r *VerificationRepository) MarkVerifiedAndActivate(ctx context.Context, recordID, userID uuid.UUID) error {
	tx, err := r.db.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`UPDATE email_verifications SET verified = TRUE WHERE id = $1 AND verified = FALSE`,
		recordID)
	if err != nil {
		return fmt.Errorf("failed to mark record verified: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return verification.ErrRecordNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET email_verified = TRUE, updated_at = NOW() WHERE id = $1`,
		userID); err != nil {
		return fmt.Errorf("failed to activate account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit verification: %w", err)
	}

	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"record_id": recordID, "user_id": userID}).Info("db: verification record consumed")
	}

	return nil
}
