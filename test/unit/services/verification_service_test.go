package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	impl "github.com/chatloop/chatloop-server/internal/application/services"
	"github.com/chatloop/chatloop-server/internal/core/domain/verification"
	"github.com/chatloop/chatloop-server/test/mocks"
)

func TestIssueAndSend_Success(t *testing.T) {
	userID := uuid.New()
	var stored *verification.Record
	store := &mocks.VerificationStoreMock{
		CreateFn: func(ctx context.Context, record *verification.Record) error {
			stored = record
			return nil
		},
	}
	var sentToken string
	es := &mocks.EmailServiceMock{
		SendVerificationEmailFn: func(ctx context.Context, email, token, displayName string) error {
			sentToken = token
			return nil
		},
	}
	svc := impl.NewVerificationService(store, impl.NewTokenIssuer(), es, nil)

	if err := svc.IssueAndSend(context.Background(), userID, "a@b.com", "A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil {
		t.Fatal("record not persisted")
	}
	if stored.UserID != userID || stored.Email != "a@b.com" || stored.Verified {
		t.Fatalf("unexpected record: %+v", stored)
	}
	if sentToken != stored.Token {
		t.Fatalf("emailed token %q does not match stored token %q", sentToken, stored.Token)
	}
	ttl := time.Until(stored.ExpiresAt)
	if ttl < 23*time.Hour || ttl > 25*time.Hour {
		t.Fatalf("unexpected expiry window: %v", ttl)
	}
}

func TestIssueAndSend_StoreFailureIsFatalAndNothingSent(t *testing.T) {
	store := &mocks.VerificationStoreMock{
		CreateFn: func(ctx context.Context, record *verification.Record) error {
			return &verification.PersistenceError{Op: "create record", Err: errors.New("connection refused")}
		},
	}
	sendCalled := false
	es := &mocks.EmailServiceMock{
		SendVerificationEmailFn: func(ctx context.Context, email, token, displayName string) error {
			sendCalled = true
			return nil
		},
	}
	svc := impl.NewVerificationService(store, impl.NewTokenIssuer(), es, nil)

	err := svc.IssueAndSend(context.Background(), uuid.New(), "a@b.com", "A")
	var perr *verification.PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if sendCalled {
		t.Fatal("email sent for a token that was never stored")
	}
}

func TestIssueAndSend_DeliveryFailureKeepsRecord(t *testing.T) {
	created := false
	store := &mocks.VerificationStoreMock{
		CreateFn: func(ctx context.Context, record *verification.Record) error {
			created = true
			return nil
		},
	}
	es := &mocks.EmailServiceMock{
		SendVerificationEmailFn: func(ctx context.Context, email, token, displayName string) error {
			return errors.New("smtp unavailable")
		},
	}
	svc := impl.NewVerificationService(store, impl.NewTokenIssuer(), es, nil)

	err := svc.IssueAndSend(context.Background(), uuid.New(), "a@b.com", "A")
	var derr *verification.DeliveryError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DeliveryError, got %v", err)
	}
	if derr.Email != "a@b.com" {
		t.Fatalf("unexpected email in delivery error: %s", derr.Email)
	}
	if !created {
		t.Fatal("record should have been persisted before the send attempt")
	}
}

func TestVerify_NoMatchingRecord(t *testing.T) {
	store := &mocks.VerificationStoreMock{
		FindValidFn: func(ctx context.Context, email, token string) (*verification.Record, error) {
			return nil, verification.ErrRecordNotFound
		},
	}
	svc := impl.NewVerificationService(store, impl.NewTokenIssuer(), &mocks.EmailServiceMock{}, nil)

	err := svc.Verify(context.Background(), "a@b.com", "deadbeef")
	if !errors.Is(err, verification.ErrInvalidOrExpiredToken) {
		t.Fatalf("expected ErrInvalidOrExpiredToken, got %v", err)
	}
}

func TestVerify_Success(t *testing.T) {
	recordID := uuid.New()
	userID := uuid.New()
	store := &mocks.VerificationStoreMock{
		FindValidFn: func(ctx context.Context, email, token string) (*verification.Record, error) {
			return &verification.Record{ID: recordID, UserID: userID, Email: email, Token: token, ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
		MarkVerifiedAndActivateFn: func(ctx context.Context, rID, uID uuid.UUID) error {
			if rID != recordID || uID != userID {
				t.Fatalf("commit called with wrong IDs: %s %s", rID, uID)
			}
			return nil
		},
	}
	svc := impl.NewVerificationService(store, impl.NewTokenIssuer(), &mocks.EmailServiceMock{}, nil)

	if err := svc.Verify(context.Background(), "a@b.com", "tok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVerify_LostRaceIsInvalidToken(t *testing.T) {
	store := &mocks.VerificationStoreMock{
		FindValidFn: func(ctx context.Context, email, token string) (*verification.Record, error) {
			return &verification.Record{ID: uuid.New(), UserID: uuid.New()}, nil
		},
		// A concurrent verify consumed the record between lookup and commit.
		MarkVerifiedAndActivateFn: func(ctx context.Context, recordID, userID uuid.UUID) error {
			return verification.ErrRecordNotFound
		},
	}
	svc := impl.NewVerificationService(store, impl.NewTokenIssuer(), &mocks.EmailServiceMock{}, nil)

	err := svc.Verify(context.Background(), "a@b.com", "tok")
	if !errors.Is(err, verification.ErrInvalidOrExpiredToken) {
		t.Fatalf("expected ErrInvalidOrExpiredToken for lost race, got %v", err)
	}
}

func TestVerify_CommitFailureIsRetryable(t *testing.T) {
	store := &mocks.VerificationStoreMock{
		FindValidFn: func(ctx context.Context, email, token string) (*verification.Record, error) {
			return &verification.Record{ID: uuid.New(), UserID: uuid.New()}, nil
		},
		MarkVerifiedAndActivateFn: func(ctx context.Context, recordID, userID uuid.UUID) error {
			return errors.New("deadlock detected")
		},
	}
	svc := impl.NewVerificationService(store, impl.NewTokenIssuer(), &mocks.EmailServiceMock{}, nil)

	err := svc.Verify(context.Background(), "a@b.com", "tok")
	var cerr *verification.CommitError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected CommitError, got %v", err)
	}
	if errors.Is(err, verification.ErrInvalidOrExpiredToken) {
		t.Fatal("commit failure must not be reported as an invalid token")
	}
}

// memStore mimics the store's filtering and conditional-update semantics in
// memory, so the double-verify sequence can run through the real service.
type memStore struct {
	rec *verification.Record
}

func (s *memStore) Create(ctx context.Context, record *verification.Record) error {
	s.rec = record
	return nil
}
func (s *memStore) FindValid(ctx context.Context, email, token string) (*verification.Record, error) {
	r := s.rec
	if r == nil || r.Email != email || r.Token != token || r.Verified || r.IsExpired() {
		return nil, verification.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}
func (s *memStore) MarkVerifiedAndActivate(ctx context.Context, recordID, userID uuid.UUID) error {
	if s.rec == nil || s.rec.ID != recordID || s.rec.Verified {
		return verification.ErrRecordNotFound
	}
	s.rec.Verified = true
	return nil
}

func TestVerify_SingleUse(t *testing.T) {
	store := &memStore{}
	svc := impl.NewVerificationService(store, impl.NewTokenIssuer(), &mocks.EmailServiceMock{}, nil)

	if err := svc.IssueAndSend(context.Background(), uuid.New(), "a@b.com", "A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	token := store.rec.Token

	if err := svc.Verify(context.Background(), "a@b.com", token); err != nil {
		t.Fatalf("first verify must succeed: %v", err)
	}
	err := svc.Verify(context.Background(), "a@b.com", token)
	if !errors.Is(err, verification.ErrInvalidOrExpiredToken) {
		t.Fatalf("second verify must fail with ErrInvalidOrExpiredToken, got %v", err)
	}
}

func TestVerify_EmailMismatchFailsUniformly(t *testing.T) {
	store := &memStore{}
	svc := impl.NewVerificationService(store, impl.NewTokenIssuer(), &mocks.EmailServiceMock{}, nil)

	if err := svc.IssueAndSend(context.Background(), uuid.New(), "a@b.com", "A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := svc.Verify(context.Background(), "other@b.com", store.rec.Token)
	if !errors.Is(err, verification.ErrInvalidOrExpiredToken) {
		t.Fatalf("mismatched email must fail with ErrInvalidOrExpiredToken, got %v", err)
	}
}
