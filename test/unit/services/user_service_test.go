package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	impl "github.com/chatloop/chatloop-server/internal/application/services"
	"github.com/chatloop/chatloop-server/internal/core/domain/user"
	"github.com/chatloop/chatloop-server/internal/core/domain/verification"
	"github.com/chatloop/chatloop-server/test/mocks"
)

func TestSignup_DuplicateEmail(t *testing.T) {
	ur := &mocks.UserRepositoryMock{GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
		return &user.User{Email: email}, nil
	}}
	svc := impl.NewUserService(ur, &mocks.VerificationServiceMock{}, nil)

	_, err := svc.Signup(context.Background(), &user.SignupRequest{Email: "a@b.com", Password: "TestPass123"})
	if err == nil {
		t.Fatal("expected duplicate email error")
	}
}

func TestSignup_WeakPassword(t *testing.T) {
	ur := &mocks.UserRepositoryMock{}
	svc := impl.NewUserService(ur, &mocks.VerificationServiceMock{}, nil)

	_, err := svc.Signup(context.Background(), &user.SignupRequest{Email: "a@b.com", Password: "short"})
	if err == nil {
		t.Fatal("expected password strength error")
	}
}

func TestSignup_Success(t *testing.T) {
	var created *user.User
	ur := &mocks.UserRepositoryMock{CreateFn: func(ctx context.Context, u *user.User) error {
		created = u
		return nil
	}}
	issueCalled := false
	vs := &mocks.VerificationServiceMock{IssueAndSendFn: func(ctx context.Context, userID uuid.UUID, email, displayName string) error {
		issueCalled = true
		return nil
	}}
	svc := impl.NewUserService(ur, vs, nil)

	result, err := svc.Signup(context.Background(), &user.SignupRequest{Email: "a@b.com", Password: "TestPass123", DisplayName: "A"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.EmailSent {
		t.Fatal("expected EmailSent=true")
	}
	if !issueCalled {
		t.Fatal("verification was never started")
	}
	if created == nil || created.EmailVerified || !created.IsActive {
		t.Fatalf("unexpected stored user: %+v", created)
	}
	if created.PasswordHash == "TestPass123" {
		t.Fatal("password stored in plaintext")
	}
}

func TestSignup_StoreFailureIsFatal(t *testing.T) {
	ur := &mocks.UserRepositoryMock{}
	vs := &mocks.VerificationServiceMock{IssueAndSendFn: func(ctx context.Context, userID uuid.UUID, email, displayName string) error {
		return &verification.PersistenceError{Op: "create record", Err: errors.New("db down")}
	}}
	svc := impl.NewUserService(ur, vs, nil)

	result, err := svc.Signup(context.Background(), &user.SignupRequest{Email: "a@b.com", Password: "TestPass123"})
	if err == nil {
		t.Fatal("expected signup to fail when the verification record cannot be stored")
	}
	if result != nil {
		t.Fatal("expected no result on fatal signup error")
	}
}

func TestSignup_DeliveryFailureIsNonFatal(t *testing.T) {
	ur := &mocks.UserRepositoryMock{}
	vs := &mocks.VerificationServiceMock{IssueAndSendFn: func(ctx context.Context, userID uuid.UUID, email, displayName string) error {
		return &verification.DeliveryError{Email: email, Err: errors.New("smtp unavailable")}
	}}
	svc := impl.NewUserService(ur, vs, nil)

	result, err := svc.Signup(context.Background(), &user.SignupRequest{Email: "a@b.com", Password: "TestPass123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.EmailSent {
		t.Fatal("expected EmailSent=false on delivery failure")
	}
	if result.User == nil {
		t.Fatal("account should still exist")
	}
}

func TestResendVerificationEmail_AlreadyVerified(t *testing.T) {
	ur := &mocks.UserRepositoryMock{GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
		return &user.User{ID: uuid.New(), Email: email, EmailVerified: true}, nil
	}}
	svc := impl.NewUserService(ur, &mocks.VerificationServiceMock{}, nil)

	if err := svc.ResendVerificationEmail(context.Background(), "a@b.com"); err == nil {
		t.Fatal("expected error for already verified account")
	}
}

func TestResendVerificationEmail_UnknownUser(t *testing.T) {
	ur := &mocks.UserRepositoryMock{}
	svc := impl.NewUserService(ur, &mocks.VerificationServiceMock{}, nil)

	if err := svc.ResendVerificationEmail(context.Background(), "nobody@b.com"); err == nil {
		t.Fatal("expected error for unknown user")
	}
}

func TestResendVerificationEmail_IssuesNewToken(t *testing.T) {
	userID := uuid.New()
	ur := &mocks.UserRepositoryMock{GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
		return &user.User{ID: userID, Email: email, DisplayName: "A"}, nil
	}}
	var issuedFor uuid.UUID
	vs := &mocks.VerificationServiceMock{IssueAndSendFn: func(ctx context.Context, uID uuid.UUID, email, displayName string) error {
		issuedFor = uID
		return nil
	}}
	svc := impl.NewUserService(ur, vs, nil)

	if err := svc.ResendVerificationEmail(context.Background(), "a@b.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issuedFor != userID {
		t.Fatalf("issued for wrong user: %s", issuedFor)
	}
}
