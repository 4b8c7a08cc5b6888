package ports

import (
	"context"
)

// EmailService defines the interface for outbound email delivery
type EmailService interface {
	SendVerificationEmail(ctx context.Context, email, token, displayName string) error
}
