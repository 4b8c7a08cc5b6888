package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/chatloop/chatloop-server/internal/core/ports"
)

// tokenLength is the number of random bytes per verification token. Hex
// encoding doubles it, so every issued token is 64 URL-safe characters.
const tokenLength = 32

// TokenIssuer produces opaque, high-entropy verification tokens.
type TokenIssuer struct{}

func NewTokenIssuer() ports.TokenIssuer {
	return &TokenIssuer{}
}

// Generate returns a fixed-length random token. Collisions are treated as
// cryptographically impossible; the store's uniqueness constraint is the
// backstop.
func (i *TokenIssuer) Generate() (string, error) {
	bytes := make([]byte, tokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to read randomness: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
