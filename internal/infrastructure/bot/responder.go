package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/chatloop/chatloop-server/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CannedResponder is the default bot backend. It answers with a canned
// phrase keyed on the message, standing in for the hosted model endpoint
// used in production deployments.
type CannedResponder struct {
	logger *logrus.Logger
}

func NewCannedResponder(logger *logrus.Logger) ports.BotResponder {
	return &CannedResponder{logger: logger}
}

var canned = map[string]string{
	"hello": "Hello! How can I help you today?",
	"hi":    "Hi there! What can I do for you?",
	"help":  "You can ask me anything and I'll do my best to answer.",
	"bye":   "Goodbye! Come back any time.",
}

func (r *CannedResponder) Reply(ctx context.Context, chatID uuid.UUID, content string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	normalized := strings.ToLower(strings.TrimSpace(content))
	if reply, ok := canned[normalized]; ok {
		return reply, nil
	}

	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"chat_id": chatID}).Debug("bot: no canned match, echoing")
	}

	return fmt.Sprintf("You said: %q. I'm a simple bot, but I'm listening!", content), nil
}
