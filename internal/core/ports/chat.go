package ports

import (
	"context"
	"time"

	"github.com/chatloop/chatloop-server/internal/core/domain/chat"
	"github.com/google/uuid"
)

// ChatRepository defines the interface for thread and message storage
type ChatRepository interface {
	CreateChat(ctx context.Context, c *chat.Chat) error
	GetChat(ctx context.Context, id uuid.UUID) (*chat.Chat, error)
	ListChats(ctx context.Context, userID uuid.UUID) ([]*chat.Chat, error)
	DeleteChat(ctx context.Context, id uuid.UUID) error

	CreateMessage(ctx context.Context, m *chat.Message) error
	// ListMessages returns a thread's messages in ascending creation order.
	// A non-zero after restricts the result to strictly newer rows, which
	// is what the client's polling loop asks for.
	ListMessages(ctx context.Context, chatID uuid.UUID, after time.Time) ([]*chat.Message, error)
}

// ChatService defines the interface for chat business logic
type ChatService interface {
	CreateChat(ctx context.Context, userID uuid.UUID, req *chat.CreateChatRequest) (*chat.Chat, error)
	GetChat(ctx context.Context, userID, chatID uuid.UUID) (*chat.Chat, error)
	ListChats(ctx context.Context, userID uuid.UUID) ([]*chat.Chat, error)
	DeleteChat(ctx context.Context, userID, chatID uuid.UUID) error
	SendMessage(ctx context.Context, userID, chatID uuid.UUID, req *chat.SendMessageRequest) (*chat.SendMessageResult, error)
	ListMessages(ctx context.Context, userID, chatID uuid.UUID, after time.Time) ([]*chat.Message, error)
}

// BotResponder produces the bot's reply for a user message. Implementations
// wrap an external collaborator and may fail; the user message is persisted
// regardless.
type BotResponder interface {
	Reply(ctx context.Context, chatID uuid.UUID, content string) (string, error)
}
