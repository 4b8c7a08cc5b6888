package chat

import (
	"time"

	"github.com/google/uuid"
)

// Chat is a single conversation thread owned by one user.
type Chat struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Message is one entry in a thread, written either by the owning user or by
// the bot on their behalf.
type Message struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ChatID    uuid.UUID `json:"chat_id" db:"chat_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	IsFromBot bool      `json:"is_from_bot" db:"is_from_bot"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateChatRequest represents the request to open a new thread
type CreateChatRequest struct {
	Title string `json:"title"`
}

// SendMessageRequest represents the request to post a message to a thread
type SendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessageResult carries the stored user message and, when the bot
// produced one, its reply. BotReply is nil if the responder failed; the
// user message is persisted either way.
type SendMessageResult struct {
	Message  *Message `json:"message"`
	BotReply *Message `json:"bot_reply,omitempty"`
}
