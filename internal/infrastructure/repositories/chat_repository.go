package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/chatloop/chatloop-server/internal/core/domain/chat"
	"github.com/chatloop/chatloop-server/internal/core/ports"
	"github.com/chatloop/chatloop-server/internal/infrastructure/db"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ChatRepository implements thread and message storage on Postgres.
type ChatRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewChatRepository(database *db.Database, logger *logrus.Logger) ports.ChatRepository {
	return &ChatRepository{
		db:     database,
		logger: logger,
	}
}

func (r *ChatRepository) CreateChat(ctx context.Context, c *chat.Chat) error {
	query := `
		INSERT INTO chats (id, user_id, title, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.DB.ExecContext(ctx, query, c.ID, c.UserID, c.Title, c.CreatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": c.UserID}).WithError(err).Error("db: failed to create chat")
		}
		return fmt.Errorf("failed to create chat: %w", err)
	}

	return nil
}

func (r *ChatRepository) GetChat(ctx context.Context, id uuid.UUID) (*chat.Chat, error) {
	var c chat.Chat
	query := `SELECT id, user_id, title, created_at FROM chats WHERE id = $1`

	err := r.db.DB.GetContext(ctx, &c, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("chat with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}

	return &c, nil
}

func (r *ChatRepository) ListChats(ctx context.Context, userID uuid.UUID) ([]*chat.Chat, error) {
	chats := []*chat.Chat{}
	query := `
		SELECT id, user_id, title, created_at
		FROM chats
		WHERE user_id = $1
		ORDER BY created_at DESC`

	if err := r.db.DB.SelectContext(ctx, &chats, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}

	return chats, nil
}

func (r *ChatRepository) DeleteChat(ctx context.Context, id uuid.UUID) error {
	// Messages go with the thread (ON DELETE CASCADE).
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM chats WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("chat with ID %s not found", id)
	}

	return nil
}

func (r *ChatRepository) CreateMessage(ctx context.Context, m *chat.Message) error {
	query := `
		INSERT INTO messages (id, chat_id, user_id, content, is_from_bot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.DB.ExecContext(ctx, query,
		m.ID, m.ChatID, m.UserID, m.Content, m.IsFromBot, m.CreatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"chat_id": m.ChatID}).WithError(err).Error("db: failed to create message")
		}
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

func (r *ChatRepository) ListMessages(ctx context.Context, chatID uuid.UUID, after time.Time) ([]*chat.Message, error) {
	messages := []*chat.Message{}
	query := `
		SELECT id, chat_id, user_id, content, is_from_bot, created_at
		FROM messages
		WHERE chat_id = $1 AND created_at > $2
		ORDER BY created_at ASC`

	if err := r.db.DB.SelectContext(ctx, &messages, query, chatID, after); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return messages, nil
}
