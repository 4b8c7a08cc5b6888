package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chatloop/chatloop-server/internal/core/domain/chat"
	"github.com/chatloop/chatloop-server/internal/core/ports"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ChatService struct {
	repo   ports.ChatRepository
	bot    ports.BotResponder
	logger *logrus.Logger
}

func NewChatService(repo ports.ChatRepository, bot ports.BotResponder, logger *logrus.Logger) ports.ChatService {
	return &ChatService{
		repo:   repo,
		bot:    bot,
		logger: logger,
	}
}

func (s *ChatService) CreateChat(ctx context.Context, userID uuid.UUID, req *chat.CreateChatRequest) (*chat.Chat, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("chat title is required")
	}

	newChat := &chat.Chat{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateChat(ctx, newChat); err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}

	return newChat, nil
}

func (s *ChatService) GetChat(ctx context.Context, userID, chatID uuid.UUID) (*chat.Chat, error) {
	return s.ownedChat(ctx, userID, chatID)
}

func (s *ChatService) ListChats(ctx context.Context, userID uuid.UUID) ([]*chat.Chat, error) {
	return s.repo.ListChats(ctx, userID)
}

func (s *ChatService) DeleteChat(ctx context.Context, userID, chatID uuid.UUID) error {
	if _, err := s.ownedChat(ctx, userID, chatID); err != nil {
		return err
	}
	return s.repo.DeleteChat(ctx, chatID)
}

// SendMessage stores the user's message, asks the bot for a reply and
// stores that too. The user message survives a bot failure; the client is
// told the reply is missing and may retry.
func (s *ChatService) SendMessage(ctx context.Context, userID, chatID uuid.UUID, req *chat.SendMessageRequest) (*chat.SendMessageResult, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("message content is required")
	}

	if _, err := s.ownedChat(ctx, userID, chatID); err != nil {
		return nil, err
	}

	userMessage := &chat.Message{
		ID:        uuid.New(),
		ChatID:    chatID,
		UserID:    userID,
		Content:   content,
		IsFromBot: false,
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateMessage(ctx, userMessage); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	result := &chat.SendMessageResult{Message: userMessage}

	reply, err := s.bot.Reply(ctx, chatID, content)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"chat_id": chatID, "user_id": userID}).WithError(err).Warn("bot responder failed; user message stored")
		}
		return result, nil
	}

	botMessage := &chat.Message{
		ID:        uuid.New(),
		ChatID:    chatID,
		UserID:    userID,
		Content:   reply,
		IsFromBot: true,
		CreatedAt: time.Now(),
	}

	if err := s.repo.CreateMessage(ctx, botMessage); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"chat_id": chatID}).WithError(err).Warn("failed to store bot reply")
		}
		return result, nil
	}

	result.BotReply = botMessage
	return result, nil
}

func (s *ChatService) ListMessages(ctx context.Context, userID, chatID uuid.UUID, after time.Time) ([]*chat.Message, error) {
	if _, err := s.ownedChat(ctx, userID, chatID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, chatID, after)
}

// ownedChat loads the thread and enforces that it belongs to the caller.
// Foreign threads are reported as not found rather than forbidden, so
// thread IDs cannot be probed.
func (s *ChatService) ownedChat(ctx context.Context, userID, chatID uuid.UUID) (*chat.Chat, error) {
	c, err := s.repo.GetChat(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("chat not found")
	}
	if c.UserID != userID {
		return nil, fmt.Errorf("chat not found")
	}
	return c, nil
}
