package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	impl "github.com/chatloop/chatloop-server/internal/application/services"
	"github.com/chatloop/chatloop-server/internal/core/domain/chat"
	"github.com/chatloop/chatloop-server/test/mocks"
)

func TestCreateChat_EmptyTitleRejected(t *testing.T) {
	svc := impl.NewChatService(&mocks.ChatRepositoryMock{}, &mocks.BotResponderMock{}, nil)

	if _, err := svc.CreateChat(context.Background(), uuid.New(), &chat.CreateChatRequest{Title: "   "}); err == nil {
		t.Fatal("expected error for blank title")
	}
}

func TestCreateChat_Success(t *testing.T) {
	userID := uuid.New()
	var stored *chat.Chat
	repo := &mocks.ChatRepositoryMock{CreateChatFn: func(ctx context.Context, c *chat.Chat) error {
		stored = c
		return nil
	}}
	svc := impl.NewChatService(repo, &mocks.BotResponderMock{}, nil)

	created, err := svc.CreateChat(context.Background(), userID, &chat.CreateChatRequest{Title: "  hello  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Title != "hello" {
		t.Fatalf("title not trimmed: %q", created.Title)
	}
	if stored == nil || stored.UserID != userID {
		t.Fatalf("unexpected stored chat: %+v", stored)
	}
}

func TestSendMessage_ForeignChatReportedNotFound(t *testing.T) {
	owner := uuid.New()
	repo := &mocks.ChatRepositoryMock{GetChatFn: func(ctx context.Context, id uuid.UUID) (*chat.Chat, error) {
		return &chat.Chat{ID: id, UserID: owner}, nil
	}}
	svc := impl.NewChatService(repo, &mocks.BotResponderMock{}, nil)

	_, err := svc.SendMessage(context.Background(), uuid.New(), uuid.New(), &chat.SendMessageRequest{Content: "hi"})
	if err == nil || err.Error() != "chat not found" {
		t.Fatalf("expected uniform chat not found, got %v", err)
	}
}

func TestSendMessage_BotReplyStored(t *testing.T) {
	userID := uuid.New()
	chatID := uuid.New()
	var messages []*chat.Message
	repo := &mocks.ChatRepositoryMock{
		GetChatFn: func(ctx context.Context, id uuid.UUID) (*chat.Chat, error) {
			return &chat.Chat{ID: id, UserID: userID}, nil
		},
		CreateMessageFn: func(ctx context.Context, m *chat.Message) error {
			messages = append(messages, m)
			return nil
		},
	}
	bot := &mocks.BotResponderMock{ReplyFn: func(ctx context.Context, cID uuid.UUID, content string) (string, error) {
		return "echo: " + content, nil
	}}
	svc := impl.NewChatService(repo, bot, nil)

	result, err := svc.SendMessage(context.Background(), userID, chatID, &chat.SendMessageRequest{Content: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected user and bot messages stored, got %d", len(messages))
	}
	if result.BotReply == nil || !result.BotReply.IsFromBot {
		t.Fatalf("unexpected bot reply: %+v", result.BotReply)
	}
	if result.Message.IsFromBot {
		t.Fatal("user message flagged as bot")
	}
}

func TestSendMessage_BotFailureKeepsUserMessage(t *testing.T) {
	userID := uuid.New()
	var messages []*chat.Message
	repo := &mocks.ChatRepositoryMock{
		GetChatFn: func(ctx context.Context, id uuid.UUID) (*chat.Chat, error) {
			return &chat.Chat{ID: id, UserID: userID}, nil
		},
		CreateMessageFn: func(ctx context.Context, m *chat.Message) error {
			messages = append(messages, m)
			return nil
		},
	}
	bot := &mocks.BotResponderMock{ReplyFn: func(ctx context.Context, cID uuid.UUID, content string) (string, error) {
		return "", errors.New("model unavailable")
	}}
	svc := impl.NewChatService(repo, bot, nil)

	result, err := svc.SendMessage(context.Background(), userID, uuid.New(), &chat.SendMessageRequest{Content: "hi"})
	if err != nil {
		t.Fatalf("user message send must survive a bot failure: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected only the user message stored, got %d", len(messages))
	}
	if result.BotReply != nil {
		t.Fatal("expected no bot reply")
	}
}

func TestListMessages_PassesAfterCursor(t *testing.T) {
	userID := uuid.New()
	after := time.Now().Add(-time.Minute)
	var gotAfter time.Time
	repo := &mocks.ChatRepositoryMock{
		GetChatFn: func(ctx context.Context, id uuid.UUID) (*chat.Chat, error) {
			return &chat.Chat{ID: id, UserID: userID}, nil
		},
		ListMessagesFn: func(ctx context.Context, chatID uuid.UUID, a time.Time) ([]*chat.Message, error) {
			gotAfter = a
			return nil, nil
		},
	}
	svc := impl.NewChatService(repo, &mocks.BotResponderMock{}, nil)

	if _, err := svc.ListMessages(context.Background(), userID, uuid.New(), after); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gotAfter.Equal(after) {
		t.Fatalf("after cursor not forwarded: %v", gotAfter)
	}
}

func TestDeleteChat_OwnershipEnforced(t *testing.T) {
	repo := &mocks.ChatRepositoryMock{GetChatFn: func(ctx context.Context, id uuid.UUID) (*chat.Chat, error) {
		return &chat.Chat{ID: id, UserID: uuid.New()}, nil
	}}
	svc := impl.NewChatService(repo, &mocks.BotResponderMock{}, nil)

	if err := svc.DeleteChat(context.Background(), uuid.New(), uuid.New()); err == nil {
		t.Fatal("expected foreign chat delete to fail")
	}
}
