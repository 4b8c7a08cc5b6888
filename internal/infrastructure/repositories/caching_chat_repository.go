package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/chatloop/chatloop-server/internal/core/domain/chat"
	"github.com/chatloop/chatloop-server/internal/core/ports"
	"github.com/google/uuid"
)

func cacheSetSilently(c ports.Cache, ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, b, ttl)
}

func cacheGet[T any](c ports.Cache, ctx context.Context, key string) (*T, bool) {
	if c == nil {
		return nil, false
	}
	b, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// CachingChatRepository decorates a ChatRepository with cache-aside for the
// reads the client polls: the thread list and the full message history of a
// thread. Incremental polls (after > 0) always go to the database, as do
// reads after any write to the same keys.
type CachingChatRepository struct {
	inner ports.ChatRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewCachingChatRepository(inner ports.ChatRepository, cache ports.Cache, ttl time.Duration) ports.ChatRepository {
	return &CachingChatRepository{inner: inner, cache: cache, ttl: ttl}
}

func chatListKey(userID uuid.UUID) string    { return "chats:user:" + userID.String() }
func messageListKey(chatID uuid.UUID) string { return "messages:chat:" + chatID.String() }

func (c *CachingChatRepository) CreateChat(ctx context.Context, ch *chat.Chat) error {
	if err := c.inner.CreateChat(ctx, ch); err != nil {
		return err
	}
	if c.cache != nil {
		_ = c.cache.Delete(ctx, chatListKey(ch.UserID))
	}
	return nil
}

func (c *CachingChatRepository) GetChat(ctx context.Context, id uuid.UUID) (*chat.Chat, error) {
	return c.inner.GetChat(ctx, id)
}

func (c *CachingChatRepository) ListChats(ctx context.Context, userID uuid.UUID) ([]*chat.Chat, error) {
	if v, ok := cacheGet[[]*chat.Chat](c.cache, ctx, chatListKey(userID)); ok {
		return *v, nil
	}
	chats, err := c.inner.ListChats(ctx, userID)
	if err == nil {
		cacheSetSilently(c.cache, ctx, chatListKey(userID), chats, c.ttl)
	}
	return chats, err
}

func (c *CachingChatRepository) DeleteChat(ctx context.Context, id uuid.UUID) error {
	ch, err := c.inner.GetChat(ctx, id)
	if err != nil {
		return err
	}
	if err := c.inner.DeleteChat(ctx, id); err != nil {
		return err
	}
	if c.cache != nil {
		_ = c.cache.Delete(ctx, chatListKey(ch.UserID))
		_ = c.cache.Delete(ctx, messageListKey(id))
	}
	return nil
}

func (c *CachingChatRepository) CreateMessage(ctx context.Context, m *chat.Message) error {
	if err := c.inner.CreateMessage(ctx, m); err != nil {
		return err
	}
	if c.cache != nil {
		_ = c.cache.Delete(ctx, messageListKey(m.ChatID))
	}
	return nil
}

func (c *CachingChatRepository) ListMessages(ctx context.Context, chatID uuid.UUID, after time.Time) ([]*chat.Message, error) {
	// Only full-history reads are cacheable; incremental polls are cheap
	// and must see fresh rows.
	if !after.IsZero() {
		return c.inner.ListMessages(ctx, chatID, after)
	}
	if v, ok := cacheGet[[]*chat.Message](c.cache, ctx, messageListKey(chatID)); ok {
		return *v, nil
	}
	messages, err := c.inner.ListMessages(ctx, chatID, after)
	if err == nil {
		cacheSetSilently(c.cache, ctx, messageListKey(chatID), messages, c.ttl)
	}
	return messages, err
}
