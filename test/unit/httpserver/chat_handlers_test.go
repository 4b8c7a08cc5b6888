package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/chatloop/chatloop-server/internal/core/domain/auth"
	"github.com/chatloop/chatloop-server/internal/core/domain/chat"
	chatloophttp "github.com/chatloop/chatloop-server/internal/infrastructure/httpserver"
	"github.com/chatloop/chatloop-server/test/mocks"
)

func authedServer(t *testing.T, userID uuid.UUID, chatMock *mocks.ChatServiceMock) (*http.Client, string, func()) {
	t.Helper()
	authMock := &mocks.AuthServiceMock{ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
		return &auth.Claims{UserID: userID, Email: "a@b.com"}, nil
	}}
	ts := newTestServer(chatloophttp.ServerDeps{
		UserService:         &mocks.UserServiceMock{},
		AuthService:         authMock,
		VerificationService: &mocks.VerificationServiceMock{},
		ChatService:         chatMock,
	})
	return ts.Client(), ts.URL, ts.Close
}

func doAuthed(t *testing.T, client *http.Client, method, url string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer test-token")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func TestChatEndpoints_RequireAuth(t *testing.T) {
	_, url, closeFn := authedServer(t, uuid.New(), &mocks.ChatServiceMock{})
	defer closeFn()

	resp, err := http.Get(url + "/api/v1/chats")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateChatEndpoint(t *testing.T) {
	userID := uuid.New()
	chatMock := &mocks.ChatServiceMock{CreateChatFn: func(ctx context.Context, uID uuid.UUID, req *chat.CreateChatRequest) (*chat.Chat, error) {
		require.Equal(t, userID, uID)
		return &chat.Chat{ID: uuid.New(), UserID: uID, Title: req.Title, CreatedAt: time.Now()}, nil
	}}
	client, url, closeFn := authedServer(t, userID, chatMock)
	defer closeFn()

	body, _ := json.Marshal(map[string]string{"title": "my chat"})
	resp := doAuthed(t, client, http.MethodPost, url+"/api/v1/chats", body)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created chat.Chat
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.Equal(t, "my chat", created.Title)
}

func TestSendMessageEndpoint_BotReplyMayBeAbsent(t *testing.T) {
	userID := uuid.New()
	chatID := uuid.New()
	chatMock := &mocks.ChatServiceMock{SendMessageFn: func(ctx context.Context, uID, cID uuid.UUID, req *chat.SendMessageRequest) (*chat.SendMessageResult, error) {
		return &chat.SendMessageResult{Message: &chat.Message{ID: uuid.New(), ChatID: cID, UserID: uID, Content: req.Content}}, nil
	}}
	client, url, closeFn := authedServer(t, userID, chatMock)
	defer closeFn()

	body, _ := json.Marshal(map[string]string{"content": "hello"})
	resp := doAuthed(t, client, http.MethodPost, url+"/api/v1/chats/"+chatID.String()+"/messages", body)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result chat.SendMessageResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Equal(t, "hello", result.Message.Content)
	require.Nil(t, result.BotReply)
}

func TestListMessagesEndpoint_AfterParam(t *testing.T) {
	userID := uuid.New()
	chatID := uuid.New()
	after := time.Now().Add(-2 * time.Second).UTC().Truncate(time.Millisecond)
	var gotAfter time.Time
	chatMock := &mocks.ChatServiceMock{ListMessagesFn: func(ctx context.Context, uID, cID uuid.UUID, a time.Time) ([]*chat.Message, error) {
		gotAfter = a
		return []*chat.Message{}, nil
	}}
	client, url, closeFn := authedServer(t, userID, chatMock)
	defer closeFn()

	resp := doAuthed(t, client, http.MethodGet, url+"/api/v1/chats/"+chatID.String()+"/messages?after="+after.Format(time.RFC3339Nano), nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, gotAfter.Equal(after), "after cursor not forwarded")
}

func TestListMessagesEndpoint_BadAfterParam(t *testing.T) {
	client, url, closeFn := authedServer(t, uuid.New(), &mocks.ChatServiceMock{})
	defer closeFn()

	resp := doAuthed(t, client, http.MethodGet, url+"/api/v1/chats/"+uuid.New().String()+"/messages?after=yesterday", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteChatEndpoint_NotFound(t *testing.T) {
	chatMock := &mocks.ChatServiceMock{DeleteChatFn: func(ctx context.Context, userID, chatID uuid.UUID) error {
		return context.DeadlineExceeded
	}}
	client, url, closeFn := authedServer(t, uuid.New(), chatMock)
	defer closeFn()

	resp := doAuthed(t, client, http.MethodDelete, url+"/api/v1/chats/"+uuid.New().String(), nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
