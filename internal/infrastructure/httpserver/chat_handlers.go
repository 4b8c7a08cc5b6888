package httpserver

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/chatloop/chatloop-server/internal/core/domain/chat"
	"github.com/chatloop/chatloop-server/internal/infrastructure/httpserver/helpers"
)

// Chat handlers
func (s *Server) createChat(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req chat.CreateChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	created, err := s.chatSvc.CreateChat(c.Request().Context(), userID, &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, created)
}

func (s *Server) getChat(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid chat ID")
	}

	found, err := s.chatSvc.GetChat(c.Request().Context(), userID, chatID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "chat not found")
	}

	return c.JSON(http.StatusOK, found)
}

func (s *Server) listChats(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	chats, err := s.chatSvc.ListChats(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list chats")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"chats": chats,
		"count": len(chats),
	})
}

func (s *Server) deleteChat(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid chat ID")
	}

	if err := s.chatSvc.DeleteChat(c.Request().Context(), userID, chatID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "chat not found")
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) sendMessage(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid chat ID")
	}

	var req chat.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := s.chatSvc.SendMessage(c.Request().Context(), userID, chatID, &req)
	if err != nil {
		if err.Error() == "chat not found" {
			return echo.NewHTTPError(http.StatusNotFound, "chat not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, result)
}

func (s *Server) listMessages(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid chat ID")
	}

	// Polling clients pass the timestamp of the newest message they have
	// seen; only strictly newer messages come back.
	var after time.Time
	if afterStr := c.QueryParam("after"); afterStr != "" {
		after, err = time.Parse(time.RFC3339Nano, afterStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid after timestamp, expected RFC3339")
		}
	}

	messages, err := s.chatSvc.ListMessages(c.Request().Context(), userID, chatID, after)
	if err != nil {
		if err.Error() == "chat not found" {
			return echo.NewHTTPError(http.StatusNotFound, "chat not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list messages")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": messages,
		"count":    len(messages),
	})
}
