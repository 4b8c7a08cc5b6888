package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatloop/chatloop-server/internal/infrastructure/httpserver/helpers"
)

func (s *Server) getOwnProfile(c echo.Context) error {
	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	userObj, err := s.userService.GetUser(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	return c.JSON(http.StatusOK, userObj)
}
