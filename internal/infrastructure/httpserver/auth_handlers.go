package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatloop/chatloop-server/internal/core/domain/auth"
	"github.com/chatloop/chatloop-server/internal/core/domain/user"
	"github.com/chatloop/chatloop-server/internal/core/domain/verification"
	"github.com/chatloop/chatloop-server/internal/infrastructure/httpserver/helpers"
)

// Auth handlers
func (s *Server) signup(c echo.Context) error {
	var req user.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	result, err := s.userService.Signup(c.Request().Context(), &req)
	if err != nil {
		var perr *verification.PersistenceError
		if errors.As(err, &perr) {
			return echo.NewHTTPError(http.StatusInternalServerError, "signup failed")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, result)
}

func (s *Server) login(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	tokens, err := s.authSvc.Login(c.Request().Context(), &req)
	if err != nil {
		if err.Error() == "email not verified" {
			return echo.NewHTTPError(http.StatusForbidden, "email not verified")
		}
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	return c.JSON(http.StatusOK, tokens)
}

func (s *Server) refreshToken(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	tokens, err := s.authSvc.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	return c.JSON(http.StatusOK, tokens)
}

func (s *Server) logout(c echo.Context) error {
	token, err := helpers.GetJWTTokenFromContext(c)
	if err != nil {
		return err
	}

	userID, err := helpers.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	if err := s.authSvc.Logout(c.Request().Context(), userID, token); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to logout")
	}

	return c.NoContent(http.StatusOK)
}

func (s *Server) verifyEmail(c echo.Context) error {
	var email, token string

	// Support both GET (from email links) and POST (API calls)
	if c.Request().Method == "GET" {
		token = c.QueryParam("token")
		email = c.QueryParam("email")
		// A link missing either parameter is malformed; reject it without
		// touching the store.
		if token == "" || email == "" {
			return c.HTML(http.StatusBadRequest, verificationFailedPage("The verification link is incomplete."))
		}
	} else {
		var req verification.VerifyRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		if req.Token == "" || req.Email == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "email and token are required")
		}
		token = req.Token
		email = req.Email
	}

	if err := s.verificationSvc.Verify(c.Request().Context(), email, token); err != nil {
		var cerr *verification.CommitError
		switch {
		case errors.Is(err, verification.ErrInvalidOrExpiredToken):
			if c.Request().Method == "GET" {
				return c.HTML(http.StatusBadRequest, verificationFailedPage("The verification link is invalid or has expired."))
			}
			return echo.NewHTTPError(http.StatusBadRequest, verification.ErrInvalidOrExpiredToken.Error())
		case errors.As(err, &cerr):
			// Token is still valid; the client may retry.
			if c.Request().Method == "GET" {
				return c.HTML(http.StatusServiceUnavailable, verificationFailedPage("Something went wrong on our side. Please try the link again."))
			}
			return echo.NewHTTPError(http.StatusServiceUnavailable, "verification could not be completed, please retry")
		default:
			if c.Request().Method == "GET" {
				return c.HTML(http.StatusInternalServerError, verificationFailedPage("Something went wrong on our side. Please try the link again."))
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "verification failed")
		}
	}

	if c.Request().Method == "GET" {
		return c.HTML(http.StatusOK, `
			<!DOCTYPE html>
			<html>
			<head><title>Email Verified</title></head>
			<body>
				<h1>Email Verified</h1>
				<p>Your email address has been verified. You can now log in.</p>
			</body>
			</html>
		`)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "email verified successfully",
	})
}

func (s *Server) resendVerificationEmail(c echo.Context) error {
	var req verification.ResendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	if err := s.userService.ResendVerificationEmail(c.Request().Context(), req.Email); err != nil {
		var derr *verification.DeliveryError
		if errors.As(err, &derr) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "could not send verification email, please retry")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "verification email sent successfully",
	})
}

func verificationFailedPage(reason string) string {
	return `
		<!DOCTYPE html>
		<html>
		<head><title>Verification Failed</title></head>
		<body>
			<h1>Verification Failed</h1>
			<p>` + reason + `</p>
			<a href="/resend-verification">Request New Verification Email</a>
		</body>
		</html>
	`
}
