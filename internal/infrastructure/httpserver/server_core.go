package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/chatloop/chatloop-server/internal/core/ports"
	customMiddleware "github.com/chatloop/chatloop-server/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	TLSCertFile    string
	TLSKeyFile     string
	AllowedOrigins []string
	Environment    string
}

type ServerDeps struct {
	UserService         ports.UserService
	AuthService         ports.AuthService
	VerificationService ports.VerificationService
	ChatService         ports.ChatService
	RateLimiterService  ports.RateLimiterService
	HealthCheckers      []ports.HealthChecker
}

type Server struct {
	echo            *echo.Echo
	config          *ServerConfig
	logger          *logrus.Logger
	userService     ports.UserService
	authSvc         ports.AuthService
	verificationSvc ports.VerificationService
	chatSvc         ports.ChatService
	middleware      *customMiddleware.MiddlewareCollection
	healthCheckers  []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()

	server := &Server{
		echo:            e,
		config:          serverConfig,
		logger:          logger,
		userService:     deps.UserService,
		authSvc:         deps.AuthService,
		verificationSvc: deps.VerificationService,
		chatSvc:         deps.ChatService,
		healthCheckers:  deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.AuthService,
			deps.RateLimiterService,
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
