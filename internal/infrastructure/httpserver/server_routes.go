package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")
	auth := api.Group("/auth")
	auth.POST("/signup", s.signup)
	auth.POST("/login", s.login)
	auth.POST("/refresh", s.refreshToken)

	auth.GET("/verify-email", s.verifyEmail)
	auth.POST("/verify-email", s.verifyEmail)
	auth.POST("/resend-verification", s.resendVerificationEmail)

	protected := api.Group("")
	protected.Use(s.middleware.JWT.RequireJWT())

	protected.POST("/auth/logout", s.logout)

	users := protected.Group("/users")
	users.GET("/me", s.getOwnProfile)

	chats := protected.Group("/chats")
	chats.GET("", s.listChats)
	chats.POST("", s.createChat)
	chats.GET("/:id", s.getChat)
	chats.DELETE("/:id", s.deleteChat)
	chats.GET("/:id/messages", s.listMessages)
	chats.POST("/:id/messages", s.sendMessage)
}
