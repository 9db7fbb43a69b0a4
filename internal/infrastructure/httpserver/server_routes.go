package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", s.register)
	auth.POST("/login", s.login)
	auth.POST("/refresh", s.refreshToken)
	auth.POST("/logout", s.logout)

	// Public surface: the sport catalog and the contact form. The support
	// quota is keyed by sender email, so no session is needed.
	api.GET("/sports", s.listSports)
	api.POST("/support", s.submitSupportTicket)
	api.GET("/quota/support", s.getSupportQuota)

	protected := api.Group("")
	protected.Use(s.middleware.JWT.RequireJWT())

	users := protected.Group("/users")
	users.GET("/me", s.getOwnProfile)
	users.PUT("/me", s.updateOwnProfile)
	users.DELETE("/me", s.deleteOwnAccount)

	protected.POST("/forecast", s.getForecast)
	protected.GET("/locations", s.searchLocations)
	protected.GET("/locations/reverse", s.reverseGeocode)
	protected.GET("/quota/cities", s.getCityQuota)
}
