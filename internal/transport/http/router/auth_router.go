package router

import (
	"github.com/provat/codetriage/internal/transport/http/handler"
	"github.com/provat/codetriage/internal/transport/http/middleware"
)

func (r *Router) authRouter() {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(r.Deps.OAuthService, r.Deps.UserRepo)

	// Initialize handlers
	h := handler.NewAuthHandler(r.Deps.OAuthService, r.server.Config)

	auth := r.server.Group("/auth")
	{
		// GitHub OAuth flow (public)
		auth.GET("/github", h.Login)
		auth.GET("/github/callback", h.Callback)
		auth.GET("/failure", h.Failure)

		// Session routes
		auth.GET("/me", authMiddleware.RequireAuth(), h.Me)
		auth.POST("/logout", h.Logout)
	}
}
