package router

import (
	"github.com/provat/codetriage/internal/transport/http/handler"
	"github.com/provat/codetriage/internal/transport/http/middleware"
)

func (r *Router) userRouter() {
	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(r.Deps.OAuthService, r.Deps.UserRepo)

	// Initialize handler
	h := handler.NewUserHandler(r.Deps.UserService)

	user := r.server.Group("/user", authMiddleware.RequireAuth())
	{
		user.GET("/settings", h.GetSettings)
		user.PUT("/settings", h.UpdateSettings)
	}
}
