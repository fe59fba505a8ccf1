package router

import (
	"github.com/provat/codetriage/internal/transport/http/handler"
	"github.com/provat/codetriage/internal/transport/http/middleware"
)

func (r *Router) subscriptionRouter() {
	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(r.Deps.OAuthService, r.Deps.UserRepo)

	// Initialize handler
	h := handler.NewSubscriptionHandler(r.Deps.SubscriptionService)

	subs := r.server.Group("/subscriptions", authMiddleware.RequireAuth())
	{
		subs.GET("", h.ListSubscriptions)
		subs.POST("", h.Subscribe)

		// Bulk preference update is registered before the :id routes so the
		// literal segment wins over the parameter.
		subs.PUT("/preferences", h.UpdatePreferences)

		subs.DELETE("/:id", h.Unsubscribe)
		subs.PUT("/:id", h.UpdateSubscription)
	}
}
