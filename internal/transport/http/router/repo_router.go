package router

import (
	"github.com/provat/codetriage/internal/transport/http/handler"
	"github.com/provat/codetriage/internal/transport/http/middleware"
)

func (r *Router) repoRouter() {
	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(r.Deps.OAuthService, r.Deps.UserRepo)

	// Initialize handler
	h := handler.NewRepoHandler(r.Deps.RepoService)

	repos := r.server.Group("/repositories")
	{
		// Public catalog routes
		repos.GET("", h.ListRepositories)
		repos.GET("/languages", h.ListLanguages)
		repos.GET("/:owner/:name", h.GetRepository)

		// Adding a repository triggers a GitHub sync, so it requires a session
		repos.POST("", authMiddleware.RequireAuth(), h.AddRepository)
	}
}
