package router

import (
	"github.com/provat/codetriage/internal/injectable"
	"github.com/provat/codetriage/internal/server"
	"github.com/provat/codetriage/internal/transport/http/middleware"
)

type Router struct {
	server *server.Server
	Deps   *injectable.Dependencies
}

// NewRouter creates a new Router instance.
func NewRouter(s *server.Server) *Router {
	deps := injectable.LoadDependencies(s.Config, s.DB)

	return &Router{
		server: s,
		Deps:   &deps,
	}
}

// RegisterRoutes sets up the routes and middleware for the server.
func (r *Router) RegisterRoutes() {
	r.server.Use(middleware.RecoveryMiddleware())
	r.server.Use(middleware.LoggerMiddleware())

	var origins []string
	if r.server.Config.Auth.FrontendURL != "" {
		origins = []string{r.server.Config.Auth.FrontendURL}
	}
	r.server.Use(middleware.CORSMiddleware(origins))

	r.healthRouter()
	r.authRouter()
	r.repoRouter()
	r.issueRouter()
	r.subscriptionRouter()
	r.userRouter()
}
