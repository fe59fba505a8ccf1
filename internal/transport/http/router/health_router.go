package router

import (
	"github.com/provat/codetriage/internal/transport/http/handler"
)

func (r *Router) healthRouter() {
	r.server.GET("/health", handler.HealthHandler(r.server.DB))
}
