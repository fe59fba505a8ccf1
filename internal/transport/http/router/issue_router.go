package router

import (
	"github.com/provat/codetriage/internal/transport/http/handler"
)

func (r *Router) issueRouter() {
	// Initialize handler
	h := handler.NewIssueHandler(r.Deps.IssueService)

	issues := r.server.Group("/issues/:owner/:name")
	{
		issues.GET("", h.ListIssues)
		issues.GET("/labels", h.ListLabels)
		issues.GET("/difficulties", h.ListDifficulties)
		issues.GET("/:issueNumber", h.GetIssue)
	}
}
