package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/provat/codetriage/internal/application/dto"
	"github.com/provat/codetriage/internal/application/service"
	"github.com/provat/codetriage/internal/domain/models"
	"github.com/provat/codetriage/internal/domain/repository"
)

// IssueHandler handles issue browsing HTTP requests
type IssueHandler struct {
	issueService *service.IssueService
}

// NewIssueHandler creates a new IssueHandler instance
func NewIssueHandler(issueService *service.IssueService) *IssueHandler {
	return &IssueHandler{
		issueService: issueService,
	}
}

// ListIssues handles GET /issues/:owner/:name
func (h *IssueHandler) ListIssues(c *gin.Context) {
	var query dto.IssueListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "Invalid query parameters",
		})
		return
	}

	page, limit, offset := query.Normalize()

	issues, total, err := h.issueService.ListIssues(c.Request.Context(), c.Param("owner"), c.Param("name"), repository.IssueListFilter{
		Difficulty: query.Difficulty,
		Labels:     query.LabelList(),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse[*models.Issue](issues, page, limit, total))
}

// ListLabels handles GET /issues/:owner/:name/labels
func (h *IssueHandler) ListLabels(c *gin.Context) {
	labels, err := h.issueService.ListLabels(c.Request.Context(), c.Param("owner"), c.Param("name"))
	if err != nil {
		handleError(c, err)
		return
	}
	if labels == nil {
		labels = []string{}
	}

	c.JSON(http.StatusOK, dto.LabelsResponse{Labels: labels})
}

// ListDifficulties handles GET /issues/:owner/:name/difficulties
func (h *IssueHandler) ListDifficulties(c *gin.Context) {
	counts, err := h.issueService.CountDifficulties(c.Request.Context(), c.Param("owner"), c.Param("name"))
	if err != nil {
		handleError(c, err)
		return
	}

	out := make(map[string]int64, len(counts))
	for level, count := range counts {
		out[string(level)] = count
	}
	c.JSON(http.StatusOK, dto.DifficultiesResponse{Difficulties: out})
}

// GetIssue handles GET /issues/:owner/:name/:issueNumber
func (h *IssueHandler) GetIssue(c *gin.Context) {
	issueNumber, err := strconv.Atoi(c.Param("issueNumber"))
	if err != nil || issueNumber <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "Invalid issue number",
		})
		return
	}

	issue, err := h.issueService.GetIssue(c.Request.Context(), c.Param("owner"), c.Param("name"), issueNumber)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}
