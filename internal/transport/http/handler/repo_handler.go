package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/provat/codetriage/internal/application/dto"
	"github.com/provat/codetriage/internal/application/service"
	"github.com/provat/codetriage/internal/domain/models"
	"github.com/provat/codetriage/internal/domain/repository"
)

// RepoHandler handles repository catalog HTTP requests
type RepoHandler struct {
	repoService *service.RepoService
}

// NewRepoHandler creates a new RepoHandler instance
func NewRepoHandler(repoService *service.RepoService) *RepoHandler {
	return &RepoHandler{
		repoService: repoService,
	}
}

// ListRepositories handles GET /repositories
func (h *RepoHandler) ListRepositories(c *gin.Context) {
	var query dto.RepoListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "Invalid query parameters",
		})
		return
	}

	page, limit, offset := query.Normalize()

	repos, total, err := h.repoService.ListRepositories(c.Request.Context(), repository.RepoListFilter{
		Language: query.Language,
		Search:   query.Search,
		Sort:     query.Sort,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse[*models.Repository](repos, page, limit, total))
}

// ListLanguages handles GET /repositories/languages
func (h *RepoHandler) ListLanguages(c *gin.Context) {
	languages, err := h.repoService.ListLanguages(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	if languages == nil {
		languages = []string{}
	}

	c.JSON(http.StatusOK, dto.LanguagesResponse{Languages: languages})
}

// GetRepository handles GET /repositories/:owner/:name
func (h *RepoHandler) GetRepository(c *gin.Context) {
	repo, err := h.repoService.GetRepository(c.Request.Context(), c.Param("owner"), c.Param("name"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, repo)
}

// AddRepository handles POST /repositories
func (h *RepoHandler) AddRepository(c *gin.Context) {
	var req dto.AddRepoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	repo, err := h.repoService.AddRepository(c.Request.Context(), req.Owner, req.Name)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, repo)
}
