package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/provat/codetriage/internal/application/dto"
	"github.com/provat/codetriage/internal/application/service"
	"github.com/provat/codetriage/internal/transport/http/middleware"
)

// UserHandler handles user settings HTTP requests
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetSettings handles GET /user/settings
func (h *UserHandler) GetSettings(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Authentication required",
		})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateSettings handles PUT /user/settings
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Authentication required",
		})
		return
	}

	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "Invalid request body",
		})
		return
	}

	updated, err := h.userService.UpdateSettings(c.Request.Context(), user.ID, service.UpdateSettingsRequest{
		EmailFrequency:    req.EmailFrequency,
		EmailTimeOfDay:    req.EmailTimeOfDay,
		MaxIssuesPerDay:   req.MaxIssuesPerDay,
		SkipIssuesWithPR:  req.SkipIssuesWithPR,
		FavoriteLanguages: req.FavoriteLanguages,
		IsPublic:          req.IsPublic,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}
