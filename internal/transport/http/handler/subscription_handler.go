package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/provat/codetriage/internal/application/dto"
	"github.com/provat/codetriage/internal/application/service"
	"github.com/provat/codetriage/internal/transport/http/middleware"
)

// SubscriptionHandler handles subscription HTTP requests
type SubscriptionHandler struct {
	subService *service.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler instance
func NewSubscriptionHandler(subService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subService: subService,
	}
}

// ListSubscriptions handles GET /subscriptions
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Authentication required",
		})
		return
	}

	subs, err := h.subService.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": subs,
		"total": len(subs),
	})
}

// Subscribe handles POST /subscriptions
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Authentication required",
		})
		return
	}

	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	sub, err := h.subService.Subscribe(c.Request.Context(), user.ID, service.SubscribeRequest{
		Owner:      req.Owner,
		Name:       req.Name,
		Frequency:  req.Frequency,
		Languages:  req.Languages,
		Difficulty: req.Difficulty,
		Labels:     req.Labels,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// Unsubscribe handles DELETE /subscriptions/:id
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Authentication required",
		})
		return
	}

	subID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "Invalid subscription id",
		})
		return
	}

	if err := h.subService.Unsubscribe(c.Request.Context(), user.ID, subID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Unsubscribed successfully",
	})
}

// UpdateSubscription handles PUT /subscriptions/:id
func (h *SubscriptionHandler) UpdateSubscription(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Authentication required",
		})
		return
	}

	subID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "Invalid subscription id",
		})
		return
	}

	var req dto.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "Invalid request body",
		})
		return
	}

	sub, err := h.subService.Update(c.Request.Context(), user.ID, subID, service.UpdateSubscriptionRequest{
		Frequency:  req.Frequency,
		Languages:  req.Languages,
		Difficulty: req.Difficulty,
		Labels:     req.Labels,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// UpdatePreferences handles PUT /subscriptions/preferences
func (h *SubscriptionHandler) UpdatePreferences(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Authentication required",
		})
		return
	}

	var req dto.BulkPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "Invalid request body",
		})
		return
	}

	updated, err := h.subService.BulkUpdatePreferences(c.Request.Context(), user.ID, req.Languages, req.Difficulty, req.Labels)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BulkPreferencesResponse{Updated: updated})
}
