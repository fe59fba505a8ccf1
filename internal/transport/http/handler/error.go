package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperror "github.com/provat/codetriage/pkg/errors"
)

// handleError maps application errors to HTTP responses
func handleError(c *gin.Context, err error) {
	if apperror.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": err.Error(),
		})
		return
	}

	if apperror.IsUnauthorized(err) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": err.Error(),
		})
		return
	}

	if apperror.IsForbidden(err) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": err.Error(),
		})
		return
	}

	if apperror.IsConflict(err) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "conflict",
			"message": err.Error(),
		})
		return
	}

	if apperror.IsRateLimited(err) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":   "rate_limited",
			"message": err.Error(),
		})
		return
	}

	if apperror.IsBadRequest(err) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": err.Error(),
		})
		return
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus(), gin.H{
			"error":   "error",
			"message": appErr.Message,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": "An unexpected error occurred",
	})
}
