package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appservice "github.com/provat/codetriage/internal/application/service"
	"github.com/provat/codetriage/internal/domain/models"
	"github.com/provat/codetriage/internal/domain/repository"
	"github.com/provat/codetriage/pkg/logger"
)

// SessionCookieName is the cookie carrying the session JWT
const SessionCookieName = "connect.sid"

// ContextKey is a type for context keys
type ContextKey string

const (
	// UserContextKey is the key for storing user in context
	UserContextKey ContextKey = "user"

	// IsAuthenticatedKey is the key for storing authentication status
	IsAuthenticatedKey ContextKey = "is_authenticated"
)

// AuthMiddleware handles authentication for HTTP requests
type AuthMiddleware struct {
	oauth    *appservice.OAuthService
	userRepo repository.UserRepository
	log      *logger.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance
func NewAuthMiddleware(oauth *appservice.OAuthService, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		oauth:    oauth,
		userRepo: userRepo,
		log:      logger.Get().WithFields(logger.Component("auth-middleware")),
	}
}

// Authenticate attempts to authenticate the request but doesn't require it
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := m.extractAndValidateUser(c); user != nil {
			m.setUserContext(c, user)
		}
		c.Next()
	}
}

// RequireAuth requires authentication for the endpoint
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := m.extractAndValidateUser(c)
		if user == nil {
			m.log.Warn("Authentication required but not provided",
				logger.Path(c.Request.URL.Path),
				logger.Method(c.Request.Method),
				logger.ClientIP(c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "authentication required",
			})
			return
		}

		m.setUserContext(c, user)
		c.Next()
	}
}

// extractAndValidateUser resolves the session JWT from the session cookie or
// a Bearer header and loads the user behind it
func (m *AuthMiddleware) extractAndValidateUser(c *gin.Context) *models.User {
	token := ""

	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		token = cookie
	}
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if token == "" {
		return nil
	}

	claims, err := m.oauth.ValidateSessionToken(token)
	if err != nil {
		m.log.Debug("Session token rejected",
			logger.Error(err),
			logger.Path(c.Request.URL.Path),
		)
		return nil
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}

	user, err := m.userRepo.FindByID(c.Request.Context(), userID)
	if err != nil {
		m.log.Debug("Session user no longer exists",
			logger.UserID(claims.UserID),
		)
		return nil
	}
	return user
}

// setUserContext sets the user in the gin context
func (m *AuthMiddleware) setUserContext(c *gin.Context, user *models.User) {
	c.Set(string(UserContextKey), user)
	c.Set(string(IsAuthenticatedKey), true)

	ctx := context.WithValue(c.Request.Context(), UserContextKey, user)
	ctx = context.WithValue(ctx, IsAuthenticatedKey, true)
	c.Request = c.Request.WithContext(ctx)
}

// GetUserFromContext retrieves the authenticated user from the context
func GetUserFromContext(c *gin.Context) *models.User {
	if user, exists := c.Get(string(UserContextKey)); exists {
		if u, ok := user.(*models.User); ok {
			return u
		}
	}
	return nil
}

// IsAuthenticated checks if the request is authenticated
func IsAuthenticated(c *gin.Context) bool {
	if authenticated, exists := c.Get(string(IsAuthenticatedKey)); exists {
		if auth, ok := authenticated.(bool); ok {
			return auth
		}
	}
	return false
}
