package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/provat/codetriage/internal/application/dto"
	"github.com/provat/codetriage/internal/application/service"
	"github.com/provat/codetriage/internal/config"
	"github.com/provat/codetriage/internal/transport/http/middleware"
	"github.com/provat/codetriage/pkg/logger"
)

const (
	// Cookie names for OAuth state management
	oauthStateCookie    = "oauth_state"
	oauthStateCookieExp = 10 * time.Minute
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	oauthService *service.OAuthService
	config       *config.Config
	log          *logger.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(oauthService *service.OAuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		oauthService: oauthService,
		config:       cfg,
		log:          logger.Get().WithFields(logger.Component("auth-handler")),
	}
}

// Login handles GET /auth/github
// Redirects to the GitHub authorize URL with a CSRF state cookie
func (h *AuthHandler) Login(c *gin.Context) {
	authURL, state, err := h.oauthService.GenerateAuthURL()
	if err != nil {
		h.log.Error("Failed to generate authorization URL",
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to generate authorization URL",
		})
		return
	}

	c.SetCookie(
		oauthStateCookie,
		state,
		int(oauthStateCookieExp.Seconds()),
		"/",
		h.config.Auth.CookieDomain,
		h.config.Auth.SecureCookies,
		true, // httpOnly
	)

	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// Callback handles GET /auth/github/callback
// Exchanges the authorization code, signs the user in and sets the session cookie
func (h *AuthHandler) Callback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		h.log.Warn("GitHub returned OAuth error",
			logger.String("error", errParam),
			logger.String("description", c.Query("error_description")),
		)
		c.Redirect(http.StatusTemporaryRedirect, "/auth/failure")
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "Missing authorization code",
		})
		return
	}

	state := c.Query("state")
	expectedState, err := c.Cookie(oauthStateCookie)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "Missing or expired state cookie",
		})
		return
	}

	// Clear the state cookie
	c.SetCookie(oauthStateCookie, "", -1, "/", h.config.Auth.CookieDomain, h.config.Auth.SecureCookies, true)

	user, sessionToken, err := h.oauthService.HandleCallback(c.Request.Context(), code, state, expectedState)
	if err != nil {
		h.log.Error("OAuth callback handling failed",
			logger.Error(err),
		)
		handleError(c, err)
		return
	}

	h.log.Info("User authenticated",
		logger.UserID(user.ID.String()),
		logger.String("username", user.Username),
	)

	c.SetCookie(
		middleware.SessionCookieName,
		sessionToken,
		int(h.config.Auth.SessionTTL.Seconds()),
		"/",
		h.config.Auth.CookieDomain,
		h.config.Auth.SecureCookies,
		true, // httpOnly
	)

	if frontendURL := h.config.Auth.FrontendURL; frontendURL != "" {
		c.Redirect(http.StatusTemporaryRedirect, frontendURL)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Authentication successful",
		Data: dto.UserInfo{
			ID:        user.ID,
			GitHubID:  user.GitHubID,
			Username:  user.Username,
			Email:     user.Email,
			AvatarURL: user.AvatarURL,
			CreatedAt: user.CreatedAt,
		},
	})
}

// Me handles GET /auth/me
// Returns the currently authenticated user
func (h *AuthHandler) Me(c *gin.Context) {
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

// Logout handles POST /auth/logout
// Clears the session cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", h.config.Auth.CookieDomain, h.config.Auth.SecureCookies, true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// Failure handles GET /auth/failure
// Terminal sink for failed OAuth flows
func (h *AuthHandler) Failure(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":   "authentication_failed",
		"message": "GitHub authentication failed",
	})
}
