package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"

	"github.com/provat/codetriage/internal/config"
	"github.com/provat/codetriage/internal/domain/models"
	"github.com/provat/codetriage/internal/domain/repository"
	"github.com/provat/codetriage/internal/domain/service"
	apperror "github.com/provat/codetriage/pkg/errors"
	"github.com/provat/codetriage/pkg/logger"
)

var oauthScopes = []string{"read:user", "user:email"}

// SessionClaims represents the claims in the session JWT
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// OAuthService handles GitHub OAuth login and session tokens
type OAuthService struct {
	authCfg   *config.AuthConfig
	oauth2Cfg *oauth2.Config
	userRepo  repository.UserRepository
	github    service.GitHubService
	sync      *SyncService
	log       *logger.Logger
}

// NewOAuthService creates a new OAuthService instance
func NewOAuthService(
	githubCfg *config.GitHubConfig,
	authCfg *config.AuthConfig,
	userRepo repository.UserRepository,
	github service.GitHubService,
	sync *SyncService,
) *OAuthService {
	return &OAuthService{
		authCfg: authCfg,
		oauth2Cfg: &oauth2.Config{
			ClientID:     githubCfg.ClientID,
			ClientSecret: githubCfg.ClientSecret,
			RedirectURL:  githubCfg.RedirectURL,
			Endpoint:     oauthgithub.Endpoint,
			Scopes:       oauthScopes,
		},
		userRepo: userRepo,
		github:   github,
		sync:     sync,
		log:      logger.Get().WithFields(logger.Component("oauth")),
	}
}

// GenerateAuthURL builds the GitHub authorize URL and the CSRF state that
// must be stored in a cookie
func (s *OAuthService) GenerateAuthURL() (string, string, error) {
	state, err := generateRandomState()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate state: %w", err)
	}

	url := s.oauth2Cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
	return url, state, nil
}

// HandleCallback processes the OAuth callback and returns the authenticated
// user with a session token. The OAuth access token is bcrypt-hashed before
// it touches the database; the plaintext only lives long enough to run the
// login sync and is never logged.
func (s *OAuthService) HandleCallback(ctx context.Context, code, state, expectedState string) (*models.User, string, error) {
	if state == "" || state != expectedState {
		return nil, "", apperror.Unauthorized("invalid state parameter", apperror.ErrInvalidCredentials)
	}

	oauth2Token, err := s.oauth2Cfg.Exchange(ctx, code)
	if err != nil {
		return nil, "", apperror.Unauthorized("failed to exchange authorization code", err)
	}
	accessToken := oauth2Token.AccessToken

	snapshot, err := s.github.GetAuthenticatedUser(ctx, accessToken)
	if err != nil {
		return nil, "", err
	}

	email := snapshot.Email
	if email == "" {
		if primary, err := s.github.GetPrimaryEmail(ctx, accessToken); err == nil {
			email = primary
		}
	}

	user, err := s.findOrCreateUser(ctx, snapshot, email, accessToken)
	if err != nil {
		return nil, "", err
	}

	// Mirror the user's repositories in the background so login stays fast.
	// The plaintext token is discarded once the sync completes.
	go func(token string) {
		syncCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, failures := s.sync.SyncUserRepositories(syncCtx, token); len(failures) > 0 {
			s.log.Warn("Login sync completed with failures",
				logger.UserID(user.ID.String()),
				logger.Int("failed", len(failures)),
			)
		}
	}(accessToken)

	sessionToken, err := s.GenerateSessionToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, sessionToken, nil
}

// findOrCreateUser looks the user up by GitHub ID, refreshing profile fields
// and the token hash, or creates them on first login
func (s *OAuthService) findOrCreateUser(ctx context.Context, snapshot *service.UserSnapshot, email, accessToken string) (*models.User, error) {
	tokenHash, err := bcrypt.GenerateFromPassword([]byte(accessToken), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.InternalError("failed to hash access token", err)
	}

	user, err := s.userRepo.FindByGitHubID(ctx, snapshot.GitHubID)
	if err == nil {
		user.Username = snapshot.Username
		user.AvatarURL = snapshot.AvatarURL
		user.AccessTokenHash = string(tokenHash)
		if email != "" {
			user.Email = strings.ToLower(email)
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	newUser := &models.User{
		GitHubID:        snapshot.GitHubID,
		Username:        snapshot.Username,
		Email:           strings.ToLower(email),
		AvatarURL:       snapshot.AvatarURL,
		AccessTokenHash: string(tokenHash),
		IsPublic:        true,
		EmailFrequency:  models.EmailFrequencyDaily,
		EmailTimeOfDay:  "not_set",
		MaxIssuesPerDay: 50,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	s.log.Info("New user registered",
		logger.UserID(newUser.ID.String()),
		logger.GitHubID(newUser.GitHubID),
	)
	return newUser, nil
}

// GenerateSessionToken generates a JWT session token for the user
func (s *OAuthService) GenerateSessionToken(user *models.User) (string, error) {
	now := time.Now()
	ttl := s.authCfg.SessionTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "codetriage",
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
		},
		UserID:   user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.authCfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return signedToken, nil
}

// ValidateSessionToken validates a session JWT and returns the claims
func (s *OAuthService) ValidateSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.authCfg.JWTSecret), nil
	})
	if err != nil {
		return nil, apperror.Unauthorized("invalid session token", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, apperror.Unauthorized("invalid session token claims", nil)
	}

	return claims, nil
}

// generateRandomState generates a random state string for CSRF protection
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
