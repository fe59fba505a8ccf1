package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provat/codetriage/internal/config"
	"github.com/provat/codetriage/internal/domain/models"
	apperror "github.com/provat/codetriage/pkg/errors"
)

func oauthServiceFixture(authCfg *config.AuthConfig) *OAuthService {
	if authCfg == nil {
		authCfg = &config.AuthConfig{JWTSecret: "test-secret", SessionTTL: time.Hour}
	}
	return NewOAuthService(
		&config.GitHubConfig{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost/cb"},
		authCfg,
		nil,
		&fakeGitHub{},
		nil,
	)
}

func TestGenerateAuthURL(t *testing.T) {
	svc := oauthServiceFixture(nil)

	url, state, err := svc.GenerateAuthURL()
	require.NoError(t, err)

	assert.NotEmpty(t, state)
	assert.Contains(t, url, "github.com/login/oauth/authorize")
	assert.Contains(t, url, "state="+state)
	assert.Contains(t, url, "client_id=id")

	// State is random per call
	_, state2, err := svc.GenerateAuthURL()
	require.NoError(t, err)
	assert.NotEqual(t, state, state2)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := oauthServiceFixture(nil)
	user := &models.User{
		ID:       uuid.New(),
		Username: "octocat",
		Email:    "octocat@example.com",
	}

	token, err := svc.GenerateSessionToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateSessionToken(token)
	require.NoError(t, err)

	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "octocat", claims.Username)
	assert.Equal(t, "octocat@example.com", claims.Email)
	assert.Equal(t, "codetriage", claims.Issuer)
}

func TestValidateSessionTokenRejectsWrongSecret(t *testing.T) {
	issuer := oauthServiceFixture(&config.AuthConfig{JWTSecret: "secret-a", SessionTTL: time.Hour})
	verifier := oauthServiceFixture(&config.AuthConfig{JWTSecret: "secret-b", SessionTTL: time.Hour})

	token, err := issuer.GenerateSessionToken(&models.User{ID: uuid.New(), Username: "octocat"})
	require.NoError(t, err)

	_, err = verifier.ValidateSessionToken(token)
	require.Error(t, err)
	assert.True(t, apperror.IsUnauthorized(err))
}

func TestValidateSessionTokenRejectsGarbage(t *testing.T) {
	svc := oauthServiceFixture(nil)

	_, err := svc.ValidateSessionToken("not-a-jwt")
	require.Error(t, err)
	assert.True(t, apperror.IsUnauthorized(err))
}
