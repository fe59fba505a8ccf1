package dto

import (
	"time"

	"github.com/google/uuid"
)

// UserInfo represents basic user information in responses
type UserInfo struct {
	ID        uuid.UUID `json:"id"`
	GitHubID  int64     `json:"githubId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// UpdateSettingsRequest represents a partial user settings update
type UpdateSettingsRequest struct {
	EmailFrequency    *string   `json:"emailFrequency,omitempty"`
	EmailTimeOfDay    *string   `json:"emailTimeOfDay,omitempty"`
	MaxIssuesPerDay   *int      `json:"maxIssuesPerDay,omitempty"`
	SkipIssuesWithPR  *bool     `json:"skipIssuesWithPR,omitempty"`
	FavoriteLanguages *[]string `json:"favoriteLanguages,omitempty"`
	IsPublic          *bool     `json:"isPublic,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}
