package dto

// SubscribeRequest represents a request to subscribe to a repository
type SubscribeRequest struct {
	Owner      string   `json:"owner" binding:"required,min=1,max=100"`
	Name       string   `json:"name" binding:"required,min=1,max=100"`
	Frequency  string   `json:"frequency"`
	Languages  []string `json:"languages"`
	Difficulty []string `json:"difficulty"`
	Labels     []string `json:"labels"`
}

// UpdateSubscriptionRequest represents a partial subscription update
type UpdateSubscriptionRequest struct {
	Frequency  *string   `json:"frequency,omitempty"`
	Languages  *[]string `json:"languages,omitempty"`
	Difficulty *[]string `json:"difficulty,omitempty"`
	Labels     *[]string `json:"labels,omitempty"`
}

// BulkPreferencesRequest applies one preference set to all active subscriptions
type BulkPreferencesRequest struct {
	Languages  []string `json:"languages"`
	Difficulty []string `json:"difficulty"`
	Labels     []string `json:"labels"`
}

// BulkPreferencesResponse reports how many subscriptions were updated
type BulkPreferencesResponse struct {
	Updated int64 `json:"updated"`
}
