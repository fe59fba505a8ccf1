package dto

// AddRepoRequest represents a request to track a new repository
type AddRepoRequest struct {
	Owner string `json:"owner" binding:"required,min=1,max=100"`
	Name  string `json:"name" binding:"required,min=1,max=100"`
}

// RepoListQuery holds the repository listing filters
type RepoListQuery struct {
	PageQuery
	Language string `form:"language"`
	Search   string `form:"search"`
	Sort     string `form:"sort"` // stars, forks, recent
}

// LanguagesResponse represents the distinct language listing
type LanguagesResponse struct {
	Languages []string `json:"languages"`
}
