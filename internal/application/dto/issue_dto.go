package dto

import "strings"

// IssueListQuery holds the issue listing filters
type IssueListQuery struct {
	PageQuery
	Difficulty string `form:"difficulty"`
	Labels     string `form:"labels"` // comma separated
}

// LabelList splits the comma-separated labels parameter
func (q IssueListQuery) LabelList() []string {
	if q.Labels == "" {
		return nil
	}

	var labels []string
	for _, label := range strings.Split(q.Labels, ",") {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			labels = append(labels, trimmed)
		}
	}
	return labels
}

// LabelsResponse represents the distinct label listing for a repository
type LabelsResponse struct {
	Labels []string `json:"labels"`
}

// DifficultiesResponse represents per-level open issue counts
type DifficultiesResponse struct {
	Difficulties map[string]int64 `json:"difficulties"`
}
