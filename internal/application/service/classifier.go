package service

import (
	"strings"

	"github.com/provat/codetriage/internal/domain/models"
)

// difficultyTier binds a difficulty level to the label fragments that imply it.
// Tiers are evaluated in order and the first hit wins, so a "good first issue"
// that also carries "help wanted" still classifies as beginner.
type difficultyTier struct {
	level    models.Difficulty
	keywords []string
}

var difficultyTiers = []difficultyTier{
	{
		level:    models.DifficultyBeginner,
		keywords: []string{"good first issue", "beginner", "easy", "first-timers-only"},
	},
	{
		level:    models.DifficultyIntermediate,
		keywords: []string{"help wanted", "intermediate", "medium"},
	},
	{
		level:    models.DifficultyAdvanced,
		keywords: []string{"advanced", "hard", "difficult"},
	},
}

// ClassifyDifficulty derives a difficulty level from issue labels. Matching is
// case-insensitive substring containment, so "Good First Issue :tada:" counts.
func ClassifyDifficulty(labels []string) models.Difficulty {
	if len(labels) == 0 {
		return models.DifficultyUnknown
	}

	lowered := make([]string, len(labels))
	for i, label := range labels {
		lowered[i] = strings.ToLower(label)
	}

	for _, tier := range difficultyTiers {
		for _, label := range lowered {
			for _, keyword := range tier.keywords {
				if strings.Contains(label, keyword) {
					return tier.level
				}
			}
		}
	}
	return models.DifficultyUnknown
}

// DifficultyLevels returns the supported levels in classification order
func DifficultyLevels() []models.Difficulty {
	return []models.Difficulty{
		models.DifficultyBeginner,
		models.DifficultyIntermediate,
		models.DifficultyAdvanced,
		models.DifficultyUnknown,
	}
}
