package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/provat/codetriage/internal/domain/models"
)

func TestClassifyDifficulty(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   models.Difficulty
	}{
		{"no labels", nil, models.DifficultyUnknown},
		{"empty labels", []string{}, models.DifficultyUnknown},
		{"good first issue", []string{"good first issue"}, models.DifficultyBeginner},
		{"beginner keyword", []string{"beginner-friendly"}, models.DifficultyBeginner},
		{"easy", []string{"easy"}, models.DifficultyBeginner},
		{"first timers only", []string{"first-timers-only"}, models.DifficultyBeginner},
		{"help wanted", []string{"help wanted"}, models.DifficultyIntermediate},
		{"medium", []string{"medium"}, models.DifficultyIntermediate},
		{"advanced", []string{"advanced"}, models.DifficultyAdvanced},
		{"hard", []string{"hard"}, models.DifficultyAdvanced},
		{"difficult", []string{"very difficult"}, models.DifficultyAdvanced},
		{"unrelated labels", []string{"bug", "documentation"}, models.DifficultyUnknown},
		{"case insensitive", []string{"Good First Issue"}, models.DifficultyBeginner},
		{"substring with decoration", []string{"Good First Issue :tada:"}, models.DifficultyBeginner},
		{"beginner tier wins over intermediate", []string{"help wanted", "good first issue"}, models.DifficultyBeginner},
		{"beginner tier wins over advanced", []string{"hard", "good first issue"}, models.DifficultyBeginner},
		{"intermediate tier wins over advanced", []string{"hard", "help wanted"}, models.DifficultyIntermediate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDifficulty(tt.labels))
		})
	}
}

func TestDifficultyLevels(t *testing.T) {
	levels := DifficultyLevels()

	assert.Equal(t, []models.Difficulty{
		models.DifficultyBeginner,
		models.DifficultyIntermediate,
		models.DifficultyAdvanced,
		models.DifficultyUnknown,
	}, levels)
}
