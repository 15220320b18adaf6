package models

import (
	"fmt"
	"time"
)

// Difficulty is the closed set of tour difficulty grades.
type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyMedium    Difficulty = "medium"
	DifficultyDifficult Difficulty = "difficult"
)

// ParseDifficulty validates a raw difficulty string.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyDifficult:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("invalid difficulty %q", s)
}

type Tour struct {
	ID              string
	Name            string
	Slug            string
	DurationDays    int
	MaxGroupSize    int
	Difficulty      Difficulty
	Price           float64
	Summary         string
	Description     string
	ImageCover      string
	RatingsAverage  float64
	RatingsQuantity int
	CreatedAt       time.Time
}
