// Package stats computes the dashboard projections over already-fetched
// collections. No pagination, no incremental aggregation.
package stats

import (
	"math"

	"github.com/quizlink/quizlink/internal/domain"
)

// Summary is the read-only dashboard projection for one user.
type Summary struct {
	QuizCount   int `json:"quizCount"`
	ResultCount int `json:"resultCount"`
	// MeanScore is the rounded arithmetic mean of scores, 0 when empty.
	MeanScore int `json:"meanScore"`
	// MaxScore is the highest score, 0 when empty.
	MaxScore int `json:"maxScore"`
	// HighScores counts results with a raw score of at least 80.
	HighScores int `json:"highScores"`
}

// Summarize aggregates a user's quizzes and results.
func Summarize(quizzes []domain.Quiz, results []domain.ResultWithTitle) Summary {
	s := Summary{
		QuizCount:   len(quizzes),
		ResultCount: len(results),
	}
	if len(results) == 0 {
		return s
	}

	sum := 0
	for _, r := range results {
		sum += r.Score
		if r.Score > s.MaxScore {
			s.MaxScore = r.Score
		}
		if r.Score >= 80 {
			s.HighScores++
		}
	}
	s.MeanScore = int(math.Round(float64(sum) / float64(len(results))))
	return s
}
