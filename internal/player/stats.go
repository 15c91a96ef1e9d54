package player

import "math"

// Percentage is the rounded share of correct answers, 0 for an empty quiz.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}

// Progress is the rounded completion percentage with the current question
// counted as reached.
func Progress(index, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(index+1) / float64(total)))
}

// Band maps a percentage to its qualitative label. Thresholds are
// inclusive lower bounds covering the whole range.
func Band(percentage int) string {
	switch {
	case percentage >= 80:
		return "Excellent"
	case percentage >= 60:
		return "Good"
	case percentage >= 40:
		return "Not Bad"
	default:
		return "Keep Trying"
	}
}
