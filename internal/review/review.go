// Package review reconciles a stored play result with quiz content so a
// player can walk through every question with their own answer marked.
package review

import "github.com/quizlink/quizlink/internal/domain"

// Row is one reviewed question. Answered is false when neither the stored
// result nor the fallback slot carries an answer for the index; such rows
// are neither correct nor incorrect.
type Row struct {
	Question   domain.Question `json:"question"`
	UserAnswer string          `json:"userAnswer,omitempty"`
	Answered   bool            `json:"answered"`
	Correct    bool            `json:"correct"`
}

// Build joins quiz questions with a persisted result and the local fallback
// slot. Per index, the persisted result's answer wins, then a fallback whose
// quiz id matches, then the position is reported unanswered. Either result
// may be nil.
func Build(quizID int64, questions []domain.Question, result, fallback *domain.Result) []Row {
	rows := make([]Row, 0, len(questions))
	for i, q := range questions {
		row := Row{Question: q}
		if answer, ok := lookup(quizID, i, result, fallback); ok {
			row.UserAnswer = answer
			row.Answered = true
			row.Correct = answer == q.Answer
		}
		rows = append(rows, row)
	}
	return rows
}

func lookup(quizID int64, index int, result, fallback *domain.Result) (string, bool) {
	if result != nil {
		if answer, ok := result.AnswerAt(index); ok {
			return answer, true
		}
	}
	if fallback != nil && fallback.QuizID == quizID {
		if answer, ok := fallback.AnswerAt(index); ok {
			return answer, true
		}
	}
	return "", false
}
