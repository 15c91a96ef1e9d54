package domain

import "time"

// User is an account registered with the auth gateway.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Quiz is a titled collection of questions owned by its creator.
// The share code is the short public token used for anonymous play;
// it is stored uppercase and never changes after creation.
type Quiz struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	ShareCode string    `json:"shareCode"`
	CreatedBy string    `json:"createdBy"`
	IsPublic  bool      `json:"isPublic"`
	CreatedAt time.Time `json:"createdAt"`
}

// Question models an MCQ question. Options keep insertion order, which is
// also presentation order. Answer holds the text of the correct option.
type Question struct {
	ID      int64    `json:"id"`
	QuizID  int64    `json:"quizId"`
	Text    string   `json:"question"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// Result is the durable record of one completed play attempt. Answers is
// index-aligned with the quiz's question order at play time; a nil entry
// means the player never answered that position (back navigation without
// reselecting leaves the slot empty). Results are append-only.
type Result struct {
	ID        string    `json:"id"`
	QuizID    int64     `json:"quizId"`
	UserID    string    `json:"userId"`
	Score     int       `json:"score"`
	Answers   []*string `json:"answers"`
	CreatedAt time.Time `json:"createdAt"`
}

// AnswerAt returns the recorded answer at index i and whether one exists.
func (r Result) AnswerAt(i int) (string, bool) {
	if i < 0 || i >= len(r.Answers) || r.Answers[i] == nil {
		return "", false
	}
	return *r.Answers[i], true
}

// ResultWithTitle joins a result with its quiz title for listings.
type ResultWithTitle struct {
	Result
	QuizTitle string `json:"quizTitle"`
}
