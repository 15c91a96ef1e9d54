package http

import (
	"github.com/quizlink/quizlink/internal/domain"
	"github.com/quizlink/quizlink/internal/review"
	"github.com/quizlink/quizlink/internal/stats"
)

type signUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type createQuizRequest struct {
	Title string `json:"title"`
}

type addQuestionRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// playQuestion is a question as shown to a player: the correct answer is
// withheld until review.
type playQuestion struct {
	ID       int64    `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type playQuizResponse struct {
	Quiz      domain.Quiz    `json:"quiz"`
	Questions []playQuestion `json:"questions"`
	Total     int            `json:"total"`
}

type finishRequest struct {
	Answers []*string `json:"answers"`
}

type finishResponse struct {
	Result     domain.Result `json:"result"`
	Percentage int           `json:"percentage"`
	Band       string        `json:"band"`
	Persisted  bool          `json:"persisted"`
}

type quizDetailResponse struct {
	Quiz      domain.Quiz       `json:"quiz"`
	Questions []domain.Question `json:"questions"`
}

type reviewResponse struct {
	Quiz       domain.Quiz  `json:"quiz"`
	Rows       []review.Row `json:"rows"`
	Score      int          `json:"score"`
	Percentage int          `json:"percentage"`
	Band       string       `json:"band"`
	// Source reports where the reviewed answers came from:
	// "persisted", "fallback", or "none".
	Source string `json:"source"`
}

type dashboardResponse struct {
	Summary stats.Summary            `json:"summary"`
	Quizzes []domain.Quiz            `json:"quizzes"`
	Results []domain.ResultWithTitle `json:"results"`
}

func toPlayQuestions(questions []domain.Question) []playQuestion {
	out := make([]playQuestion, 0, len(questions))
	for _, q := range questions {
		out = append(out, playQuestion{ID: q.ID, Question: q.Text, Options: q.Options})
	}
	return out
}
