package player

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/quizlink/quizlink/internal/domain"
)

// State tracks where a play session is in its lifecycle.
type State int

const (
	// StateAnswering means the player is working through questions.
	StateAnswering State = iota
	// StateReviewing means the last question was answered and the final
	// score is fixed; the session waits for Finish.
	StateReviewing
	// StateDone means a result was produced and the session is spent.
	StateDone
)

// ErrNotReviewing is returned by Finish outside the review state.
var ErrNotReviewing = errors.New("session is not in review")

// ResultStore persists completed results. Implemented by the postgres and
// memory stores.
type ResultStore interface {
	SaveResult(ctx context.Context, result domain.Result) (domain.Result, error)
}

// FallbackSlot receives the result payload when persistence fails.
type FallbackSlot interface {
	Put(ctx context.Context, result domain.Result) error
}

// Session drives one play attempt over a fixed, ordered question list.
// It is transient and exclusively owned by a single caller; nothing is
// persisted until Finish.
type Session struct {
	quiz      domain.Quiz
	questions []domain.Question
	results   ResultStore
	fallback  FallbackSlot
	now       func() time.Time

	state   State
	index   int
	pending *string
	score   int
	answers []*string
}

// NewSession starts a play attempt. A quiz with zero questions is not
// playable and yields ErrQuizNotFound, mirroring share-code resolution.
func NewSession(quiz domain.Quiz, questions []domain.Question, results ResultStore, fallback FallbackSlot) (*Session, error) {
	if len(questions) == 0 {
		return nil, domain.ErrQuizNotFound
	}
	return &Session{
		quiz:      quiz,
		questions: questions,
		results:   results,
		fallback:  fallback,
		now:       time.Now,
		answers:   make([]*string, len(questions)),
	}, nil
}

// Replay reconstructs a completed attempt from a recorded answer sequence,
// for clients that drove the traversal themselves. Surplus answers are
// dropped, missing positions stay absent, and scoring follows the same
// first-write rule as Advance. The returned session is in review, ready
// for Finish.
func Replay(quiz domain.Quiz, questions []domain.Question, answers []*string, results ResultStore, fallback FallbackSlot) (*Session, error) {
	session, err := NewSession(quiz, questions, results, fallback)
	if err != nil {
		return nil, err
	}
	for i := range questions {
		if i >= len(answers) || answers[i] == nil {
			continue
		}
		recorded := *answers[i]
		session.answers[i] = &recorded
		if recorded == questions[i].Answer {
			session.score++
		}
	}
	session.index = len(questions) - 1
	session.state = StateReviewing
	return session, nil
}

// SelectAnswer records a pending selection for the current question.
// Re-selection overwrites the previous pending value; the score and the
// recorded answer sequence are untouched until Advance.
func (s *Session) SelectAnswer(text string) {
	if s.state != StateAnswering {
		return
	}
	s.pending = &text
}

// Advance commits the pending selection and moves forward. Without a
// pending selection it is a no-op and reports false. The answer slot is
// write-once per index, and scoring happens only on the first forward pass
// through an index, so going back and re-advancing never double-counts.
func (s *Session) Advance() bool {
	if s.state != StateAnswering || s.pending == nil {
		return false
	}

	selected := *s.pending
	if s.answers[s.index] == nil {
		recorded := selected
		s.answers[s.index] = &recorded
		if selected == s.questions[s.index].Answer {
			s.score++
		}
	}

	if s.index == len(s.questions)-1 {
		s.state = StateReviewing
		s.pending = nil
		return true
	}
	s.index++
	s.pending = nil
	return true
}

// GoBack steps to the previous question. Recorded answers and the score
// are never reverted.
func (s *Session) GoBack() bool {
	if s.state != StateAnswering || s.index == 0 {
		return false
	}
	s.index--
	return true
}

// Finish produces the Result. Anonymous sessions (empty userID) skip
// persistence entirely. A store failure writes the same payload to the
// fallback slot and the session still completes; the failure is logged,
// never retried, and never surfaced to the player.
func (s *Session) Finish(ctx context.Context, userID string) (domain.Result, error) {
	if s.state != StateReviewing {
		return domain.Result{}, ErrNotReviewing
	}

	result := domain.Result{
		ID:        uuid.NewString(),
		QuizID:    s.quiz.ID,
		UserID:    userID,
		Score:     s.score,
		Answers:   append([]*string(nil), s.answers...),
		CreatedAt: s.now(),
	}

	if userID != "" {
		if saved, err := s.results.SaveResult(ctx, result); err != nil {
			log.Printf("save result for quiz %d failed, using fallback slot: %v", s.quiz.ID, err)
			if s.fallback != nil {
				if ferr := s.fallback.Put(ctx, result); ferr != nil {
					log.Printf("fallback slot write failed: %v", ferr)
				}
			}
		} else {
			result = saved
		}
	}

	s.state = StateDone
	return result, nil
}

// Quiz returns the quiz under play.
func (s *Session) Quiz() domain.Quiz { return s.quiz }

// State reports the session lifecycle state.
func (s *Session) State() State { return s.state }

// Index is the zero-based position of the current question.
func (s *Session) Index() int { return s.index }

// Score is the running count of correctly answered questions.
func (s *Session) Score() int { return s.score }

// Total is the number of questions in the quiz.
func (s *Session) Total() int { return len(s.questions) }

// Current returns the question at the current index.
func (s *Session) Current() domain.Question { return s.questions[s.index] }

// Pending reports the uncommitted selection for the current question.
func (s *Session) Pending() (string, bool) {
	if s.pending == nil {
		return "", false
	}
	return *s.pending, true
}
