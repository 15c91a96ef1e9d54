package player_test

import (
	"context"
	"errors"
	"testing"

	"github.com/quizlink/quizlink/internal/domain"
	"github.com/quizlink/quizlink/internal/player"
)

func TestCapitalsScenario(t *testing.T) {
	session := newCapitalsSession(t, &stubResults{}, nil)

	session.SelectAnswer("Paris")
	if !session.Advance() {
		t.Fatalf("expected advance after selection")
	}
	session.SelectAnswer("Berlin")
	if !session.Advance() {
		t.Fatalf("expected advance on last question")
	}

	if session.State() != player.StateReviewing {
		t.Fatalf("expected reviewing state, got %v", session.State())
	}
	if session.Score() != 1 {
		t.Fatalf("expected score 1, got %d", session.Score())
	}
	if pct := player.Percentage(session.Score(), session.Total()); pct != 50 {
		t.Fatalf("expected 50%%, got %d", pct)
	}
	if band := player.Band(50); band != "Not Bad" {
		t.Fatalf("expected Not Bad, got %s", band)
	}

	result, err := session.Finish(context.Background(), "u1")
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if len(result.Answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(result.Answers))
	}
	if got, ok := result.AnswerAt(0); !ok || got != "Paris" {
		t.Fatalf("expected Paris at 0, got %q ok=%v", got, ok)
	}
	if got, ok := result.AnswerAt(1); !ok || got != "Berlin" {
		t.Fatalf("expected Berlin at 1, got %q ok=%v", got, ok)
	}
}

func TestAdvanceWithoutSelectionIsNoop(t *testing.T) {
	session := newCapitalsSession(t, &stubResults{}, nil)

	for i := 0; i < 5; i++ {
		if session.Advance() {
			t.Fatalf("advance without selection must not change state")
		}
	}
	if session.Index() != 0 || session.Score() != 0 {
		t.Fatalf("expected untouched session, index=%d score=%d", session.Index(), session.Score())
	}
}

func TestGoBackThenReadvanceDoesNotDoubleCount(t *testing.T) {
	session := newCapitalsSession(t, &stubResults{}, nil)

	session.SelectAnswer("Paris")
	session.Advance()
	if session.Score() != 1 {
		t.Fatalf("expected score 1 after correct answer, got %d", session.Score())
	}

	if !session.GoBack() {
		t.Fatalf("expected go back from index 1")
	}
	session.SelectAnswer("Paris")
	session.Advance()
	if session.Score() != 1 {
		t.Fatalf("re-advance double-counted: score %d", session.Score())
	}

	// The first recorded answer also survives a differing re-selection.
	session.GoBack()
	session.SelectAnswer("London")
	session.Advance()
	session.SelectAnswer("Tokyo")
	session.Advance()

	result, err := session.Finish(context.Background(), "u1")
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if got, _ := result.AnswerAt(0); got != "Paris" {
		t.Fatalf("answer slot overwritten: %q", got)
	}
	if result.Score != 2 {
		t.Fatalf("expected final score 2, got %d", result.Score)
	}
}

func TestGoBackAtFirstQuestion(t *testing.T) {
	session := newCapitalsSession(t, &stubResults{}, nil)
	if session.GoBack() {
		t.Fatalf("expected go back to refuse at index 0")
	}
}

func TestScoreBounded(t *testing.T) {
	session := newCapitalsSession(t, &stubResults{}, nil)

	session.SelectAnswer("Paris")
	session.Advance()
	session.SelectAnswer("Tokyo")
	session.Advance()

	if session.Score() < 0 || session.Score() > session.Total() {
		t.Fatalf("score out of bounds: %d", session.Score())
	}
	if session.Score() != 2 {
		t.Fatalf("expected perfect score, got %d", session.Score())
	}
}

func TestFinishAnonymousSkipsPersistence(t *testing.T) {
	results := &stubResults{}
	slot := &stubSlot{}
	session := newCapitalsSession(t, results, slot)

	session.SelectAnswer("Paris")
	session.Advance()
	session.SelectAnswer("Tokyo")
	session.Advance()

	if _, err := session.Finish(context.Background(), ""); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if results.calls != 0 {
		t.Fatalf("anonymous finish must skip the store, got %d calls", results.calls)
	}
	if slot.calls != 0 {
		t.Fatalf("anonymous finish must not touch the fallback slot")
	}
}

func TestFinishStoreFailureWritesFallback(t *testing.T) {
	results := &stubResults{err: errors.New("store down")}
	slot := &stubSlot{}
	session := newCapitalsSession(t, results, slot)

	session.SelectAnswer("Paris")
	session.Advance()
	session.SelectAnswer("Berlin")
	session.Advance()

	result, err := session.Finish(context.Background(), "u1")
	if err != nil {
		t.Fatalf("finish must complete despite store failure: %v", err)
	}
	if slot.calls != 1 {
		t.Fatalf("expected one fallback write, got %d", slot.calls)
	}
	if slot.last.Score != 1 || slot.last.QuizID != result.QuizID {
		t.Fatalf("fallback payload mismatch: %+v", slot.last)
	}
	if results.calls != 1 {
		t.Fatalf("store must be attempted exactly once, got %d", results.calls)
	}
}

func TestFinishBeforeReviewRefused(t *testing.T) {
	session := newCapitalsSession(t, &stubResults{}, nil)
	if _, err := session.Finish(context.Background(), "u1"); err != player.ErrNotReviewing {
		t.Fatalf("expected ErrNotReviewing, got %v", err)
	}
}

func TestStalePendingDoesNotOverwrite(t *testing.T) {
	questions := capitalsQuestions()
	questions = append(questions, domain.Question{ID: 3, QuizID: 7, Text: "Capital of Italy?", Options: []string{"Rome", "Milan"}, Answer: "Rome"})
	session, err := player.NewSession(domain.Quiz{ID: 7, Title: "Capitals"}, questions, &stubResults{}, nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	session.SelectAnswer("Paris")
	session.Advance()
	session.SelectAnswer("Tokyo")
	session.Advance()

	// Select on the last question, step back without advancing, then ride
	// the retained pending selection forward: the filled slot must not be
	// overwritten by it.
	session.SelectAnswer("Rome")
	session.GoBack()
	if !session.Advance() {
		t.Fatalf("expected retained pending selection to allow advance")
	}
	session.SelectAnswer("Milan")
	session.Advance()

	result, err := session.Finish(context.Background(), "")
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if got, _ := result.AnswerAt(1); got != "Tokyo" {
		t.Fatalf("slot 1 overwritten by stale pending: %q", got)
	}
	if got, _ := result.AnswerAt(2); got != "Milan" {
		t.Fatalf("expected Milan at 2, got %q", got)
	}
	if result.Score != 2 {
		t.Fatalf("expected score 2, got %d", result.Score)
	}
}

func TestEmptyQuizNotPlayable(t *testing.T) {
	_, err := player.NewSession(domain.Quiz{ID: 9}, nil, &stubResults{}, nil)
	if err != domain.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

type stubResults struct {
	calls int
	err   error
}

func (s *stubResults) SaveResult(_ context.Context, result domain.Result) (domain.Result, error) {
	s.calls++
	if s.err != nil {
		return domain.Result{}, s.err
	}
	return result, nil
}

type stubSlot struct {
	calls int
	last  domain.Result
}

func (s *stubSlot) Put(_ context.Context, result domain.Result) error {
	s.calls++
	s.last = result
	return nil
}

func capitalsQuestions() []domain.Question {
	return []domain.Question{
		{ID: 1, QuizID: 7, Text: "Capital of France?", Options: []string{"Paris", "London", "Berlin", "Madrid"}, Answer: "Paris"},
		{ID: 2, QuizID: 7, Text: "Capital of Japan?", Options: []string{"Osaka", "Tokyo", "Kyoto", "Nagoya"}, Answer: "Tokyo"},
	}
}

func newCapitalsSession(t *testing.T, results player.ResultStore, slot player.FallbackSlot) *player.Session {
	t.Helper()
	session, err := player.NewSession(domain.Quiz{ID: 7, Title: "Capitals"}, capitalsQuestions(), results, slot)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return session
}
