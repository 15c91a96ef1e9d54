package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/quizlink/quizlink/internal/domain"
	"github.com/quizlink/quizlink/internal/infra/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewService(store), store
}

func TestCreateQuizAssignsShareCode(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateQuiz(context.Background(), "  Capitals  ", "u1")
	if err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	if created.Title != "Capitals" {
		t.Fatalf("title = %q, want trimmed", created.Title)
	}
	if len(created.ShareCode) != ShareCodeLength {
		t.Fatalf("share code %q has length %d", created.ShareCode, len(created.ShareCode))
	}
	if created.ShareCode != strings.ToUpper(created.ShareCode) {
		t.Fatalf("share code %q is not canonical uppercase", created.ShareCode)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned id")
	}
}

func TestCreateQuizValidation(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.CreateQuiz(context.Background(), "   ", "u1"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("blank title: got %v", err)
	}
	if _, err := svc.CreateQuiz(context.Background(), "Capitals", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("missing creator: got %v", err)
	}
}

func TestAddQuestionValidation(t *testing.T) {
	svc, _ := newTestService(t)
	created, err := svc.CreateQuiz(context.Background(), "Capitals", "u1")
	if err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}

	four := []string{"Paris", "Lyon", "Nice", "Lille"}
	cases := []struct {
		name    string
		text    string
		options []string
		answer  string
	}{
		{"blank text", "  ", four, "Paris"},
		{"three options", "Capital of France?", four[:3], "Paris"},
		{"blank option", "Capital of France?", []string{"Paris", " ", "Nice", "Lille"}, "Paris"},
		{"no answer", "Capital of France?", four, ""},
	}
	for _, tc := range cases {
		if _, err := svc.AddQuestion(context.Background(), created.ID, tc.text, tc.options, tc.answer); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: got %v, want validation error", tc.name, err)
		}
	}

	if _, err := svc.AddQuestion(context.Background(), created.ID, "Capital of France?", four, "Paris"); err != nil {
		t.Fatalf("valid question rejected: %v", err)
	}
}

func TestResolveByShareCodeIsCaseInsensitive(t *testing.T) {
	svc, _ := newTestService(t)
	created, err := svc.CreateQuiz(context.Background(), "Capitals", "u1")
	if err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	if _, err := svc.AddQuestion(context.Background(), created.ID, "Capital of France?", []string{"Paris", "Lyon", "Nice", "Lille"}, "Paris"); err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}

	for _, code := range []string{created.ShareCode, strings.ToLower(created.ShareCode), " " + created.ShareCode + " "} {
		quiz, questions, err := svc.ResolveByShareCode(context.Background(), code)
		if err != nil {
			t.Fatalf("resolve %q: %v", code, err)
		}
		if quiz.ID != created.ID || len(questions) != 1 {
			t.Fatalf("resolve %q returned quiz %d with %d questions", code, quiz.ID, len(questions))
		}
	}
}

func TestResolveUnknownCode(t *testing.T) {
	svc, _ := newTestService(t)
	if _, _, err := svc.ResolveByShareCode(context.Background(), "NOSUCH"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("got %v, want ErrQuizNotFound", err)
	}
	if _, _, err := svc.ResolveByShareCode(context.Background(), "  "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("blank code: got %v", err)
	}
}

func TestResolveZeroQuestionQuizIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	created, err := svc.CreateQuiz(context.Background(), "Empty", "u1")
	if err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	if _, _, err := svc.ResolveByShareCode(context.Background(), created.ShareCode); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("got %v, want ErrQuizNotFound for empty quiz", err)
	}
}

func TestQuizzesByCreatorScopesToOwner(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.CreateQuiz(context.Background(), "Mine", "u1"); err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	if _, err := svc.CreateQuiz(context.Background(), "Theirs", "u2"); err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}

	mine, err := svc.QuizzesByCreator(context.Background(), "u1")
	if err != nil {
		t.Fatalf("QuizzesByCreator: %v", err)
	}
	if len(mine) != 1 || mine[0].Title != "Mine" {
		t.Fatalf("unexpected listing: %+v", mine)
	}
}
