package quiz

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/quizlink/quizlink/internal/domain"
)

// ShareCodeLength is the size of the public quiz token.
const ShareCodeLength = 6

const shareCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Store abstracts quiz, question, and result persistence (postgres, memory).
type Store interface {
	CreateQuiz(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error)
	QuizByID(ctx context.Context, id int64) (domain.Quiz, error)
	QuizByShareCode(ctx context.Context, code string) (domain.Quiz, error)
	AddQuestion(ctx context.Context, question domain.Question) (domain.Question, error)
	QuestionsByQuiz(ctx context.Context, quizID int64) ([]domain.Question, error)
	QuizzesByCreator(ctx context.Context, userID string) ([]domain.Quiz, error)
	SaveResult(ctx context.Context, result domain.Result) (domain.Result, error)
	LatestResult(ctx context.Context, quizID int64, userID string) (domain.Result, error)
	ResultsByUser(ctx context.Context, userID string) ([]domain.ResultWithTitle, error)
}

// Service contains the quiz repository use cases: creating quizzes and
// questions, and resolving a quiz by its share code.
type Service struct {
	store Store
	rnd   *rand.Rand
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateQuiz generates a share code and inserts the quiz. Uniqueness is not
// verified before the insert; a collision surfaces as ErrShareCodeConflict
// from the store and is not retried (accepted risk given the code space).
func (s *Service) CreateQuiz(ctx context.Context, title, creatorID string) (domain.Quiz, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Quiz{}, fmt.Errorf("%w: title must not be blank", domain.ErrValidation)
	}
	if creatorID == "" {
		return domain.Quiz{}, fmt.Errorf("%w: creator is required", domain.ErrValidation)
	}

	quiz := domain.Quiz{
		Title:     title,
		ShareCode: s.newShareCode(),
		CreatedBy: creatorID,
		IsPublic:  true,
	}
	return s.store.CreateQuiz(ctx, quiz)
}

// AddQuestion validates and inserts a question. The data layer does not
// enforce that the answer is one of the options; the HTTP surface does.
func (s *Service) AddQuestion(ctx context.Context, quizID int64, text string, options []string, answer string) (domain.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Question{}, fmt.Errorf("%w: question must not be blank", domain.ErrValidation)
	}
	if len(options) != 4 {
		return domain.Question{}, fmt.Errorf("%w: exactly 4 options are required", domain.ErrValidation)
	}
	for _, opt := range options {
		if strings.TrimSpace(opt) == "" {
			return domain.Question{}, fmt.Errorf("%w: options must not be blank", domain.ErrValidation)
		}
	}
	if answer == "" {
		return domain.Question{}, fmt.Errorf("%w: a correct answer is required", domain.ErrValidation)
	}

	question := domain.Question{
		QuizID:  quizID,
		Text:    text,
		Options: append([]string(nil), options...),
		Answer:  answer,
	}
	return s.store.AddQuestion(ctx, question)
}

// ResolveByShareCode looks a quiz up by its code, case-insensitively via the
// uppercase canonical form. A quiz with zero questions is not playable and
// resolves as not found even though the quiz row exists.
func (s *Service) ResolveByShareCode(ctx context.Context, code string) (domain.Quiz, []domain.Question, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return domain.Quiz{}, nil, fmt.Errorf("%w: share code must not be blank", domain.ErrValidation)
	}

	quiz, err := s.store.QuizByShareCode(ctx, code)
	if err != nil {
		return domain.Quiz{}, nil, err
	}
	questions, err := s.store.QuestionsByQuiz(ctx, quiz.ID)
	if err != nil {
		return domain.Quiz{}, nil, err
	}
	if len(questions) == 0 {
		return domain.Quiz{}, nil, domain.ErrQuizNotFound
	}
	return quiz, questions, nil
}

// GetQuiz loads a quiz with its questions for the manage/editor surface.
func (s *Service) GetQuiz(ctx context.Context, id int64) (domain.Quiz, []domain.Question, error) {
	quiz, err := s.store.QuizByID(ctx, id)
	if err != nil {
		return domain.Quiz{}, nil, err
	}
	questions, err := s.store.QuestionsByQuiz(ctx, quiz.ID)
	if err != nil {
		return domain.Quiz{}, nil, err
	}
	return quiz, questions, nil
}

// QuizzesByCreator lists a user's quizzes, newest first.
func (s *Service) QuizzesByCreator(ctx context.Context, userID string) ([]domain.Quiz, error) {
	return s.store.QuizzesByCreator(ctx, userID)
}

// ResultsByUser lists a user's play history joined with quiz titles.
func (s *Service) ResultsByUser(ctx context.Context, userID string) ([]domain.ResultWithTitle, error) {
	return s.store.ResultsByUser(ctx, userID)
}

// LatestResult returns the newest stored result for a quiz/user pair.
func (s *Service) LatestResult(ctx context.Context, quizID int64, userID string) (domain.Result, error) {
	return s.store.LatestResult(ctx, quizID, userID)
}

// Results exposes the store's result sink for play sessions.
func (s *Service) Results() Store { return s.store }

func (s *Service) newShareCode() string {
	b := make([]byte, ShareCodeLength)
	for i := range b {
		b[i] = shareCodeAlphabet[s.rnd.Intn(len(shareCodeAlphabet))]
	}
	return string(b)
}
