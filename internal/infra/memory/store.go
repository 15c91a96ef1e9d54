package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quizlink/quizlink/internal/domain"
)

// Store is an in-memory implementation of quiz.Store and auth.UserStore,
// used by tests and when no Postgres URL is configured.
type Store struct {
	mu             sync.RWMutex
	quizzes        map[int64]domain.Quiz
	byCode         map[string]int64
	questions      map[int64][]domain.Question
	results        []domain.Result
	users          map[string]domain.User
	passwordHashes map[string]string
	emails         map[string]string
	nextQuizID     int64
	nextQuestionID int64
	now            func() time.Time
}

func NewStore() *Store {
	return &Store{
		quizzes:        make(map[int64]domain.Quiz),
		byCode:         make(map[string]int64),
		questions:      make(map[int64][]domain.Question),
		users:          make(map[string]domain.User),
		passwordHashes: make(map[string]string),
		emails:         make(map[string]string),
		now:            time.Now,
	}
}

func (s *Store) CreateQuiz(_ context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code := strings.ToUpper(quiz.ShareCode)
	if _, exists := s.byCode[code]; exists {
		return domain.Quiz{}, domain.ErrShareCodeConflict
	}

	s.nextQuizID++
	quiz.ID = s.nextQuizID
	quiz.ShareCode = code
	quiz.CreatedAt = s.now()
	s.quizzes[quiz.ID] = quiz
	s.byCode[code] = quiz.ID
	return quiz, nil
}

func (s *Store) QuizByID(_ context.Context, id int64) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[id]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

func (s *Store) QuizByShareCode(_ context.Context, code string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byCode[strings.ToUpper(code)]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return s.quizzes[id], nil
}

func (s *Store) AddQuestion(_ context.Context, question domain.Question) (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.quizzes[question.QuizID]; !ok {
		return domain.Question{}, domain.ErrQuizNotFound
	}
	s.nextQuestionID++
	question.ID = s.nextQuestionID
	s.questions[question.QuizID] = append(s.questions[question.QuizID], question)
	return question, nil
}

func (s *Store) QuestionsByQuiz(_ context.Context, quizID int64) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Question(nil), s.questions[quizID]...), nil
}

func (s *Store) QuizzesByCreator(_ context.Context, userID string) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Quiz
	for _, quiz := range s.quizzes {
		if quiz.CreatedBy == userID {
			out = append(out, quiz)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) SaveResult(_ context.Context, result domain.Result) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = s.now()
	}
	s.results = append(s.results, result)
	return result, nil
}

func (s *Store) LatestResult(_ context.Context, quizID int64, userID string) (domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.results) - 1; i >= 0; i-- {
		r := s.results[i]
		if r.QuizID == quizID && r.UserID == userID {
			return r, nil
		}
	}
	return domain.Result{}, domain.ErrResultNotFound
}

func (s *Store) ResultsByUser(_ context.Context, userID string) ([]domain.ResultWithTitle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.ResultWithTitle
	for i := len(s.results) - 1; i >= 0; i-- {
		r := s.results[i]
		if r.UserID != userID {
			continue
		}
		out = append(out, domain.ResultWithTitle{
			Result:    r,
			QuizTitle: s.quizzes[r.QuizID].Title,
		})
	}
	return out, nil
}
