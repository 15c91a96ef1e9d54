package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/quizlink/quizlink/internal/domain"
)

const uniqueViolation = "23505"

// Store implements quiz.Store and auth.UserStore on Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) CreateQuiz(ctx context.Context, quiz domain.Quiz) (domain.Quiz, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO quizzes (title, share_code, created_by, is_public)
		VALUES ($1, upper($2), $3, $4)
		RETURNING id, share_code, created_at`,
		quiz.Title, quiz.ShareCode, quiz.CreatedBy, quiz.IsPublic).
		Scan(&quiz.ID, &quiz.ShareCode, &quiz.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Quiz{}, domain.ErrShareCodeConflict
		}
		return domain.Quiz{}, fmt.Errorf("insert quiz: %w", err)
	}
	return quiz, nil
}

func (s *Store) QuizByID(ctx context.Context, id int64) (domain.Quiz, error) {
	return s.scanQuiz(s.pool.QueryRow(ctx, `
		SELECT id, title, share_code, created_by, is_public, created_at
		FROM quizzes WHERE id = $1`, id))
}

func (s *Store) QuizByShareCode(ctx context.Context, code string) (domain.Quiz, error) {
	return s.scanQuiz(s.pool.QueryRow(ctx, `
		SELECT id, title, share_code, created_by, is_public, created_at
		FROM quizzes WHERE share_code = upper($1)`, code))
}

func (s *Store) scanQuiz(row pgx.Row) (domain.Quiz, error) {
	var quiz domain.Quiz
	err := row.Scan(&quiz.ID, &quiz.Title, &quiz.ShareCode, &quiz.CreatedBy, &quiz.IsPublic, &quiz.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	return quiz, nil
}

func (s *Store) AddQuestion(ctx context.Context, question domain.Question) (domain.Question, error) {
	options, err := json.Marshal(question.Options)
	if err != nil {
		return domain.Question{}, fmt.Errorf("marshal options: %w", err)
	}
	err = s.pool.QueryRow(ctx, `
		INSERT INTO questions (quiz_id, question, options, answer)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		question.QuizID, question.Text, options, question.Answer).
		Scan(&question.ID)
	if err != nil {
		return domain.Question{}, fmt.Errorf("insert question: %w", err)
	}
	return question, nil
}

func (s *Store) QuestionsByQuiz(ctx context.Context, quizID int64) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, quiz_id, question, options, answer
		FROM questions WHERE quiz_id = $1
		ORDER BY id`, quizID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var (
			q       domain.Question
			options []byte
		)
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Text, &options, &q.Answer); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *Store) QuizzesByCreator(ctx context.Context, userID string) ([]domain.Quiz, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, share_code, created_by, is_public, created_at
		FROM quizzes WHERE created_by = $1
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("load quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []domain.Quiz
	for rows.Next() {
		var quiz domain.Quiz
		if err := rows.Scan(&quiz.ID, &quiz.Title, &quiz.ShareCode, &quiz.CreatedBy, &quiz.IsPublic, &quiz.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, rows.Err()
}

func (s *Store) SaveResult(ctx context.Context, result domain.Result) (domain.Result, error) {
	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return domain.Result{}, fmt.Errorf("marshal answers: %w", err)
	}
	err = s.pool.QueryRow(ctx, `
		INSERT INTO results (id, quiz_id, user_id, score, answers)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		result.ID, result.QuizID, result.UserID, result.Score, answers).
		Scan(&result.CreatedAt)
	if err != nil {
		return domain.Result{}, fmt.Errorf("insert result: %w", err)
	}
	return result, nil
}

func (s *Store) LatestResult(ctx context.Context, quizID int64, userID string) (domain.Result, error) {
	var (
		result  domain.Result
		answers []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, quiz_id, user_id, score, answers, created_at
		FROM results WHERE quiz_id = $1 AND user_id = $2
		ORDER BY created_at DESC LIMIT 1`, quizID, userID).
		Scan(&result.ID, &result.QuizID, &result.UserID, &result.Score, &answers, &result.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Result{}, domain.ErrResultNotFound
	}
	if err != nil {
		return domain.Result{}, fmt.Errorf("load result: %w", err)
	}
	if err := json.Unmarshal(answers, &result.Answers); err != nil {
		return domain.Result{}, fmt.Errorf("unmarshal answers: %w", err)
	}
	return result, nil
}

func (s *Store) ResultsByUser(ctx context.Context, userID string) ([]domain.ResultWithTitle, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.quiz_id, r.user_id, r.score, r.answers, r.created_at, q.title
		FROM results r
		JOIN quizzes q ON q.id = r.quiz_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	defer rows.Close()

	var results []domain.ResultWithTitle
	for rows.Next() {
		var (
			r       domain.ResultWithTitle
			answers []byte
		)
		if err := rows.Scan(&r.ID, &r.QuizID, &r.UserID, &r.Score, &answers, &r.CreatedAt, &r.QuizTitle); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if err := json.Unmarshal(answers, &r.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
