package fallback

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/quizlink/quizlink/internal/domain"
)

// SQLiteSlot is the durable, device-local slot implementation. The table
// keeps a single row enforced by a fixed primary key.
type SQLiteSlot struct {
	db *sql.DB
}

func NewSQLiteSlot(path string) (*SQLiteSlot, error) {
	if strings.TrimSpace(path) == "" {
		path = "quizlink-fallback.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS fallback_result (
			slot INTEGER PRIMARY KEY CHECK (slot = 1),
			result_id TEXT NOT NULL,
			quiz_id INTEGER NOT NULL,
			user_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			answers TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteSlot{db: db}, nil
}

func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}

func (s *SQLiteSlot) Put(ctx context.Context, result domain.Result) error {
	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO fallback_result (slot, result_id, quiz_id, user_id, score, answers, created_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.QuizID, result.UserID, result.Score, string(answers), result.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("write fallback slot: %w", err)
	}
	return nil
}

func (s *SQLiteSlot) Get(ctx context.Context, quizID int64) (domain.Result, bool, error) {
	var (
		result  domain.Result
		answers string
		created string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT result_id, quiz_id, user_id, score, answers, created_at
		FROM fallback_result WHERE slot = 1`).
		Scan(&result.ID, &result.QuizID, &result.UserID, &result.Score, &answers, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Result{}, false, nil
	}
	if err != nil {
		return domain.Result{}, false, fmt.Errorf("read fallback slot: %w", err)
	}
	if result.QuizID != quizID {
		return domain.Result{}, false, nil
	}
	if err := json.Unmarshal([]byte(answers), &result.Answers); err != nil {
		return domain.Result{}, false, fmt.Errorf("unmarshal answers: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		result.CreatedAt = t
	}
	return result, true, nil
}

func (s *SQLiteSlot) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM fallback_result WHERE slot = 1`)
	return err
}
