package domain

import "errors"

var (
	// ErrValidation marks input rejected before any store call.
	ErrValidation = errors.New("validation failed")
	// ErrQuizNotFound covers unknown share codes, unknown quiz ids, and
	// quizzes with zero questions (an empty quiz is not playable).
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrShareCodeConflict is returned when a generated share code collides
	// with an existing quiz. Creation is not retried.
	ErrShareCodeConflict = errors.New("share code already in use")
	// ErrResultNotFound indicates no stored result for a quiz/user pair.
	ErrResultNotFound = errors.New("result not found")
	// ErrEmailTaken is returned when registering an already known email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is the structured kind for a failed sign-in;
	// callers must not match on message text.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated indicates a missing, expired, or revoked session.
	ErrUnauthenticated = errors.New("not authenticated")
)
