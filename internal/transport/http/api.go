// Package http exposes the quiz service over REST and a websocket play
// transport.
package http

import (
	"context"
	"net/http"

	"github.com/quizlink/quizlink/internal/auth"
	"github.com/quizlink/quizlink/internal/domain"
	"github.com/quizlink/quizlink/internal/fallback"
	"github.com/quizlink/quizlink/internal/quiz"
)

// Resolver is the (possibly cached) share-code resolution path.
type Resolver interface {
	ResolveByShareCode(ctx context.Context, code string) (domain.Quiz, []domain.Question, error)
}

// API wires the auth gateway, quiz service, resolver cache, and fallback
// slot into HTTP handlers.
type API struct {
	auth     *auth.Gateway
	quizzes  *quiz.Service
	resolver Resolver
	fallback fallback.Slot
}

func NewAPI(gw *auth.Gateway, quizzes *quiz.Service, resolver Resolver, slot fallback.Slot) *API {
	if resolver == nil {
		resolver = quizzes
	}
	return &API{
		auth:     gw,
		quizzes:  quizzes,
		resolver: resolver,
		fallback: slot,
	}
}

// NewRouter assembles the full route table behind the session gate.
func NewRouter(api *API) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /api/signup", api.handleSignUp)
	mux.HandleFunc("POST /api/signin", api.handleSignIn)
	mux.HandleFunc("POST /api/signout", api.handleSignOut)
	mux.HandleFunc("GET /api/me", api.handleMe)

	mux.HandleFunc("POST /api/quizzes", api.handleCreateQuiz)
	mux.HandleFunc("GET /api/quizzes/{id}", api.handleGetQuiz)
	mux.HandleFunc("POST /api/quizzes/{id}/questions", api.handleAddQuestion)
	mux.HandleFunc("GET /api/quizzes/{id}/review", api.handleReview)

	mux.HandleFunc("GET /api/play/{code}", api.handlePlay)
	mux.HandleFunc("POST /api/play/{code}/results", api.handleFinish)

	mux.HandleFunc("GET /api/dashboard", api.handleDashboard)
	mux.HandleFunc("GET /api/my-results", api.handleMyResults)

	mux.HandleFunc("GET /ws/play", api.ServePlayWS)

	return api.SessionGate(mux)
}

// currentUser resolves the request's user, or ErrUnauthenticated.
func (a *API) currentUser(r *http.Request) (domain.User, error) {
	return a.auth.CurrentUser(r.Context(), sessionToken(r))
}
