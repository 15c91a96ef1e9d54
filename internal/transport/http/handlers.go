package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/quizlink/quizlink/internal/domain"
	"github.com/quizlink/quizlink/internal/player"
	"github.com/quizlink/quizlink/internal/review"
	"github.com/quizlink/quizlink/internal/stats"
)

func (a *API) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := a.auth.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (a *API) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	token, user, err := a.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, signInResponse{Token: token, User: user})
}

func (a *API) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := a.auth.SignOut(r.Context(), sessionToken(r)); err != nil {
		writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *API) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req createQuizRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	created, err := a.quizzes.CreateQuiz(r.Context(), req.Title, user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	quiz, questions, err := a.quizzes.GetQuiz(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	// The manage surface is owner-only; others see not-found.
	if quiz.CreatedBy != user.ID {
		writeError(w, domain.ErrQuizNotFound)
		return
	}
	writeJSON(w, http.StatusOK, quizDetailResponse{Quiz: quiz, Questions: questions})
}

func (a *API) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	quiz, _, err := a.quizzes.GetQuiz(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if quiz.CreatedBy != user.ID {
		writeError(w, domain.ErrQuizNotFound)
		return
	}

	var req addQuestionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	// The answer-in-options rule lives here, not in the data layer.
	if req.Answer != "" && !contains(req.Options, req.Answer) {
		writeError(w, fmt.Errorf("%w: the correct answer must be one of the options", domain.ErrValidation))
		return
	}
	question, err := a.quizzes.AddQuestion(r.Context(), id, req.Question, req.Options, req.Answer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, question)
}

func (a *API) handlePlay(w http.ResponseWriter, r *http.Request) {
	quiz, questions, err := a.resolver.ResolveByShareCode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playQuizResponse{
		Quiz:      quiz,
		Questions: toPlayQuestions(questions),
		Total:     len(questions),
	})
}

// handleFinish completes a play attempt for clients that drove the
// traversal themselves. Anonymous attempts are accepted and not recorded.
func (a *API) handleFinish(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if user, err := a.currentUser(r); err == nil {
		userID = user.ID
	}

	quiz, questions, err := a.resolver.ResolveByShareCode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req finishRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	session, err := player.Replay(quiz, questions, req.Answers, a.quizzes.Results(), a.fallback)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := session.Finish(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	pct := player.Percentage(result.Score, len(questions))
	writeJSON(w, http.StatusCreated, finishResponse{
		Result:     result,
		Percentage: pct,
		Band:       player.Band(pct),
		Persisted:  userID != "",
	})
}

// handleReview rebuilds a play review: the persisted result when one
// exists, otherwise the local fallback slot, otherwise every row is
// reported unanswered.
func (a *API) handleReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	quiz, questions, err := a.quizzes.GetQuiz(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	var persisted *domain.Result
	if user, err := a.currentUser(r); err == nil {
		if latest, err := a.quizzes.LatestResult(r.Context(), id, user.ID); err == nil {
			persisted = &latest
		} else if !errors.Is(err, domain.ErrResultNotFound) {
			writeError(w, err)
			return
		}
	}

	var fromSlot *domain.Result
	if a.fallback != nil {
		if slot, ok, err := a.fallback.Get(r.Context(), id); err == nil && ok {
			fromSlot = &slot
		}
	}

	rows := review.Build(id, questions, persisted, fromSlot)
	score, source := 0, "none"
	switch {
	case persisted != nil:
		score, source = persisted.Score, "persisted"
	case fromSlot != nil:
		score, source = fromSlot.Score, "fallback"
	}
	pct := player.Percentage(score, len(questions))
	writeJSON(w, http.StatusOK, reviewResponse{
		Quiz:       quiz,
		Rows:       rows,
		Score:      score,
		Percentage: pct,
		Band:       player.Band(pct),
		Source:     source,
	})
}

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}
	quizzes, err := a.quizzes.QuizzesByCreator(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	results, err := a.quizzes.ResultsByUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardResponse{
		Summary: stats.Summarize(quizzes, results),
		Quizzes: quizzes,
		Results: results,
	})
}

func (a *API) handleMyResults(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}
	results, err := a.quizzes.ResultsByUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, domain.ErrQuizNotFound
	}
	return id, nil
}

func contains(options []string, answer string) bool {
	for _, opt := range options {
		if opt == answer {
			return true
		}
	}
	return false
}
