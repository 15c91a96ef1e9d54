package http

import "net/http"

// protectedPaths are the session-gated entry points. Matching is exact
// path equality, not prefix matching, so nested paths such as
// /api/quizzes/{id} are not covered by the gate; their handlers enforce
// access themselves. The exact-match behavior is kept as observed and
// flagged as an open product question rather than silently widened.
var protectedPaths = map[string]struct{}{
	"/api/me":         {},
	"/api/quizzes":    {},
	"/api/dashboard":  {},
	"/api/my-results": {},
}

// authPages are the sign-in/registration entry points that authenticated
// users are bounced away from.
var authPages = map[string]struct{}{
	"/api/signin": {},
	"/api/signup": {},
}

// SessionGate redirects anonymous requests away from protected paths and
// authenticated requests away from the auth pages.
func (a *API) SessionGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := a.currentUser(r)
		authenticated := err == nil

		if _, protected := protectedPaths[r.URL.Path]; protected && !authenticated {
			writeError(w, err)
			return
		}
		if _, authPage := authPages[r.URL.Path]; authPage && authenticated {
			http.Redirect(w, r, "/api/dashboard", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
