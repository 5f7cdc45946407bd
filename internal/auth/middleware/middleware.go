package auth

import (
	"net/http"
	"strings"

	"github.com/mind-engage/quizmaster/internal/rbac"
)

// Identify puts a subject and role in the request context. Requests without
// a bearer token are anonymous students. A teacher token is honoured only
// while that teacher is the logged-in user, so logout revokes it.
func Identify(a *AuthService, users *UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" {
				next.ServeHTTP(w, r.WithContext(rbac.WithRole(r.Context(), rbac.Student)))
				return
			}
			if !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "missing bearer", http.StatusUnauthorized)
				return
			}
			c, err := a.Parse(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				http.Error(w, "bad token", http.StatusUnauthorized)
				return
			}
			if u, ok := users.Current(); !ok || u.ID != c.Sub {
				http.Error(w, "session ended", http.StatusUnauthorized)
				return
			}
			ctx := WithSubject(r.Context(), c.Sub)
			ctx = rbac.WithRole(ctx, rbac.Role(c.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
