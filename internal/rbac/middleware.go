package rbac

import (
	"net/http"
)

// Require enforces a single permission.
func Require(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !Can(r, perm) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Can reports whether the role in the request context holds perm. Handlers
// use it to shape responses, e.g. to hide answer keys from students.
func Can(r *http.Request, perm string) bool {
	return RoleFromContext(r.Context()).Can(perm)
}
