package rbac

import (
	"context"
	"strings"
)

// Role is who is calling: an anonymous student or the logged-in teacher.
type Role string

const (
	Student Role = "student"
	Teacher Role = "teacher"
)

// Can reports whether the role's policy grants perm. A policy entry ending
// in "*" grants every permission with that prefix.
func (r Role) Can(perm string) bool {
	for _, p := range policy[r] {
		if p == perm {
			return true
		}
		if strings.HasSuffix(p, "*") && strings.HasPrefix(perm, strings.TrimSuffix(p, "*")) {
			return true
		}
	}
	return false
}

type ctxKey struct{}

func WithRole(ctx context.Context, r Role) context.Context {
	return context.WithValue(ctx, ctxKey{}, r)
}

// RoleFromContext returns "" when no role was set, which has no permissions.
func RoleFromContext(ctx context.Context) Role {
	r, _ := ctx.Value(ctxKey{}).(Role)
	return r
}
