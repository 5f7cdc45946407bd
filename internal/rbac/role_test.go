package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPolicy(t *testing.T) {
	cases := []struct {
		role Role
		perm string
		want bool
	}{
		{Student, PermLessonView, true},
		{Student, PermQuizTake, true},
		{Student, PermLessonCreate, false},
		{Student, PermQuizGenerate, false},
		{Student, PermResultsView, false},
		{Teacher, PermLessonDelete, true},
		{Teacher, PermLessonView, true},
		{Teacher, PermQuizExport, true},
		{Teacher, PermResultsView, true},
		{Role("admin"), PermLessonView, false},
		{"", PermLessonView, false},
	}
	for _, tc := range cases {
		if got := tc.role.Can(tc.perm); got != tc.want {
			t.Errorf("%q.Can(%s) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestRoleFromContext(t *testing.T) {
	if r := RoleFromContext(context.Background()); r != "" {
		t.Fatalf("empty context role %q", r)
	}
	if r := RoleFromContext(WithRole(context.Background(), Teacher)); r != Teacher {
		t.Fatalf("role %q", r)
	}
}

func TestRequire(t *testing.T) {
	h := Require(PermLessonCreate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	for role, want := range map[Role]int{"": http.StatusForbidden, Student: http.StatusForbidden, Teacher: http.StatusTeapot} {
		req := httptest.NewRequest(http.MethodPost, "/lessons", nil)
		req = req.WithContext(WithRole(req.Context(), role))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("role %q: status %d, want %d", role, rec.Code, want)
		}
	}
}
