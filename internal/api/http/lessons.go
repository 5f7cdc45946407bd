package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/mind-engage/quizmaster/internal/auth/middleware"
	"github.com/mind-engage/quizmaster/internal/lesson"
	"github.com/mind-engage/quizmaster/internal/rbac"
)

// viewFor hides reference answers from callers who cannot edit lessons.
func viewFor(r *http.Request, l lesson.Lesson) lesson.Lesson {
	if rbac.Can(r, rbac.PermLessonUpdate) {
		return l
	}
	return l.StudentView()
}

// GET /lessons?q=...&category=...
func ListLessonsHandler(store *lesson.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list := store.Search(lesson.Filter{
			Query:    r.URL.Query().Get("q"),
			Category: r.URL.Query().Get("category"),
		})
		for i := range list {
			list[i] = viewFor(r, list[i])
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /lessons/categories
func CategoriesHandler(store *lesson.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, append([]string{lesson.AllCategories}, store.Categories()...))
	}
}

func GetLessonHandler(store *lesson.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := store.Get(chi.URLParam(r, "lessonID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewFor(r, l))
	}
}

func CreateLessonHandler(store *lesson.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var l lesson.Lesson
		if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		l.TeacherID = auth.SubjectFromContext(r.Context())
		out, err := store.Add(r.Context(), l)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

func UpdateLessonHandler(store *lesson.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var l lesson.Lesson
		if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		l.ID = chi.URLParam(r, "lessonID")
		if l.TeacherID == "" {
			l.TeacherID = auth.SubjectFromContext(r.Context())
		}
		out, err := store.Update(r.Context(), l)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// DELETE /lessons/{lessonID}?confirm=true
func DeleteLessonHandler(store *lesson.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("confirm") != "true" {
			http.Error(w, "Είστε σίγουροι ότι θέλετε να διαγράψετε αυτό το μάθημα; (confirm=true)", http.StatusPreconditionRequired)
			return
		}
		if err := store.Delete(r.Context(), chi.URLParam(r, "lessonID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
