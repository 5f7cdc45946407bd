package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/quizmaster/internal/aigen"
	"github.com/mind-engage/quizmaster/internal/grading"
	"github.com/mind-engage/quizmaster/internal/lesson"
	"github.com/mind-engage/quizmaster/internal/logger"
	"github.com/mind-engage/quizmaster/internal/qti/export"
)

// QuizGenerator is the AI collaborator.
type QuizGenerator interface {
	Generate(ctx context.Context, req aigen.Request) ([]lesson.Question, error)
}

// POST /lessons/{lessonID}/quizzes/generate
// { "content": "...", "count": 5, "types": ["TRUE_FALSE"], "title": "..." }
// Without content the lesson description is used. Nothing is stored unless
// generation succeeds.
func GenerateQuizHandler(store *lesson.Store, gen QuizGenerator, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Content string                `json:"content"`
			Count   int                   `json:"count"`
			Types   []lesson.QuestionType `json:"types"`
			Title   string                `json:"title"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		lessonID := chi.URLParam(r, "lessonID")
		l, err := store.Get(lessonID)
		if err != nil {
			writeError(w, err)
			return
		}
		content := req.Content
		if strings.TrimSpace(content) == "" {
			content = l.Description
		}
		qs, err := gen.Generate(r.Context(), aigen.Request{Content: content, Count: req.Count, Types: req.Types})
		if err != nil {
			log.Error("quiz generation", "lesson", lessonID, logger.Err(err))
			writeError(w, err)
			return
		}
		q, err := store.AddQuiz(r.Context(), lessonID, lesson.Quiz{Title: req.Title, Questions: qs})
		if err != nil {
			writeError(w, err)
			return
		}
		log.Info("quiz generated", "lesson", lessonID, "quiz", q.ID, "questions", len(q.Questions))
		writeJSON(w, http.StatusCreated, q)
	}
}

func DeleteQuizHandler(store *lesson.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.RemoveQuiz(r.Context(), chi.URLParam(r, "lessonID"), chi.URLParam(r, "quizID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /lessons/{lessonID}/quizzes/{quizID}/export -> QTI 2.1 zip
func ExportQuizHandler(store *lesson.Store, norm *grading.Normalizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, q, err := store.FindQuiz(chi.URLParam(r, "lessonID"), chi.URLParam(r, "quizID"))
		if err != nil {
			writeError(w, err)
			return
		}
		b, err := export.BuildPackage(q, norm)
		if err != nil {
			http.Error(w, "export: "+err.Error(), http.StatusUnprocessableEntity)
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="quiz-%s.zip"`, q.ID))
		_, _ = w.Write(b)
	}
}
