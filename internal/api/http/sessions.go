package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/quizmaster/internal/grading"
	"github.com/mind-engage/quizmaster/internal/lesson"
	"github.com/mind-engage/quizmaster/internal/logger"
	"github.com/mind-engage/quizmaster/internal/results"
	"github.com/mind-engage/quizmaster/internal/session"
)

type sessionView struct {
	ID       string `json:"id"`
	LessonID string `json:"lessonId"`
	session.Snapshot
}

func viewOf(id, lessonID string, s *session.Session) sessionView {
	return sessionView{ID: id, LessonID: lessonID, Snapshot: s.Snapshot()}
}

// POST /sessions { "lessonId": "...", "quizId": "..." }
// A stale lesson or quiz id answers 404, the "not found" state.
func StartSessionHandler(store *lesson.Store, reg *session.Registry, scorer *grading.Scorer, rec results.Recorder, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			LessonID string `json:"lessonId"`
			QuizID   string `json:"quizId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		_, q, err := store.FindQuiz(req.LessonID, req.QuizID)
		if err != nil {
			writeError(w, err)
			return
		}
		s, err := session.New(q, scorer)
		if err != nil {
			writeError(w, err)
			return
		}
		id := reg.Add(req.LessonID, s)
		s.OnFinish(func(res grading.Result) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			e := results.Entry{
				SessionID: id,
				LessonID:  req.LessonID,
				QuizID:    q.ID,
				Score:     res.Score,
				Correct:   res.Correct,
				Total:     res.Total,
			}
			if err := rec.Append(ctx, e); err != nil {
				log.Error("record result", "session", id, logger.Err(err))
				return
			}
			log.Info("quiz finished", "session", id, "quiz", q.ID, "score", res.Score)
		})
		writeJSON(w, http.StatusCreated, viewOf(id, req.LessonID, s))
	}
}

func GetSessionHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		s, lessonID, err := reg.Get(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(id, lessonID, s))
	}
}

// POST /sessions/{sessionID}/answers { "questionId": "...", "value": "..." }
func SelectAnswerHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		var req struct {
			QuestionID string  `json:"questionId"`
			Value      *string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Value == nil {
			http.Error(w, "value required", http.StatusBadRequest)
			return
		}
		s, lessonID, err := reg.Get(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := s.Select(req.QuestionID, *req.Value); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(id, lessonID, s))
	}
}

// POST /sessions/{sessionID}/advance
func AdvanceHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		s, lessonID, err := reg.Get(id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := s.Advance(); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(id, lessonID, s))
	}
}

// DELETE /sessions/{sessionID} abandons the attempt.
func AbandonSessionHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := reg.Discard(chi.URLParam(r, "sessionID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
