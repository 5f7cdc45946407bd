package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mind-engage/quizmaster/internal/aigen"
	"github.com/mind-engage/quizmaster/internal/grading"
	"github.com/mind-engage/quizmaster/internal/lesson"
	"github.com/mind-engage/quizmaster/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, lesson.ErrNotFound), errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, lesson.ErrExists),
		errors.Is(err, session.ErrUnanswered),
		errors.Is(err, session.ErrFinished):
		return http.StatusConflict
	case errors.Is(err, lesson.ErrTitleRequired),
		errors.Is(err, lesson.ErrNoQuestions),
		errors.Is(err, lesson.ErrURLRequired),
		errors.Is(err, session.ErrUnknownQuestion),
		errors.Is(err, grading.ErrEmptyQuiz),
		errors.Is(err, aigen.ErrNoContent):
		return http.StatusBadRequest
	case errors.Is(err, aigen.ErrGeneration):
		return http.StatusBadGateway
	case errors.Is(err, aigen.ErrDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError replies with the status for err. Generation failures carry the
// single user-facing message and never the upstream detail.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch {
	case errors.Is(err, aigen.ErrGeneration):
		msg = aigen.UserMessage
	case status == http.StatusInternalServerError:
		msg = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
