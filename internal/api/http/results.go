package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/mind-engage/quizmaster/internal/results"
)

type ResultLister interface {
	List(ctx context.Context, quizID string, limit int) ([]results.Entry, error)
}

// GET /results?quizId=...&limit=100
func ListResultsHandler(list ResultLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if list == nil {
			http.Error(w, "result log not configured", http.StatusNotImplemented)
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		out, err := list.List(r.Context(), r.URL.Query().Get("quizId"), limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}
