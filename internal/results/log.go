package results

import (
	"context"
	"database/sql"
	"time"
)

// Entry is one finished quiz attempt.
type Entry struct {
	ID         int64  `json:"id"`
	SessionID  string `json:"sessionId"`
	LessonID   string `json:"lessonId"`
	QuizID     string `json:"quizId"`
	Score      int    `json:"score"`
	Correct    int    `json:"correct"`
	Total      int    `json:"total"`
	FinishedAt int64  `json:"finishedAt"` // unix seconds
}

// Recorder is what the quiz-taking flow needs from a result log.
type Recorder interface {
	Append(ctx context.Context, e Entry) error
}

type Log struct{ db *sql.DB }

func NewLog(db *sql.DB) *Log { return &Log{db: db} }

func (l *Log) Append(ctx context.Context, e Entry) error {
	if e.FinishedAt == 0 {
		e.FinishedAt = time.Now().Unix()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO quiz_results (session_id, lesson_id, quiz_id, score, correct, total, finished_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.SessionID, e.LessonID, e.QuizID, e.Score, e.Correct, e.Total, e.FinishedAt)
	return err
}

// List returns the newest results first. An empty quizID lists all quizzes.
func (l *Log) List(ctx context.Context, quizID string, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, session_id, lesson_id, quiz_id, score, correct, total, finished_at
		   FROM quiz_results
		  WHERE ($1 = '' OR quiz_id = $1)
		  ORDER BY finished_at DESC, id DESC
		  LIMIT $2`, quizID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.LessonID, &e.QuizID, &e.Score, &e.Correct, &e.Total, &e.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Discard is a Recorder that keeps nothing, used when no SQL database is
// configured.
type Discard struct{}

func (Discard) Append(context.Context, Entry) error { return nil }
