package session

import (
	"errors"
	"sync"

	"github.com/mind-engage/quizmaster/internal/grading"
	"github.com/mind-engage/quizmaster/internal/lesson"
)

var (
	ErrFinished        = errors.New("session already finished")
	ErrUnanswered      = errors.New("current question has no answer")
	ErrUnknownQuestion = errors.New("question not in quiz")
)

type State string

const (
	StateInProgress State = "in_progress"
	StateFinished   State = "finished"
)

// Session is one student's attempt at one quiz. It starts in progress at the
// first question and ends, once, in Finished with a stored score.
type Session struct {
	mu      sync.Mutex
	quiz    lesson.Quiz
	scorer  *grading.Scorer
	index   int
	answers map[string]grading.Answer
	result  *grading.Result

	onFinish func(grading.Result)
}

// New starts a session. An empty quiz is rejected here so that it is never
// scored.
func New(q lesson.Quiz, scorer *grading.Scorer) (*Session, error) {
	if len(q.Questions) == 0 {
		return nil, grading.ErrEmptyQuiz
	}
	if scorer == nil {
		scorer = grading.NewScorer()
	}
	return &Session{
		quiz:    q.Clone(),
		scorer:  scorer,
		answers: map[string]grading.Answer{},
	}, nil
}

func (s *Session) question(id string) (lesson.Question, bool) {
	for _, q := range s.quiz.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return lesson.Question{}, false
}

// Select records value for a question. Multiple choice toggles membership of
// value; every other type replaces the stored value.
func (s *Session) Select(questionID, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result != nil {
		return ErrFinished
	}
	q, ok := s.question(questionID)
	if !ok {
		return ErrUnknownQuestion
	}
	if q.Type == lesson.MultipleChoice {
		s.answers[q.ID] = s.answers[q.ID].Toggle(value)
		return nil
	}
	s.answers[q.ID] = grading.Text(value)
	return nil
}

func answered(q lesson.Question, a grading.Answer) bool {
	if q.Type == lesson.MultipleChoice {
		return len(a.Values()) > 0
	}
	return a.IsSet()
}

// Advance moves to the next question, or scores the quiz when called on the
// last one. Once finished it is a no-op.
func (s *Session) Advance() error {
	res, hook, err := s.advance()
	if hook != nil {
		hook(res)
	}
	return err
}

// advance returns the finish hook only on the call that scored the quiz.
func (s *Session) advance() (grading.Result, func(grading.Result), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result != nil {
		return s.result.Clone(), nil, nil
	}
	cur := s.quiz.Questions[s.index]
	if !answered(cur, s.answers[cur.ID]) {
		return grading.Result{}, nil, ErrUnanswered
	}
	if s.index < len(s.quiz.Questions)-1 {
		s.index++
		return grading.Result{}, nil, nil
	}
	res, err := s.scorer.Grade(s.quiz.Questions, s.answers)
	if err != nil {
		return grading.Result{}, nil, err
	}
	s.result = &res
	return res.Clone(), s.onFinish, nil
}

// OnFinish registers fn to run once, outside the session lock, when the
// quiz is scored.
func (s *Session) OnFinish(fn func(grading.Result)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFinish = fn
}

// Quiz returns a copy of the quiz being taken.
func (s *Session) Quiz() lesson.Quiz { return s.quiz.Clone() }

// Current returns the index and question the student is on.
func (s *Session) Current() (int, lesson.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.quiz.Questions[s.index]
	q.Options = append([]string(nil), q.Options...)
	q.CorrectAnswer = append(lesson.AnswerKey(nil), q.CorrectAnswer...)
	return s.index, q
}

func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result != nil
}

// Result is the stored outcome; ok is false while in progress.
func (s *Session) Result() (grading.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return grading.Result{}, false
	}
	return s.result.Clone(), true
}

// Score is the stored percentage; ok is false while in progress.
func (s *Session) Score() (int, bool) {
	res, ok := s.Result()
	return res.Score, ok
}

// Snapshot is the JSON view of a session.
type Snapshot struct {
	QuizID   string                    `json:"quizId"`
	State    State                     `json:"state"`
	Index    int                       `json:"index"`
	Total    int                       `json:"total"`
	Progress int                       `json:"progress"` // percent of questions passed
	Question *lesson.Question          `json:"question,omitempty"`
	Answered bool                      `json:"answered"`
	Answers  map[string]grading.Answer `json:"answers"`
	Result   *grading.Result           `json:"result,omitempty"`
	Review   []lesson.Question         `json:"review,omitempty"`
}

// Snapshot hides the reference answer of the current question while in
// progress; a finished snapshot carries every question for review.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := len(s.quiz.Questions)
	snap := Snapshot{
		QuizID:  s.quiz.ID,
		State:   StateInProgress,
		Index:   s.index,
		Total:   total,
		Answers: make(map[string]grading.Answer, len(s.answers)),
	}
	for k, v := range s.answers {
		snap.Answers[k] = v
	}
	if s.result != nil {
		res := s.result.Clone()
		snap.State = StateFinished
		snap.Progress = 100
		snap.Answered = true
		snap.Result = &res
		snap.Review = s.quiz.Clone().Questions
		return snap
	}
	cur := s.quiz.Questions[s.index]
	cur.Options = append([]string(nil), cur.Options...)
	snap.Answered = answered(cur, s.answers[cur.ID])
	snap.Progress = 100 * s.index / total
	cur.CorrectAnswer = nil
	cur.Explanation = ""
	snap.Question = &cur
	return snap
}
