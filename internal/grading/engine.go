package grading

import (
	"errors"
	"math"

	"github.com/mind-engage/quizmaster/internal/lesson"
)

// ErrEmptyQuiz is returned when asked to score zero questions.
var ErrEmptyQuiz = errors.New("quiz has no questions")

// Strategy decides whether one submission answers one question.
type Strategy interface {
	Correct(q lesson.Question, a Answer) bool
}

// QuestionResult is the outcome for a single question.
type QuestionResult struct {
	QuestionID string `json:"questionId"`
	Correct    bool   `json:"correct"`
}

// Result is the outcome of scoring a whole quiz.
type Result struct {
	Score     int              `json:"score"` // percentage, 0..100
	Correct   int              `json:"correct"`
	Total     int              `json:"total"`
	Questions []QuestionResult `json:"questions"`
}

// Clone copies the per-question breakdown.
func (r Result) Clone() Result {
	r.Questions = append([]QuestionResult(nil), r.Questions...)
	return r
}

// Scorer routes by question type to the matching Strategy.
type Scorer struct {
	strategies map[lesson.QuestionType]Strategy
}

type Option func(*config)

type config struct {
	norm *Normalizer
}

func WithNormalizer(n *Normalizer) Option { return func(c *config) { c.norm = n } }

// NewScorer installs the built-in strategies. Without WithNormalizer the
// default synonym table is used.
func NewScorer(opts ...Option) *Scorer {
	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.norm == nil {
		cfg.norm, _ = NewNormalizer(DefaultSynonyms())
	}
	return &Scorer{
		strategies: map[lesson.QuestionType]Strategy{
			lesson.MultipleChoice: multiChoiceStrategy{norm: cfg.norm},
			lesson.TrueFalse:      trueFalseStrategy{norm: cfg.norm},
			lesson.SingleChoice:   exactStrategy{},
			lesson.FillBlanks:     exactStrategy{},
		},
	}
}

// Grade scores every question independently. A missing submission counts as
// wrong; it is never an error.
func (s *Scorer) Grade(questions []lesson.Question, submissions map[string]Answer) (Result, error) {
	if len(questions) == 0 {
		return Result{}, ErrEmptyQuiz
	}
	res := Result{Total: len(questions), Questions: make([]QuestionResult, 0, len(questions))}
	for _, q := range questions {
		ok := false
		if a, has := submissions[q.ID]; has && a.IsSet() {
			if st, known := s.strategies[q.Type]; known {
				ok = st.Correct(q, a)
			}
		}
		if ok {
			res.Correct++
		}
		res.Questions = append(res.Questions, QuestionResult{QuestionID: q.ID, Correct: ok})
	}
	res.Score = percent(res.Correct, res.Total)
	return res, nil
}

// Score is Grade reduced to the percentage.
func (s *Scorer) Score(questions []lesson.Question, submissions map[string]Answer) (int, error) {
	res, err := s.Grade(questions, submissions)
	if err != nil {
		return 0, err
	}
	return res.Score, nil
}

func percent(correct, total int) int {
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// --- Strategies ---

type multiChoiceStrategy struct{ norm *Normalizer }

func (s multiChoiceStrategy) Correct(q lesson.Question, a Answer) bool {
	got := dedupe(s.norm.Normalize(q.Type, Choices(a.Values()...)).Values())
	if len(got) == 0 {
		return false
	}
	want := dedupe(s.norm.Normalize(q.Type, Choices(q.CorrectAnswer...)).Values())
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

type trueFalseStrategy struct{ norm *Normalizer }

func (s trueFalseStrategy) Correct(q lesson.Question, a Answer) bool {
	if len(q.CorrectAnswer) == 0 {
		return false
	}
	got := s.norm.Normalize(q.Type, Text(a.String()))
	want := s.norm.Normalize(q.Type, Text(q.CorrectAnswer.First()))
	return got.String() == want.String()
}

// exactStrategy serves single choice and fill-in-the-blank.
type exactStrategy struct{}

func (exactStrategy) Correct(q lesson.Question, a Answer) bool {
	if len(q.CorrectAnswer) == 0 {
		return false
	}
	if a.IsList() && len(a.Values()) == 0 {
		return false
	}
	return a.String() == q.CorrectAnswer.First()
}

// dedupe drops adjacent duplicates from a sorted list.
func dedupe(sorted []string) []string {
	out := make([]string, 0, len(sorted))
	for _, v := range sorted {
		if len(out) > 0 && out[len(out)-1] == v {
			continue
		}
		out = append(out, v)
	}
	return out
}
