package session

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/mind-engage/quizmaster/internal/grading"
	"github.com/mind-engage/quizmaster/internal/lesson"
)

func quiz() lesson.Quiz {
	return lesson.Quiz{
		ID:    "quiz-1",
		Title: "Mixed",
		Questions: []lesson.Question{
			{ID: "tf", Type: lesson.TrueFalse, Text: "Sky is blue", CorrectAnswer: lesson.AnswerKey{"Σωστό"}, Explanation: "Rayleigh"},
			{ID: "mc", Type: lesson.MultipleChoice, Text: "Primes", Options: []string{"2", "3", "4"}, CorrectAnswer: lesson.AnswerKey{"2", "3"}},
			{ID: "fb", Type: lesson.FillBlanks, Text: "[____] is H2O", CorrectAnswer: lesson.AnswerKey{"Water"}},
			{ID: "sc", Type: lesson.SingleChoice, Text: "Capital", Options: []string{"Αθήνα", "Σπάρτη"}, CorrectAnswer: lesson.AnswerKey{"Αθήνα"}},
		},
	}
}

func mustNew(t *testing.T) *Session {
	t.Helper()
	s, err := New(quiz(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewRejectsEmptyQuiz(t *testing.T) {
	if _, err := New(lesson.Quiz{ID: "empty"}, nil); !errors.Is(err, grading.ErrEmptyQuiz) {
		t.Fatalf("want ErrEmptyQuiz, got %v", err)
	}
}

func TestInitialState(t *testing.T) {
	s := mustNew(t)
	i, q := s.Current()
	if i != 0 || q.ID != "tf" || s.Finished() {
		t.Fatalf("unexpected initial state: %d %s %v", i, q.ID, s.Finished())
	}
	if _, ok := s.Score(); ok {
		t.Fatal("score available before finishing")
	}
}

func TestAdvanceRequiresAnswer(t *testing.T) {
	s := mustNew(t)
	if err := s.Advance(); !errors.Is(err, ErrUnanswered) {
		t.Fatalf("want ErrUnanswered, got %v", err)
	}
	if i, _ := s.Current(); i != 0 {
		t.Fatalf("index moved to %d", i)
	}
}

func TestExplicitEmptyStringCountsAsAnswered(t *testing.T) {
	s := mustNew(t)
	if err := s.Select("tf", ""); err != nil {
		t.Fatal(err)
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("explicit empty answer should advance: %v", err)
	}
}

func TestMultipleChoiceToggleAndClearedSelection(t *testing.T) {
	s := mustNew(t)
	_ = s.Select("tf", "Σωστό")
	_ = s.Advance()

	_ = s.Select("mc", "2")
	_ = s.Select("mc", "2")
	if err := s.Advance(); !errors.Is(err, ErrUnanswered) {
		t.Fatalf("cleared selection must not advance, got %v", err)
	}
	_ = s.Select("mc", "3")
	_ = s.Select("mc", "2")
	if got := s.Snapshot().Answers["mc"].Values(); !reflect.DeepEqual(got, []string{"3", "2"}) {
		t.Fatalf("answers = %v", got)
	}
	if err := s.Advance(); err != nil {
		t.Fatal(err)
	}
}

func TestSelectReplacesForSingleTypes(t *testing.T) {
	s := mustNew(t)
	_ = s.Select("sc", "Σπάρτη")
	_ = s.Select("sc", "Αθήνα")
	if got := s.Snapshot().Answers["sc"].String(); got != "Αθήνα" {
		t.Fatalf("got %q", got)
	}
	if err := s.Select("nope", "x"); !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("want ErrUnknownQuestion, got %v", err)
	}
}

func finish(t *testing.T, s *Session, answers map[string][]string) {
	t.Helper()
	for _, q := range s.Quiz().Questions {
		for _, v := range answers[q.ID] {
			if err := s.Select(q.ID, v); err != nil {
				t.Fatal(err)
			}
		}
		if err := s.Advance(); err != nil {
			t.Fatalf("advance at %s: %v", q.ID, err)
		}
	}
}

func TestFinishScoresOnceAndIsIdempotent(t *testing.T) {
	s := mustNew(t)
	finish(t, s, map[string][]string{
		"tf": {"true"},
		"mc": {"3", "2"},
		"fb": {"Water"},
		"sc": {"Σπάρτη"},
	})
	score, ok := s.Score()
	if !ok || score != 75 {
		t.Fatalf("score = %d ok=%v", score, ok)
	}
	if err := s.Advance(); err != nil {
		t.Fatalf("advance after finish: %v", err)
	}
	if again, _ := s.Score(); again != score {
		t.Fatalf("score changed to %d", again)
	}
	if err := s.Select("sc", "Αθήνα"); !errors.Is(err, ErrFinished) {
		t.Fatalf("want ErrFinished, got %v", err)
	}
	if again, _ := s.Score(); again != score {
		t.Fatal("select after finish changed the score")
	}
}

func TestSnapshotHidesAnswerUntilFinished(t *testing.T) {
	s := mustNew(t)
	snap := s.Snapshot()
	if snap.Question == nil || len(snap.Question.CorrectAnswer) != 0 || snap.Question.Explanation != "" {
		t.Fatalf("reference leaked: %+v", snap.Question)
	}
	if snap.State != StateInProgress || snap.Total != 4 || snap.Progress != 0 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	finish(t, s, map[string][]string{"tf": {"x"}, "mc": {"4"}, "fb": {"x"}, "sc": {"x"}})
	snap = s.Snapshot()
	if snap.State != StateFinished || snap.Result == nil || snap.Result.Score != 0 {
		t.Fatalf("unexpected finished snapshot %+v", snap)
	}
	if len(snap.Review) != 4 || snap.Review[0].Explanation != "Rayleigh" {
		t.Fatalf("review missing")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	id := r.Add("lesson-1", mustNew(t))
	s, lessonID, err := r.Get(id)
	if err != nil || s == nil || lessonID != "lesson-1" {
		t.Fatalf("get: %v %v %q", s, err, lessonID)
	}

	stale := r.Add("lesson-1", mustNew(t))
	now = now.Add(30 * time.Second)
	_, _, _ = r.Get(id)
	now = now.Add(45 * time.Second)
	if n := r.Sweep(); n != 1 {
		t.Fatalf("swept %d", n)
	}
	if _, _, err := r.Get(stale); !errors.Is(err, ErrNotFound) {
		t.Fatalf("stale session survived: %v", err)
	}
	if err := r.Discard(id); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 0 {
		t.Fatalf("len = %d", r.Len())
	}
	if err := r.Discard(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestOnFinishRunsOnce(t *testing.T) {
	s := mustNew(t)
	calls := 0
	var got grading.Result
	s.OnFinish(func(r grading.Result) {
		calls++
		got = r
	})
	finish(t, s, map[string][]string{"tf": {"Σωστό"}, "mc": {"2", "3"}, "fb": {"Water"}, "sc": {"Αθήνα"}})
	_ = s.Advance()
	if calls != 1 {
		t.Fatalf("hook ran %d times", calls)
	}
	if got.Score != 100 || got.Correct != 4 || got.Total != 4 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestReturnedQuestionsDoNotAliasSession(t *testing.T) {
	q := quiz()
	s, err := New(q, nil)
	if err != nil {
		t.Fatal(err)
	}
	q.Questions[0].CorrectAnswer[0] = "Λάθος"

	got := s.Quiz()
	got.Questions[1].CorrectAnswer[0] = "4"
	got.Questions[1].Options[0] = "9"

	for _, a := range []struct{ id, v string }{{"tf", "true"}, {"mc", "2"}, {"mc", "3"}, {"fb", "Water"}, {"sc", "Αθήνα"}} {
		if err := s.Select(a.id, a.v); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 4; i++ {
		if err := s.Advance(); err != nil {
			t.Fatal(err)
		}
	}

	snap := s.Snapshot()
	snap.Review[1].CorrectAnswer[0] = "4"
	snap.Result.Questions[0].Correct = false

	res, ok := s.Result()
	if !ok || res.Score != 100 || !res.Questions[0].Correct {
		t.Fatalf("result changed through a returned value: %+v", res)
	}
	again := s.Snapshot()
	if again.Review[1].CorrectAnswer[0] != "2" || again.Review[1].Options[0] != "2" {
		t.Fatalf("review changed through a returned value: %+v", again.Review[1])
	}
}
