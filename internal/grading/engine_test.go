package grading

import (
	"errors"
	"testing"

	"github.com/mind-engage/quizmaster/internal/lesson"
)

func q(id string, t lesson.QuestionType, key ...string) lesson.Question {
	return lesson.Question{ID: id, Type: t, Text: id, CorrectAnswer: lesson.AnswerKey(key)}
}

func TestScoreEmptyQuiz(t *testing.T) {
	if _, err := NewScorer().Score(nil, nil); !errors.Is(err, ErrEmptyQuiz) {
		t.Fatalf("want ErrEmptyQuiz, got %v", err)
	}
}

func TestThreeOfFourWithOneUnanswered(t *testing.T) {
	qs := []lesson.Question{
		q("1", lesson.SingleChoice, "Αθήνα"),
		q("2", lesson.FillBlanks, "H2O"),
		q("3", lesson.TrueFalse, "Σωστό"),
		q("4", lesson.MultipleChoice, "A", "C"),
	}
	subs := map[string]Answer{
		"1": Text("Αθήνα"),
		"2": Text("H2O"),
		"3": Text("yes"),
	}
	got, err := NewScorer().Score(qs, subs)
	if err != nil {
		t.Fatal(err)
	}
	if got != 75 {
		t.Fatalf("score = %d, want 75", got)
	}
}

func TestMultipleChoiceOrderInsensitive(t *testing.T) {
	s := NewScorer()
	qs := []lesson.Question{q("m", lesson.MultipleChoice, "A", "C")}
	cases := []struct {
		name string
		a    Answer
		want int
	}{
		{"reverse order", Choices("C", "A"), 100},
		{"same order", Choices("A", "C"), 100},
		{"subset", Choices("A"), 0},
		{"superset", Choices("A", "B", "C"), 0},
		{"empty", Choices(), 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, _ := s.Score(qs, map[string]Answer{"m": c.a})
			if got != c.want {
				t.Fatalf("score = %d, want %d", got, c.want)
			}
		})
	}
}

func TestMultipleChoiceReferenceReordered(t *testing.T) {
	qs := []lesson.Question{q("m", lesson.MultipleChoice, "C", "B", "A")}
	got, _ := NewScorer().Score(qs, map[string]Answer{"m": Choices("A", "B", "C")})
	if got != 100 {
		t.Fatalf("score = %d", got)
	}
}

func TestMultipleChoiceEmptyNeverCorrect(t *testing.T) {
	qs := []lesson.Question{q("m", lesson.MultipleChoice)}
	got, _ := NewScorer().Score(qs, map[string]Answer{"m": Choices()})
	if got != 0 {
		t.Fatalf("empty submission against empty key scored %d", got)
	}
}

func TestMultipleChoiceScalarSubmission(t *testing.T) {
	qs := []lesson.Question{q("m", lesson.MultipleChoice, "B")}
	got, _ := NewScorer().Score(qs, map[string]Answer{"m": Text("B")})
	if got != 100 {
		t.Fatalf("scalar wrapped into singleton should match, got %d", got)
	}
}

func TestTrueFalseSynonyms(t *testing.T) {
	s := NewScorer()
	for _, ref := range []string{"Σωστό", "σωστό", "true", "TRUE"} {
		qs := []lesson.Question{q("tf", lesson.TrueFalse, ref)}
		for _, sub := range []string{"Σωστό", "true", "Yes", " correct "} {
			got, _ := s.Score(qs, map[string]Answer{"tf": Text(sub)})
			if got != 100 {
				t.Fatalf("ref %q sub %q scored %d", ref, sub, got)
			}
		}
		got, _ := s.Score(qs, map[string]Answer{"tf": Text("Λάθος")})
		if got != 0 {
			t.Fatalf("ref %q: Λάθος scored %d", ref, got)
		}
	}
}

func TestTrueFalseUnknownPassesThrough(t *testing.T) {
	qs := []lesson.Question{q("tf", lesson.TrueFalse, "maybe")}
	s := NewScorer()
	if got, _ := s.Score(qs, map[string]Answer{"tf": Text("maybe")}); got != 100 {
		t.Fatalf("identical unknown values should match, got %d", got)
	}
	if got, _ := s.Score(qs, map[string]Answer{"tf": Text("true")}); got != 0 {
		t.Fatalf("true must not match unknown reference, got %d", got)
	}
}

func TestExactMatchUsesFirstReference(t *testing.T) {
	s := NewScorer()
	qs := []lesson.Question{q("s", lesson.SingleChoice, "B", "ignored")}
	if got, _ := s.Score(qs, map[string]Answer{"s": Text("B")}); got != 100 {
		t.Fatalf("got %d", got)
	}
	if got, _ := s.Score(qs, map[string]Answer{"s": Text("b")}); got != 0 {
		t.Fatalf("match must be exact, got %d", got)
	}
}

func TestExactMatchEmptyReference(t *testing.T) {
	qs := []lesson.Question{q("f", lesson.FillBlanks)}
	if got, _ := NewScorer().Score(qs, map[string]Answer{"f": Text("")}); got != 0 {
		t.Fatalf("empty reference must never match, got %d", got)
	}
}

func TestUnknownTypeScoresWrong(t *testing.T) {
	qs := []lesson.Question{q("x", lesson.QuestionType("ESSAY"), "a")}
	if got, _ := NewScorer().Score(qs, map[string]Answer{"x": Text("a")}); got != 0 {
		t.Fatalf("got %d", got)
	}
}

func TestRounding(t *testing.T) {
	qs := []lesson.Question{
		q("1", lesson.SingleChoice, "a"),
		q("2", lesson.SingleChoice, "a"),
		q("3", lesson.SingleChoice, "a"),
	}
	res, err := NewScorer().Grade(qs, map[string]Answer{"1": Text("a"), "2": Text("a")})
	if err != nil {
		t.Fatal(err)
	}
	if res.Score != 67 || res.Correct != 2 || res.Total != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
	if !res.Questions[0].Correct || res.Questions[2].Correct {
		t.Fatalf("unexpected breakdown %+v", res.Questions)
	}
}

func TestCustomSynonymTable(t *testing.T) {
	n, err := NewNormalizer(Synonyms{TrueLabel: "Ja", FalseLabel: "Nein", True: []string{"wahr"}, False: []string{"falsch"}})
	if err != nil {
		t.Fatal(err)
	}
	qs := []lesson.Question{q("tf", lesson.TrueFalse, "Ja")}
	got, _ := NewScorer(WithNormalizer(n)).Score(qs, map[string]Answer{"tf": Text("WAHR")})
	if got != 100 {
		t.Fatalf("got %d", got)
	}
}
