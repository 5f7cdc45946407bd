package grading

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mind-engage/quizmaster/internal/lesson"
)

// Synonyms is the true/false lookup table. The labels are the canonical
// forms; every word in True/False maps onto its label.
type Synonyms struct {
	TrueLabel  string   `yaml:"true_label"`
	FalseLabel string   `yaml:"false_label"`
	True       []string `yaml:"true"`
	False      []string `yaml:"false"`
}

func DefaultSynonyms() Synonyms {
	return Synonyms{
		TrueLabel:  "Σωστό",
		FalseLabel: "Λάθος",
		True:       []string{"true", "yes", "correct"},
		False:      []string{"false", "no", "incorrect"},
	}
}

// LoadSynonyms reads a YAML synonym table. Empty path means the default.
func LoadSynonyms(path string) (Synonyms, error) {
	if path == "" {
		return DefaultSynonyms(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Synonyms{}, fmt.Errorf("read synonyms: %w", err)
	}
	return ParseSynonyms(data)
}

func ParseSynonyms(data []byte) (Synonyms, error) {
	var s Synonyms
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Synonyms{}, fmt.Errorf("parse synonyms: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Synonyms{}, err
	}
	return s, nil
}

func (s Synonyms) Validate() error {
	if strings.TrimSpace(s.TrueLabel) == "" || strings.TrimSpace(s.FalseLabel) == "" {
		return errors.New("synonyms: true_label and false_label are required")
	}
	if fold(s.TrueLabel) == fold(s.FalseLabel) {
		return errors.New("synonyms: labels must differ")
	}
	seen := map[string]bool{}
	for _, w := range s.True {
		seen[fold(w)] = true
	}
	for _, w := range append([]string{s.FalseLabel}, s.False...) {
		if seen[fold(w)] || fold(w) == fold(s.TrueLabel) {
			return fmt.Errorf("synonyms: %q maps to both labels", w)
		}
	}
	return nil
}

func fold(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Normalizer canonicalizes answers before comparison. It is safe for
// concurrent use once built.
type Normalizer struct {
	table map[string]string
}

func NewNormalizer(s Synonyms) (*Normalizer, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	t := map[string]string{
		fold(s.TrueLabel):  s.TrueLabel,
		fold(s.FalseLabel): s.FalseLabel,
	}
	for _, w := range s.True {
		t[fold(w)] = s.TrueLabel
	}
	for _, w := range s.False {
		t[fold(w)] = s.FalseLabel
	}
	return &Normalizer{table: t}, nil
}

// Normalize maps true/false synonyms onto their label and sorts list
// answers. Unknown true/false values pass through unchanged.
func (n *Normalizer) Normalize(t lesson.QuestionType, a Answer) Answer {
	if !a.IsSet() {
		return a
	}
	if t == lesson.TrueFalse {
		if a.IsList() {
			return a
		}
		if canon, ok := n.table[fold(a.text)]; ok {
			return Text(canon)
		}
		return a
	}
	return a.sorted()
}
