package grading

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Answer is one submitted value: a single string for single-answer types or
// a list for multiple choice. The zero Answer means "nothing submitted";
// an explicitly submitted empty string is still set.
type Answer struct {
	set    bool
	list   bool
	text   string
	values []string
}

func Text(s string) Answer { return Answer{set: true, text: s} }

func Choices(vs ...string) Answer {
	return Answer{set: true, list: true, values: append([]string{}, vs...)}
}

func (a Answer) IsSet() bool  { return a.set }
func (a Answer) IsList() bool { return a.list }

// String returns the scalar value, or the first element of a list.
func (a Answer) String() string {
	if a.list {
		if len(a.values) == 0 {
			return ""
		}
		return a.values[0]
	}
	return a.text
}

// Values returns the list form; a scalar becomes a one-element list and an
// unset answer an empty one.
func (a Answer) Values() []string {
	switch {
	case !a.set:
		return []string{}
	case a.list:
		return append([]string{}, a.values...)
	default:
		return []string{a.text}
	}
}

// Toggle inserts v into a list answer, or removes it when already present.
func (a Answer) Toggle(v string) Answer {
	cur := a.Values()
	if a.set && !a.list {
		cur = []string{}
	}
	for i, x := range cur {
		if x == v {
			return Choices(append(cur[:i], cur[i+1:]...)...)
		}
	}
	return Choices(append(cur, v)...)
}

func (a Answer) sorted() Answer {
	if !a.list {
		return a
	}
	vs := append([]string{}, a.values...)
	sort.Strings(vs)
	return Answer{set: true, list: true, values: vs}
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch {
	case !a.set:
		return []byte("null"), nil
	case a.list:
		return json.Marshal(a.Values())
	default:
		return json.Marshal(a.text)
	}
}

func (a *Answer) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*a = Answer{}
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Text(s)
	case b[0] == '[':
		var vs []string
		if err := json.Unmarshal(b, &vs); err != nil {
			return fmt.Errorf("answer: %w", err)
		}
		*a = Choices(vs...)
	default:
		return fmt.Errorf("answer: want string or array, got %s", b)
	}
	return nil
}
