package lesson

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AnswerKey is the reference answer of a question. It is always held as a
// list; a bare JSON string (the older generator revision) decodes into a
// one-element list.
type AnswerKey []string

func (k *AnswerKey) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*k = AnswerKey{}
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*k = AnswerKey{s}
		return nil
	case b[0] == '[':
		var arr []string
		if err := json.Unmarshal(b, &arr); err != nil {
			return fmt.Errorf("correctAnswer: %w", err)
		}
		*k = AnswerKey(arr)
		return nil
	default:
		return fmt.Errorf("correctAnswer: want string or array, got %s", b)
	}
}

func (k AnswerKey) MarshalJSON() ([]byte, error) {
	if k == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(k))
}

// First returns the first reference value, or "" for an empty key.
func (k AnswerKey) First() string {
	if len(k) == 0 {
		return ""
	}
	return k[0]
}
