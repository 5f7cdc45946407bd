package lesson

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"
)

func bytesReader(b []byte) *bytes.Reader { return bytes.NewReader(b) }

func TestAnswerKeyDecodeShapes(t *testing.T) {
	cases := []struct {
		in   string
		want AnswerKey
	}{
		{`"Σωστό"`, AnswerKey{"Σωστό"}},
		{`["A","C"]`, AnswerKey{"A", "C"}},
		{`[]`, AnswerKey{}},
		{`null`, AnswerKey{}},
	}
	for _, c := range cases {
		var k AnswerKey
		if err := json.Unmarshal([]byte(c.in), &k); err != nil {
			t.Fatalf("%s: %v", c.in, err)
		}
		if !reflect.DeepEqual(k, c.want) {
			t.Fatalf("%s: got %#v want %#v", c.in, k, c.want)
		}
	}
}

func TestAnswerKeyRejectsOtherShapes(t *testing.T) {
	for _, in := range []string{`42`, `{"a":1}`, `[1,2]`, `true`} {
		var k AnswerKey
		if err := json.Unmarshal([]byte(in), &k); err == nil {
			t.Fatalf("%s: expected error", in)
		}
	}
}

func TestAnswerKeyAlwaysEncodesArray(t *testing.T) {
	q := Question{ID: "a", Type: SingleChoice, CorrectAnswer: nil}
	b, _ := json.Marshal(q)
	if !bytes.Contains(b, []byte(`"correctAnswer":[]`)) {
		t.Fatalf("got %s", b)
	}
}
