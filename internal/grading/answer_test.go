package grading

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestAnswerJSON(t *testing.T) {
	var m map[string]Answer
	if err := json.Unmarshal([]byte(`{"a":"x","b":["p","q"],"c":null,"d":""}`), &m); err != nil {
		t.Fatal(err)
	}
	if !m["a"].IsSet() || m["a"].IsList() || m["a"].String() != "x" {
		t.Fatalf("a = %+v", m["a"])
	}
	if !reflect.DeepEqual(m["b"].Values(), []string{"p", "q"}) {
		t.Fatalf("b = %+v", m["b"])
	}
	if m["c"].IsSet() {
		t.Fatal("null must decode as unset")
	}
	if !m["d"].IsSet() {
		t.Fatal("explicit empty string must be set")
	}

	b, _ := json.Marshal(map[string]Answer{"x": Choices("1"), "y": Text("t"), "z": {}})
	if string(b) != `{"x":["1"],"y":"t","z":null}` {
		t.Fatalf("got %s", b)
	}
}

func TestToggle(t *testing.T) {
	a := Answer{}.Toggle("A").Toggle("B")
	if !reflect.DeepEqual(a.Values(), []string{"A", "B"}) {
		t.Fatalf("got %v", a.Values())
	}
	a = a.Toggle("A")
	if !reflect.DeepEqual(a.Values(), []string{"B"}) {
		t.Fatalf("got %v", a.Values())
	}
	a = a.Toggle("B")
	if !a.IsList() || len(a.Values()) != 0 {
		t.Fatalf("want empty list, got %+v", a)
	}
}
