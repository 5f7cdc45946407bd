package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/mind-engage/quizmaster/internal/grading"
	"github.com/mind-engage/quizmaster/internal/lesson"
)

func readZip(t *testing.T, b []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		t.Fatal(err)
	}
	out := map[string][]byte{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		out[f.Name] = data
	}
	return out
}

func TestBuildPackage(t *testing.T) {
	norm, err := grading.NewNormalizer(grading.DefaultSynonyms())
	if err != nil {
		t.Fatal(err)
	}
	q := lesson.Quiz{
		ID:    "quiz-1",
		Title: "Χημεία",
		Questions: []lesson.Question{
			{ID: "tf", Type: lesson.TrueFalse, Text: "H2O < H2O2", CorrectAnswer: lesson.AnswerKey{"true"}},
			{ID: "mc", Type: lesson.MultipleChoice, Text: "Ευγενή αέρια", Options: []string{"He", "O2", "Ne"}, CorrectAnswer: lesson.AnswerKey{"Ne", "He"}},
			{ID: "fb", Type: lesson.FillBlanks, Text: "[____] είναι το νερό", CorrectAnswer: lesson.AnswerKey{"H2O"}},
		},
	}
	b, err := BuildPackage(q, norm)
	if err != nil {
		t.Fatal(err)
	}
	files := readZip(t, b)

	var mf imsManifest
	if err := xml.Unmarshal(files["imsmanifest.xml"], &mf); err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if len(mf.Resources) != 3 || mf.Resources[1].Href != "items/002-mc.xml" {
		t.Fatalf("manifest resources %+v", mf.Resources)
	}
	for _, r := range mf.Resources {
		if _, ok := files[r.Href]; !ok {
			t.Fatalf("missing item file %s", r.Href)
		}
	}

	var tf assessmentItem
	if err := xml.Unmarshal(files["items/001-tf.xml"], &tf); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tf.Response.Correct, []string{"C1"}) || tf.Body.Choice == nil || tf.Body.Choice.Choices[0].Text != "Σωστό" {
		t.Fatalf("true/false item %+v", tf)
	}
	if !strings.Contains(string(files["items/001-tf.xml"]), "H2O &lt; H2O2") {
		t.Fatal("prompt not escaped")
	}

	var mc assessmentItem
	_ = xml.Unmarshal(files["items/002-mc.xml"], &mc)
	if mc.Response.Cardinality != "multiple" || !reflect.DeepEqual(mc.Response.Correct, []string{"C3", "C1"}) {
		t.Fatalf("multiple choice item %+v", mc.Response)
	}

	var fb assessmentItem
	_ = xml.Unmarshal(files["items/003-fb.xml"], &fb)
	if fb.Body.TextEntry == nil || !reflect.DeepEqual(fb.Response.Correct, []string{"H2O"}) {
		t.Fatalf("fill-in item %+v", fb)
	}
}

func TestBuildPackageRejectsKeyOutsideOptions(t *testing.T) {
	q := lesson.Quiz{ID: "q", Questions: []lesson.Question{
		{ID: "s", Type: lesson.SingleChoice, Text: "?", Options: []string{"a", "b"}, CorrectAnswer: lesson.AnswerKey{"c"}},
	}}
	if _, err := BuildPackage(q, nil); err == nil {
		t.Fatal("expected error")
	}
}
