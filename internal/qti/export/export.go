package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/mind-engage/quizmaster/internal/grading"
	"github.com/mind-engage/quizmaster/internal/lesson"
)

const (
	nsQTI      = "http://www.imsglobal.org/xsd/imsqti_v2p1"
	nsCP       = "http://www.imsglobal.org/xsd/imscp_v1p1"
	itemType   = "imsqti_item_xmlv2p1"
	rpTemplate = "http://www.imsglobal.org/question/qti_v2p1/rptemplates/match_correct"
)

// BuildPackage writes a quiz as a QTI 2.1 content package: one item file per
// question plus imsmanifest.xml, in presentation order. norm canonicalizes
// true/false keys so "true" and "Σωστό" select the same choice.
func BuildPackage(q lesson.Quiz, norm *grading.Normalizer) ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	mf := imsManifest{
		Xmlns:      nsCP,
		Identifier: "quiz-" + q.ID,
		Title:      q.Title,
		Resources:  []imsResource{},
	}
	for i, qu := range q.Questions {
		item, err := buildItem(qu, norm)
		if err != nil {
			return nil, fmt.Errorf("question %d (%s): %w", i+1, qu.ID, err)
		}
		name := fmt.Sprintf("items/%03d-%s.xml", i+1, safeName(qu.ID))
		mf.Resources = append(mf.Resources, imsResource{
			Identifier: item.Identifier,
			Type:       itemType,
			Href:       name,
			Files:      []imsFile{{Href: name}},
		})
		if err := writeXML(zw, name, item); err != nil {
			return nil, err
		}
	}
	if err := writeXML(zw, "imsmanifest.xml", mf); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeXML(zw *zip.Writer, name string, v any) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	b, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// --- mini XML model (export only) ---

type imsManifest struct {
	XMLName    xml.Name      `xml:"manifest"`
	Xmlns      string        `xml:"xmlns,attr,omitempty"`
	Identifier string        `xml:"identifier,attr"`
	Title      string        `xml:"metadata>title,omitempty"`
	Resources  []imsResource `xml:"resources>resource"`
}
type imsResource struct {
	Identifier string    `xml:"identifier,attr"`
	Type       string    `xml:"type,attr"`
	Href       string    `xml:"href,attr"`
	Files      []imsFile `xml:"file"`
}
type imsFile struct {
	Href string `xml:"href,attr"`
}

type assessmentItem struct {
	XMLName       xml.Name            `xml:"assessmentItem"`
	Xmlns         string              `xml:"xmlns,attr"`
	Identifier    string              `xml:"identifier,attr"`
	Title         string              `xml:"title,attr"`
	Adaptive      bool                `xml:"adaptive,attr"`
	TimeDependent bool                `xml:"timeDependent,attr"`
	Response      responseDeclaration `xml:"responseDeclaration"`
	Outcome       outcomeDeclaration  `xml:"outcomeDeclaration"`
	Body          itemBody            `xml:"itemBody"`
	Processing    responseProcessing  `xml:"responseProcessing"`
}
type responseDeclaration struct {
	Identifier  string   `xml:"identifier,attr"`
	Cardinality string   `xml:"cardinality,attr"`
	BaseType    string   `xml:"baseType,attr"`
	Correct     []string `xml:"correctResponse>value"`
}
type outcomeDeclaration struct {
	Identifier  string `xml:"identifier,attr"`
	Cardinality string `xml:"cardinality,attr"`
	BaseType    string `xml:"baseType,attr"`
}
type itemBody struct {
	Prompt    string                `xml:"p"`
	Choice    *choiceInteraction    `xml:"choiceInteraction,omitempty"`
	TextEntry *textEntryInteraction `xml:"div>textEntryInteraction,omitempty"`
}
type choiceInteraction struct {
	ResponseIdentifier string         `xml:"responseIdentifier,attr"`
	Shuffle            bool           `xml:"shuffle,attr"`
	MaxChoices         int            `xml:"maxChoices,attr"`
	Choices            []simpleChoice `xml:"simpleChoice"`
}
type simpleChoice struct {
	Identifier string `xml:"identifier,attr"`
	Text       string `xml:",chardata"`
}
type textEntryInteraction struct {
	ResponseIdentifier string `xml:"responseIdentifier,attr"`
	ExpectedLength     int    `xml:"expectedLength,attr,omitempty"`
}
type responseProcessing struct {
	Template string `xml:"template,attr"`
}

func buildItem(q lesson.Question, norm *grading.Normalizer) (assessmentItem, error) {
	item := assessmentItem{
		Xmlns:      nsQTI,
		Identifier: "item-" + safeName(q.ID),
		Title:      q.Text,
		Outcome:    outcomeDeclaration{Identifier: "SCORE", Cardinality: "single", BaseType: "float"},
		Body:       itemBody{Prompt: q.Text},
		Processing: responseProcessing{Template: rpTemplate},
	}

	switch q.Type {
	case lesson.FillBlanks:
		item.Response = responseDeclaration{
			Identifier:  "RESPONSE",
			Cardinality: "single",
			BaseType:    "string",
			Correct:     []string{q.CorrectAnswer.First()},
		}
		item.Body.TextEntry = &textEntryInteraction{ResponseIdentifier: "RESPONSE", ExpectedLength: len([]rune(q.CorrectAnswer.First()))}
		return item, nil

	case lesson.TrueFalse, lesson.SingleChoice, lesson.MultipleChoice:
		opts := q.Options
		if len(opts) == 0 && q.Type == lesson.TrueFalse {
			opts = []string{"Σωστό", "Λάθος"}
		}
		if len(opts) == 0 {
			opts = q.CorrectAnswer
		}
		ci := &choiceInteraction{ResponseIdentifier: "RESPONSE", MaxChoices: 1}
		card := "single"
		if q.Type == lesson.MultipleChoice {
			card = "multiple"
			ci.MaxChoices = 0 // unlimited
		}
		ids := map[string]string{}
		for i, o := range opts {
			id := fmt.Sprintf("C%d", i+1)
			ci.Choices = append(ci.Choices, simpleChoice{Identifier: id, Text: o})
			ids[choiceKey(q.Type, o, norm)] = id
		}
		keys := []string(q.CorrectAnswer)
		if q.Type != lesson.MultipleChoice && len(keys) > 1 {
			keys = keys[:1]
		}
		var correct []string
		for _, k := range keys {
			id, ok := ids[choiceKey(q.Type, k, norm)]
			if !ok {
				return assessmentItem{}, fmt.Errorf("answer %q is not among the options", k)
			}
			correct = append(correct, id)
		}
		item.Response = responseDeclaration{
			Identifier:  "RESPONSE",
			Cardinality: card,
			BaseType:    "identifier",
			Correct:     correct,
		}
		item.Body.Choice = ci
		return item, nil
	}
	return assessmentItem{}, fmt.Errorf("unsupported question type %q", q.Type)
}

func choiceKey(t lesson.QuestionType, v string, norm *grading.Normalizer) string {
	if t == lesson.TrueFalse && norm != nil {
		return norm.Normalize(t, grading.Text(v)).String()
	}
	return v
}

// safeName keeps identifiers and file names to [A-Za-z0-9_-].
func safeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "q"
	}
	return b.String()
}
