package lesson

import "encoding/json"

// Encode serializes the whole collection in the persisted format.
func Encode(lessons []Lesson) ([]byte, error) {
	if lessons == nil {
		lessons = []Lesson{}
	}
	return json.Marshal(lessons)
}

// Decode parses a persisted collection. Both historical correctAnswer shapes
// are accepted.
func Decode(b []byte) ([]Lesson, error) {
	var out []Lesson
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].normalize()
	}
	if out == nil {
		out = []Lesson{}
	}
	return out, nil
}

// normalize gives absent collections one representation so that a
// decode/encode round trip is stable.
func (l *Lesson) normalize() {
	if l.Resources == nil {
		l.Resources = []Resource{}
	}
	if l.Quizzes == nil {
		l.Quizzes = []Quiz{}
	}
	for i := range l.Quizzes {
		l.Quizzes[i].normalize()
	}
}

func (q *Quiz) normalize() {
	if q.Questions == nil {
		q.Questions = []Question{}
	}
	for i := range q.Questions {
		qu := &q.Questions[i]
		if len(qu.Options) == 0 {
			qu.Options = nil
		}
		if qu.CorrectAnswer == nil {
			qu.CorrectAnswer = AnswerKey{}
		}
	}
}
