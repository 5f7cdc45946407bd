package lesson

type QuestionType string

const (
	TrueFalse      QuestionType = "TRUE_FALSE"
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
	SingleChoice   QuestionType = "SINGLE_CHOICE"
	FillBlanks     QuestionType = "FILL_BLANKS"
)

// AllQuestionTypes lists the types in the order the editor offers them.
var AllQuestionTypes = []QuestionType{TrueFalse, MultipleChoice, SingleChoice, FillBlanks}

func (t QuestionType) Valid() bool {
	switch t {
	case TrueFalse, MultipleChoice, SingleChoice, FillBlanks:
		return true
	}
	return false
}

type Question struct {
	ID            string       `json:"id"`
	Type          QuestionType `json:"type"`
	Text          string       `json:"text"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer AnswerKey    `json:"correctAnswer"`
	Explanation   string       `json:"explanation,omitempty"`
}

type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
	CreatedAt int64      `json:"createdAt"` // unix millis
}

type ResourceKind string

const (
	ResourceFile ResourceKind = "file"
	ResourceLink ResourceKind = "link"
)

type Resource struct {
	ID       string       `json:"id"`
	Type     ResourceKind `json:"type"`
	Name     string       `json:"name"`
	URL      string       `json:"url"`
	MimeType string       `json:"mimeType,omitempty"`
}

type Lesson struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Resources   []Resource `json:"resources"`
	Quizzes     []Quiz     `json:"quizzes"`
	CreatedAt   int64      `json:"createdAt"` // unix millis
	TeacherID   string     `json:"teacherId"`
}

// Quiz returns the quiz with the given id.
func (l Lesson) Quiz(id string) (Quiz, bool) {
	for _, q := range l.Quizzes {
		if q.ID == id {
			return q, true
		}
	}
	return Quiz{}, false
}

// StudentView strips reference answers and explanations so a lesson can be
// served to students before they finish a quiz.
func (l Lesson) StudentView() Lesson {
	out := l.clone()
	for i := range out.Quizzes {
		for j := range out.Quizzes[i].Questions {
			out.Quizzes[i].Questions[j].CorrectAnswer = nil
			out.Quizzes[i].Questions[j].Explanation = ""
		}
	}
	return out
}

// clone deep-copies the slices so callers cannot alias store state.
func (l Lesson) clone() Lesson {
	out := l
	out.Resources = cloneSlice(l.Resources)
	if l.Quizzes != nil {
		out.Quizzes = make([]Quiz, len(l.Quizzes))
		for i, q := range l.Quizzes {
			out.Quizzes[i] = q.Clone()
		}
	}
	return out
}

// Clone deep-copies the questions, options and answer keys.
func (q Quiz) Clone() Quiz {
	out := q
	if q.Questions != nil {
		out.Questions = make([]Question, len(q.Questions))
		for i, qu := range q.Questions {
			qu.Options = cloneSlice(qu.Options)
			qu.CorrectAnswer = cloneSlice(qu.CorrectAnswer)
			out.Questions[i] = qu
		}
	}
	return out
}

// cloneSlice copies s, keeping nil and empty distinct.
func cloneSlice[S ~[]E, E any](s S) S {
	if s == nil {
		return nil
	}
	out := make(S, len(s))
	copy(out, s)
	return out
}
