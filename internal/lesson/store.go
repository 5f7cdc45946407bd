package lesson

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/quizmaster/internal/logger"
	"github.com/mind-engage/quizmaster/internal/storage"
)

// StateKey is the blob key the lesson collection is persisted under.
const StateKey = "qm_lessons"

// AllCategories is the category filter value that matches every lesson.
const AllCategories = "Όλα"

var (
	ErrNotFound      = errors.New("not found")
	ErrExists        = errors.New("lesson already exists")
	ErrTitleRequired = errors.New("title required")
	ErrNoQuestions   = errors.New("quiz has no questions")
	ErrURLRequired   = errors.New("resource url required")
)

// Store owns the lesson collection. Every mutation updates a copy, persists
// the whole collection, and only then replaces the in-memory state.
type Store struct {
	mu      sync.RWMutex
	blobs   storage.BlobStore
	log     *slog.Logger
	lessons []Lesson

	now   func() time.Time
	newID func() string
}

// NewStore loads the persisted collection. Missing or malformed state is
// logged and the store starts empty.
func NewStore(ctx context.Context, blobs storage.BlobStore, log *slog.Logger) *Store {
	s := &Store{
		blobs:   blobs,
		log:     log,
		lessons: []Lesson{},
		now:     time.Now,
		newID:   uuid.NewString,
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	b, err := storage.ReadAll(ctx, s.blobs, StateKey)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		s.log.Error("error loading lessons", logger.Err(err))
		return
	}
	lessons, err := Decode(b)
	if err != nil {
		s.log.Error("error loading lessons", "key", StateKey, logger.Err(err))
		return
	}
	s.lessons = lessons
	s.log.Info("lessons loaded", "count", len(lessons))
}

// mutate applies fn to a private copy of the collection and persists it.
func (s *Store) mutate(ctx context.Context, fn func([]Lesson) ([]Lesson, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := make([]Lesson, len(s.lessons))
	for i, l := range s.lessons {
		work[i] = l.clone()
	}
	next, err := fn(work)
	if err != nil {
		return err
	}
	b, err := Encode(next)
	if err != nil {
		return err
	}
	if err := storage.WriteAll(ctx, s.blobs, StateKey, b); err != nil {
		return fmt.Errorf("persist lessons: %w", err)
	}
	s.lessons = next
	return nil
}

func indexOf(lessons []Lesson, id string) int {
	for i := range lessons {
		if lessons[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) Add(ctx context.Context, l Lesson) (Lesson, error) {
	if strings.TrimSpace(l.Title) == "" {
		return Lesson{}, ErrTitleRequired
	}
	l = l.clone()
	if l.ID == "" {
		l.ID = s.newID()
	}
	if l.CreatedAt == 0 {
		l.CreatedAt = s.now().UnixMilli()
	}
	l.normalize()
	err := s.mutate(ctx, func(ls []Lesson) ([]Lesson, error) {
		if indexOf(ls, l.ID) >= 0 {
			return nil, ErrExists
		}
		return append(ls, l), nil
	})
	if err != nil {
		return Lesson{}, err
	}
	return l.clone(), nil
}

// Update replaces the lesson with the same id. A zero CreatedAt keeps the
// stored creation time.
func (s *Store) Update(ctx context.Context, l Lesson) (Lesson, error) {
	if strings.TrimSpace(l.Title) == "" {
		return Lesson{}, ErrTitleRequired
	}
	l = l.clone()
	l.normalize()
	err := s.mutate(ctx, func(ls []Lesson) ([]Lesson, error) {
		i := indexOf(ls, l.ID)
		if i < 0 {
			return nil, ErrNotFound
		}
		if l.CreatedAt == 0 {
			l.CreatedAt = ls[i].CreatedAt
		}
		ls[i] = l
		return ls, nil
	})
	if err != nil {
		return Lesson{}, err
	}
	return l.clone(), nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, func(ls []Lesson) ([]Lesson, error) {
		i := indexOf(ls, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		return append(ls[:i], ls[i+1:]...), nil
	})
}

func (s *Store) Get(id string) (Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.lessons, id)
	if i < 0 {
		return Lesson{}, ErrNotFound
	}
	return s.lessons[i].clone(), nil
}

// List returns every lesson in insertion order.
func (s *Store) List() []Lesson {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Lesson, len(s.lessons))
	for i, l := range s.lessons {
		out[i] = l.clone()
	}
	return out
}

// FindQuiz resolves a lesson/quiz pair as used by the quiz-taking flow.
func (s *Store) FindQuiz(lessonID, quizID string) (Lesson, Quiz, error) {
	l, err := s.Get(lessonID)
	if err != nil {
		return Lesson{}, Quiz{}, fmt.Errorf("lesson %q: %w", lessonID, err)
	}
	q, ok := l.Quiz(quizID)
	if !ok {
		return Lesson{}, Quiz{}, fmt.Errorf("quiz %q: %w", quizID, ErrNotFound)
	}
	return l, q, nil
}

type Filter struct {
	Query    string
	Category string
}

// Search matches Query case-insensitively against title or description.
func (s *Store) Search(f Filter) []Lesson {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	cat := strings.TrimSpace(f.Category)
	all := cat == "" || cat == AllCategories

	out := []Lesson{}
	for _, l := range s.List() {
		if !all && l.Category != cat {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(l.Title), q) &&
			!strings.Contains(strings.ToLower(l.Description), q) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Categories returns the distinct non-empty categories in first-seen order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]bool{}
	out := []string{}
	for _, l := range s.lessons {
		if l.Category == "" || seen[l.Category] {
			continue
		}
		seen[l.Category] = true
		out = append(out, l.Category)
	}
	return out
}

// AddQuiz appends a quiz to a lesson, filling in id, creation time and a
// default title.
func (s *Store) AddQuiz(ctx context.Context, lessonID string, q Quiz) (Quiz, error) {
	if len(q.Questions) == 0 {
		return Quiz{}, ErrNoQuestions
	}
	q = q.Clone()
	now := s.now()
	if q.ID == "" {
		q.ID = s.newID()
	}
	if q.CreatedAt == 0 {
		q.CreatedAt = now.UnixMilli()
	}
	q.normalize()
	err := s.mutate(ctx, func(ls []Lesson) ([]Lesson, error) {
		i := indexOf(ls, lessonID)
		if i < 0 {
			return nil, ErrNotFound
		}
		if strings.TrimSpace(q.Title) == "" {
			q.Title = DefaultQuizTitle(ls[i].Title, now)
		}
		ls[i].Quizzes = append(ls[i].Quizzes, q)
		return ls, nil
	})
	if err != nil {
		return Quiz{}, err
	}
	return q.Clone(), nil
}

func (s *Store) RemoveQuiz(ctx context.Context, lessonID, quizID string) error {
	return s.mutate(ctx, func(ls []Lesson) ([]Lesson, error) {
		i := indexOf(ls, lessonID)
		if i < 0 {
			return nil, ErrNotFound
		}
		qs := ls[i].Quizzes
		for j := range qs {
			if qs[j].ID == quizID {
				ls[i].Quizzes = append(qs[:j], qs[j+1:]...)
				return ls, nil
			}
		}
		return nil, ErrNotFound
	})
}

func (s *Store) AttachResource(ctx context.Context, lessonID string, r Resource) (Resource, error) {
	if strings.TrimSpace(r.URL) == "" {
		return Resource{}, ErrURLRequired
	}
	if r.ID == "" {
		r.ID = s.newID()
	}
	if r.Type == "" {
		r.Type = ResourceLink
	}
	if r.Name == "" {
		r.Name = r.URL
	}
	err := s.mutate(ctx, func(ls []Lesson) ([]Lesson, error) {
		i := indexOf(ls, lessonID)
		if i < 0 {
			return nil, ErrNotFound
		}
		ls[i].Resources = append(ls[i].Resources, r)
		return ls, nil
	})
	if err != nil {
		return Resource{}, err
	}
	return r, nil
}

func (s *Store) DetachResource(ctx context.Context, lessonID, resourceID string) error {
	return s.mutate(ctx, func(ls []Lesson) ([]Lesson, error) {
		i := indexOf(ls, lessonID)
		if i < 0 {
			return nil, ErrNotFound
		}
		rs := ls[i].Resources
		for j := range rs {
			if rs[j].ID == resourceID {
				ls[i].Resources = append(rs[:j], rs[j+1:]...)
				return ls, nil
			}
		}
		return nil, ErrNotFound
	})
}

// DefaultQuizTitle is the title given to generated quizzes that were not
// named by the teacher.
func DefaultQuizTitle(lessonTitle string, at time.Time) string {
	if strings.TrimSpace(lessonTitle) == "" {
		lessonTitle = "Χωρίς Τίτλο"
	}
	return fmt.Sprintf("Κουίζ: %s (%s)", lessonTitle, at.Format("15:04"))
}
