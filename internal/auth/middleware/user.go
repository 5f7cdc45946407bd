package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mind-engage/quizmaster/internal/logger"
	"github.com/mind-engage/quizmaster/internal/storage"
)

// UserKey is the blob key of the logged-in teacher record.
const UserKey = "qm_user"

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserStore holds the logged-in teacher. The record is read once at startup
// and written through on login and logout.
type UserStore struct {
	mu    sync.RWMutex
	blobs storage.BlobStore
	log   *slog.Logger
	cur   *User
}

// NewUserStore loads the persisted record. A malformed record is logged and
// treated as "nobody logged in".
func NewUserStore(ctx context.Context, blobs storage.BlobStore, log *slog.Logger) *UserStore {
	s := &UserStore{blobs: blobs, log: log}
	b, err := storage.ReadAll(ctx, blobs, UserKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		log.Error("error loading user", logger.Err(err))
	default:
		var u User
		if err := json.Unmarshal(b, &u); err != nil || u.ID == "" {
			if err == nil {
				err = errors.New("record has no id")
			}
			log.Error("error loading user", "key", UserKey, logger.Err(err))
			break
		}
		s.cur = &u
	}
	return s
}

func (s *UserStore) Current() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return User{}, false
	}
	return *s.cur, true
}

func (s *UserStore) Save(ctx context.Context, u User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := storage.WriteAll(ctx, s.blobs, UserKey, b); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	s.cur = &u
	return nil
}

func (s *UserStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.blobs.Delete(ctx, UserKey); err != nil {
		return fmt.Errorf("clear user: %w", err)
	}
	s.cur = nil
	return nil
}
