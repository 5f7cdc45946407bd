package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/quizmaster/internal/logger"
)

// TeacherID is the id of the single demo teacher account.
const TeacherID = "1"

var ErrInvalidCredentials = errors.New("invalid credentials")

// Credentials is the single demo teacher account. It stands in for a real
// identity provider and must be replaced by one outside a demo.
type Credentials struct {
	email string
	hash  []byte
}

// NewCredentials uses passHash when given, otherwise hashes password.
func NewCredentials(email, passHash, password string) (*Credentials, error) {
	c := &Credentials{email: strings.ToLower(strings.TrimSpace(email))}
	if passHash != "" {
		if _, err := bcrypt.Cost([]byte(passHash)); err != nil {
			return nil, err
		}
		c.hash = []byte(passHash)
		return c, nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	c.hash = h
	return c, nil
}

func (c *Credentials) Check(email, password string) (User, error) {
	if strings.ToLower(strings.TrimSpace(email)) != c.email {
		return User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(c.hash, []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return User{ID: TeacherID, Email: c.email, Role: RoleTeacher}, nil
}

// POST /auth/login  { "email": "...", "password": "..." }
func LoginHandler(a *AuthService, creds *Credentials, users *UserStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		u, err := creds.Check(req.Email, req.Password)
		if err != nil {
			http.Error(w, "Λανθασμένο email ή κωδικός πρόσβασης", http.StatusUnauthorized)
			return
		}
		tok, err := a.IssueJWT(u.ID, u.Role)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		if err := users.Save(r.Context(), u); err != nil {
			log.Error("login", logger.Err(err))
			http.Error(w, "save user", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": tok, "user": u})
	}
}

// POST /auth/logout
// Only the logged-in teacher may end the session.
func LogoutHandler(users *UserStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := users.Current()
		if !ok || SubjectFromContext(r.Context()) != u.ID {
			http.Error(w, "not logged in", http.StatusUnauthorized)
			return
		}
		if err := users.Clear(r.Context()); err != nil {
			log.Error("logout", logger.Err(err))
			http.Error(w, "clear user", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /auth/me
func MeHandler(users *UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := users.Current()
		if !ok || SubjectFromContext(r.Context()) != u.ID {
			http.Error(w, "not logged in", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(u)
	}
}
