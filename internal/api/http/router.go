package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	auth "github.com/mind-engage/quizmaster/internal/auth/middleware"
	"github.com/mind-engage/quizmaster/internal/grading"
	"github.com/mind-engage/quizmaster/internal/lesson"
	"github.com/mind-engage/quizmaster/internal/rbac"
	"github.com/mind-engage/quizmaster/internal/results"
	"github.com/mind-engage/quizmaster/internal/session"
	"github.com/mind-engage/quizmaster/internal/storage"
)

type Deps struct {
	Log         *slog.Logger
	Auth        *auth.AuthService
	Credentials *auth.Credentials
	Users       *auth.UserStore
	Lessons     *lesson.Store
	Sessions    *session.Registry
	Scorer      *grading.Scorer
	Normalizer  *grading.Normalizer
	Generator   QuizGenerator
	Assets      storage.BlobStore
	Recorder    results.Recorder
	Results     ResultLister // nil when no SQL database is configured
	CORSOrigins []string
	Ready       func() bool
}

func NewRouter(d Deps) http.Handler {
	if d.Recorder == nil {
		d.Recorder = results.Discard{}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil && !d.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Post("/auth/login", auth.LoginHandler(d.Auth, d.Credentials, d.Users, d.Log))

	// Everything else: token (optional) → role in context → RBAC
	r.Group(func(pr chi.Router) {
		pr.Use(auth.Identify(d.Auth, d.Users))

		pr.Post("/auth/logout", auth.LogoutHandler(d.Users, d.Log))
		pr.Get("/auth/me", auth.MeHandler(d.Users))

		pr.Route("/lessons", func(lr chi.Router) {
			lr.With(rbac.Require(rbac.PermLessonView)).Get("/", ListLessonsHandler(d.Lessons))
			lr.With(rbac.Require(rbac.PermLessonView)).Get("/categories", CategoriesHandler(d.Lessons))
			lr.With(rbac.Require(rbac.PermLessonCreate)).Post("/", CreateLessonHandler(d.Lessons))

			lr.Route("/{lessonID}", func(one chi.Router) {
				one.With(rbac.Require(rbac.PermLessonView)).Get("/", GetLessonHandler(d.Lessons))
				one.With(rbac.Require(rbac.PermLessonUpdate)).Put("/", UpdateLessonHandler(d.Lessons))
				one.With(rbac.Require(rbac.PermLessonDelete)).Delete("/", DeleteLessonHandler(d.Lessons))

				one.With(rbac.Require(rbac.PermQuizGenerate)).
					Post("/quizzes/generate", GenerateQuizHandler(d.Lessons, d.Generator, d.Log))
				one.With(rbac.Require(rbac.PermLessonUpdate)).
					Delete("/quizzes/{quizID}", DeleteQuizHandler(d.Lessons))
				one.With(rbac.Require(rbac.PermQuizExport)).
					Get("/quizzes/{quizID}/export", ExportQuizHandler(d.Lessons, d.Normalizer))

				one.With(rbac.Require(rbac.PermAssetUpload)).
					Post("/resources", AttachResourceHandler(d.Lessons, d.Assets))
				one.With(rbac.Require(rbac.PermLessonUpdate)).
					Delete("/resources/{resourceID}", DetachResourceHandler(d.Lessons, d.Assets, d.Log))
			})
		})

		pr.With(rbac.Require(rbac.PermLessonView)).Get("/assets/*", GetAssetHandler(d.Assets))

		pr.Route("/sessions", func(sr chi.Router) {
			sr.Use(rbac.Require(rbac.PermQuizTake))
			sr.Post("/", StartSessionHandler(d.Lessons, d.Sessions, d.Scorer, d.Recorder, d.Log))
			sr.Get("/{sessionID}", GetSessionHandler(d.Sessions))
			sr.Post("/{sessionID}/answers", SelectAnswerHandler(d.Sessions))
			sr.Post("/{sessionID}/advance", AdvanceHandler(d.Sessions))
			sr.Delete("/{sessionID}", AbandonSessionHandler(d.Sessions))
		})

		pr.With(rbac.Require(rbac.PermResultsView)).Get("/results", ListResultsHandler(d.Results))
	})

	return r
}
