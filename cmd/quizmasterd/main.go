package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mind-engage/quizmaster/internal/aigen"
	api "github.com/mind-engage/quizmaster/internal/api/http"
	auth "github.com/mind-engage/quizmaster/internal/auth/middleware"
	"github.com/mind-engage/quizmaster/internal/config"
	"github.com/mind-engage/quizmaster/internal/db"
	"github.com/mind-engage/quizmaster/internal/grading"
	"github.com/mind-engage/quizmaster/internal/lesson"
	"github.com/mind-engage/quizmaster/internal/logger"
	"github.com/mind-engage/quizmaster/internal/results"
	"github.com/mind-engage/quizmaster/internal/session"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Env)

	if err := run(cfg, log); err != nil {
		log.Error("quizmasterd stopped", logger.Err(err))
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Grading ---
	syn, err := grading.LoadSynonyms(cfg.SynonymsFile)
	if err != nil {
		return err
	}
	norm, err := grading.NewNormalizer(syn)
	if err != nil {
		return err
	}
	scorer := grading.NewScorer(grading.WithNormalizer(norm))

	// --- DB (sql state driver and/or result log) ---
	var dbh *sql.DB
	var recorder results.Recorder = results.Discard{}
	var lister api.ResultLister
	if cfg.StateDriver == "sql" || cfg.DBDSN != "" {
		openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		dbh, err = db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		cancel()
		if err != nil {
			return err
		}
		defer dbh.Close()
		rl := results.NewLog(dbh)
		recorder, lister = rl, rl
	}

	// --- Persistence ---
	state, closeState, err := openState(ctx, cfg, dbh)
	if err != nil {
		return err
	}
	defer closeState()
	assets, err := openAssets(ctx, cfg)
	if err != nil {
		return err
	}

	lessons := lesson.NewStore(ctx, state, log)
	users := auth.NewUserStore(ctx, state, log)

	// --- Auth (single demo teacher) ---
	creds, err := auth.NewCredentials(cfg.TeacherEmail, cfg.TeacherPassHash, cfg.TeacherPassword)
	if err != nil {
		return err
	}
	authSvc := auth.NewAuthService(cfg.AuthSecret, cfg.TokenTTL)

	// --- AI ---
	gen, err := aigen.New(aigen.Config{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GeminiTimeout,
	})
	if err != nil {
		return err
	}
	if !gen.Enabled() {
		log.Warn("GEMINI_API_KEY not set, quiz generation disabled")
	}

	sessions := session.NewRegistry(cfg.SessionTTL)
	go sessions.Run(ctx, time.Minute)

	router := api.NewRouter(api.Deps{
		Log:         log,
		Auth:        authSvc,
		Credentials: creds,
		Users:       users,
		Lessons:     lessons,
		Sessions:    sessions,
		Scorer:      scorer,
		Normalizer:  norm,
		Generator:   gen,
		Assets:      assets,
		Recorder:    recorder,
		Results:     lister,
		CORSOrigins: cfg.CORSOrigins,
		Ready: func() bool {
			if dbh == nil {
				return true
			}
			pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			return dbh.PingContext(pctx) == nil
		},
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr, "env", cfg.Env, "state", cfg.StateDriver, "assets", cfg.AssetDriver)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
