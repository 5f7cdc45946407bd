package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mind-engage/quizmaster/internal/config"
	"github.com/mind-engage/quizmaster/internal/storage"
)

// openState picks the store for the qm_lessons / qm_user blobs.
func openState(ctx context.Context, cfg config.Config, dbh *sql.DB) (storage.BlobStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.StateDriver {
	case "fs", "":
		bs, err := storage.NewFSStore(cfg.StateDir)
		return bs, noop, err
	case "sql":
		if dbh == nil {
			return nil, noop, fmt.Errorf("state driver sql needs a database")
		}
		return storage.NewSQLStore(dbh), noop, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("redis ping: %w", err)
		}
		return storage.NewRedisStore(client, "quizmaster:"), client.Close, nil
	default:
		return nil, noop, fmt.Errorf("unsupported state driver: %s", cfg.StateDriver)
	}
}

// openAssets picks the store for uploaded lesson files.
func openAssets(ctx context.Context, cfg config.Config) (storage.BlobStore, error) {
	switch cfg.AssetDriver {
	case "fs", "":
		return storage.NewFSStore(cfg.AssetDir)
	case "minio":
		return storage.NewMinioStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	default:
		return nil, fmt.Errorf("unsupported asset driver: %s", cfg.AssetDriver)
	}
}
