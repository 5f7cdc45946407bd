package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env      string
	HTTPAddr string

	// Persistence of the qm_lessons / qm_user blobs.
	StateDriver string // fs|sql|redis
	StateDir    string // for fs

	DBDriver string // sqlite|postgres (state driver sql, result log)
	DBDSN    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Uploaded resource files.
	AssetDriver    string // fs|minio
	AssetDir       string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	AuthSecret      string
	TeacherEmail    string
	TeacherPassHash string // bcrypt; when empty TeacherPassword is hashed at startup
	TeacherPassword string
	TokenTTL        time.Duration

	CORSOrigins []string

	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string
	GeminiTimeout time.Duration

	SynonymsFile string
	SessionTTL   time.Duration
}

func FromEnv() Config {
	return Config{
		Env:      envOr("ENV", "local"),
		HTTPAddr: envOr("HTTP_ADDR", ":8080"),

		StateDriver: envOr("STATE_DRIVER", "fs"),
		StateDir:    envOr("STATE_DIR", "./data/state"),

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		AssetDriver:    envOr("ASSET_DRIVER", "fs"),
		AssetDir:       envOr("ASSET_DIR", "./data/assets"),
		MinioEndpoint:  envOr("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    envOr("MINIO_BUCKET", "lesson-resources"),
		MinioUseSSL:    envBool("MINIO_USE_SSL", false),

		AuthSecret:      envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		TeacherEmail:    envOr("TEACHER_EMAIL", "teacher@example.com"),
		TeacherPassHash: os.Getenv("TEACHER_PASS_HASH"),
		TeacherPassword: envOr("TEACHER_PASSWORD", "password"),
		TokenTTL:        envDuration("TOKEN_TTL", 8*time.Hour),

		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL: envOr("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models"),
		GeminiModel:   envOr("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiTimeout: envDuration("GEMINI_TIMEOUT", 0),

		SynonymsFile: os.Getenv("SYNONYMS_FILE"),
		SessionTTL:   envDuration("SESSION_TTL", 2*time.Hour),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return v
	}
	return def
}
func envDuration(k string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(k)); err == nil {
		return v
	}
	return def
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
