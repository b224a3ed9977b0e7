package app

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/codemasterhq/codemaster/pkg/jwtx"
)

type Config struct {
	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
	Port      int    // HTTP server port (default: 8080)

	MongoURI string // Required: MongoDB connection string
	MongoDB  string // Database name (default: codemaster)
	RedisURL string // Required: revocation registry connection string

	JWTSecret  string        // Required: HS256 session token secret
	Issuer     string        // Issuer claim for session tokens (default: codemaster)
	SessionTTL time.Duration // Session token and cookie lifetime (default: 1h)

	AllowedOrigins []string // CORS origins, comma separated (default: http://localhost:5173)
	SecureCookies  bool     // Set the Secure flag on session cookies (default: false)

	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	JudgeURL string // Required: code execution backend base URL
	JudgeKey string // Optional: execution backend API key

	AIURL   string // Optional: LLM base URL; doubt assistant disabled when empty
	AIKey   string // Optional: LLM API key
	AIModel string // LLM model name (default: gemini-1.5-flash)

	MediaRegion    string // Object storage region (default: us-east-1)
	MediaEndpoint  string // Optional: S3-compatible endpoint (MinIO)
	MediaBucket    string // Bucket for editorial videos (default: codemaster-editorials)
	MediaAccessKey string // Object storage access key
	MediaSecretKey string // Object storage secret key
	MediaPublicURL string // Optional: CDN base URL for playback
}

func LoadConfig() (Config, error) {
	cfg := Config{
		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
		Port:      getEnvIntOrDefault("PORT", 8080),

		MongoURI: os.Getenv("MONGO_URI"),
		MongoDB:  getEnvOrDefault("MONGO_DB", "codemaster"),
		RedisURL: os.Getenv("REDIS_URL"),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		Issuer:     getEnvOrDefault("JWT_ISSUER", "codemaster"),
		SessionTTL: getEnvDurationOrDefault("SESSION_TTL", jwtx.DefaultSessionTTL),

		SecureCookies: getEnvOrDefault("SECURE_COOKIES", "false") == "true",

		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),

		JudgeURL: os.Getenv("JUDGE_URL"),
		JudgeKey: os.Getenv("JUDGE_KEY"),

		AIURL:   os.Getenv("AI_URL"),
		AIKey:   os.Getenv("AI_KEY"),
		AIModel: getEnvOrDefault("AI_MODEL", "gemini-1.5-flash"),

		MediaRegion:    getEnvOrDefault("MEDIA_REGION", "us-east-1"),
		MediaEndpoint:  os.Getenv("MEDIA_ENDPOINT"),
		MediaBucket:    getEnvOrDefault("MEDIA_BUCKET", "codemaster-editorials"),
		MediaAccessKey: os.Getenv("MEDIA_ACCESS_KEY"),
		MediaSecretKey: os.Getenv("MEDIA_SECRET_KEY"),
		MediaPublicURL: os.Getenv("MEDIA_PUBLIC_URL"),
	}

	origins := getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:5173")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if cfg.MongoURI == "" {
		return Config{}, errors.New("MONGO_URI is required")
	}
	if cfg.RedisURL == "" {
		return Config{}, errors.New("REDIS_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if cfg.JudgeURL == "" {
		return Config{}, errors.New("JUDGE_URL is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are read as seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
