package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"jobprep-backend/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	S3Endpoint      string
	DatabaseURL     string
	RedisURL        string
	CacheTTL        time.Duration
	LogLevel        string
	LogFormat       string
	RateLimitRPS    float64
	RateLimitBurst  int
	UsageWeekly     int
	MaxKeywords     int
	Enhance         bool
}

var defaults = map[string]any{
	"PORT":                  "8080",
	"ENV":                   "dev",
	"CORS_ALLOW_ORIGINS":    "http://localhost:5173",
	"OBJECT_STORE":          "local",
	"LOCAL_STORE_DIR":       "./data",
	"AWS_REGION":            "",
	"S3_BUCKET":             "",
	"S3_PREFIX":             "",
	"SSE_KMS_KEY_ID":        "",
	"S3_ENDPOINT":           "",
	"DATABASE_URL":          "",
	"REDIS_URL":             "",
	"CACHE_TTL":             "24h",
	"LOG_LEVEL":             "info",
	"LOG_FORMAT":            "json",
	"RATE_LIMIT_RPS":        5.0,
	"RATE_LIMIT_BURST":      10,
	"USAGE_WEEKLY_LIMIT":    10,
	"ANALYZER_MAX_KEYWORDS": 25,
	"ANALYZER_ENHANCE":      false,
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	env := normalizeEnv(v.GetString("ENV"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": env})
	}

	// CACHE_TTL=0 disables analysis caching.
	ttl := v.GetDuration("CACHE_TTL")
	if ttl < 0 {
		ttl = 24 * time.Hour
	}

	return Config{
		Port:            v.GetString("PORT"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		ObjectStoreType: normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:   v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:       v.GetString("AWS_REGION"),
		S3Bucket:        v.GetString("S3_BUCKET"),
		S3Prefix:        v.GetString("S3_PREFIX"),
		SSEKMSKeyID:     v.GetString("SSE_KMS_KEY_ID"),
		S3Endpoint:      strings.TrimSpace(v.GetString("S3_ENDPOINT")),
		DatabaseURL:     dbURL,
		RedisURL:        strings.TrimSpace(v.GetString("REDIS_URL")),
		CacheTTL:        ttl,
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
		RateLimitRPS:    v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:  v.GetInt("RATE_LIMIT_BURST"),
		UsageWeekly:     v.GetInt("USAGE_WEEKLY_LIMIT"),
		MaxKeywords:     v.GetInt("ANALYZER_MAX_KEYWORDS"),
		Enhance:         v.GetBool("ANALYZER_ENHANCE"),
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
