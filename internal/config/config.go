package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Gemini exposes an OpenAI-compatible surface, so both providers share one client type.
const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// Config holds all application configuration
type Config struct {
	// Server
	Port               int
	Env                string // development, production
	CORSAllowedOrigins []string

	// Database
	DatabaseURL   string
	SQLitePath    string
	DBAutoMigrate bool

	// Gemini (course layout, notes, slides)
	GeminiAPIKey      string
	GeminiModel       string
	GeminiBaseURL     string
	GeminiTemperature float32
	GeminiMaxTokens   int

	// OpenAI (mock tests)
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIBaseURL     string
	OpenAITemperature float32
	OpenAIMaxTokens   int

	LLMTimeout    time.Duration
	LLMRetryDelay time.Duration

	// YouTube
	YouTubeAPIKey            string
	YouTubeRequestsPerSecond float64
	YouTubeTimeout           time.Duration
	VideoCacheTTL            time.Duration
	RedisURL                 string

	// Auth
	AuthJWTSecret    string
	AuthJWTPublicKey string
	AuthJWTIssuer    string
	AuthDevHeader    bool

	// Tracing
	OTelEnabled     bool
	OTelEndpoint    string
	OTelSampleRatio float64
	OTelServiceName string

	// Logging
	LogLevel string
}

// EnvCheck reports which environment variables are unset.
type EnvCheck struct {
	OK              bool     `json:"ok"`
	Missing         []string `json:"missing"`
	OptionalMissing []string `json:"optionalMissing"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// A missing .env file is fine; the process environment wins either way.
	_ = godotenv.Load()

	cfg := &Config{
		Port:                     getEnvAsInt("PORT", 3000),
		Env:                      getEnv("ENVIRONMENT", "development"),
		CORSAllowedOrigins:       getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://127.0.0.1:3000"}),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		SQLitePath:               getEnv("SQLITE_PATH", "coursegen.db"),
		DBAutoMigrate:            getEnvAsBool("DB_AUTO_MIGRATE", true),
		GeminiAPIKey:             getEnv("GEMINI_API_KEY", ""),
		GeminiModel:              getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL:            getEnv("GEMINI_BASE_URL", defaultGeminiBaseURL),
		GeminiTemperature:        float32(getEnvAsFloat("GEMINI_TEMPERATURE", 0.7)),
		GeminiMaxTokens:          getEnvAsInt("GEMINI_MAX_TOKENS", 8192),
		OpenAIAPIKey:             getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:              getEnv("OPENAI_MODEL", "gpt-4.1-mini"),
		OpenAIBaseURL:            getEnv("OPENAI_BASE_URL", ""),
		OpenAITemperature:        float32(getEnvAsFloat("OPENAI_TEMPERATURE", 0.3)),
		OpenAIMaxTokens:          getEnvAsInt("OPENAI_MAX_TOKENS", 1800),
		LLMTimeout:               getEnvAsDuration("LLM_TIMEOUT", 90*time.Second),
		LLMRetryDelay:            getEnvAsDuration("LLM_RETRY_DELAY", 1200*time.Millisecond),
		YouTubeAPIKey:            getEnv("YOUTUBE_API_KEY", ""),
		YouTubeRequestsPerSecond: getEnvAsFloat("YOUTUBE_REQUESTS_PER_SECOND", 5),
		YouTubeTimeout:           getEnvAsDuration("YOUTUBE_TIMEOUT", 10*time.Second),
		VideoCacheTTL:            getEnvAsDuration("VIDEO_CACHE_TTL", 6*time.Hour),
		RedisURL:                 getEnv("REDIS_URL", ""),
		AuthJWTSecret:            getEnv("AUTH_JWT_SECRET", ""),
		AuthJWTPublicKey:         getEnv("AUTH_JWT_PUBLIC_KEY", ""),
		AuthJWTIssuer:            getEnv("AUTH_JWT_ISSUER", ""),
		AuthDevHeader:            getEnvAsBool("AUTH_DEV_HEADER", false),
		OTelEnabled:              getEnvAsBool("OTEL_ENABLED", false),
		OTelEndpoint:             getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTelSampleRatio:          getEnvAsFloat("OTEL_SAMPLER_RATIO", 0.1),
		OTelServiceName:          getEnv("OTEL_SERVICE_NAME", "coursegen"),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production") || strings.EqualFold(c.Env, "prod")
}

// CheckRequired lists required and optional settings that are not configured.
// Missing keys do not stop the server; the endpoints that need them fail instead.
func (c *Config) CheckRequired() EnvCheck {
	check := EnvCheck{Missing: []string{}, OptionalMissing: []string{}}

	required := []struct {
		name  string
		value string
	}{
		{"GEMINI_API_KEY", c.GeminiAPIKey},
		{"YOUTUBE_API_KEY", c.YouTubeAPIKey},
		{"AUTH_JWT_SECRET|AUTH_JWT_PUBLIC_KEY", c.AuthJWTSecret + c.AuthJWTPublicKey},
	}
	// Outside production an empty DATABASE_URL falls back to a local sqlite file.
	if c.IsProduction() {
		required = append(required, struct {
			name  string
			value string
		}{"DATABASE_URL", c.DatabaseURL})
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			check.Missing = append(check.Missing, r.name)
		}
	}

	optional := map[string]string{
		"GEMINI_MODEL":   os.Getenv("GEMINI_MODEL"),
		"OPENAI_API_KEY": c.OpenAIAPIKey,
		"REDIS_URL":      c.RedisURL,
	}
	for _, name := range []string{"GEMINI_MODEL", "OPENAI_API_KEY", "REDIS_URL"} {
		if strings.TrimSpace(optional[name]) == "" {
			check.OptionalMissing = append(check.OptionalMissing, name)
		}
	}

	check.OK = len(check.Missing) == 0
	return check
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := getEnv(key, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	valStr := getEnv(key, "")
	if val, err := strconv.ParseFloat(valStr, 64); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := strings.TrimSpace(strings.ToLower(getEnv(key, "")))
	switch valStr {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultVal
}

// getEnvAsDuration accepts Go durations ("6h") or bare milliseconds ("5000").
func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	valStr := strings.TrimSpace(getEnv(key, ""))
	if valStr == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(valStr); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(valStr); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultVal
}

func getEnvAsList(key string, defaultVal []string) []string {
	valStr := strings.TrimSpace(getEnv(key, ""))
	if valStr == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
