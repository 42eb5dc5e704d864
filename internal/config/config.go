package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string
	Debug    bool

	// Inbound auth
	APIKey string

	// LLM provider selection and credentials
	LLMProvider    string
	GroqAPIKey     string
	GroqBaseURL    string
	GroqModel      string
	GeminiAPIKey   string
	GeminiModel    string
	BedrockModelID string
	EmbeddingModel string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// Session store; empty RedisAddr keeps sessions in process memory
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	SessionTTL    time.Duration

	// Transcript archive; empty DatabaseURL disables archival
	DatabaseURL string

	// Orchestration budgets
	DetectTimeout  time.Duration
	EngageTimeout  time.Duration
	ExtractTimeout time.Duration
	RequestTimeout time.Duration

	ExtractionTurnThreshold int

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "production"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Debug:    getEnvAsBool("DEBUG", false),

		APIKey: getEnv("API_KEY", ""),

		LLMProvider:    strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", "groq"))),
		GroqAPIKey:     getEnv("GROQ_API_KEY", ""),
		GroqBaseURL:    getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:      getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		BedrockModelID: getEnv("BEDROCK_MODEL_ID", ""),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		DetectTimeout:  getEnvAsDuration("DETECT_TIMEOUT", 8*time.Second),
		EngageTimeout:  getEnvAsDuration("ENGAGE_TIMEOUT", 15*time.Second),
		ExtractTimeout: getEnvAsDuration("EXTRACT_TIMEOUT", 10*time.Second),
		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 25*time.Second),

		ExtractionTurnThreshold: getEnvAsInt("EXTRACTION_TURN_THRESHOLD", 2),

		CORSAllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	// DEBUG overrides the configured log level.
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}
	return cfg
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
