package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("REDIS_ADDR", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.LLMProvider != "groq" {
		t.Fatalf("expected default provider groq, got %s", cfg.LLMProvider)
	}
	if cfg.GroqBaseURL != "https://api.groq.com/openai/v1" {
		t.Fatalf("unexpected groq base url %s", cfg.GroqBaseURL)
	}
	if cfg.RequestTimeout != 25*time.Second {
		t.Fatalf("expected default request timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.ExtractionTurnThreshold != 2 {
		t.Fatalf("expected default extraction threshold, got %d", cfg.ExtractionTurnThreshold)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("expected wildcard CORS default, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "staging")
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("DETECT_TIMEOUT", "3s")
	t.Setenv("REQUEST_TIMEOUT", "10s")
	t.Setenv("EXTRACTION_TURN_THRESHOLD", "4")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected port override, got %s", cfg.Port)
	}
	if cfg.LLMProvider != "gemini" {
		t.Fatalf("expected provider lowercased, got %s", cfg.LLMProvider)
	}
	if cfg.DetectTimeout != 3*time.Second {
		t.Fatalf("expected detect timeout override, got %s", cfg.DetectTimeout)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Fatalf("expected request timeout override, got %s", cfg.RequestTimeout)
	}
	if cfg.ExtractionTurnThreshold != 4 {
		t.Fatalf("expected threshold override, got %d", cfg.ExtractionTurnThreshold)
	}
	if !cfg.RedisTLS {
		t.Fatalf("expected redis TLS enabled")
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected CORS origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestDebugForcesLogLevel(t *testing.T) {
	t.Setenv("DEBUG", "true")
	t.Setenv("LOG_LEVEL", "warn")
	cfg := Load()
	if !cfg.Debug {
		t.Fatalf("expected debug enabled")
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("DEBUG should override the log level, got %s", cfg.LogLevel)
	}

	t.Setenv("DEBUG", "false")
	cfg = Load()
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected configured level without debug, got %s", cfg.LogLevel)
	}
}

func TestGetEnvAsDurationInvalid(t *testing.T) {
	t.Setenv("ENGAGE_TIMEOUT", "not-a-duration")
	cfg := Load()
	if cfg.EngageTimeout != 15*time.Second {
		t.Fatalf("expected fallback to default engage timeout, got %s", cfg.EngageTimeout)
	}
}
