package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every runtime knob. Values come from the environment (the .env
// file is loaded by main before this runs); each field has a working default
// except the Gemini API key when the gemini backend is selected.
type Config struct {
	Backend    string // "gemini" or "ollama"
	Model      string // planner model, empty = backend default
	OllamaHost string

	ADBSerial string // pin a specific device; empty = first device found

	StepLimit       int
	PlanAttempts    int
	PlanBackoffBase time.Duration
	StabilizeDelay  time.Duration

	ListenAddr string
}

func Load() (*Config, error) {
	cfg := &Config{
		Backend:         strings.ToLower(getEnv("LLM_BACKEND", "gemini")),
		Model:           getEnv("LLM_MODEL", ""),
		OllamaHost:      getEnv("OLLAMA_HOST", ""),
		ADBSerial:       getEnv("ADB_SERIAL", ""),
		StepLimit:       getEnvInt("STEP_LIMIT", 15),
		PlanAttempts:    getEnvInt("PLAN_ATTEMPTS", 3),
		PlanBackoffBase: time.Duration(getEnvInt("PLAN_BACKOFF_BASE_MS", 5000)) * time.Millisecond,
		StabilizeDelay:  time.Duration(getEnvInt("STABILIZE_DELAY_MS", 2000)) * time.Millisecond,
		ListenAddr:      getEnv("LISTEN_ADDR", ":8080"),
	}

	if cfg.Backend == "gemini" && os.Getenv("GEMINI_API_KEY") == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini backend")
	}
	if cfg.StepLimit < 1 {
		return nil, fmt.Errorf("STEP_LIMIT must be >= 1, got %d", cfg.StepLimit)
	}
	if cfg.PlanAttempts < 1 {
		return nil, fmt.Errorf("PLAN_ATTEMPTS must be >= 1, got %d", cfg.PlanAttempts)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return n
}
