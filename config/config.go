package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port          int
	DataDir       string
	FPThreshold   float64
	AllowedOrigin string
}

func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	threshold, err := strconv.ParseFloat(getEnv("FP_SIMILARITY_THRESHOLD", "0.72"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid FP_SIMILARITY_THRESHOLD: %w", err)
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("FP_SIMILARITY_THRESHOLD must be in [0, 1], got %v", threshold)
	}

	return &Config{
		Port:          port,
		DataDir:       getEnv("DATA_DIR", "/data"),
		FPThreshold:   threshold,
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
