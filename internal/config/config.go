// Package config loads server settings from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port      string
	ModelPath string

	DetectorURL     string
	DetectorTimeout time.Duration

	AdvisoryURL     string
	AdvisoryAPIKey  string
	AdvisoryModel   string
	AdvisoryTimeout time.Duration

	MaxUploadMB int
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		ModelPath: getEnv("MODEL_PATH", "./models/forearm.stl"),

		DetectorURL:     getEnv("DETECTOR_URL", "http://localhost:5000/predict"),
		DetectorTimeout: getDuration("DETECTOR_TIMEOUT", 30*time.Second),

		AdvisoryURL:     getEnv("ADVISORY_URL", "https://api.groq.com/openai/v1/chat/completions"),
		AdvisoryAPIKey:  getEnv("ADVISORY_API_KEY", ""),
		AdvisoryModel:   getEnv("ADVISORY_MODEL", "llama-3.3-70b-versatile"),
		AdvisoryTimeout: getDuration("ADVISORY_TIMEOUT", 45*time.Second),

		MaxUploadMB: getInt("MAX_UPLOAD_MB", 32),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
