package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the DinoAir service router.
type Config struct {
	Port         int
	Version      string
	Build        string
	Commit       string
	ServicesFile string
	CORSOrigins  []string
	Debug        bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:         envInt("DINO_PORT", 8080),
		Version:      envStr("DINO_VERSION", "0.1.0"),
		Build:        envStr("DINO_BUILD", "dev"),
		Commit:       envStr("DINO_COMMIT", "unknown"),
		ServicesFile: envStr("DINO_SERVICES_FILE", "config/services.lmstudio.yaml"),
		CORSOrigins:  envList("DINO_CORS_ORIGINS", []string{"*"}),
		Debug:        envBool("DINO_DEBUG", false),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	start := 0
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == ',' {
			if i > start {
				out = append(out, v[start:i])
			}
			start = i + 1
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
