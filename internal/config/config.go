package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Wiki       WikiConfig
	Notability NotabilityConfig
	Redis      RedisConfig
	Gemini     GeminiConfig
	OpenAI     OpenAIConfig
	CORS       CORSConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type WikiConfig struct {
	BaseURL        string
	Language       string
	ThumbnailWidth int
}

type NotabilityConfig struct {
	MinSummaryChars int
	MinCategories   int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Enabled  bool
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey         string
	Model          string
	EnableFallback bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Wiki: WikiConfig{
			BaseURL:        getEnv("WIKI_BASE_URL", ""),
			Language:       getEnv("WIKI_LANGUAGE", "ja"),
			ThumbnailWidth: getEnvInt("WIKI_THUMBNAIL_WIDTH", 256),
		},
		Notability: NotabilityConfig{
			MinSummaryChars: getEnvInt("NOTABILITY_MIN_SUMMARY_CHARS", 150),
			MinCategories:   getEnvInt("NOTABILITY_MIN_CATEGORIES", 3),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Enabled:  getEnvBool("REDIS_ENABLED", true),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o"),
			EnableFallback: getEnvBool("OPENAI_ENABLE_FALLBACK", true),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseCommaSeparated(getEnv("CORS_ALLOWED_ORIGINS", "")),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	// WIKI_BASE_URL이 없으면 언어 코드에서 유도
	if cfg.Wiki.BaseURL == "" && cfg.Wiki.Language != "" {
		cfg.Wiki.BaseURL = fmt.Sprintf("https://%s.wikipedia.org/w/api.php", cfg.Wiki.Language)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Wiki.BaseURL == "" {
		return fmt.Errorf("WIKI_BASE_URL or WIKI_LANGUAGE is required")
	}
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.Notability.MinSummaryChars < 0 {
		return fmt.Errorf("NOTABILITY_MIN_SUMMARY_CHARS must not be negative")
	}
	if c.Notability.MinCategories < 1 {
		return fmt.Errorf("NOTABILITY_MIN_CATEGORIES must be at least 1")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
