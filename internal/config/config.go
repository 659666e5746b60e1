package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string
	DBPath     string
	MediaPath  string

	CatalogURL  string
	LedgerURL   string
	MealPlanURL string
	APIToken    string

	RecognitionBackend string
	ClaudeAPIKey       string
	ClaudeModel        string
	GeminiAPIKey       string
	GeminiModel        string
	OllamaHost         string
	OllamaModel        string

	PollInterval time.Duration

	LogLevel  string
	LogFormat string
	LogFile   string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
		DBPath:     getEnv("DB_PATH", "/data/dailybite.db"),
		MediaPath:  getEnv("MEDIA_PATH", ""),

		CatalogURL:  getEnv("CATALOG_URL", "http://localhost:8081/api"),
		LedgerURL:   getEnv("LEDGER_URL", "http://localhost:8082/api"),
		MealPlanURL: getEnv("MEALPLAN_URL", "http://localhost:8083/api"),
		APIToken:    getEnv("API_TOKEN", ""),

		RecognitionBackend: getEnv("RECOGNITION_BACKEND", "gemini"),
		ClaudeAPIKey:       getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:        getEnv("CLAUDE_MODEL", "claude-sonnet-4-20250514"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		OllamaHost:         getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:        getEnv("OLLAMA_MODEL", "llava"),

		PollInterval: getDuration("MEALPLAN_POLL_INTERVAL", 3*time.Second),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		LogFile:   getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

// getDuration parses a duration env var, accepting either a Go duration
// string ("3s") or a bare number of seconds.
func getDuration(key string, defaultVal time.Duration) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	if d, err := time.ParseDuration(val); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(val); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultVal
}
