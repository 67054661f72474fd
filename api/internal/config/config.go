package config

import (
	"fmt"
	"os"
	"strings"
)

// PlaceholderAPIKey is the sentinel value shipped in setup instructions.
// A key equal to it is treated the same as a missing key.
const PlaceholderAPIKey = "PUT_YOUR_API_KEY_HERE"

type Config struct {
	Port string

	GeminiAPIKey    string
	GeminiModel     string
	GeminiTransport string // "http" | "sdk"

	TelegramBotToken string
	WebhookURL       string
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// Load reads configuration from the environment. It fails before any
// network activity when the API key is missing or still the placeholder.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnv("PORT", "8000"),

		GeminiAPIKey:    strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash-preview-09-2025"),
		GeminiTransport: strings.ToLower(getEnv("GEMINI_TRANSPORT", "http")),

		TelegramBotToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		WebhookURL:       strings.TrimSpace(os.Getenv("WEBHOOK_URL")),
	}
	if cfg.GeminiAPIKey == "" || cfg.GeminiAPIKey == PlaceholderAPIKey {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set (or still %q)", PlaceholderAPIKey)
	}
	switch cfg.GeminiTransport {
	case "http", "sdk":
	default:
		return nil, fmt.Errorf("GEMINI_TRANSPORT must be \"http\" or \"sdk\", got %q", cfg.GeminiTransport)
	}
	return cfg, nil
}
