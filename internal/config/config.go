package config

import (
	"log"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"google/gemini-2.0-flash-001"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Agent loop
	AgentMaxTurns int `env:"AGENT_MAX_TURNS" envDefault:"8"`

	// Formatter pass
	FormatterProvider    LLMProvider `env:"FORMATTER_PROVIDER" envDefault:"openai"`
	FormatterModel       string      `env:"FORMATTER_MODEL" envDefault:"google/gemini-2.0-flash-001"`
	FormatterTemperature float32     `env:"FORMATTER_TEMPERATURE" envDefault:"0.1"`

	// Storage
	ChatLogPath         string `env:"CHAT_LOG_PATH" envDefault:"logs/chat.jsonl"`
	EventsFilePath      string `env:"EVENTS_FILE_PATH" envDefault:"data/events.json"`
	UsersFilePath       string `env:"USERS_FILE_PATH" envDefault:"data/users.json"`
	EnrollmentsFilePath string `env:"ENROLLMENTS_FILE_PATH" envDefault:"data/enrollments.json"`

	// Catalog reload schedule (cron expression, empty disables reloading)
	CatalogReloadCron string `env:"CATALOG_RELOAD_CRON" envDefault:"@every 10m"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
