package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	AIProvider      string
	OpenAIAPIKey    string
	OpenAIModel     string
	AnthropicAPIKey string
	AnthropicModel  string
	MaxTokens       int
	Temperature     float64
	RequestTimeout  time.Duration
	MaxRetries      int
	InitialBackoff  time.Duration
	BackoffFactor   float64
	RedisURL        string
	NATSURL         string
	HistoryLimit    int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("FEEDBACK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Auto Feedback Generator API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("openai.model", "gpt-4")
	v.SetDefault("max_tokens", 500)
	v.SetDefault("temperature", 0.7)
	v.SetDefault("request_timeout", "30s")
	v.SetDefault("max_retries", 3)
	v.SetDefault("initial_backoff", "1s")
	v.SetDefault("backoff_factor", 2.0)
	v.SetDefault("history.limit", 50)

	requestTimeout, err := time.ParseDuration(v.GetString("request_timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid request timeout: %w", err)
	}

	initialBackoff, err := time.ParseDuration(v.GetString("initial_backoff"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid initial backoff: %w", err)
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		AIProvider:      strings.ToLower(v.GetString("ai.provider")),
		OpenAIAPIKey:    v.GetString("openai_api_key"),
		OpenAIModel:     v.GetString("openai.model"),
		AnthropicAPIKey: v.GetString("anthropic_api_key"),
		AnthropicModel:  v.GetString("anthropic.model"),
		MaxTokens:       v.GetInt("max_tokens"),
		Temperature:     v.GetFloat64("temperature"),
		RequestTimeout:  requestTimeout,
		MaxRetries:      v.GetInt("max_retries"),
		InitialBackoff:  initialBackoff,
		BackoffFactor:   v.GetFloat64("backoff_factor"),
		RedisURL:        v.GetString("redis.url"),
		NATSURL:         v.GetString("nats.url"),
		HistoryLimit:    v.GetInt("history.limit"),
	}

	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}

	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 3
	}

	if cfg.BackoffFactor < 1 {
		cfg.BackoffFactor = 2.0
	}

	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 50
	}

	return cfg, nil
}
