package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	BotToken      string `env:"BOT_TOKEN,required"`
	DatabaseURL   string `env:"DATABASE_URL,required"`
	OpenRouterKey string `env:"OPENROUTER_API_KEY,required"`

	// Google Calendar OAuth
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID,required"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET,required"`
	// Public base URL of the callback server, e.g. https://remo.example.com
	PublicBaseURL string `env:"PUBLIC_BASE_URL,required"`

	// Chat model
	ChatModel string `env:"CHAT_MODEL" envDefault:"openai/gpt-4o-mini"`

	// Server
	Port int `env:"PORT" envDefault:"3000"`

	// Bot behavior
	DropPendingUpdates bool `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// RedirectURL is the OAuth callback endpoint registered with Google.
func (c *Config) RedirectURL() string {
	return c.PublicBaseURL + "/oauth2/callback"
}
