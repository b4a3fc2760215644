package config

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Env                     string
	HTTPPort                int
	HTTPShutdownTimeout     time.Duration
	DatabaseURL             string
	OpenAIAPIKey            string
	OpenAIBaseURL           string
	OpenAIModel             string
	GenerativeTimeout       time.Duration
	YouTubeAPIKey           string
	TranscriptLanguages     []string
	TranscriptFetchInterval time.Duration
	ConversationWebhookURL  string
	DiscordToken            string
	DiscordGuildID          string
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.HTTPPort)
	}
	if c.HTTPShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive, got %s", c.HTTPShutdownTimeout)
	}
	if c.GenerativeTimeout <= 0 {
		return fmt.Errorf("GENERATIVE_TIMEOUT must be positive, got %s", c.GenerativeTimeout)
	}
	if c.HasGenerativeBackend() && strings.TrimSpace(c.OpenAIModel) == "" {
		return fmt.Errorf("OPENAI_MODEL is required when OPENAI_API_KEY is set")
	}
	if c.TranscriptFetchInterval < 0 {
		return fmt.Errorf("TRANSCRIPT_FETCH_INTERVAL must not be negative, got %s", c.TranscriptFetchInterval)
	}
	if c.DiscordEnabled() && strings.TrimSpace(c.DiscordGuildID) == "" {
		return fmt.Errorf("DISCORD_GUILD_ID is required when DISCORD_TOKEN is set")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// HasGenerativeBackend reports whether a credential for the generative backend is configured.
func (c *Config) HasGenerativeBackend() bool {
	return strings.TrimSpace(c.OpenAIAPIKey) != ""
}

func (c *Config) DiscordEnabled() bool {
	return strings.TrimSpace(c.DiscordToken) != ""
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
