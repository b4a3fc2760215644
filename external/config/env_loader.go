package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/videoqa/internal/config"
	"github.com/joho/godotenv"
)

type envConfig struct {
	Env                     string        `env:"ENV" envDefault:"production"`
	HTTPPort                int           `env:"PORT" envDefault:"5000"`
	HTTPShutdownTimeout     time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	DatabaseURL             string        `env:"DATABASE_URL" envDefault:"sqlite://video_qa.db"`
	OpenAIAPIKey            string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL           string        `env:"OPENAI_BASE_URL"`
	OpenAIModel             string        `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	GenerativeTimeout       time.Duration `env:"GENERATIVE_TIMEOUT" envDefault:"20s"`
	YouTubeAPIKey           string        `env:"YOUTUBE_API_KEY"`
	TranscriptLanguages     []string      `env:"TRANSCRIPT_LANGUAGES" envDefault:"en" envSeparator:","`
	TranscriptFetchInterval time.Duration `env:"TRANSCRIPT_FETCH_INTERVAL" envDefault:"1s"`
	ConversationWebhookURL  string        `env:"CONVERSATION_WEBHOOK_URL"`
	DiscordToken            string        `env:"DISCORD_TOKEN"`
	DiscordGuildID          string        `env:"DISCORD_GUILD_ID"`
}

// Load reads an optional .env file from the working directory, then the process environment.
func Load() (*internalconfig.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env file; continuing with process environment", "error", err)
	}

	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                     raw.Env,
		HTTPPort:                raw.HTTPPort,
		HTTPShutdownTimeout:     raw.HTTPShutdownTimeout,
		DatabaseURL:             raw.DatabaseURL,
		OpenAIAPIKey:            raw.OpenAIAPIKey,
		OpenAIBaseURL:           raw.OpenAIBaseURL,
		OpenAIModel:             raw.OpenAIModel,
		GenerativeTimeout:       raw.GenerativeTimeout,
		YouTubeAPIKey:           raw.YouTubeAPIKey,
		TranscriptLanguages:     raw.TranscriptLanguages,
		TranscriptFetchInterval: raw.TranscriptFetchInterval,
		ConversationWebhookURL:  raw.ConversationWebhookURL,
		DiscordToken:            raw.DiscordToken,
		DiscordGuildID:          raw.DiscordGuildID,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
