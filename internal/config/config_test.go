package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Env:                 "development",
		HTTPPort:            5000,
		HTTPShutdownTimeout: 10 * time.Second,
		DatabaseURL:         "sqlite://video_qa.db",
		OpenAIModel:         "gpt-3.5-turbo",
		GenerativeTimeout:   20 * time.Second,
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTPPort = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive port")
	}
}

func TestValidate_MissingDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseURL = " "
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when DATABASE_URL is blank")
	}
}

func TestValidate_NonPositiveGenerativeTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.GenerativeTimeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive generative timeout")
	}
}

func TestValidate_DiscordTokenRequiresGuild(t *testing.T) {
	cfg := validConfig()
	cfg.DiscordToken = "token"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when discord guild is missing")
	}
	cfg.DiscordGuildID = "guild"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when required fields are missing")
	}
}

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{Env: "development"}
	if !cfg.IsDevelopment() {
		t.Fatal("expected development mode")
	}
	cfg.Env = "production"
	if cfg.IsDevelopment() {
		t.Fatal("expected non-development mode")
	}
}

func TestHasGenerativeBackend(t *testing.T) {
	cfg := validConfig()
	if cfg.HasGenerativeBackend() {
		t.Fatal("expected no generative backend without api key")
	}
	cfg.OpenAIAPIKey = "sk-test"
	if !cfg.HasGenerativeBackend() {
		t.Fatal("expected generative backend with api key")
	}
}
