package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	configloader "github.com/foxseedlab/videoqa/external/config"
	"github.com/foxseedlab/videoqa/external/discord"
	"github.com/foxseedlab/videoqa/external/feed"
	generativeimpl "github.com/foxseedlab/videoqa/external/generative"
	repositoryimpl "github.com/foxseedlab/videoqa/external/repository"
	webhookimpl "github.com/foxseedlab/videoqa/external/webhook"
	"github.com/foxseedlab/videoqa/external/youtube"
	"github.com/foxseedlab/videoqa/internal/answer"
	"github.com/foxseedlab/videoqa/internal/bot"
	"github.com/foxseedlab/videoqa/internal/chat"
	"github.com/foxseedlab/videoqa/internal/config"
	discordpkg "github.com/foxseedlab/videoqa/internal/discord"
	"github.com/foxseedlab/videoqa/internal/ingest"
	"github.com/foxseedlab/videoqa/internal/repository"
	"github.com/foxseedlab/videoqa/internal/web"
	"github.com/samber/do/v2"
)

const discordConnectTimeout = 20 * time.Second

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "generative", cfg.HasGenerativeBackend(), "discord", cfg.DiscordEnabled())

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	run(cfg, injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(web.NewLogHandler(handler)))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	generativeimpl.RegisterDI(injector)
	youtube.RegisterDI(injector)
	feed.RegisterDI(injector)
	webhookimpl.RegisterDI(injector)
	discord.RegisterDI(injector)
	answer.RegisterDI(injector)
	chat.RegisterDI(injector)
	ingest.RegisterDI(injector)
	bot.RegisterDI(injector)
	web.RegisterDI(injector)

	return injector
}

func run(cfg *config.Config, injector do.Injector) {
	repo, err := do.Invoke[repository.Repository](injector)
	if err != nil {
		slog.Error("failed to open transcript store", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	server, err := do.Invoke[*web.Server](injector)
	if err != nil {
		slog.Error("failed to resolve http server", "error", err)
		os.Exit(1)
	}

	if cfg.DiscordEnabled() {
		dc := mustStartBot(cfg, injector)
		defer func() {
			if err := dc.Close(); err != nil {
				slog.Error("discord close failed", "error", err)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("http server failed", "error", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down")
	case <-done:
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("http server shutdown failed", "error", err)
	}
	<-done
}

func mustStartBot(cfg *config.Config, injector do.Injector) discordpkg.Client {
	dc, err := do.Invoke[discordpkg.Client](injector)
	if err != nil {
		slog.Error("failed to resolve discord client", "error", err)
		os.Exit(1)
	}
	handler, err := do.Invoke[*bot.Handler](injector)
	if err != nil {
		slog.Error("failed to resolve discord handler", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), discordConnectTimeout)
	defer cancel()

	slog.Info("startup: connecting to discord gateway")
	if err := dc.Connect(ctx); err != nil {
		slog.Error("discord connect failed", "error", err)
		os.Exit(1)
	}

	botUserID, err := dc.GetBotUserID()
	if err != nil {
		slog.Error("failed to resolve bot user id", "error", err)
		os.Exit(1)
	}
	slog.Info("startup: discord connected", "bot_user_id", botUserID)

	if err := dc.UpsertGuildSlashCommands(cfg.DiscordGuildID, bot.SlashCommandDefinitions()); err != nil {
		slog.Error("failed to upsert slash commands", "error", err, "guild_id", cfg.DiscordGuildID)
		os.Exit(1)
	}
	dc.RegisterSlashCommandHandler(handler.HandleSlashCommand)
	slog.Info("discord handlers registered", "guild_id", cfg.DiscordGuildID, "commands", []string{"ask"})
	return dc
}
