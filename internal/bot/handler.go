package bot

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/foxseedlab/videoqa/internal/chat"
	"github.com/foxseedlab/videoqa/internal/config"
	"github.com/foxseedlab/videoqa/internal/discord"
	"github.com/foxseedlab/videoqa/internal/search"
)

const (
	askTimeout     = 60 * time.Second
	maxSourceLinks = 3
)

type Asker interface {
	Ask(ctx context.Context, question string) chat.Result
}

type Handler struct {
	cfg   *config.Config
	asker Asker
}

func NewHandler(cfg *config.Config, asker Asker) *Handler {
	return &Handler{cfg: cfg, asker: asker}
}

func SlashCommandDefinitions() []discord.SlashCommandDefinition {
	return []discord.SlashCommandDefinition{
		{
			Name:        commandAsk,
			Description: commandAskDesc,
			Options: []discord.SlashCommandOption{
				{Name: optionQuestion, Description: optionQuestionDes, Required: true},
			},
		},
	}
}

func (h *Handler) HandleSlashCommand(event discord.SlashCommandEvent) {
	if event.GuildID != h.cfg.DiscordGuildID {
		slog.Info("ignoring slash command for different guild", "event_guild_id", event.GuildID, "configured_guild_id", h.cfg.DiscordGuildID)
		h.respondEphemeral(event, messageEphemeralWrongGuild)
		return
	}
	if event.CommandName != commandAsk {
		h.respondEphemeral(event, messageEphemeralUnknownCommand)
		return
	}
	question := strings.TrimSpace(event.Options[optionQuestion])
	if question == "" {
		h.respondEphemeral(event, messageEphemeralEmptyQuestion)
		return
	}

	if err := event.Defer(); err != nil {
		slog.Error("failed to defer slash command", "error", err, "user_id", event.UserID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()
	res := h.asker.Ask(ctx, question)

	if err := event.EditResponse(formatReply(res)); err != nil {
		slog.Error("failed to send slash command answer", "error", err, "user_id", event.UserID)
		if err := event.EditResponse(messageAskFailed); err != nil {
			slog.Error("failed to send slash command failure notice", "error", err, "user_id", event.UserID)
		}
	}
}

func (h *Handler) respondEphemeral(event discord.SlashCommandEvent, content string) {
	if err := event.RespondEphemeral(content); err != nil {
		slog.Error("failed to respond to slash command", "error", err, "command", event.CommandName, "user_id", event.UserID)
	}
}

func formatReply(res chat.Result) string {
	var sources []string
	for i, e := range res.Excerpts {
		if i == maxSourceLinks {
			break
		}
		sources = append(sources, sourceLine(i+1, e.Title, timestampLink(e), e.Timestamp))
	}

	// Sources are kept whole; the answer absorbs any truncation.
	var footer string
	if len(sources) > 0 {
		footer = "\n\n" + messageSourcesTitle + "\n" + strings.Join(sources, "\n")
	}
	budget := discord.MessageContentLimit - len([]rune(footer))
	if budget < len([]rune(messageTruncated)) {
		return truncate(res.Answer+footer, discord.MessageContentLimit)
	}
	return truncate(res.Answer, budget) + footer
}

func timestampLink(e search.Excerpt) string {
	sep := "?"
	if strings.Contains(e.URL, "?") {
		sep = "&"
	}
	return e.URL + sep + "t=" + strconv.Itoa(e.TimestampSeconds) + "s"
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	keep := limit - len([]rune(messageTruncated))
	return string(r[:keep]) + messageTruncated
}
