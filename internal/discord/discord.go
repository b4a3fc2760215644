package discord

import "context"

// MessageContentLimit is the maximum length of a Discord message body.
const MessageContentLimit = 2000

type SlashCommandOption struct {
	Name        string
	Description string
	Required    bool
}

// SlashCommandDefinition describes a guild command whose options are all strings.
type SlashCommandDefinition struct {
	Name        string
	Description string
	Options     []SlashCommandOption
}

type SlashCommandEvent struct {
	GuildID     string
	ChannelID   string
	CommandName string
	UserID      string
	Options     map[string]string

	RespondEphemeral func(content string) error
	// Defer acknowledges the interaction so the reply can be sent later with EditResponse.
	Defer        func() error
	EditResponse func(content string) error
}

type Client interface {
	Connect(ctx context.Context) error
	Close() error
	RegisterSlashCommandHandler(handler func(SlashCommandEvent))
	UpsertGuildSlashCommands(guildID string, defs []SlashCommandDefinition) error
	GetBotUserID() (string, error)
}
