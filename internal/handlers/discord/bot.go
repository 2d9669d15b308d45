package discord

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/winterden/mafiabot/internal/services/croco"
	"github.com/winterden/mafiabot/internal/services/gallows"
	"github.com/winterden/mafiabot/internal/services/game"
)

// Bot glues Discord interactions to the game services
type Bot struct {
	session    *discordgo.Session
	cfg        *Config
	commandIDs map[string]string
}

// Config holds the configuration for the bot
type Config struct {
	// Discord session, shared with the notifier
	Session *discordgo.Session

	// Application ID for command registration
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Game service
	GameService game.Service

	// Croco service
	CrocoService croco.Service

	// Gallows service
	GallowsService gallows.Service
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Session == nil {
		return nil, errors.New("discord session cannot be nil")
	}
	if cfg.GameService == nil {
		return nil, errors.New("game service cannot be nil")
	}
	if cfg.CrocoService == nil {
		return nil, errors.New("croco service cannot be nil")
	}
	if cfg.GallowsService == nil {
		return nil, errors.New("gallows service cannot be nil")
	}

	bot := &Bot{
		session:    cfg.Session,
		cfg:        cfg,
		commandIDs: make(map[string]string),
	}

	cfg.Session.AddHandler(bot.handleInteraction)
	cfg.Session.AddHandler(bot.handleMessage)

	return bot, nil
}

// Start opens the Discord connection and registers the slash commands
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	appID := b.cfg.ApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	for _, cmd := range commandDefinitions() {
		registered, err := b.session.ApplicationCommandCreate(appID, b.cfg.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
		b.commandIDs[cmd.Name] = registered.ID
	}

	zap.S().Infow("bot is running", "commands", len(b.commandIDs))
	return nil
}

// Stop removes the registered commands and closes the connection
func (b *Bot) Stop() error {
	appID := b.cfg.ApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	for name, id := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, b.cfg.GuildID, id); err != nil {
			zap.S().Warnw("failed to delete command", "command", name, "error", err)
		}
	}

	return b.session.Close()
}
