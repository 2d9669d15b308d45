package discord

import (
	"context"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/winterden/mafiabot/internal/models"
	"github.com/winterden/mafiabot/internal/services/croco"
	"github.com/winterden/mafiabot/internal/services/gallows"
	"github.com/winterden/mafiabot/internal/services/game"
)

// commandDefinitions lists the slash commands the bot registers
func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "mafia",
			Description: "Mafia game commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "gather",
					Description: "Open a join request for a new game",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Start the game from the open join request",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "mode",
							Description: "Game mode",
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "full", Value: string(models.GameModeFull)},
								{Name: "triad", Value: string(models.GameModeTriad)},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "cancel",
					Description: "Cancel the open join request",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "team",
					Description: "Privately see your mafia team",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stats",
					Description: "Show your stats in this chat",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "skip",
					Description: "Open a poll to skip the current stage",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "end",
					Description: "Open a poll to end the game",
				},
			},
		},
		{
			Name:        "croco",
			Description: "Start a word-explaining round",
		},
		{
			Name:        "gallows",
			Description: "Start a hangman round",
		},
	}
}

// handleInteraction dispatches slash commands and button presses
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(ctx, i)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(ctx, i)
	}
}

func (b *Bot) handleCommand(ctx context.Context, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	user := interactionUser(i)
	if user == nil {
		return
	}

	switch data.Name {
	case "mafia":
		b.handleMafiaCommand(ctx, i, data, user)
	case "croco":
		_, err := b.cfg.CrocoService.StartRound(ctx, &croco.StartRoundInput{
			ChatID:     i.ChannelID,
			PlayerID:   user.ID,
			PlayerName: displayName(i, user),
		})
		b.respond(i, "Round started, check your private messages.", err)
	case "gallows":
		_, err := b.cfg.GallowsService.StartRound(ctx, &gallows.StartRoundInput{
			ChatID: i.ChannelID,
		})
		b.respond(i, "Round started, guess letters in the chat.", err)
	}
}

func (b *Bot) handleMafiaCommand(ctx context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData, user *discordgo.User) {
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]

	switch sub.Name {
	case "gather":
		_, err := b.cfg.GameService.CreateRequest(ctx, &game.CreateRequestInput{
			ChatID:     i.ChannelID,
			PlayerID:   user.ID,
			PlayerName: displayName(i, user),
		})
		b.respond(i, "Recruitment opened.", err)
	case "start":
		mode := models.GameModeFull
		for _, opt := range sub.Options {
			if opt.Name == "mode" {
				mode = models.GameMode(opt.StringValue())
			}
		}
		_, err := b.cfg.GameService.StartGame(ctx, &game.StartGameInput{
			ChatID:   i.ChannelID,
			PlayerID: user.ID,
			Mode:     mode,
		})
		b.respond(i, "The game begins.", err)
	case "cancel":
		_, err := b.cfg.GameService.CancelRequest(ctx, &game.CancelRequestInput{
			ChatID:   i.ChannelID,
			PlayerID: user.ID,
		})
		b.respond(i, "Recruitment cancelled.", err)
	case "team":
		_, err := b.cfg.GameService.RevealTeam(ctx, &game.RevealTeamInput{
			ChatID:   i.ChannelID,
			PlayerID: user.ID,
		})
		b.respond(i, "Check your private messages.", err)
	case "stats":
		out, err := b.cfg.GameService.GetStats(ctx, &game.GetStatsInput{
			ChatID:   i.ChannelID,
			PlayerID: user.ID,
		})
		if err != nil {
			b.respond(i, "", err)
			return
		}
		b.respond(i, formatStats(out.Counters), nil)
	case "skip":
		_, err := b.cfg.GameService.StartPoll(ctx, &game.StartPollInput{
			ChatID:     i.ChannelID,
			PlayerID:   user.ID,
			PlayerName: displayName(i, user),
			Kind:       models.PollKindSkip,
		})
		b.respond(i, "Poll opened.", err)
	case "end":
		_, err := b.cfg.GameService.StartPoll(ctx, &game.StartPollInput{
			ChatID:     i.ChannelID,
			PlayerID:   user.ID,
			PlayerName: displayName(i, user),
			Kind:       models.PollKindEnd,
		})
		b.respond(i, "Poll opened.", err)
	}
}

// handleComponent routes button presses. The custom ID carries an action
// tag and, for target selections, a 0-based player index.
func (b *Bot) handleComponent(ctx context.Context, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if user == nil {
		return
	}

	customID := i.MessageComponentData().CustomID
	parts := strings.Fields(customID)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "join":
		_, err := b.cfg.GameService.JoinRequest(ctx, &game.JoinRequestInput{
			ChatID:     i.ChannelID,
			PlayerID:   user.ID,
			PlayerName: displayName(i, user),
		})
		b.respond(i, "You are in.", err)
	case "leave":
		_, err := b.cfg.GameService.LeaveRequest(ctx, &game.LeaveRequestInput{
			ChatID:   i.ChannelID,
			PlayerID: user.ID,
		})
		b.respond(i, "You are out.", err)
	case "start":
		_, err := b.cfg.GameService.StartGame(ctx, &game.StartGameInput{
			ChatID:   i.ChannelID,
			PlayerID: user.ID,
		})
		b.respond(i, "The game begins.", err)
	case "card":
		_, err := b.cfg.GameService.ClaimCard(ctx, &game.ClaimCardInput{
			ChatID:   i.ChannelID,
			PlayerID: user.ID,
		})
		b.respond(i, "Your card is in your private messages.", err)
	case "vote":
		if len(parts) < 2 {
			return
		}
		target := models.AbstainTarget
		if parts[1] != "abstain" {
			n, err := strconv.Atoi(parts[1])
			if err != nil {
				return
			}
			target = n
		}
		_, err := b.cfg.GameService.Vote(ctx, &game.VoteInput{
			ChatID:  i.ChannelID,
			VoterID: user.ID,
			Target:  target,
		})
		b.respond(i, "Vote counted.", err)
	case "act":
		// Night prompts live in private messages, so the custom ID
		// carries the game's chat ID alongside the target index.
		if len(parts) < 3 {
			return
		}
		target, err := strconv.Atoi(parts[2])
		if err != nil {
			return
		}
		_, actErr := b.cfg.GameService.UseAbility(ctx, &game.UseAbilityInput{
			ChatID:  parts[1],
			ActorID: user.ID,
			Target:  target,
		})
		b.respond(i, "Your choice is made.", actErr)
	case "poll":
		if len(parts) < 2 {
			return
		}
		kind := models.PollKindSkip
		if parts[1] == "end" {
			kind = models.PollKindEnd
		}
		_, err := b.cfg.GameService.VotePoll(ctx, &game.VotePollInput{
			ChatID:   i.ChannelID,
			PlayerID: user.ID,
			Kind:     kind,
		})
		b.respond(i, "Vote counted.", err)
	}
}

// handleMessage feeds chat text into the mini-games
func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Content == "" {
		return
	}

	ctx := context.Background()

	_, err := b.cfg.CrocoService.Suggest(ctx, &croco.SuggestInput{
		ChatID:     m.ChannelID,
		PlayerID:   m.Author.ID,
		PlayerName: m.Author.Username,
		Text:       m.Content,
	})
	if err != nil && !errorsIsUserFacing(err) {
		zap.S().Debugw("croco suggest failed", "chat_id", m.ChannelID, "error", err)
	}

	_, err = b.cfg.GallowsService.Suggest(ctx, &gallows.SuggestInput{
		ChatID:     m.ChannelID,
		PlayerID:   m.Author.ID,
		PlayerName: m.Author.Username,
		Text:       m.Content,
	})
	if err != nil && !errorsIsUserFacing(err) {
		zap.S().Debugw("gallows suggest failed", "chat_id", m.ChannelID, "error", err)
	}
}
