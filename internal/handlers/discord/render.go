package discord

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/winterden/mafiabot/internal/services/croco"
	"github.com/winterden/mafiabot/internal/services/gallows"
	"github.com/winterden/mafiabot/internal/services/game"
)

// respond answers an interaction ephemerally: the success text when err
// is nil, the mapped rejection otherwise
func (b *Bot) respond(i *discordgo.InteractionCreate, success string, err error) {
	text := success
	if err != nil {
		text = errorText(err)
	}

	respondErr := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: text,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if respondErr != nil {
		zap.S().Debugw("failed to respond to interaction", "error", respondErr)
	}
}

// errorText maps service rejections to player-facing notices. Unknown
// errors get a generic line and a log entry.
func errorText(err error) string {
	userFacing := []error{
		game.ErrRequestNotFound,
		game.ErrRequestExists,
		game.ErrGameNotFound,
		game.ErrGameExists,
		game.ErrNotEnoughPlayers,
		game.ErrTriadSize,
		game.ErrNotOwner,
		game.ErrNotInGame,
		game.ErrDead,
		game.ErrWrongStage,
		game.ErrWrongRole,
		game.ErrAlreadyActed,
		game.ErrBlocked,
		game.ErrSilenced,
		game.ErrBadTarget,
		game.ErrCardTaken,
		game.ErrPollNotFound,
		game.ErrPollExists,
		game.ErrAlreadyVoted,
		croco.ErrRoundNotFound,
		croco.ErrRoundExists,
		gallows.ErrRoundNotFound,
		gallows.ErrRoundExists,
	}
	for _, known := range userFacing {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	zap.S().Errorw("command failed", "error", err)
	return "Something went wrong, try again."
}

// errorsIsUserFacing reports whether a mini-game error is an expected
// no-round condition rather than a failure worth logging
func errorsIsUserFacing(err error) bool {
	return errors.Is(err, croco.ErrRoundNotFound) || errors.Is(err, gallows.ErrRoundNotFound)
}

// interactionUser extracts the acting user from a guild or DM interaction
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// displayName prefers the guild nickname over the account name
func displayName(i *discordgo.InteractionCreate, user *discordgo.User) string {
	if i.Member != nil && i.Member.Nick != "" {
		return i.Member.Nick
	}
	return user.Username
}

// formatStats renders the per-chat counters, sorted by field name
func formatStats(counters map[string]int64) string {
	if len(counters) == 0 {
		return "No stats in this chat yet."
	}

	fields := make([]string, 0, len(counters))
	for field := range counters {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	lines := make([]string, 0, len(fields))
	for _, field := range fields {
		lines = append(lines, fmt.Sprintf("%s: %d", field, counters[field]))
	}
	return strings.Join(lines, "\n")
}
