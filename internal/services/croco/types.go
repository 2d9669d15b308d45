package croco

import (
	"github.com/winterden/mafiabot/internal/common/clock"
	"github.com/winterden/mafiabot/internal/common/uuid"
	"github.com/winterden/mafiabot/internal/models"
	minigameRepo "github.com/winterden/mafiabot/internal/repositories/minigame"
	statsRepo "github.com/winterden/mafiabot/internal/repositories/stats"
	"github.com/winterden/mafiabot/internal/services/messaging"
	"github.com/winterden/mafiabot/internal/words"
)

// Config holds configuration for the croco service
type Config struct {
	// Mini-game repository
	MinigameRepo minigameRepo.Repository

	// Stats repository
	StatsRepo statsRepo.Repository

	// Outbound chat transport
	Notifier messaging.Notifier

	// Word source
	Words words.Source

	// Clock
	Clock clock.Clock

	// UUID generator
	UUID uuid.UUID
}

type StartRoundInput struct {
	ChatID     string
	PlayerID   string
	PlayerName string
}

type StartRoundOutput struct {
	Round *models.CrocoRound
}

type SuggestInput struct {
	ChatID     string
	PlayerID   string
	PlayerName string

	// Text is the chat message to scan for the secret word
	Text string
}

type SuggestOutput struct {
	// Guessed reports whether the message ended the round
	Guessed bool
}
