package gallows

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/winterden/mafiabot/internal/services/gallows Service

import "context"

// Service defines the interface for the hangman mini-game
type Service interface {
	// StartRound opens a round with a fresh word and posts the board
	StartRound(ctx context.Context, input *StartRoundInput) (*StartRoundOutput, error)

	// Suggest handles a letter or whole-word guess
	Suggest(ctx context.Context, input *SuggestInput) (*SuggestOutput, error)
}
