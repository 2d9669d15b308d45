package croco

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/winterden/mafiabot/internal/services/croco Service

import "context"

// Service defines the interface for the word-explaining mini-game
type Service interface {
	// StartRound makes the caller the host and deals them a secret word
	StartRound(ctx context.Context, input *StartRoundInput) (*StartRoundOutput, error)

	// Suggest scans a chat message for the secret word and ends the
	// round when it appears
	Suggest(ctx context.Context, input *SuggestInput) (*SuggestOutput, error)
}
