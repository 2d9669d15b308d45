package poll

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/winterden/mafiabot/internal/repositories/poll Repository

import (
	"context"

	"github.com/winterden/mafiabot/internal/models"
)

// Repository defines the interface for majority-poll persistence
type Repository interface {
	// CreatePoll persists a new poll; fails when the chat already has an
	// open poll of the same kind
	CreatePoll(ctx context.Context, input *CreatePollInput) error

	// GetPoll retrieves the chat's open poll of the given kind
	GetPoll(ctx context.Context, input *GetPollInput) (*models.Poll, error)

	// AddVote records a player's vote, conditioned on the player not
	// having voted yet; returns the updated poll
	AddVote(ctx context.Context, input *AddVoteInput) (*models.Poll, error)

	// DeleteByChat discards every open poll in the chat
	DeleteByChat(ctx context.Context, input *DeleteByChatInput) error
}
