package minigame

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/winterden/mafiabot/internal/repositories/minigame Repository

import (
	"context"

	"github.com/winterden/mafiabot/internal/models"
)

// Repository defines the interface for mini-game round persistence
type Repository interface {
	// CreateCroco persists a new croco round; fails when one is running
	CreateCroco(ctx context.Context, input *CreateCrocoInput) error

	// GetCroco retrieves the chat's croco round
	GetCroco(ctx context.Context, input *GetCrocoInput) (*models.CrocoRound, error)

	// DeleteCroco removes the chat's croco round and reports whether it
	// still existed; concurrent finishers race on this
	DeleteCroco(ctx context.Context, input *DeleteCrocoInput) (bool, error)

	// CreateGallows persists a new gallows round; fails when one is
	// running
	CreateGallows(ctx context.Context, input *CreateGallowsInput) error

	// GetGallows retrieves the chat's gallows round
	GetGallows(ctx context.Context, input *GetGallowsInput) (*models.GallowsRound, error)

	// DeleteGallows removes the chat's gallows round and reports whether
	// it still existed
	DeleteGallows(ctx context.Context, input *DeleteGallowsInput) (bool, error)

	// SubmitLetter records a letter guess, conditioned on the letter not
	// having been tried yet; returns the updated round
	SubmitLetter(ctx context.Context, input *SubmitLetterInput) (*models.GallowsRound, error)

	// SetGallowsMessageID records the board message reference
	SetGallowsMessageID(ctx context.Context, input *SetGallowsMessageIDInput) error
}
