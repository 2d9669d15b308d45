package game

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/winterden/mafiabot/internal/repositories/game Repository

import (
	"context"

	"github.com/winterden/mafiabot/internal/models"
)

// Repository defines the interface for game data persistence.
//
// Every mutation that the game rules require to be race-free is exposed as
// a typed conditional operation: the update only applies when the caller's
// precondition still holds against the stored document, and the stored
// document is the sole synchronization primitive. Free-form patches are
// deliberately not part of this contract.
type Repository interface {
	// CreateGame persists a new game; fails when the chat already has one
	CreateGame(ctx context.Context, input *CreateGameInput) error

	// GetGame retrieves the chat's game
	GetGame(ctx context.Context, input *GetGameInput) (*models.Game, error)

	// DeleteGame removes the chat's game
	DeleteGame(ctx context.Context, input *DeleteGameInput) error

	// ListExpired retrieves every game whose deadline has elapsed
	ListExpired(ctx context.Context, input *ListExpiredInput) ([]*models.Game, error)

	// ListByStage retrieves every game currently in the given stage
	ListByStage(ctx context.Context, input *ListByStageInput) ([]*models.Game, error)

	// AdvanceStage moves the game to the next stage, conditioned on the
	// game still being in the expected one. Exactly one of two racing
	// advances with the same pre-image succeeds; the loser gets
	// ErrStageConflict.
	AdvanceStage(ctx context.Context, input *AdvanceStageInput) (*models.Game, error)

	// PushDeadline moves the game's deadline forward without touching
	// any other state
	PushDeadline(ctx context.Context, input *PushDeadlineInput) error

	// RecordNightAction appends a night action to its buffer and marks
	// the actor as having played, conditioned on the stage matching and
	// the actor not having played yet
	RecordNightAction(ctx context.Context, input *RecordNightActionInput) (*models.Game, error)

	// RecordVote stores the voter's current choice, conditioned on the
	// stage matching; re-voting overwrites the previous choice
	RecordVote(ctx context.Context, input *RecordVoteInput) (*models.Game, error)

	// ClaimCard assigns the pre-shuffled role at the player's position,
	// conditioned on the role still being unclaimed
	ClaimCard(ctx context.Context, input *ClaimCardInput) (*models.Game, error)

	// SavePlayers persists the player list after a resolution step
	SavePlayers(ctx context.Context, input *SavePlayersInput) error

	// SetMessageID records the scoreboard message reference
	SetMessageID(ctx context.Context, input *SetMessageIDInput) error

	// SetPlayerPM records a player's private-message reference
	SetPlayerPM(ctx context.Context, input *SetPlayerPMInput) error
}
