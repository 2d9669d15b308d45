package game

import (
	"time"

	"github.com/winterden/mafiabot/internal/models"
)

type CreateGameInput struct {
	Game *models.Game
}

type GetGameInput struct {
	ChatID string
}

type DeleteGameInput struct {
	ChatID string
}

type ListExpiredInput struct {
	Now time.Time
}

type ListByStageInput struct {
	Stage int
}

type AdvanceStageInput struct {
	ChatID string

	// FromStage is the stage the caller observed; the advance only
	// applies while the stored game is still in it
	FromStage int

	// ToStage is the stage being entered
	ToStage int

	// Deadline is the new automatic-advance deadline
	Deadline time.Time

	// ClearBuffers resets every per-phase action buffer (night start)
	ClearBuffers bool

	// Event is the night event to set when ClearBuffers is true
	Event models.NightEvent

	// IncrementDay bumps the day counter (cycle wrap)
	IncrementDay bool
}

type PushDeadlineInput struct {
	ChatID   string
	Deadline time.Time
}

type RecordNightActionInput struct {
	ChatID string

	// Stage the actor observed; the write only applies while current
	Stage int

	// ActorID is the acting player; recorded into played
	ActorID string

	// Action selects the buffer written to
	Action models.NightAction

	// Target is the target player index
	Target int
}

type RecordVoteInput struct {
	ChatID string
	Stage  int

	// VoterIndex is the voting player's index
	VoterIndex int

	// Target is the voted player index, or models.AbstainTarget
	Target int
}

type ClaimCardInput struct {
	ChatID      string
	PlayerIndex int
}

type SavePlayersInput struct {
	ChatID  string
	Players []*models.Player
}

type SetMessageIDInput struct {
	ChatID    string
	MessageID string
}

type SetPlayerPMInput struct {
	ChatID      string
	PlayerIndex int
	PMID        string
}
