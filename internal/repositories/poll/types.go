package poll

import "github.com/winterden/mafiabot/internal/models"

type CreatePollInput struct {
	Poll *models.Poll
}

type GetPollInput struct {
	ChatID string
	Kind   models.PollKind
}

type AddVoteInput struct {
	ChatID   string
	Kind     models.PollKind
	PlayerID string
}

type DeleteByChatInput struct {
	ChatID string
}
