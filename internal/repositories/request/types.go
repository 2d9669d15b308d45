package request

import (
	"time"

	"github.com/winterden/mafiabot/internal/models"
)

type CreateRequestInput struct {
	Request *models.JoinRequest
}

type GetRequestInput struct {
	ChatID string
}

type DeleteRequestInput struct {
	ChatID string
}

type JoinRequestInput struct {
	ChatID string
	Player *models.Player

	// Capacity is the maximum number of joined players
	Capacity int

	// ExpiresAt refreshes the request's expiry on a successful join
	ExpiresAt time.Time
}

type LeaveRequestInput struct {
	ChatID   string
	PlayerID string
}

type SetMessageIDInput struct {
	ChatID    string
	MessageID string
}

type ListExpiredInput struct {
	Now time.Time
}
