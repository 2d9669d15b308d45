package request

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/winterden/mafiabot/internal/repositories/request Repository

import (
	"context"

	"github.com/winterden/mafiabot/internal/models"
)

// Repository defines the interface for join-request persistence
type Repository interface {
	// CreateRequest persists a new request; fails when the chat has one
	CreateRequest(ctx context.Context, input *CreateRequestInput) error

	// GetRequest retrieves the chat's request
	GetRequest(ctx context.Context, input *GetRequestInput) (*models.JoinRequest, error)

	// DeleteRequest removes the chat's request and reports whether a
	// request was actually deleted
	DeleteRequest(ctx context.Context, input *DeleteRequestInput) (bool, error)

	// JoinRequest adds a player, conditioned on capacity and on the
	// player not already being in; joining refreshes the expiry
	JoinRequest(ctx context.Context, input *JoinRequestInput) (*models.JoinRequest, error)

	// LeaveRequest removes a player, conditioned on membership
	LeaveRequest(ctx context.Context, input *LeaveRequestInput) (*models.JoinRequest, error)

	// SetMessageID records the lobby message reference
	SetMessageID(ctx context.Context, input *SetMessageIDInput) error

	// ListExpired retrieves every request past its expiry
	ListExpired(ctx context.Context, input *ListExpiredInput) ([]*models.JoinRequest, error)
}
