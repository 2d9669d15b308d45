package game

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/winterden/mafiabot/internal/services/game Service

import "context"

// Service defines the interface for the mafia game engine
type Service interface {
	// CreateRequest opens a join request in the chat
	CreateRequest(ctx context.Context, input *CreateRequestInput) (*CreateRequestOutput, error)

	// JoinRequest adds a player to the chat's join request
	JoinRequest(ctx context.Context, input *JoinRequestInput) (*JoinRequestOutput, error)

	// LeaveRequest removes a player from the chat's join request
	LeaveRequest(ctx context.Context, input *LeaveRequestInput) (*LeaveRequestOutput, error)

	// CancelRequest discards the chat's join request; owner only
	CancelRequest(ctx context.Context, input *CancelRequestInput) (*CancelRequestOutput, error)

	// StartGame promotes the join request into a running game
	StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error)

	// ClaimCard assigns the caller their pre-shuffled role during the lobby
	ClaimCard(ctx context.Context, input *ClaimCardInput) (*ClaimCardOutput, error)

	// RevealTeam privately sends a mafia-aligned player their living team
	RevealTeam(ctx context.Context, input *RevealTeamInput) (*RevealTeamOutput, error)

	// Vote records the caller's day vote; re-voting overwrites
	Vote(ctx context.Context, input *VoteInput) (*VoteOutput, error)

	// UseAbility records the caller's night action for the current stage
	UseAbility(ctx context.Context, input *UseAbilityInput) (*UseAbilityOutput, error)

	// StartPoll opens a skip or end majority poll
	StartPoll(ctx context.Context, input *StartPollInput) (*StartPollOutput, error)

	// VotePoll adds the caller's vote to an open poll
	VotePoll(ctx context.Context, input *VotePollInput) (*VotePollOutput, error)

	// GetGame retrieves the chat's running game
	GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error)

	// GetStats retrieves a player's per-chat counters
	GetStats(ctx context.Context, input *GetStatsInput) (*GetStatsOutput, error)

	// Tick advances every game whose deadline has elapsed
	Tick(ctx context.Context) error

	// RefreshCountdowns re-renders the discussion countdown; UI only
	RefreshCountdowns(ctx context.Context) error

	// SweepRequests deletes expired join requests
	SweepRequests(ctx context.Context) error

	// Run drives the three background loops until the context is done
	Run(ctx context.Context)
}
