package game

import (
	"time"

	"github.com/winterden/mafiabot/internal/common/clock"
	"github.com/winterden/mafiabot/internal/common/random"
	"github.com/winterden/mafiabot/internal/common/uuid"
	"github.com/winterden/mafiabot/internal/models"
	gameRepo "github.com/winterden/mafiabot/internal/repositories/game"
	pollRepo "github.com/winterden/mafiabot/internal/repositories/poll"
	requestRepo "github.com/winterden/mafiabot/internal/repositories/request"
	statsRepo "github.com/winterden/mafiabot/internal/repositories/stats"
	"github.com/winterden/mafiabot/internal/services/messaging"
)

// Config holds configuration for the game service
type Config struct {
	// Game repository
	GameRepo gameRepo.Repository

	// Join-request repository
	RequestRepo requestRepo.Repository

	// Poll repository
	PollRepo pollRepo.Repository

	// Stats repository
	StatsRepo statsRepo.Repository

	// Outbound chat transport
	Notifier messaging.Notifier

	// Clock for deadline math
	Clock clock.Clock

	// UUID generator
	UUID uuid.UUID

	// Random source for shuffles, events and kamikaze revenge
	Random *random.Source

	// Minimum number of players needed to start
	MinPlayers int

	// Maximum number of players per game
	MaxPlayers int

	// NightActionDuration is how long each night role stage lasts
	NightActionDuration time.Duration

	// DayDuration is the first day's discussion length; later days get half
	DayDuration time.Duration

	// VoteDuration is the day vote length
	VoteDuration time.Duration

	// RequestTTL is how long a join request stays open without activity
	RequestTTL time.Duration
}

type CreateRequestInput struct {
	ChatID     string
	PlayerID   string
	PlayerName string
}

type CreateRequestOutput struct {
	Request *models.JoinRequest
}

type JoinRequestInput struct {
	ChatID     string
	PlayerID   string
	PlayerName string
}

type JoinRequestOutput struct {
	Request *models.JoinRequest
}

type LeaveRequestInput struct {
	ChatID   string
	PlayerID string
}

type LeaveRequestOutput struct {
	Request *models.JoinRequest
}

type CancelRequestInput struct {
	ChatID   string
	PlayerID string
}

type CancelRequestOutput struct{}

type StartGameInput struct {
	ChatID   string
	PlayerID string

	// Mode selects the role composition; empty defaults to full
	Mode models.GameMode
}

type StartGameOutput struct {
	Game *models.Game
}

type ClaimCardInput struct {
	ChatID   string
	PlayerID string
}

type ClaimCardOutput struct {
	// Role is the claimed role
	Role models.RoleKind
}

type RevealTeamInput struct {
	ChatID   string
	PlayerID string
}

type RevealTeamOutput struct{}

type VoteInput struct {
	ChatID  string
	VoterID string

	// Target is the 0-based player index, or models.AbstainTarget
	Target int
}

type VoteOutput struct{}

type UseAbilityInput struct {
	ChatID  string
	ActorID string

	// Target is the 0-based player index
	Target int
}

type UseAbilityOutput struct{}

type StartPollInput struct {
	ChatID     string
	PlayerID   string
	PlayerName string
	Kind       models.PollKind
}

type StartPollOutput struct {
	Poll *models.Poll
}

type VotePollInput struct {
	ChatID   string
	PlayerID string
	Kind     models.PollKind
}

type VotePollOutput struct {
	// Passed reports whether this vote reached the majority
	Passed bool
}

type GetGameInput struct {
	ChatID string
}

type GetGameOutput struct {
	Game *models.Game
}

type GetStatsInput struct {
	ChatID   string
	PlayerID string
}

type GetStatsOutput struct {
	// Counters maps stat field to count
	Counters map[string]int64
}
