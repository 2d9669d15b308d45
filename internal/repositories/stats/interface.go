package stats

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/winterden/mafiabot/internal/repositories/stats Repository

import "context"

// Repository defines the interface for per-chat player statistics.
// Counters are write-only from the game's point of view; the read-side
// leaderboard surface is out of scope.
type Repository interface {
	// IncrementStats applies counter increments for one player in one chat
	IncrementStats(ctx context.Context, input *IncrementStatsInput) error

	// GetStats retrieves a player's counters in one chat
	GetStats(ctx context.Context, input *GetStatsInput) (map[string]int64, error)
}
