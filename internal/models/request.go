package models

import (
	"time"
)

// JoinRequest is the pre-game lobby object. It has its own lifecycle,
// separate from Game: created by the first player's create command,
// mutated by join/leave, destroyed on cancel, expiry or promotion into a
// Game at start.
type JoinRequest struct {
	// ID is the unique identifier for the request
	ID string

	// ChatID is the chat the request belongs to; one request per chat
	ChatID string

	// Owner is the player who created the request
	Owner *Player

	// Players is the ordered list of joined players
	Players []*Player

	// ExpiresAt is when the request is swept if not started
	ExpiresAt time.Time

	// MessageID is the lobby message the bot keeps editing
	MessageID string

	// CreatedAt is when the request was created
	CreatedAt time.Time
}

// HasPlayer reports whether the player has joined the request
func (r *JoinRequest) HasPlayer(playerID string) bool {
	for _, p := range r.Players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}
