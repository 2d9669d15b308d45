package models

import (
	"time"
)

// PollKind is the decision a majority poll is about
type PollKind string

const (
	// PollKindSkip skips the current stage when the poll passes
	PollKindSkip PollKind = "skip"

	// PollKindEnd terminates the game when the poll passes
	PollKindEnd PollKind = "end"
)

// Poll is a chat-scoped majority vote over a skip/end decision. Polls do
// not carry across phases; every phase transition discards the chat's
// open polls.
type Poll struct {
	// ID is the unique identifier for the poll
	ID string

	// ChatID is the chat the poll belongs to
	ChatID string

	// Kind is the decision being voted on
	Kind PollKind

	// MessageID is the poll message carrying the vote button
	MessageID string

	// VoterIDs holds the players that already voted, each at most once
	VoterIDs []string

	// Required is the number of votes needed for the poll to pass
	Required int

	// CreatedAt is when the poll was opened
	CreatedAt time.Time
}

// HasVoted reports whether the player already voted in this poll
func (p *Poll) HasVoted(playerID string) bool {
	for _, id := range p.VoterIDs {
		if id == playerID {
			return true
		}
	}
	return false
}
