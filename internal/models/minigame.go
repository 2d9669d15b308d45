package models

import (
	"time"
)

// CrocoRound is one running word-explaining round. One per chat.
type CrocoRound struct {
	// ID is the unique identifier for the round
	ID string

	// ChatID is the chat the round is played in
	ChatID string

	// HostID is the player explaining the word
	HostID string

	// HostName is the host's display name
	HostName string

	// Word is the secret word the host explains
	Word string

	// CreatedAt is when the round started
	CreatedAt time.Time
}

// GallowsRound is one running hangman round. One per chat.
type GallowsRound struct {
	// ID is the unique identifier for the round
	ID string

	// ChatID is the chat the round is played in
	ChatID string

	// Word is the word being guessed
	Word string

	// Right maps a correctly guessed letter to the player who found it
	Right map[string]string

	// Wrong maps a wrong letter to the player who tried it
	Wrong map[string]string

	// Names maps player IDs to display names for the scoreboard
	Names map[string]string

	// MessageID is the board message the bot keeps editing
	MessageID string

	// CreatedAt is when the round started
	CreatedAt time.Time
}

// Revealed reports whether every letter of the word has been guessed
func (g *GallowsRound) Revealed() bool {
	for _, r := range g.Word {
		if _, ok := g.Right[string(r)]; !ok {
			return false
		}
	}
	return true
}
