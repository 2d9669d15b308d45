package minigame

import "github.com/winterden/mafiabot/internal/models"

type CreateCrocoInput struct {
	Round *models.CrocoRound
}

type GetCrocoInput struct {
	ChatID string
}

type DeleteCrocoInput struct {
	ChatID string
}

type CreateGallowsInput struct {
	Round *models.GallowsRound
}

type GetGallowsInput struct {
	ChatID string
}

type DeleteGallowsInput struct {
	ChatID string
}

type SubmitLetterInput struct {
	ChatID string

	// Letter is a single lower-cased letter
	Letter string

	// Correct is whether the letter occurs in the word
	Correct bool

	// PlayerID and PlayerName credit the guesser on the scoreboard
	PlayerID   string
	PlayerName string
}

type SetGallowsMessageIDInput struct {
	ChatID    string
	MessageID string
}
