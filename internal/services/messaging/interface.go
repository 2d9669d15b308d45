package messaging

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/winterden/mafiabot/internal/services/messaging Notifier

import (
	"context"
)

// Notifier defines the outbound chat transport used by the game engine.
//
// The engine renders text and button rows; the notifier owns how those map
// onto the chat platform. All identifiers are opaque strings.
type Notifier interface {
	// SendMessage posts a message to a chat and returns its reference
	SendMessage(ctx context.Context, input *SendMessageInput) (*SendMessageOutput, error)

	// EditMessage replaces the text and buttons of an existing message
	EditMessage(ctx context.Context, input *EditMessageInput) error

	// ClearButtons strips the buttons off an existing message, leaving
	// the text in place unless a replacement is given
	ClearButtons(ctx context.Context, input *ClearButtonsInput) error

	// DeleteMessage removes a message; missing messages are not an error
	DeleteMessage(ctx context.Context, input *DeleteMessageInput) error

	// SendPrivate delivers a message to one player's private channel.
	// When EditMessageID is set the existing message is edited in place;
	// if that fails a fresh message is sent instead.
	SendPrivate(ctx context.Context, input *SendPrivateInput) (*SendPrivateOutput, error)
}
