package messaging

// Button is one pressable option under a message
type Button struct {
	// Label is the visible caption
	Label string

	// Action is the opaque callback payload delivered on press
	Action string
}

type SendMessageInput struct {
	// ChatID is the destination channel
	ChatID string

	// Text is the message body
	Text string

	// Buttons holds the button rows, outer slice per row
	Buttons [][]Button
}

type SendMessageOutput struct {
	// MessageID references the posted message
	MessageID string
}

type EditMessageInput struct {
	ChatID    string
	MessageID string
	Text      string
	Buttons   [][]Button
}

type ClearButtonsInput struct {
	ChatID    string
	MessageID string

	// Text optionally replaces the message body; empty keeps it
	Text string
}

type DeleteMessageInput struct {
	ChatID    string
	MessageID string
}

type SendPrivateInput struct {
	// UserID is the recipient player
	UserID string

	// EditMessageID, when set, is the private message to edit in place
	EditMessageID string

	Text    string
	Buttons [][]Button
}

type SendPrivateOutput struct {
	// MessageID references the delivered private message
	MessageID string
}
