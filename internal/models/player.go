package models

// Player represents a participant in a mafia game, embedded in the game
// document
type Player struct {
	// ID is the chat user ID of the player
	ID string

	// Name is the display name of the player
	Name string

	// Role is the role claimed from the shuffled card sequence; empty
	// until the player takes their card in the lobby
	Role RoleKind

	// Alive is false once the player has been killed or executed; it
	// never transitions back to true
	Alive bool

	// PMID is the last private message sent to the player, edited in
	// place for night-action keyboards
	PMID string
}
