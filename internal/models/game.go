package models

import (
	"time"
)

// AbstainTarget is the vote target recorded for an abstention. It is a
// valid non-vote, never a candidate.
const AbstainTarget = -1

// GameMode selects the role composition used when dealing
type GameMode string

const (
	// GameModeFull is the standard game with the complete role pool
	GameModeFull GameMode = "full"

	// GameModeTriad is the three-player santa/elf/dark-elf variant
	GameModeTriad GameMode = "triad"
)

// NightEvent is a random modifier rolled at night start
type NightEvent string

const (
	// NightEventNone means no event is active this cycle
	NightEventNone NightEvent = ""

	// NightEventBlizzard is the blizzard modifier
	NightEventBlizzard NightEvent = "blizzard"

	// NightEventBonfire is the bonfire modifier
	NightEventBonfire NightEvent = "bonfire"

	// NightEventFirework is the firework modifier
	NightEventFirework NightEvent = "firework"
)

// Game is one running mafia game. There is at most one per chat.
//
// Player order is significant: it defines the 1-based numbering used in
// every target-selection UI and is never re-sorted. All target buffers
// hold player indexes into Players.
type Game struct {
	// ID is the unique identifier for the game
	ID string

	// ChatID is the chat the game is being played in
	ChatID string

	// Mode selects the role composition
	Mode GameMode

	// Stage is the current phase identifier in the stage table
	Stage int

	// DayCount increments every time the stage cycle wraps back to day
	DayCount int

	// Players is the ordered player list; order defines player numbering
	Players []*Player

	// Cards is the shuffled role sequence, parallel to Players at deal time
	Cards []RoleKind

	// Votes maps voter index to target index; -1 records an abstention.
	// Re-voting overwrites the previous entry.
	Votes map[int]int

	// Shots holds mafia shot targets, one entry per shooter
	Shots []int

	// Heals holds doctor heal targets
	Heals []int

	// Shields holds snowman shield targets
	Shields []int

	// Blessings holds angel protection targets
	Blessings []int

	// Blocks holds the player IDs whose night action was blocked
	Blocks []string

	// Silenced holds the player indexes muted for the next day vote
	Silenced []int

	// Stolen holds grinch theft targets
	Stolen []int

	// Tracks holds tracker targets
	Tracks []int

	// HiddenShadows holds the player indexes hidden from checks tonight
	HiddenShadows []int

	// Played holds the player IDs that already acted this phase
	Played []string

	// CurrentEvent is the active random modifier, if any
	CurrentEvent NightEvent

	// Deadline is the wall-clock time of the next automatic advance
	Deadline time.Time

	// MessageID is the scoreboard message the bot keeps editing
	MessageID string

	// CreatedAt is when the game was created
	CreatedAt time.Time

	// UpdatedAt is when the game was last updated
	UpdatedAt time.Time
}

// PlayerIndex returns the index of the player with the given ID, or -1
func (g *Game) PlayerIndex(playerID string) int {
	for i, p := range g.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// PlayerAt returns the player at the given index, or nil when out of range
func (g *Game) PlayerAt(index int) *Player {
	if index < 0 || index >= len(g.Players) {
		return nil
	}
	return g.Players[index]
}

// AlivePlayers returns the living players in table order
func (g *Game) AlivePlayers() []*Player {
	alive := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		if p.Alive {
			alive = append(alive, p)
		}
	}
	return alive
}

// HasPlayed reports whether the player already acted this phase
func (g *Game) HasPlayed(playerID string) bool {
	for _, id := range g.Played {
		if id == playerID {
			return true
		}
	}
	return false
}

// IsBlocked reports whether the player's night action was blocked
func (g *Game) IsBlocked(playerID string) bool {
	for _, id := range g.Blocks {
		if id == playerID {
			return true
		}
	}
	return false
}

// IsSilenced reports whether the player index is muted for the day vote
func (g *Game) IsSilenced(index int) bool {
	for _, i := range g.Silenced {
		if i == index {
			return true
		}
	}
	return false
}

// IsHidden reports whether the player index is hidden from checks tonight
func (g *Game) IsHidden(index int) bool {
	for _, i := range g.HiddenShadows {
		if i == index {
			return true
		}
	}
	return false
}

// ClearNightBuffers resets every per-phase action buffer. This happens
// exactly once per cycle, at night-start entry.
func (g *Game) ClearNightBuffers() {
	g.Votes = map[int]int{}
	g.Shots = []int{}
	g.Heals = []int{}
	g.Shields = []int{}
	g.Blessings = []int{}
	g.Blocks = []string{}
	g.Silenced = []int{}
	g.Stolen = []int{}
	g.Tracks = []int{}
	g.HiddenShadows = []int{}
	g.Played = []string{}
	g.CurrentEvent = NightEventNone
}
