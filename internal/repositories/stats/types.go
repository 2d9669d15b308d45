package stats

type IncrementStatsInput struct {
	ChatID   string
	PlayerID string

	// Name refreshes the stored display name
	Name string

	// Increments maps counter field to delta, e.g. "mafia.total" -> 1
	Increments map[string]int64
}

type GetStatsInput struct {
	ChatID   string
	PlayerID string
}
