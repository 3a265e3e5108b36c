// Package model contains domain models passed between layers.
package model

// Item is one ranked entry in the arena. IDs are UUID strings assigned
// at ingestion and stable for the item's lifetime.
type Item struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Source      string  `json:"source,omitempty"` // external asset reference, opaque to the engine
	Rating      float64 `json:"rating"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Comparisons int     `json:"comparisons"`
}

// Submission is an incoming item spec prior to admission. Source
// carries the external reference used for ingest idempotency; it may
// be empty, in which case no dedup applies.
type Submission struct {
	Label  string `json:"label"`
	Source string `json:"source,omitempty"`
}

// Verdict is the outcome of a single comparison between two items.
type Verdict struct {
	WinnerID string `json:"winner_id"`
	LoserID  string `json:"loser_id"`
}

// Match is an ordered tournament pairing. A and B are item IDs.
type Match struct {
	A string `json:"a"`
	B string `json:"b"`
}

// TournamentState is the serializable bracket state. A nil state means
// no tournament is running.
type TournamentState struct {
	Seed          []string `json:"seed"`
	ActiveIDs     []string `json:"active_ids"`
	EliminatedIDs []string `json:"eliminated_ids"`
	MatchQueue    []Match  `json:"match_queue"`
	CurrentRound  int      `json:"current_round"`
	ChampionID    string   `json:"champion_id,omitempty"`
}

// Export is the whole-state interchange payload. Version identifies the
// schema; readers reject unknown versions wholesale.
type Export struct {
	Version    int              `json:"version"`
	Items      []Item           `json:"items"`
	SeenPairs  map[string]int   `json:"seenPairs"`
	Tournament *TournamentState `json:"tournament"`
	ExportedAt string           `json:"exportedAt"`
}

// ExportVersion is the current Export schema version.
const ExportVersion = 1
