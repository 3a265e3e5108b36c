// Package simulate drives a running faceoff service over HTTP: it seeds
// items, plays casual verdicts with occasional undos, runs a tournament
// to completion, and verifies the results.
package simulate

import "time"

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Items    int           // Number of items to seed
	Verdicts int           // Number of casual verdicts to play
	UndoRate float64       // Probability a verdict is undone right after
	Workers  int           // Number of concurrent seeding workers
	Timeout  time.Duration // HTTP request timeout
	Seed     int64         // RNG seed; 0 means time-seeded
	LogFile  string        // Log file for simulation output
	Verbose  bool          // Enable verbose logging
}

// submission is the wire shape of one item to ingest.
type submission struct {
	Label  string `json:"label"`
	Source string `json:"source,omitempty"`
}

// batchRequest mirrors POST /items.
type batchRequest struct {
	Items []submission `json:"items"`
}

// batchAck mirrors the POST /items response.
type batchAck struct {
	Status     string `json:"status"`
	Accepted   int    `json:"accepted"`
	Duplicates int    `json:"duplicates"`
}

// item is the wire shape of a rated item.
type item struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Source      string  `json:"source,omitempty"`
	Rating      float64 `json:"rating"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Comparisons int     `json:"comparisons"`
}

// rankedEntry mirrors GET /items entries.
type rankedEntry struct {
	Rank int  `json:"rank"`
	Item item `json:"item"`
}

// pairView mirrors GET /pair.
type pairView struct {
	Mode            string `json:"mode"`
	Round           int    `json:"round"`
	Completed       bool   `json:"completed"`
	ChampionID      string `json:"champion_id"`
	PendingDeleteID string `json:"pending_delete_id"`
	A               *item  `json:"a"`
	B               *item  `json:"b"`
}

// verdictRequest mirrors POST /verdict.
type verdictRequest struct {
	WinnerID string `json:"winner_id"`
	LoserID  string `json:"loser_id"`
}

// verdictAck mirrors the POST /verdict response.
type verdictAck struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
	Winner *item  `json:"winner"`
	Loser  *item  `json:"loser"`
}

// undoAck mirrors the POST /undo response.
type undoAck struct {
	Undone bool `json:"undone"`
}

// tournamentView mirrors the /tournament responses.
type tournamentView struct {
	Phase          string   `json:"phase"`
	Round          int      `json:"round"`
	ActiveIDs      []string `json:"active_ids"`
	EliminatedIDs  []string `json:"eliminated_ids"`
	PendingMatches int      `json:"pending_matches"`
	ChampionID     string   `json:"champion_id"`
	LossLimit      int      `json:"loss_limit"`
}

// progressView mirrors GET /progress.
type progressView struct {
	Items       int     `json:"items"`
	UniquePairs int     `json:"unique_pairs"`
	MaxPairs    int     `json:"max_pairs"`
	Ratio       float64 `json:"ratio"`
	Verdicts    int     `json:"verdicts"`
}

// Stats holds simulation statistics.
type Stats struct {
	ItemsRequested     int
	ItemsAccepted      int
	ItemsDuplicate     int
	ItemsFailed        int
	VerdictsApplied    int
	UndosApplied       int
	TournamentMatches  int
	TournamentRounds   int
	ChampionID         string
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
