package simulate

import (
	"context"
	"fmt"
	"log"
)

// verifyResults checks the finished tournament and the leaderboard
// against the rules the service promises: a single champion, every
// eliminated participant at the loss limit, and a board sorted by
// rating with ties sharing a rank.
func verifyResults(ctx context.Context, client *HTTPClient, config *Config, final tournamentView, stats *Stats) error {
	log.Println("🔍 Verifying results...")

	if err := verifyBracket(ctx, client, config, final); err != nil {
		return err
	}
	log.Println("✅ Bracket invariants verified")

	var board []rankedEntry
	if err := getJSON(ctx, client, config.BaseURL+"/items", &board); err != nil {
		return err
	}
	if len(board) == 0 {
		return fmt.Errorf("no leaderboard entries to verify")
	}
	stats.LeaderboardEntries = len(board)

	if err := verifyLeaderboardOrder(board); err != nil {
		return err
	}
	log.Println("✅ Leaderboard order verified")

	displayTopItems(board, final.ChampionID, config.Verbose)

	log.Println("✅ Result verification completed")
	return nil
}

// verifyBracket checks the champion and elimination rules on the final
// tournament view.
func verifyBracket(ctx context.Context, client *HTTPClient, config *Config, final tournamentView) error {
	if final.ChampionID == "" {
		return fmt.Errorf("completed tournament has no champion")
	}
	if len(final.ActiveIDs) != 1 || final.ActiveIDs[0] != final.ChampionID {
		return fmt.Errorf("active ids %v do not collapse to the champion %s", final.ActiveIDs, final.ChampionID)
	}

	for _, id := range final.EliminatedIDs {
		if id == final.ChampionID {
			return fmt.Errorf("champion %s is also listed as eliminated", id)
		}
		entry, err := fetchItem(ctx, client, config, id)
		if err != nil {
			return err
		}
		if entry.Item.Losses < final.LossLimit {
			return fmt.Errorf("eliminated item %s has only %d losses (limit %d)",
				id, entry.Item.Losses, final.LossLimit)
		}
	}

	champion, err := fetchItem(ctx, client, config, final.ChampionID)
	if err != nil {
		return err
	}
	if champion.Item.Losses >= final.LossLimit {
		return fmt.Errorf("champion %s has %d losses, at or past the limit %d",
			final.ChampionID, champion.Item.Losses, final.LossLimit)
	}
	return nil
}

// fetchItem looks one item up by id.
func fetchItem(ctx context.Context, client *HTTPClient, config *Config, id string) (rankedEntry, error) {
	var entry rankedEntry
	if err := getJSON(ctx, client, config.BaseURL+"/items/"+id, &entry); err != nil {
		return rankedEntry{}, err
	}
	return entry, nil
}

// verifyLeaderboardOrder checks descending ratings and dense ranks.
func verifyLeaderboardOrder(board []rankedEntry) error {
	if board[0].Rank != 1 {
		return fmt.Errorf("leaderboard starts at rank %d, not 1", board[0].Rank)
	}
	for i := 1; i < len(board); i++ {
		prev, cur := board[i-1], board[i]
		if cur.Item.Rating > prev.Item.Rating {
			return fmt.Errorf("leaderboard not sorted: entry %d outrates entry %d", i, i-1)
		}
		switch {
		case cur.Item.Rating == prev.Item.Rating && cur.Rank != prev.Rank:
			return fmt.Errorf("entries %d and %d share a rating but not a rank", i-1, i)
		case cur.Item.Rating < prev.Item.Rating && cur.Rank != prev.Rank+1:
			return fmt.Errorf("rank jumps from %d to %d at entry %d", prev.Rank, cur.Rank, i)
		}
	}
	return nil
}

// displayTopItems shows the top of the leaderboard.
func displayTopItems(board []rankedEntry, championID string, verbose bool) {
	topN := 10
	if len(board) < topN {
		topN = len(board)
	}

	log.Printf("🥇 Top %d items:", topN)
	for i := 0; i < topN; i++ {
		entry := board[i]
		marker := ""
		if entry.Item.ID == championID {
			marker = " 🏆"
		}
		log.Printf("   %d. %s - Rating: %.1f (W%d/L%d)%s",
			entry.Rank, entry.Item.Label, entry.Item.Rating, entry.Item.Wins, entry.Item.Losses, marker)
	}

	if verbose && len(board) > 0 {
		avg := 0.0
		for _, entry := range board {
			avg += entry.Item.Rating
		}
		avg /= float64(len(board))
		log.Printf(`📊 Rating statistics:
   Average: %.1f
   Maximum: %.1f
   Minimum: %.1f
`, avg, board[0].Item.Rating, board[len(board)-1].Item.Rating)
	}
}
