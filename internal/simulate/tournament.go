package simulate

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/virden/faceoff/pkg/logger"
)

// runTournament starts a tournament and plays it to completion,
// returning the final bracket view.
func runTournament(ctx context.Context, client *HTTPClient, config *Config, rng *rand.Rand, stats *Stats) (tournamentView, error) {
	tournamentURL := config.BaseURL + "/tournament"
	pairURL := config.BaseURL + "/pair"
	verdictURL := config.BaseURL + "/verdict"

	var view tournamentView
	if err := postJSON(ctx, client, tournamentURL, nil, &view); err != nil {
		return tournamentView{}, err
	}
	if view.Phase != "round_in_progress" {
		return tournamentView{}, fmt.Errorf("tournament started in phase %q", view.Phase)
	}

	participants := len(view.ActiveIDs)
	log.Printf("🏆 Tournament started: %d participants, eliminated at %d losses", participants, view.LossLimit)

	// Every match charges one loss, so the bracket cannot outlive
	// lossLimit * participants matches. The safety factor only guards
	// against the service misbehaving.
	maxMatches := participants * MatchSafetyFactor
	for match := 0; match < maxMatches; match++ {
		select {
		case <-ctx.Done():
			return tournamentView{}, fmt.Errorf("context cancelled during tournament: %w", ctx.Err())
		default:
		}

		var pair pairView
		if err := getJSON(ctx, client, pairURL, &pair); err != nil {
			return tournamentView{}, err
		}
		if pair.Mode != "tournament" {
			return tournamentView{}, fmt.Errorf("expected a tournament pair, got mode %q", pair.Mode)
		}
		if pair.Completed {
			break
		}
		if pair.A == nil || pair.B == nil {
			return tournamentView{}, fmt.Errorf("tournament pair came back incomplete")
		}
		if pair.Round > stats.TournamentRounds {
			stats.TournamentRounds = pair.Round
			if config.Verbose {
				logger.Get().Info(ctx, "tournament round", logger.Int("round", pair.Round))
			}
		}

		winner, loser := pickWinner(rng, pair.A, pair.B)
		var ack verdictAck
		if err := postJSON(ctx, client, verdictURL, verdictRequest{WinnerID: winner.ID, LoserID: loser.ID}, &ack); err != nil {
			return tournamentView{}, err
		}
		if ack.Mode != "tournament" {
			return tournamentView{}, fmt.Errorf("tournament verdict came back in mode %q", ack.Mode)
		}
		stats.TournamentMatches++
	}

	if err := getJSON(ctx, client, tournamentURL, &view); err != nil {
		return tournamentView{}, err
	}
	if view.Phase != "completed" {
		return tournamentView{}, fmt.Errorf("bracket did not terminate within %d matches (phase %q)", maxMatches, view.Phase)
	}

	stats.ChampionID = view.ChampionID
	log.Printf("✅ Tournament completed: champion %s after %d matches across %d rounds",
		view.ChampionID, stats.TournamentMatches, stats.TournamentRounds)
	return view, nil
}
