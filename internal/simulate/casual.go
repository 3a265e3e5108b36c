package simulate

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/virden/faceoff/pkg/logger"
)

// Casual play constants.
const (
	// favoriteWinProbability is how often the higher-rated side of a
	// pair wins. A biased coin separates the ratings the way real
	// voting would; a fair coin keeps everything near the initial
	// rating.
	favoriteWinProbability = 0.7
	// casualLogEvery spaces out verbose progress lines.
	casualLogEvery = 50
)

// playCasualVerdicts plays the configured number of casual verdicts.
// Verdicts are sequential: each one changes which pair the service
// offers next, so there is nothing to parallelize.
func playCasualVerdicts(ctx context.Context, client *HTTPClient, config *Config, rng *rand.Rand, stats *Stats) error {
	log.Printf("⚔️  Playing %d casual verdicts (undo rate %.0f%%)...", config.Verdicts, config.UndoRate*PercentageMultiplier)

	pairURL := config.BaseURL + "/pair"
	verdictURL := config.BaseURL + "/verdict"
	undoURL := config.BaseURL + "/undo"

	for i := 0; i < config.Verdicts; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during casual play: %w", ctx.Err())
		default:
		}

		var pair pairView
		if err := getJSON(ctx, client, pairURL, &pair); err != nil {
			return err
		}
		if pair.Mode != "casual" {
			return fmt.Errorf("expected a casual pair, got mode %q", pair.Mode)
		}
		if pair.A == nil || pair.B == nil {
			return fmt.Errorf("casual pair came back incomplete")
		}

		winner, loser := pickWinner(rng, pair.A, pair.B)

		var ack verdictAck
		if err := postJSON(ctx, client, verdictURL, verdictRequest{WinnerID: winner.ID, LoserID: loser.ID}, &ack); err != nil {
			return err
		}
		if ack.Status != "applied" {
			return fmt.Errorf("verdict %d came back with status %q", i, ack.Status)
		}
		stats.VerdictsApplied++

		if rng.Float64() < config.UndoRate {
			var undo undoAck
			if err := postJSON(ctx, client, undoURL, nil, &undo); err != nil {
				return err
			}
			if !undo.Undone {
				return fmt.Errorf("undo after verdict %d reported nothing to undo", i)
			}
			stats.UndosApplied++
		}

		if config.Verbose && (i+1)%casualLogEvery == 0 {
			logger.Get().Info(ctx, "casual progress",
				logger.Int("verdicts", i+1),
				logger.Int("undos", stats.UndosApplied))
		}
	}

	log.Printf("✅ Casual play completed: %d verdicts, %d undone", stats.VerdictsApplied, stats.UndosApplied)
	return nil
}

// pickWinner chooses the winning side with a bias toward the
// higher-rated item.
func pickWinner(rng *rand.Rand, a, b *item) (winner, loser *item) {
	favorite, underdog := a, b
	if b.Rating > a.Rating {
		favorite, underdog = b, a
	}
	if rng.Float64() < favoriteWinProbability {
		return favorite, underdog
	}
	return underdog, favorite
}
