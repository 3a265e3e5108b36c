package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/virden/faceoff/pkg/logger"
)

// Run executes the complete simulation.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	logger.Get().Info(ctx, "starting faceoff simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("items", config.Items),
		logger.Int("verdicts", config.Verdicts),
		logger.Float64("undoRate", config.UndoRate),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int64("seed", seed),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Clear any bracket a previous run left behind, then record
	// progress before seeding so the admission wait has a baseline. The
	// service may already hold items from earlier runs.
	if err := ensureCasualMode(ctx, client, config); err != nil {
		return fmt.Errorf("mode check failed: %w", err)
	}
	var baseline progressView
	if err := getJSON(ctx, client, config.BaseURL+"/progress", &baseline); err != nil {
		return fmt.Errorf("baseline progress check failed: %w", err)
	}

	// Step 3: Seed items through the batch endpoint
	if err := seedItems(ctx, client, config, rng, stats); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	// Step 4: Wait for the ingest queue to drain
	if err := waitForAdmission(ctx, client, config, baseline.Items+stats.ItemsAccepted); err != nil {
		return fmt.Errorf("admission wait failed: %w", err)
	}

	// Step 5: Play casual verdicts
	if err := playCasualVerdicts(ctx, client, config, rng, stats); err != nil {
		return fmt.Errorf("casual play failed: %w", err)
	}

	// Step 6: Check the coverage ledger against what we played
	if err := checkCoverage(ctx, client, config, baseline, stats); err != nil {
		return fmt.Errorf("coverage check failed: %w", err)
	}

	// Step 7: Run a tournament to completion
	final, err := runTournament(ctx, client, config, rng, stats)
	if err != nil {
		return fmt.Errorf("tournament failed: %w", err)
	}

	// Step 8: Verify results
	if err := verifyResults(ctx, client, config, final, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 9: Reset the bracket so the service returns to casual play
	if err := resetTournament(ctx, client, config); err != nil {
		return fmt.Errorf("tournament reset failed: %w", err)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "simulation completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// checkCoverage compares the service's coverage ledger with the
// verdicts the simulation actually played. Undone verdicts leave the
// ledger again, so the expected count nets them out.
func checkCoverage(ctx context.Context, client *HTTPClient, config *Config, baseline progressView, stats *Stats) error {
	var progress progressView
	if err := getJSON(ctx, client, config.BaseURL+"/progress", &progress); err != nil {
		return err
	}

	wantVerdicts := baseline.Verdicts + stats.VerdictsApplied - stats.UndosApplied
	if progress.Verdicts != wantVerdicts {
		return fmt.Errorf("coverage ledger reports %d verdicts, want %d", progress.Verdicts, wantVerdicts)
	}
	if progress.UniquePairs > progress.MaxPairs {
		return fmt.Errorf("coverage reports %d unique pairs out of %d possible", progress.UniquePairs, progress.MaxPairs)
	}
	if progress.Ratio < 0 || progress.Ratio > 1 {
		return fmt.Errorf("coverage ratio %f out of range", progress.Ratio)
	}

	logger.Get().Info(ctx, "coverage ledger consistent",
		logger.Int("verdicts", progress.Verdicts),
		logger.Int("uniquePairs", progress.UniquePairs),
		logger.Float64("ratio", progress.Ratio))
	return nil
}

// ensureCasualMode clears any bracket left over from a previous run.
func ensureCasualMode(ctx context.Context, client *HTTPClient, config *Config) error {
	var view tournamentView
	if err := getJSON(ctx, client, config.BaseURL+"/tournament", &view); err != nil {
		return err
	}
	if view.Phase == "not_running" {
		return nil
	}

	logger.Get().Warn(ctx, "clearing leftover bracket", logger.String("phase", view.Phase))
	return resetTournament(ctx, client, config)
}

// resetTournament clears the finished bracket.
func resetTournament(ctx context.Context, client *HTTPClient, config *Config) error {
	resp, err := client.Delete(ctx, config.BaseURL+"/tournament")
	if err != nil {
		return err
	}
	defer drainResponse(resp)

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("tournament reset failed with status: %d", resp.StatusCode)
	}
	logger.Get().Info(ctx, "bracket cleared, service back in casual mode")
	return nil
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(stats *Stats) {
	var acceptRate, verdictsPerSecond float64

	if stats.ItemsRequested > 0 {
		acceptRate = float64(stats.ItemsAccepted) / float64(stats.ItemsRequested) * PercentageMultiplier
	}

	totalVerdicts := stats.VerdictsApplied + stats.TournamentMatches
	if stats.Duration > 0 {
		verdictsPerSecond = float64(totalVerdicts) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("itemsRequested", stats.ItemsRequested),
		logger.Int("itemsAccepted", stats.ItemsAccepted),
		logger.Int("itemsDuplicate", stats.ItemsDuplicate),
		logger.Int("itemsFailed", stats.ItemsFailed),
		logger.Int("verdictsApplied", stats.VerdictsApplied),
		logger.Int("undosApplied", stats.UndosApplied),
		logger.Int("tournamentMatches", stats.TournamentMatches),
		logger.Int("tournamentRounds", stats.TournamentRounds),
		logger.String("championID", stats.ChampionID),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("verdictsPerSecond", verdictsPerSecond))
}
