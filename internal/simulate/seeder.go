package simulate

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/virden/faceoff/pkg/logger"
)

// Seeding constants.
const (
	seedBatchSize          = 8
	progressReportInterval = 1 * time.Second
)

// Word lists for item labels.
var (
	labelAdjectives = []string{
		"amber", "brisk", "coral", "dusky", "ember", "frost", "gilded", "hollow",
		"ivory", "jade", "keen", "lunar", "misty", "noble", "onyx", "pale",
	}
	labelNouns = []string{
		"falcon", "harbor", "ridge", "willow", "comet", "lagoon", "summit", "thicket",
		"meadow", "canyon", "drift", "beacon", "grove", "prairie", "quarry", "delta",
	}
)

// generateSubmissions creates the item batch for this run. Generation is
// sequential so a fixed seed yields the same batch.
func generateSubmissions(ctx context.Context, config *Config, rng *rand.Rand) []submission {
	runTag := rng.Uint32()
	logger.Get().Info(ctx, "generating submissions",
		logger.Int("count", config.Items),
		logger.String("runTag", fmt.Sprintf("%08x", runTag)))

	subs := make([]submission, config.Items)
	for i := range subs {
		adjective := labelAdjectives[rng.Intn(len(labelAdjectives))]
		noun := labelNouns[rng.Intn(len(labelNouns))]
		subs[i] = submission{
			Label:  fmt.Sprintf("%s-%s-%04d", adjective, noun, i),
			Source: fmt.Sprintf("sim/%08x/%04d", runTag, i),
		}
	}
	return subs
}

// seedItems submits the generated items in batches using a worker pool.
func seedItems(ctx context.Context, client *HTTPClient, config *Config, rng *rand.Rand, stats *Stats) error {
	subs := generateSubmissions(ctx, config, rng)
	stats.ItemsRequested = len(subs)

	// Cut the run into batches up front.
	batches := make([][]submission, 0, (len(subs)+seedBatchSize-1)/seedBatchSize)
	for start := 0; start < len(subs); start += seedBatchSize {
		end := start + seedBatchSize
		if end > len(subs) {
			end = len(subs)
		}
		batches = append(batches, subs[start:end])
	}

	log.Printf("📤 Seeding %d items in %d batches with %d workers...", len(subs), len(batches), config.Workers)

	url := config.BaseURL + "/items"

	// Counters for statistics
	var (
		accepted  int64
		duplicate int64
		failed    int64
		submitted int64
	)

	// Create worker pool
	batchChan := make(chan []submission, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Progress reporting from a single goroutine so workers stay simple.
	reportDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(progressReportInterval)
		defer ticker.Stop()
		for {
			select {
			case <-reportDone:
				return
			case <-ticker.C:
				total := atomic.LoadInt64(&submitted)
				acc := atomic.LoadInt64(&accepted)
				dup := atomic.LoadInt64(&duplicate)
				fail := atomic.LoadInt64(&failed)
				if config.Verbose {
					log.Printf("📊 Progress: %d/%d items (accepted: %d, duplicate: %d, failed: %d)",
						total, len(subs), acc, dup, fail)
				} else {
					fmt.Printf("\r📤 Seeded: %d/%d (accepted: %d, duplicate: %d, failed: %d)",
						total, len(subs), acc, dup, fail)
				}
			}
		}
	}()

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for batch := range batchChan {
				select {
				case <-ctx.Done():
					return
				default:
					ack, err := submitBatch(ctx, client, url, batch)
					atomic.AddInt64(&submitted, int64(len(batch)))
					if err != nil {
						atomic.AddInt64(&failed, int64(len(batch)))
						continue
					}
					atomic.AddInt64(&accepted, int64(ack.Accepted))
					atomic.AddInt64(&duplicate, int64(ack.Duplicates))
				}
			}
		}()
	}

	// Send batches to workers
	go func() {
		defer close(batchChan)
		for _, batch := range batches {
			select {
			case <-ctx.Done():
				return
			case batchChan <- batch:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()
	close(reportDone)

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Update stats
	stats.ItemsAccepted = int(atomic.LoadInt64(&accepted))
	stats.ItemsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.ItemsFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Seeding completed:
   Accepted: %d
   Duplicate: %d
   Failed: %d
`, stats.ItemsAccepted, stats.ItemsDuplicate, stats.ItemsFailed)

	if stats.ItemsFailed > 0 {
		return fmt.Errorf("seeding failed for %d of %d items", stats.ItemsFailed, stats.ItemsRequested)
	}
	return nil
}

// submitBatch submits one batch and returns the service's acknowledgement.
func submitBatch(ctx context.Context, client *HTTPClient, url string, batch []submission) (batchAck, error) {
	var ack batchAck
	if err := postJSON(ctx, client, url, batchRequest{Items: batch}, &ack); err != nil {
		return batchAck{}, err
	}
	return ack, nil
}

// waitForAdmission polls progress until the queued items have landed.
// Ingestion is asynchronous, so an accepted batch is not immediately
// visible on the leaderboard.
func waitForAdmission(ctx context.Context, client *HTTPClient, config *Config, wantItems int) error {
	logger.Get().Info(ctx, "waiting for queued items to land", logger.Int("wantItems", wantItems))

	deadline := time.Now().Add(AdmissionWaitMax)
	for {
		var progress progressView
		if err := getJSON(ctx, client, config.BaseURL+"/progress", &progress); err != nil {
			return err
		}
		if progress.Items >= wantItems {
			log.Printf("✅ %d items admitted", progress.Items)
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timed out waiting for admission: have %d items, want %d", progress.Items, wantItems)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled while waiting for admission: %w", ctx.Err())
		case <-time.After(AdmissionPollInterval):
		}
	}
}
