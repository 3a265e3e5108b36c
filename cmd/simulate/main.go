package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/virden/faceoff/internal/simulate"
)

// Default configuration constants.
const (
	defaultItems      = 32
	defaultVerdicts   = 200
	defaultUndoRate   = 0.1
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		items    = flag.Int("items", defaultItems, "Number of items to seed")
		verdicts = flag.Int("verdicts", defaultVerdicts, "Number of casual verdicts to play")
		undoRate = flag.Float64("undos", defaultUndoRate, "Probability a verdict is undone right after")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent seeding workers")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed     = flag.Int64("seed", 0, "RNG seed for reproducible runs (default: time-seeded)")
		logFile  = flag.String("log", "", "Log file for simulation output (default: simulation_TIMESTAMP.log)")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	// Setup logging
	if err := simulate.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create simulation configuration
	config := &simulate.Config{
		BaseURL:  *baseURL,
		Items:    *items,
		Verdicts: *verdicts,
		UndoRate: *undoRate,
		Workers:  *workers,
		Timeout:  *timeout,
		Seed:     *seed,
		LogFile:  *logFile,
		Verbose:  *verbose,
	}

	// Run the simulation
	if err := simulate.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}
