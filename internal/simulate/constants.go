package simulate

import "time"

// HTTP status codes used by the simulation.
const (
	// StatusOK represents HTTP 200 OK.
	StatusOK = 200
	// StatusAccepted represents HTTP 202 Accepted.
	StatusAccepted = 202
)

// Simulation constants.
const (
	// WorkerChannelMultiplier sizes the seeding channel relative to worker count.
	WorkerChannelMultiplier = 2
	// AdmissionPollInterval is how often to poll for queued items to land.
	AdmissionPollInterval = 50 * time.Millisecond
	// AdmissionWaitMax bounds how long to wait for queued items to land.
	AdmissionWaitMax = 30 * time.Second
	// MatchSafetyFactor bounds tournament length relative to participant count.
	MatchSafetyFactor = 8
	// PercentageMultiplier converts a ratio to a percentage.
	PercentageMultiplier = 100
)
