package model

import "time"

// RunnerState is the lifecycle state of the monitoring loop.
type RunnerState string

const (
	StateIdle          RunnerState = "IDLE"
	StateConnecting    RunnerState = "CONNECTING"
	StateMonitoring    RunnerState = "MONITORING"
	StateAnalyzingPair RunnerState = "ANALYZING_PAIR"
	StateWaiting       RunnerState = "WAITING"
	StateStopped       RunnerState = "STOPPED"
)

// RunStats counts runner activity since Since.
type RunStats struct {
	Since            time.Time
	LastSweepAt      time.Time
	Sweeps           int
	FailedSweeps     int
	PairsAnalyzed    int
	InsufficientData int
	FetchFailures    int
	LongSignals      int
	ShortSignals     int
	NotifyFailures   int
}

// Signals returns the total number of signals emitted.
func (s RunStats) Signals() int { return s.LongSignals + s.ShortSignals }
