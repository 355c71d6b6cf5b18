package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"AlphaSentinel/internal/collector"
	"AlphaSentinel/internal/metrics"
	"AlphaSentinel/internal/model"
	"AlphaSentinel/internal/notifier"
)

var (
	// ErrConnect means the market data source was unreachable at startup.
	ErrConnect = errors.New("market data connection failed")
	// ErrSweepFailed means no pair could be analyzed during a sweep.
	ErrSweepFailed = errors.New("sweep failed")
)

// Options holds the process-wide monitoring constants.
type Options struct {
	Pairs         []string
	Timeframe     string
	SweepInterval time.Duration
	PairDelay     time.Duration
	Cooldown      time.Duration
	PairTimeout   time.Duration
}

// Scheduler drives analysis sweeps over all pairs and the digest cron job.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  notifier.Notifier
	Metrics   *metrics.Metrics
	Ctx       context.Context
	opts      Options

	mu     sync.Mutex
	state  model.RunnerState
	total  model.RunStats
	period model.RunStats
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, n notifier.Notifier, m *metrics.Metrics, opts Options) *Scheduler {
	cronLogger := cron.PrintfLogger(log.Default())
	now := time.Now()
	s := &Scheduler{
		Cron: cron.New(cron.WithSeconds(), cron.WithChain(
			cron.Recover(cronLogger),
			cron.SkipIfStillRunning(cronLogger),
		)),
		Collector: col,
		Notifier:  n,
		Metrics:   m,
		Ctx:       ctx,
		opts:      opts,
		state:     model.StateIdle,
		total:     model.RunStats{Since: now},
		period:    model.RunStats{Since: now},
	}
	m.SetState(model.StateIdle)
	return s
}

// RegisterDigest registers the periodic activity digest.
func (s *Scheduler) RegisterDigest(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// Run connects to the market data source and sweeps all pairs until Ctx is cancelled.
// It returns ErrConnect if the connection check fails and nil on cancellation.
func (s *Scheduler) Run() error {
	ctx := s.Ctx
	s.setState(model.StateConnecting)
	if err := s.Collector.Fetcher.Ping(ctx); err != nil {
		s.setState(model.StateStopped)
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("%w: %s: %w", ErrConnect, s.Collector.Fetcher.Name(), err)
	}
	log.Printf("[INFO] connected to %s, monitoring %d pairs every %v",
		s.Collector.Fetcher.Name(), len(s.opts.Pairs), s.opts.SweepInterval)

	for {
		s.setState(model.StateMonitoring)
		wait := s.opts.SweepInterval
		if err := s.safeSweep(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Printf("[ERROR] sweep: %v, cooling down for %v", err, s.opts.Cooldown)
			wait = s.opts.Cooldown
		}

		s.setState(model.StateWaiting)
		if err := sleep(ctx, wait); err != nil {
			break
		}
	}

	s.setState(model.StateStopped)
	log.Println("[INFO] monitoring stopped")
	return nil
}

// State returns the current runner state.
func (s *Scheduler) State() model.RunnerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stats returns the counters accumulated since startup.
func (s *Scheduler) Stats() model.RunStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	var cmd string
	if fields := strings.Fields(command); len(fields) > 0 {
		// "/status@SomeBot" in group chats
		cmd, _, _ = strings.Cut(strings.ToLower(fields[0]), "@")
	}
	switch cmd {
	case "/status":
		return notifier.FormatStatus(s.State(), s.Stats(), s.opts.Pairs, s.opts.Timeframe)
	case "/pairs":
		return "Monitored pairs:\n• " + strings.Join(s.opts.Pairs, "\n• ")
	case "/digest":
		s.mu.Lock()
		period := s.period
		s.mu.Unlock()
		return notifier.FormatDigest(period, time.Now())
	default:
		return "Available commands:\n• /status\n• /pairs\n• /digest"
	}
}

func (s *Scheduler) digestTask() {
	log.Println("[INFO] running digest task")
	now := time.Now()
	s.mu.Lock()
	period := s.period
	s.period = model.RunStats{Since: now}
	s.mu.Unlock()

	if err := s.Notifier.SendText(s.Ctx, notifier.FormatDigest(period, now)); err != nil {
		log.Printf("[ERROR] send digest: %v", err)
	}
}

func (s *Scheduler) setState(state model.RunnerState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.Metrics.SetState(state)
}

// record applies fn to both the lifetime and the digest counters.
func (s *Scheduler) record(fn func(*model.RunStats)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.total)
	fn(&s.period)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
