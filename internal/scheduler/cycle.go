package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"AlphaSentinel/internal/calculator"
	"AlphaSentinel/internal/model"
	"AlphaSentinel/internal/strategy"
)

// PairResult is the outcome of one pair's analysis cycle.
type PairResult struct {
	Pair         string
	Bars         int
	Insufficient bool
	Signal       *model.Signal // nil when no rule fired
	NotifyErr    error
}

// AnalyzePair runs fetch, indicators, policy and notification for one pair.
// Insufficient data and notification failures are reported in the result, not as errors.
func (s *Scheduler) AnalyzePair(ctx context.Context, pair string) (res PairResult, err error) {
	res.Pair = pair
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if s.opts.PairTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.PairTimeout)
		defer cancel()
	}

	snap, bars, ok, err := s.Collector.Collect(ctx, pair)
	res.Bars = bars
	if err != nil {
		return res, err
	}
	if !ok {
		res.Insufficient = true
		log.Printf("[INFO] %s: %d bars, need %d; skipping analysis", pair, bars, calculator.MinimumWindow)
		return res, nil
	}

	sig, ok := strategy.Evaluate(pair, snap)
	if !ok {
		log.Printf("[INFO] %s: no signal (price=%.6g rsi=%.1f ema20=%.6g macd=%+.4g)",
			pair, snap.CurrentPrice, snap.RSI, snap.EMAFast, snap.MACDDelta)
		return res, nil
	}
	res.Signal = sig
	log.Printf("[INFO] %s: %s signal, confidence %d%%, entry %.6g tp %.6g sl %.6g",
		pair, sig.Direction, sig.Confidence, sig.EntryPrice, sig.TakeProfit, sig.StopLoss)

	if err := s.Notifier.Notify(ctx, sig); err != nil {
		res.NotifyErr = err
		log.Printf("[ERROR] %s: notify: %v", pair, err)
	}
	return res, nil
}

// Sweep analyzes every pair in order, pausing PairDelay between pairs.
// A failing pair is logged and skipped; ErrSweepFailed is returned only if every pair failed.
func (s *Scheduler) Sweep(ctx context.Context) error {
	start := time.Now()
	var errs []error

	for i, pair := range s.opts.Pairs {
		if i > 0 {
			if err := sleep(ctx, s.opts.PairDelay); err != nil {
				return err
			}
		}
		s.setState(model.StateAnalyzingPair)
		res, err := s.AnalyzePair(ctx, pair)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.observe(res, err)
		if err != nil {
			log.Printf("[ERROR] %s: %v", pair, err)
			errs = append(errs, fmt.Errorf("%s: %w", pair, err))
		}
	}

	s.Metrics.SweepDuration.Observe(time.Since(start).Seconds())
	failed := len(s.opts.Pairs) > 0 && len(errs) == len(s.opts.Pairs)
	s.record(func(st *model.RunStats) {
		st.Sweeps++
		st.LastSweepAt = time.Now()
		if failed {
			st.FailedSweeps++
		}
	})
	if failed {
		s.Metrics.Sweeps.WithLabelValues("failed").Inc()
		return fmt.Errorf("%w: %w", ErrSweepFailed, errors.Join(errs...))
	}
	s.Metrics.Sweeps.WithLabelValues("ok").Inc()
	log.Printf("[INFO] sweep done in %v (%d/%d pairs ok)", time.Since(start).Round(time.Millisecond), len(s.opts.Pairs)-len(errs), len(s.opts.Pairs))
	return nil
}

// safeSweep contains panics escaping a sweep.
func (s *Scheduler) safeSweep(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrSweepFailed, r)
		}
	}()
	return s.Sweep(ctx)
}

func (s *Scheduler) observe(res PairResult, err error) {
	var result string
	switch {
	case err != nil:
		result = "error"
	case res.Insufficient:
		result = "insufficient"
	case res.Signal != nil:
		result = "signal"
		s.Metrics.Signals.WithLabelValues(string(res.Signal.Direction)).Inc()
		notify := "ok"
		if res.NotifyErr != nil {
			notify = "failed"
		}
		s.Metrics.Notifications.WithLabelValues(notify).Inc()
	default:
		result = "no_signal"
	}
	s.Metrics.PairAnalyses.WithLabelValues(result).Inc()

	s.record(func(st *model.RunStats) {
		switch result {
		case "error":
			st.FetchFailures++
			return
		case "insufficient":
			st.InsufficientData++
		}
		st.PairsAnalyzed++
		if res.Signal != nil {
			if res.Signal.Direction == model.DirectionLong {
				st.LongSignals++
			} else {
				st.ShortSignals++
			}
			if res.NotifyErr != nil {
				st.NotifyFailures++
			}
		}
	})
}
