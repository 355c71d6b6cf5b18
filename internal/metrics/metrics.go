package metrics

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"AlphaSentinel/internal/model"
)

// Metrics holds all Prometheus metrics for the signal runner.
type Metrics struct {
	Sweeps        *prometheus.CounterVec // labels: result=ok|failed
	PairAnalyses  *prometheus.CounterVec // labels: result=signal|no_signal|insufficient|error
	Signals       *prometheus.CounterVec // labels: direction
	Notifications *prometheus.CounterVec // labels: result=ok|failed
	SweepDuration prometheus.Histogram
	RunnerState   *prometheus.GaugeVec // labels: state, 1 for the current state
}

var states = []model.RunnerState{
	model.StateIdle,
	model.StateConnecting,
	model.StateMonitoring,
	model.StateAnalyzingPair,
	model.StateWaiting,
	model.StateStopped,
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Sweeps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alphasentinel_sweeps_total",
			Help: "Completed sweeps over all pairs, by result",
		}, []string{"result"}),
		PairAnalyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alphasentinel_pair_analyses_total",
			Help: "Per-pair analysis cycles, by outcome",
		}, []string{"result"}),
		Signals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alphasentinel_signals_total",
			Help: "Trade signals emitted, by direction",
		}, []string{"direction"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alphasentinel_notifications_total",
			Help: "Signal notifications, by delivery result",
		}, []string{"result"}),
		SweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "alphasentinel_sweep_duration_seconds",
			Help:    "Wall time of one sweep including inter-pair delays",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}),
		RunnerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "alphasentinel_runner_state",
			Help: "Current runner state (1 for the active state)",
		}, []string{"state"}),
	}

	reg.MustRegister(
		m.Sweeps,
		m.PairAnalyses,
		m.Signals,
		m.Notifications,
		m.SweepDuration,
		m.RunnerState,
	)
	return m
}

// SetState marks state as the active runner state.
func (m *Metrics) SetState(state model.RunnerState) {
	for _, s := range states {
		v := 0.0
		if s == state {
			v = 1
		}
		m.RunnerState.WithLabelValues(string(s)).Set(v)
	}
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[INFO] metrics listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
