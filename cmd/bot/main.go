package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"AlphaSentinel/internal/collector"
	"AlphaSentinel/internal/config"
	"AlphaSentinel/internal/metrics"
	"AlphaSentinel/internal/notifier"
	"AlphaSentinel/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] AlphaSentinel starting... RSI/EMA/MACD signal bot")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	log.Printf("[INFO] pairs: %s | timeframe: %s | interval: %v",
		strings.Join(cfg.Market.Pairs, ", "), cfg.Market.Timeframe, cfg.Schedule.SweepInterval)

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.Exchange.Name {
	case "mock":
		fetcher = &collector.MockFetcher{Price: 100}
	default:
		fetcher = collector.NewBinanceFetcher(collector.BinanceOptions{
			APIKey:         cfg.Exchange.APIKey,
			SecretKey:      cfg.Exchange.SecretKey,
			BaseURL:        cfg.Exchange.BaseURL,
			Proxy:          cfg.Proxy,
			RateLimit:      cfg.Exchange.RateLimit,
			Burst:          cfg.Exchange.Burst,
			RequestTimeout: cfg.Exchange.RequestTimeout,
			MaxRetries:     2,
		})
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())
	col := collector.NewCollector(fetcher, cfg.Market.Timeframe, cfg.Market.CandleLimit)

	// Init notifier
	var n notifier.Notifier = notifier.NewNoopNotifier()
	var tn *notifier.TelegramNotifier
	if cfg.NotificationsEnabled() {
		tn, err = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		if err != nil {
			log.Printf("[WARN] init telegram failed, notifications disabled: %v", err)
		} else {
			n = tn
		}
	} else {
		log.Println("[WARN] telegram not configured, notifications disabled")
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)
	if cfg.Metrics.Listen != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Listen, reg); err != nil {
				log.Printf("[ERROR] metrics server: %v", err)
			}
		}()
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, n, m, scheduler.Options{
		Pairs:         cfg.Market.Pairs,
		Timeframe:     cfg.Market.Timeframe,
		SweepInterval: cfg.Schedule.SweepInterval,
		PairDelay:     cfg.Schedule.PairDelay,
		Cooldown:      cfg.Schedule.Cooldown,
		PairTimeout:   cfg.Schedule.PairTimeout,
	})
	if err := sched.RegisterDigest(cfg.Schedule.DigestCron); err != nil {
		log.Fatalf("[FATAL] register digest task: %v", err)
	}
	sched.Start()

	// Start Telegram polling
	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	log.Println("[INFO] AlphaSentinel is running. Press Ctrl+C to stop.")
	err = sched.Run()
	sched.Stop()
	if errors.Is(err, scheduler.ErrConnect) {
		log.Printf("[FATAL] %v", err)
		os.Exit(1)
	}
	log.Println("[INFO] AlphaSentinel stopped")
}
