package collector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"golang.org/x/time/rate"

	"AlphaSentinel/internal/model"
)

// BinanceOptions configures the Binance spot fetcher.
type BinanceOptions struct {
	APIKey         string
	SecretKey      string
	BaseURL        string // empty means the public endpoint
	Proxy          string
	RateLimit      float64 // requests per second
	Burst          int
	RequestTimeout time.Duration
	MaxRetries     int
	Backoff        time.Duration
}

// BinanceFetcher implements Fetcher using the Binance spot REST API.
type BinanceFetcher struct {
	client      *binance.Client
	rateLimiter *rate.Limiter
	maxRetries  int
	backoff     time.Duration
}

// NewBinanceFetcher creates a fetcher with optional proxy support and a request limiter.
func NewBinanceFetcher(opts BinanceOptions) *BinanceFetcher {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	if opts.Proxy != "" {
		if u, err := url.Parse(opts.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 200 * time.Millisecond
	}

	client := binance.NewClient(opts.APIKey, opts.SecretKey)
	client.HTTPClient = &http.Client{
		Timeout:   opts.RequestTimeout,
		Transport: transport,
	}
	if opts.BaseURL != "" {
		client.BaseURL = opts.BaseURL
	}

	return &BinanceFetcher{
		client:      client,
		rateLimiter: rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst),
		maxRetries:  opts.MaxRetries,
		backoff:     opts.Backoff,
	}
}

func (f *BinanceFetcher) Name() string { return "binance" }

// Ping checks connectivity to the exchange.
func (f *BinanceFetcher) Ping(ctx context.Context) error {
	if err := f.rateLimiter.Wait(ctx); err != nil {
		return err
	}
	if err := f.client.NewPingService().Do(ctx); err != nil {
		return fmt.Errorf("binance ping: %w", err)
	}
	return nil
}

// FetchCandles fetches the most recent klines for symbol ("BTC/USDT" or "BTCUSDT").
func (f *BinanceFetcher) FetchCandles(ctx context.Context, symbol, timeframe string, limit int) (*model.PriceSeries, error) {
	klines, err := f.getKlines(ctx, ExchangeSymbol(symbol), timeframe, limit)
	if err != nil {
		return nil, err
	}
	if len(klines) == 0 {
		return nil, ErrNoData
	}

	bars := make([]model.OHLCV, 0, len(klines))
	for _, k := range klines {
		bar, err := toBar(k)
		if err != nil {
			return nil, fmt.Errorf("parse kline %d: %w", k.OpenTime, err)
		}
		bars = append(bars, bar)
	}
	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	return &model.PriceSeries{
		Symbol:    symbol,
		Timeframe: timeframe,
		Bars:      bars,
		FetchedAt: time.Now(),
	}, nil
}

func (f *BinanceFetcher) getKlines(ctx context.Context, symbol, interval string, limit int) ([]*binance.Kline, error) {
	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if err := f.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		klines, err := f.client.NewKlinesService().
			Symbol(symbol).
			Interval(interval).
			Limit(limit).
			Do(ctx)
		if err == nil {
			return klines, nil
		}
		lastErr = err

		if permanent(err) || ctx.Err() != nil || attempt == f.maxRetries {
			break
		}

		wait := time.Duration(math.Pow(2, float64(attempt))) * f.backoff
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, fmt.Errorf("fetch klines %s %s: %w", symbol, interval, lastErr)
}

// permanent reports request errors (-11xx: bad symbol, bad interval) that will not heal on retry.
func permanent(err error) bool {
	var apiErr *common.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code <= -1100 && apiErr.Code > -1200
}

// ExchangeSymbol converts a configured pair such as "btc/usdt" into "BTCUSDT".
func ExchangeSymbol(pair string) string {
	s := strings.ToUpper(strings.TrimSpace(pair))
	return strings.NewReplacer("/", "", "-", "", "_", "").Replace(s)
}

func toBar(k *binance.Kline) (model.OHLCV, error) {
	var (
		bar model.OHLCV
		err error
	)
	bar.Time = time.UnixMilli(k.OpenTime)
	if bar.Open, err = strconv.ParseFloat(k.Open, 64); err != nil {
		return bar, fmt.Errorf("open: %w", err)
	}
	if bar.High, err = strconv.ParseFloat(k.High, 64); err != nil {
		return bar, fmt.Errorf("high: %w", err)
	}
	if bar.Low, err = strconv.ParseFloat(k.Low, 64); err != nil {
		return bar, fmt.Errorf("low: %w", err)
	}
	if bar.Close, err = strconv.ParseFloat(k.Close, 64); err != nil {
		return bar, fmt.Errorf("close: %w", err)
	}
	if bar.Volume, err = strconv.ParseFloat(k.Volume, 64); err != nil {
		return bar, fmt.Errorf("volume: %w", err)
	}
	return bar, nil
}
