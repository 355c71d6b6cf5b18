package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// MinCandleLimit is the smallest candle request that can fill the indicator window.
const MinCandleLimit = 50

// Config holds all application configuration.
type Config struct {
	Exchange struct {
		Name           string        `yaml:"name"` // binance or mock
		APIKey         string        `yaml:"api_key"`
		SecretKey      string        `yaml:"secret_key"`
		BaseURL        string        `yaml:"base_url"`
		RateLimit      float64       `yaml:"rate_limit"`
		Burst          int           `yaml:"burst"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
	} `yaml:"exchange"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	Market struct {
		Pairs       []string `yaml:"pairs"`
		Timeframe   string   `yaml:"timeframe"`
		CandleLimit int      `yaml:"candle_limit"`
	} `yaml:"market"`
	Schedule struct {
		SweepInterval time.Duration `yaml:"sweep_interval"`
		PairDelay     time.Duration `yaml:"pair_delay"`
		Cooldown      time.Duration `yaml:"cooldown"`
		PairTimeout   time.Duration `yaml:"pair_timeout"`
		DigestCron    string        `yaml:"digest_cron"`
	} `yaml:"schedule"`
	Metrics struct {
		Listen string `yaml:"listen"`
	} `yaml:"metrics"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file and an optional .env file,
// then applies environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Variables already set in the environment win over .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		c.Exchange.APIKey = v
	}
	if v := os.Getenv("BINANCE_SECRET_KEY"); v != "" {
		c.Exchange.SecretKey = v
	}
	if v := os.Getenv("EXCHANGE"); v != "" {
		c.Exchange.Name = strings.ToLower(v)
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		var id int64
		if _, err := fmt.Sscanf(v, "%d", &id); err != nil {
			return fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = id
	}
	if v := os.Getenv("TRADING_PAIRS"); v != "" {
		c.Market.Pairs = c.Market.Pairs[:0]
		for _, p := range strings.Split(v, ",") {
			if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
				c.Market.Pairs = append(c.Market.Pairs, p)
			}
		}
	}
	if v := os.Getenv("TIMEFRAME"); v != "" {
		c.Market.Timeframe = v
	}
	if v := os.Getenv("SWEEP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SWEEP_INTERVAL: %w", err)
		}
		c.Schedule.SweepInterval = d
	}
	if v := os.Getenv("METRICS_LISTEN"); v != "" {
		c.Metrics.Listen = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Exchange.Name == "" {
		c.Exchange.Name = "binance"
	}
	if c.Exchange.RateLimit == 0 {
		c.Exchange.RateLimit = 10
	}
	if c.Exchange.Burst == 0 {
		c.Exchange.Burst = 20
	}
	if c.Exchange.RequestTimeout == 0 {
		c.Exchange.RequestTimeout = 30 * time.Second
	}
	if len(c.Market.Pairs) == 0 {
		c.Market.Pairs = []string{"BTC/USDT", "ETH/USDT", "BNB/USDT", "SOL/USDT", "XRP/USDT"}
	}
	if c.Market.Timeframe == "" {
		c.Market.Timeframe = "15m"
	}
	if c.Market.CandleLimit == 0 {
		c.Market.CandleLimit = 100
	}
	if c.Schedule.SweepInterval == 0 {
		c.Schedule.SweepInterval = 120 * time.Second
	}
	if c.Schedule.PairDelay == 0 {
		c.Schedule.PairDelay = 2 * time.Second
	}
	if c.Schedule.Cooldown == 0 {
		c.Schedule.Cooldown = 60 * time.Second
	}
	if c.Schedule.PairTimeout == 0 {
		c.Schedule.PairTimeout = 2 * c.Exchange.RequestTimeout
	}
	if c.Schedule.DigestCron == "" {
		c.Schedule.DigestCron = "0 0 9 * * *"
	}
}

// Validate checks that all settings are usable.
func (c *Config) Validate() error {
	switch c.Exchange.Name {
	case "binance", "mock":
	default:
		return fmt.Errorf("exchange.name must be binance or mock, got %q", c.Exchange.Name)
	}
	if c.Exchange.RateLimit <= 0 || c.Exchange.Burst <= 0 {
		return fmt.Errorf("exchange.rate_limit and exchange.burst must be positive")
	}
	if len(c.Market.Pairs) == 0 {
		return fmt.Errorf("market.pairs must not be empty")
	}
	for _, p := range c.Market.Pairs {
		if base, quote, ok := strings.Cut(p, "/"); !ok || base == "" || quote == "" {
			return fmt.Errorf("market.pairs: %q is not BASE/QUOTE", p)
		}
	}
	if c.Market.CandleLimit < MinCandleLimit {
		return fmt.Errorf("market.candle_limit must be at least %d", MinCandleLimit)
	}
	if c.Schedule.SweepInterval <= 0 {
		return fmt.Errorf("schedule.sweep_interval must be positive")
	}
	if c.Schedule.Cooldown <= 0 {
		return fmt.Errorf("schedule.cooldown must be positive")
	}
	if c.Schedule.PairDelay < 0 {
		return fmt.Errorf("schedule.pair_delay must not be negative")
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.Schedule.DigestCron); err != nil {
		return fmt.Errorf("schedule.digest_cron: %w", err)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == 0) {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// NotificationsEnabled reports whether Telegram delivery is configured.
func (c *Config) NotificationsEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != 0
}
