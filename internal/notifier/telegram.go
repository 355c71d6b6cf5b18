package notifier

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"AlphaSentinel/internal/model"
)

// Notifier delivers trade signals and free-form reports.
type Notifier interface {
	Notify(ctx context.Context, sig *model.Signal) error
	SendText(ctx context.Context, text string) error
}

// botAPI is the part of *tgbotapi.BotAPI the notifier uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	bot        botAPI
	ChatID     int64
	MaxRetries int
	Backoff    time.Duration
}

// NewTelegramNotifier authorizes the bot token and returns a notifier with optional proxy support.
func NewTelegramNotifier(botToken string, chatID int64, proxyURL string) (*TelegramNotifier, error) {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	client := &http.Client{
		Timeout:   45 * time.Second,
		Transport: transport,
	}
	bot, err := tgbotapi.NewBotAPIWithClient(botToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("authorize bot: %w", err)
	}
	log.Printf("[INFO] telegram authorized as @%s", bot.Self.UserName)
	return newTelegramNotifier(bot, chatID), nil
}

func newTelegramNotifier(bot botAPI, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{
		bot:        bot,
		ChatID:     chatID,
		MaxRetries: 2,
		Backoff:    time.Second,
	}
}

// Send sends a message to the configured chat.
func (t *TelegramNotifier) Send(text string) error {
	msg := tgbotapi.NewMessage(t.ChatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := t.Send(text)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == maxRetries {
			break
		}
		backoff := time.Duration(1<<uint(i)) * t.Backoff
		log.Printf("[WARN] Telegram send failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, err, backoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("all %d attempts failed: %w", maxRetries+1, lastErr)
}

// Notify formats and delivers a trade signal.
func (t *TelegramNotifier) Notify(ctx context.Context, sig *model.Signal) error {
	return t.SendWithRetry(ctx, FormatSignal(sig), t.MaxRetries)
}

// SendText delivers a free-form report.
func (t *TelegramNotifier) SendText(ctx context.Context, text string) error {
	return t.SendWithRetry(ctx, text, t.MaxRetries)
}
