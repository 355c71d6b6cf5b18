package notifier

import (
	"context"

	"AlphaSentinel/internal/model"
)

// NoopNotifier is used when Telegram credentials are not configured.
type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier { return &NoopNotifier{} }

func (n *NoopNotifier) Notify(_ context.Context, _ *model.Signal) error { return nil }
func (n *NoopNotifier) SendText(_ context.Context, _ string) error      { return nil }
