package notifier

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"AlphaSentinel/internal/model"
)

// FormatSignal formats a trade signal into a Telegram message.
func FormatSignal(sig *model.Signal) string {
	var b strings.Builder

	icon := "🟢"
	if sig.Direction == model.DirectionShort {
		icon = "🔴"
	}
	b.WriteString(fmt.Sprintf("%s <b>%s</b> | %s\n\n", icon, sig.Direction, sig.Pair))
	b.WriteString(fmt.Sprintf("Entry: %s\n", FormatPrice(sig.EntryPrice)))
	b.WriteString(fmt.Sprintf("Take profit: %s (%+.2f%%)\n", FormatPrice(sig.TakeProfit), sig.TakeProfitPct()))
	b.WriteString(fmt.Sprintf("Stop loss: %s (%+.2f%%)\n", FormatPrice(sig.StopLoss), sig.StopLossPct()))
	b.WriteString(fmt.Sprintf("Confidence: %d%%\n", sig.Confidence))
	b.WriteString(fmt.Sprintf("RSI: %.1f\n", sig.RSI))
	b.WriteString(fmt.Sprintf("MACD: %s\n", sig.MACDBias))
	return b.String()
}

// FormatPrice picks a precision that keeps sub-dollar quotes readable.
func FormatPrice(p float64) string {
	abs := math.Abs(p)
	prec := 2
	switch {
	case abs == 0 || abs >= 1000:
	case abs >= 1:
		prec = 4
	default:
		prec = 6
	}
	return strconv.FormatFloat(p, 'f', prec, 64)
}

// FormatDigest formats the periodic activity summary.
func FormatDigest(stats model.RunStats, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 <b>AlphaSentinel digest</b> | %s\n\n", now.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Period: since %s\n", stats.Since.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Sweeps: %d (failed %d)\n", stats.Sweeps, stats.FailedSweeps))
	b.WriteString(fmt.Sprintf("Pairs analyzed: %d\n", stats.PairsAnalyzed))
	b.WriteString(fmt.Sprintf("Fetch failures: %d\n", stats.FetchFailures))
	b.WriteString(fmt.Sprintf("Signals: %d (LONG %d / SHORT %d)\n", stats.Signals(), stats.LongSignals, stats.ShortSignals))
	if stats.NotifyFailures > 0 {
		b.WriteString(fmt.Sprintf("Notification failures: %d\n", stats.NotifyFailures))
	}
	return b.String()
}

// FormatStatus formats the runner state for the /status command.
func FormatStatus(state model.RunnerState, stats model.RunStats, pairs []string, timeframe string) string {
	var b strings.Builder
	b.WriteString("📦 <b>AlphaSentinel status</b>\n\n")
	b.WriteString(fmt.Sprintf("State: %s\n", state))
	b.WriteString(fmt.Sprintf("Pairs: %s (%s)\n", strings.Join(pairs, ", "), timeframe))
	if stats.LastSweepAt.IsZero() {
		b.WriteString("Last sweep: never\n")
	} else {
		b.WriteString(fmt.Sprintf("Last sweep: %s\n", stats.LastSweepAt.Format("2006-01-02 15:04:05")))
	}
	b.WriteString(fmt.Sprintf("Sweeps: %d | Signals: %d\n", stats.Sweeps, stats.Signals()))
	return b.String()
}
