// Package notify fans urgent-need alerts out to eligible donors.
package notify

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/bloodlink/bloodbot/core/logger"
	"github.com/bloodlink/bloodbot/core/metrics"
	"log/slog"
)

// Sender delivers one message to one Telegram chat.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Result summarizes one broadcast batch.
type Result struct {
	BatchID string
	Sent    int
	Failed  int
}

// Broadcaster sends a message to many recipients under a shared rate
// limit. One failed recipient never aborts the batch.
type Broadcaster struct {
	limiter *rate.Limiter
	sender  atomic.Value
}

// NewBroadcaster builds a broadcaster capped at perSecond deliveries.
func NewBroadcaster(perSecond float64) *Broadcaster {
	if perSecond <= 0 {
		perSecond = 25
	}
	return &Broadcaster{
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// SetSender installs the delivery backend. The bot handle only exists
// after the Telegram runtime starts, so wiring happens late.
func (b *Broadcaster) SetSender(s Sender) {
	b.sender.Store(&s)
}

// Broadcast delivers text to every chat id, isolating per-recipient
// failures and tagging the whole batch with one correlation id.
func (b *Broadcaster) Broadcast(ctx context.Context, chatIDs []int64, text string) (Result, error) {
	res := Result{BatchID: uuid.NewString()}

	v := b.sender.Load()
	if v == nil {
		return res, fmt.Errorf("notify: sender not configured")
	}
	sender := *v.(*Sender)

	for _, chatID := range chatIDs {
		if err := b.limiter.Wait(ctx); err != nil {
			return res, err
		}
		if err := sender.Send(ctx, chatID, text); err != nil {
			res.Failed++
			metrics.ObserveNotification("fail")
			logger.Notify.Warn("delivery failed",
				slog.String("event", "notify.send"),
				slog.String("batch_id", res.BatchID),
				slog.Int64("chat_id", chatID),
				slog.String("err", err.Error()),
			)
			continue
		}
		res.Sent++
		metrics.ObserveNotification("ok")
	}

	logger.Notify.Info("broadcast finished",
		slog.String("event", "notify.batch"),
		slog.String("batch_id", res.BatchID),
		slog.Int("donors_total", len(chatIDs)),
		slog.Int("sent", res.Sent),
		slog.Int("failed", res.Failed),
	)
	return res, nil
}
