// Package notify delivers rendered messages to the configured chat.
//
// Delivery is best-effort: a failed send is logged and reported to the
// caller, but nothing retries inside a cycle. The poller keeps its dedup
// state untouched on failure, so the same message goes out on the next tick.
package notify

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"hwbot/internal/transport"
	"hwbot/pkg/logx"
)

type Notifier struct {
	sender  transport.Sender
	target  transport.ChatTarget
	limiter *rate.Limiter
	log     logx.Logger
}

// sendTimeout bounds a single delivery so a wedged transport cannot stall
// the poll loop past its next tick.
const sendTimeout = 10 * time.Second

func New(sender transport.Sender, target transport.ChatTarget, ratePerSec int, log logx.Logger) *Notifier {
	if ratePerSec <= 0 {
		ratePerSec = 1
	}
	return &Notifier{
		sender: sender,
		target: target,
		// Token bucket: burst = rate per sec, so short spikes don't block too hard.
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec),
		log:     log,
	}
}

func (n *Notifier) Send(ctx context.Context, text string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, err := n.sender.SendText(callCtx, n.target, text, &transport.SendOptions{DisablePreview: true})
	if err != nil {
		n.log.Warn("notification send failed",
			logx.Int64("chat_id", n.target.ChatID),
			logx.Err(err))
		return err
	}
	n.log.Info("notification sent", logx.Int64("chat_id", n.target.ChatID))
	return nil
}
