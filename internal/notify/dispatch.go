package notify

import (
	"context"
	"time"

	"hirehelp-backend/internal/shared/metrics"
	"hirehelp-backend/internal/shared/telemetry"
)

const defaultDispatchTimeout = 5 * time.Second

// Dispatcher wraps a Notifier so that callers can fire a notification after a
// state transition without that transition's success depending on delivery.
// Errors and timeouts are logged and counted, never returned.
type Dispatcher struct {
	Notifier Notifier
	Timeout  time.Duration
}

// Dispatch sends a notification best-effort. A nil dispatcher or notifier is a no-op.
func (d *Dispatcher) Dispatch(ctx context.Context, kind Kind, to Recipient, payload Payload) {
	if d == nil || d.Notifier == nil {
		return
	}
	if to.Email == "" {
		telemetry.Warn("notify.skipped", map[string]any{
			"kind":   string(kind),
			"reason": "empty recipient",
		})
		return
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = defaultDispatchTimeout
	}
	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := d.Notifier.Send(sendCtx, kind, to, payload); err != nil {
		metrics.IncNotificationsFailed()
		telemetry.Error("notify.failed", map[string]any{
			"kind":      string(kind),
			"recipient": to.Email,
			"error":     err.Error(),
		})
		return
	}

	metrics.IncNotificationsSent()
	telemetry.Info("notify.sent", map[string]any{
		"kind":      string(kind),
		"recipient": to.Email,
	})
}
