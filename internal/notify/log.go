package notify

import (
	"context"

	"hirehelp-backend/internal/shared/telemetry"
)

// LogNotifier writes notifications to the log instead of delivering them.
// It is the default channel for dev environments.
type LogNotifier struct{}

func (LogNotifier) Send(ctx context.Context, kind Kind, to Recipient, payload Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	telemetry.Info("notify.log", map[string]any{
		"kind":      string(kind),
		"recipient": to.Email,
		"payload":   payload,
	})
	return nil
}

var _ Notifier = LogNotifier{}
