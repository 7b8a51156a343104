// ABOUTME: Dry-run actuator that records moderation actions to the log
// ABOUTME: Stands in for a platform client when warden runs without outbound credentials

package dispatch

import (
	"context"
	"log/slog"
	"time"
)

// DryRunActuator implements Actuator by logging each action instead of
// touching the chat platform. Useful for shadow deployments where the
// decisions should be observable before enforcement is switched on.
type DryRunActuator struct {
	logger *slog.Logger
}

// NewDryRunActuator creates an actuator that only logs.
func NewDryRunActuator() *DryRunActuator {
	return &DryRunActuator{
		logger: slog.Default().With("component", "actuator", "mode", "dry-run"),
	}
}

// DeleteMessage logs the delete instead of performing it.
func (a *DryRunActuator) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	a.logger.Info("would delete message", "chat_id", chatID, "message_id", messageID)
	return nil
}

// RestrictUser logs the restriction instead of performing it.
func (a *DryRunActuator) RestrictUser(ctx context.Context, chatID, userID int64, duration time.Duration) error {
	a.logger.Info("would restrict user", "chat_id", chatID, "user_id", userID, "duration", duration)
	return nil
}

// SendLog logs the chat log line instead of sending it.
func (a *DryRunActuator) SendLog(ctx context.Context, chatID int64, text string) error {
	a.logger.Info("would send log", "chat_id", chatID, "text", text)
	return nil
}
