// ABOUTME: Action dispatcher executing engine decisions against the chat platform
// ABOUTME: Fire-and-forget semantics: failures are logged, never retried, never halt the sequence

package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/2389/warden/internal/engine"
)

// Actuator performs moderation actions against the remote chat platform.
// Implementations wrap a platform client; failures surface as errors but
// the dispatcher treats them as best-effort outcomes.
type Actuator interface {
	DeleteMessage(ctx context.Context, chatID, messageID int64) error
	RestrictUser(ctx context.Context, chatID, userID int64, duration time.Duration) error
	SendLog(ctx context.Context, chatID int64, text string) error
}

// Dispatcher executes a decision's actions in emitted order. The engine's
// correctness is defined over decisions emitted, not actions completed:
// an actuator failure is logged and the remaining actions still run.
type Dispatcher struct {
	actuator Actuator
	logger   *slog.Logger
}

// New creates a Dispatcher over the given actuator.
func New(actuator Actuator) *Dispatcher {
	return &Dispatcher{
		actuator: actuator,
		logger:   slog.Default().With("component", "dispatch"),
	}
}

// Dispatch executes the actions decided for the event.
func (d *Dispatcher) Dispatch(ctx context.Context, ev engine.Event, actions []engine.Action) {
	for _, action := range actions {
		var err error
		switch action.Kind {
		case engine.ActionAllow:
			// Nothing to do on the platform side.
			continue
		case engine.ActionDelete:
			err = d.actuator.DeleteMessage(ctx, ev.ChatID, ev.MessageID)
		case engine.ActionRestrict:
			err = d.actuator.RestrictUser(ctx, ev.ChatID, ev.UserID, time.Duration(action.Minutes)*time.Minute)
		case engine.ActionLog:
			err = d.actuator.SendLog(ctx, ev.ChatID, action.Text)
		default:
			d.logger.Error("unknown action kind", "event_id", ev.ID, "kind", action.Kind)
			continue
		}

		if err != nil {
			// Best effort: the message may already be gone or the bot may
			// lack rights. No retry, no escalation.
			d.logger.Warn("action failed",
				"event_id", ev.ID,
				"chat_id", ev.ChatID,
				"kind", action.Kind,
				"error", err,
			)
		}
	}
}
