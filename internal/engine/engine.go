// ABOUTME: Policy engine evaluating moderation rules in fixed priority order
// ABOUTME: First matching terminal rule wins; flood counting runs on every surviving message

package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/2389/warden/internal/links"
	"github.com/2389/warden/internal/store"
)

// SettingsSource provides per-chat moderation settings
type SettingsSource interface {
	GetOrCreate(ctx context.Context, chatID int64) (*store.ChatSettings, error)
}

// JoinSource tracks when users joined chats
type JoinSource interface {
	RecordJoin(ctx context.Context, chatID, userID, joinedAt int64) error
	GetJoinTime(ctx context.Context, chatID, userID int64) (int64, bool, error)
}

// FloodCounter counts messages per (chat, user) over a sliding window
type FloodCounter interface {
	RecordAndCount(chatID, userID, now int64, windowSec int) int
}

// Engine evaluates inbound events against the chat's policy and emits an
// ordered decision. It is synchronous: one event in, one decision out.
// Per-key serialization of flood state lives inside the FloodCounter, so
// the transport may run events for different keys concurrently.
type Engine struct {
	settings SettingsSource
	joins    JoinSource
	flood    FloodCounter
	matcher  *links.Matcher
	logger   *slog.Logger
}

// New creates a policy engine over the given collaborators.
func New(settings SettingsSource, joins JoinSource, flood FloodCounter, matcher *links.Matcher) *Engine {
	return &Engine{
		settings: settings,
		joins:    joins,
		flood:    flood,
		matcher:  matcher,
		logger:   slog.Default().With("component", "engine"),
	}
}

// Evaluate renders the decision for one inbound event. A storage failure
// while reading policy state fails closed: the event is skipped (no
// actions) rather than crashing the pipeline, and other events are
// unaffected.
func (e *Engine) Evaluate(ctx context.Context, ev Event) []Action {
	if ev.Kind == KindJoin {
		if err := e.joins.RecordJoin(ctx, ev.ChatID, ev.UserID, ev.Now); err != nil {
			e.logger.Warn("recording join failed", "event_id", ev.ID, "chat_id", ev.ChatID, "user_id", ev.UserID, "error", err)
		}
		return nil
	}

	settings, err := e.settings.GetOrCreate(ctx, ev.ChatID)
	if err != nil {
		e.logger.Warn("settings unavailable, skipping moderation", "event_id", ev.ID, "chat_id", ev.ChatID, "error", err)
		return nil
	}

	// Rule 1: admins bypass everything, including flood accounting.
	if ev.IsAdmin {
		return []Action{Allow()}
	}

	newbie := e.isNewbie(ctx, ev, settings)

	// Rule 2: anti-link. Terminal on the first disallowed domain.
	if settings.AntiLinks {
		actions, violated := e.checkLinks(ctx, ev, settings, newbie)
		if violated {
			return actions
		}
	}

	// Rule 3: newbies may not forward or post media.
	if newbie {
		if ev.HasForward {
			actions := []Action{Delete()}
			return e.appendLog(actions, settings, fmt.Sprintf("Deleted forward from newbie %s", ev.userLabel()))
		}
		if ev.hasMedia() {
			actions := []Action{Delete()}
			return e.appendLog(actions, settings, fmt.Sprintf("Deleted media from newbie %s", ev.userLabel()))
		}
	}

	// Rule 4: flood. Counting happens on every message that survived the
	// content rules so the sliding window stays accurate.
	count := e.flood.RecordAndCount(ev.ChatID, ev.UserID, ev.Now, settings.FloodWindowSec)
	if count > settings.FloodN {
		actions := []Action{Restrict(settings.FloodMuteMin)}
		return e.appendLog(actions, settings,
			fmt.Sprintf("Muted for flood %s (%d min)", ev.userLabel(), settings.FloodMuteMin))
	}

	return nil
}

// checkLinks extracts domains from the message and returns the link
// violation decision if any domain is not whitelisted. The second return
// is false when no violation occurred. A whitelist read failure fails
// closed for this event (no violation, warning logged).
func (e *Engine) checkLinks(ctx context.Context, ev Event, settings *store.ChatSettings, newbie bool) ([]Action, bool) {
	for _, domain := range links.ExtractDomains(ev.Text) {
		allowed, err := e.matcher.IsAllowed(ctx, ev.ChatID, domain)
		if err != nil {
			e.logger.Warn("whitelist unavailable, skipping link check", "event_id", ev.ID, "chat_id", ev.ChatID, "error", err)
			return nil, false
		}
		if allowed {
			continue
		}

		actions := []Action{Delete()}
		actions = e.appendLog(actions, settings, fmt.Sprintf("Deleted link from %s", ev.userLabel()))
		if newbie {
			// Intentional double action: link deletion plus a mute for
			// newbies, reusing the flood mute duration.
			actions = append(actions, Restrict(settings.FloodMuteMin))
			actions = e.appendLog(actions, settings,
				fmt.Sprintf("Muted newbie for links (%d min)", settings.FloodMuteMin))
		}
		return actions, true
	}

	return nil, false
}

// isNewbie reports whether the event author joined within the chat's
// newbie window. An unknown join time means not a newbie: users present
// before the bot was added are never treated as fresh joins.
func (e *Engine) isNewbie(ctx context.Context, ev Event, settings *store.ChatSettings) bool {
	if settings.NewbieProtectMin <= 0 {
		return false
	}

	joinedAt, ok, err := e.joins.GetJoinTime(ctx, ev.ChatID, ev.UserID)
	if err != nil {
		e.logger.Warn("join ledger unavailable", "event_id", ev.ID, "chat_id", ev.ChatID, "user_id", ev.UserID, "error", err)
		return false
	}
	if !ok {
		return false
	}

	return ev.Now-joinedAt < int64(settings.NewbieProtectMin)*60
}

// appendLog appends a log action unless the chat has logging turned off.
// Delete and restrict actions are never suppressed by log mode.
func (e *Engine) appendLog(actions []Action, settings *store.ChatSettings, text string) []Action {
	if settings.LogMode != store.LogModeHere {
		return actions
	}
	return append(actions, Log(text))
}
