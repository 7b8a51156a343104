// ABOUTME: Admin command parsing mapping /status, /flood etc. onto the settings store
// ABOUTME: Malformed input yields a usage reply, never an error escalation

package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/2389/warden/internal/store"
)

// Settings is the slice of the store the command surface needs
type Settings interface {
	GetOrCreate(ctx context.Context, chatID int64) (*store.ChatSettings, error)
	SetField(ctx context.Context, chatID int64, field string, value string) error
	AddWhitelist(ctx context.Context, chatID int64, domain string) error
	ListWhitelist(ctx context.Context, chatID int64) ([]string, error)
}

// Usage strings returned for malformed commands.
const (
	usageAntilinks = "Usage: /antilinks on|off"
	usageWhitelist = "Usage: /whitelist add <domain>"
	usageFlood     = "Usage: /flood <N> <windowSec> <muteMin>"
	usageNewbie    = "Usage: /newbie <minutes>"
	usageLog       = "Usage: /log here|off"

	storageFailure = "Storage error, setting not saved"
)

// Handler parses admin text commands and applies them to the store.
type Handler struct {
	settings Settings
	logger   *slog.Logger
}

// NewHandler creates a command handler over the given settings store.
func NewHandler(settings Settings) *Handler {
	return &Handler{
		settings: settings,
		logger:   slog.Default().With("component", "command"),
	}
}

// Handle parses one admin message. The returned reply is empty when the
// text is not a recognized command; callers send non-empty replies back
// to the chat.
func (h *Handler) Handle(ctx context.Context, chatID int64, text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}

	// Commands may arrive as /status@botname in group chats.
	cmd := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(cmd, '@'); at >= 0 {
		cmd = cmd[:at]
	}
	args := fields[1:]

	switch cmd {
	case "status":
		return h.status(ctx, chatID)
	case "antilinks":
		return h.antilinks(ctx, chatID, args)
	case "whitelist":
		return h.whitelist(ctx, chatID, args)
	case "flood":
		return h.flood(ctx, chatID, args)
	case "newbie":
		return h.newbie(ctx, chatID, args)
	case "log":
		return h.logMode(ctx, chatID, args)
	}

	return ""
}

func (h *Handler) status(ctx context.Context, chatID int64) string {
	settings, err := h.settings.GetOrCreate(ctx, chatID)
	if err != nil {
		h.logger.Warn("status read failed", "chat_id", chatID, "error", err)
		return storageFailure
	}

	whitelist, err := h.settings.ListWhitelist(ctx, chatID)
	if err != nil {
		h.logger.Warn("whitelist read failed", "chat_id", chatID, "error", err)
		return storageFailure
	}

	antilinks := "off"
	if settings.AntiLinks {
		antilinks = "on"
	}
	domains := "(none)"
	if len(whitelist) > 0 {
		domains = strings.Join(whitelist, ", ")
	}

	return fmt.Sprintf(
		"Moderation status:\n"+
			"antilinks: %s\n"+
			"flood: %d msgs / %ds, mute %d min\n"+
			"newbie window: %d min\n"+
			"log: %s\n"+
			"whitelist: %s",
		antilinks,
		settings.FloodN, settings.FloodWindowSec, settings.FloodMuteMin,
		settings.NewbieProtectMin,
		settings.LogMode,
		domains,
	)
}

func (h *Handler) antilinks(ctx context.Context, chatID int64, args []string) string {
	if len(args) != 1 {
		return usageAntilinks
	}
	return h.set(ctx, chatID, store.FieldAntiLinks, args[0], usageAntilinks,
		fmt.Sprintf("antilinks %s", args[0]))
}

func (h *Handler) whitelist(ctx context.Context, chatID int64, args []string) string {
	if len(args) == 0 {
		domains, err := h.settings.ListWhitelist(ctx, chatID)
		if err != nil {
			h.logger.Warn("whitelist read failed", "chat_id", chatID, "error", err)
			return storageFailure
		}
		if len(domains) == 0 {
			return "Whitelist is empty"
		}
		return "Whitelist: " + strings.Join(domains, ", ")
	}

	if len(args) != 2 || args[0] != "add" {
		return usageWhitelist
	}

	if err := h.settings.AddWhitelist(ctx, chatID, args[1]); err != nil {
		if errors.Is(err, store.ErrInvalidSetting) {
			return usageWhitelist
		}
		h.logger.Warn("whitelist add failed", "chat_id", chatID, "error", err)
		return storageFailure
	}

	return fmt.Sprintf("Whitelisted %s", strings.ToLower(strings.TrimSpace(args[1])))
}

func (h *Handler) flood(ctx context.Context, chatID int64, args []string) string {
	if len(args) != 3 {
		return usageFlood
	}

	updates := [][2]string{
		{store.FieldFloodN, args[0]},
		{store.FieldFloodWindowSec, args[1]},
		{store.FieldFloodMuteMin, args[2]},
	}
	for _, u := range updates {
		if reply := h.set(ctx, chatID, u[0], u[1], usageFlood, ""); reply != "" {
			return reply
		}
	}

	return fmt.Sprintf("Flood control: %s msgs / %ss, mute %s min", args[0], args[1], args[2])
}

func (h *Handler) newbie(ctx context.Context, chatID int64, args []string) string {
	if len(args) != 1 {
		return usageNewbie
	}
	return h.set(ctx, chatID, store.FieldNewbieProtectMin, args[0], usageNewbie,
		fmt.Sprintf("Newbie window: %s min", args[0]))
}

func (h *Handler) logMode(ctx context.Context, chatID int64, args []string) string {
	if len(args) != 1 {
		return usageLog
	}
	return h.set(ctx, chatID, store.FieldLogMode, args[0], usageLog,
		fmt.Sprintf("Log mode: %s", args[0]))
}

// set applies one field update, translating validation failures into the
// command's usage string. Returns ok as the reply on success.
func (h *Handler) set(ctx context.Context, chatID int64, field, value, usage, ok string) string {
	err := h.settings.SetField(ctx, chatID, field, value)
	if errors.Is(err, store.ErrInvalidSetting) {
		return usage
	}
	if err != nil {
		h.logger.Warn("setting write failed", "chat_id", chatID, "field", field, "error", err)
		return storageFailure
	}
	return ok
}
