// ABOUTME: Store interface and data types for warden persistence
// ABOUTME: Defines ChatSettings, whitelist and join-ledger operations

package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrInvalidSetting is returned when a settings field name is unknown
// or its value is outside the declared range
var ErrInvalidSetting = errors.New("invalid setting")

// LogMode values for ChatSettings.LogMode
const (
	LogModeHere = "here" // emit log actions into the chat
	LogModeOff  = "off"  // suppress log actions
)

// Settable field names accepted by SetField. Field names from external
// input must be checked against this closed set, never interpolated.
const (
	FieldAntiLinks        = "anti_links"
	FieldFloodN           = "flood_n"
	FieldFloodWindowSec   = "flood_window_sec"
	FieldFloodMuteMin     = "flood_mute_min"
	FieldNewbieProtectMin = "newbie_protect_min"
	FieldLogMode          = "log_mode"
)

// ChatSettings holds the moderation policy for a single chat.
// A row is created lazily with defaults the first time a chat is referenced.
type ChatSettings struct {
	ChatID           int64
	AntiLinks        bool   // delete messages containing non-whitelisted links
	FloodN           int    // max messages per window before a flood mute
	FloodWindowSec   int    // sliding window length in seconds
	FloodMuteMin     int    // mute duration in minutes
	NewbieProtectMin int    // newbie window in minutes, 0 disables
	LogMode          string // "here" or "off"
}

// DefaultSettings returns the settings a chat starts with before any
// admin command has touched it.
func DefaultSettings(chatID int64) *ChatSettings {
	return &ChatSettings{
		ChatID:           chatID,
		AntiLinks:        true,
		FloodN:           6,
		FloodWindowSec:   10,
		FloodMuteMin:     15,
		NewbieProtectMin: 15,
		LogMode:          LogModeHere,
	}
}

// Store defines the persistence operations backing the policy engine and
// the admin command surface
type Store interface {
	// Settings
	GetOrCreate(ctx context.Context, chatID int64) (*ChatSettings, error)
	SetField(ctx context.Context, chatID int64, field string, value string) error

	// Whitelist
	AddWhitelist(ctx context.Context, chatID int64, domain string) error
	ListWhitelist(ctx context.Context, chatID int64) ([]string, error)

	// Join ledger
	RecordJoin(ctx context.Context, chatID, userID, joinedAt int64) error
	GetJoinTime(ctx context.Context, chatID, userID int64) (int64, bool, error)

	Close() error
}
