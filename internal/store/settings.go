// ABOUTME: Chat settings persistence: lazy default creation and validated field updates
// ABOUTME: SetField accepts only the closed set of known fields, never raw column names

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// GetOrCreate returns the settings row for the chat, inserting the
// documented defaults first if no row exists yet.
func (s *SQLiteStore) GetOrCreate(ctx context.Context, chatID int64) (*ChatSettings, error) {
	// INSERT OR IGNORE keeps the call atomic: concurrent first references
	// to the same chat race harmlessly to a single default row.
	insert := `INSERT OR IGNORE INTO chat_settings (chat_id) VALUES (?)`
	if _, err := s.db.ExecContext(ctx, insert, chatID); err != nil {
		return nil, fmt.Errorf("inserting default settings: %w", err)
	}

	query := `
		SELECT chat_id, anti_links, flood_n, flood_window_sec,
		       flood_mute_min, newbie_protect_min, log_mode
		FROM chat_settings WHERE chat_id = ?
	`

	var cs ChatSettings
	var antiLinks int
	err := s.db.QueryRowContext(ctx, query, chatID).Scan(
		&cs.ChatID, &antiLinks, &cs.FloodN, &cs.FloodWindowSec,
		&cs.FloodMuteMin, &cs.NewbieProtectMin, &cs.LogMode,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	cs.AntiLinks = antiLinks != 0
	return &cs, nil
}

// settingsColumn maps a settable field name to its column and parses the
// value, enforcing the declared range. Returns ErrInvalidSetting for
// unknown fields or out-of-range values.
func settingsColumn(field, value string) (column string, parsed any, err error) {
	switch field {
	case FieldAntiLinks:
		switch value {
		case "on", "true", "1":
			return "anti_links", 1, nil
		case "off", "false", "0":
			return "anti_links", 0, nil
		}
		return "", nil, fmt.Errorf("%w: %s must be on or off", ErrInvalidSetting, field)

	case FieldFloodN, FieldFloodWindowSec, FieldFloodMuteMin:
		n, perr := strconv.Atoi(value)
		if perr != nil || n <= 0 {
			return "", nil, fmt.Errorf("%w: %s must be a positive integer", ErrInvalidSetting, field)
		}
		return field, n, nil

	case FieldNewbieProtectMin:
		n, perr := strconv.Atoi(value)
		if perr != nil || n < 0 {
			return "", nil, fmt.Errorf("%w: %s must be a non-negative integer", ErrInvalidSetting, field)
		}
		return field, n, nil

	case FieldLogMode:
		if value != LogModeHere && value != LogModeOff {
			return "", nil, fmt.Errorf("%w: %s must be here or off", ErrInvalidSetting, field)
		}
		return field, value, nil
	}

	return "", nil, fmt.Errorf("%w: unknown field %q", ErrInvalidSetting, field)
}

// SetField updates a single settings field for the chat, creating the row
// with defaults first if it does not exist.
func (s *SQLiteStore) SetField(ctx context.Context, chatID int64, field string, value string) error {
	column, parsed, err := settingsColumn(field, value)
	if err != nil {
		return err
	}

	// The column name comes from the allow-list above, never from input.
	upsert := fmt.Sprintf(`
		INSERT INTO chat_settings (chat_id, %s) VALUES (?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET %s = excluded.%s
	`, column, column, column)

	if _, err := s.db.ExecContext(ctx, upsert, chatID, parsed); err != nil {
		return fmt.Errorf("updating %s: %w", field, err)
	}

	s.logger.Debug("setting updated", "chat_id", chatID, "field", field, "value", value)
	return nil
}
