// ABOUTME: Join ledger persistence mapping (chat, user) to the latest join time
// ABOUTME: Rejoins overwrite the prior record; absence means the user is not tracked

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// RecordJoin upserts the join time for a user in a chat. A rejoin
// replaces the prior record; the latest join always wins.
func (s *SQLiteStore) RecordJoin(ctx context.Context, chatID, userID, joinedAt int64) error {
	upsert := `INSERT OR REPLACE INTO joins (chat_id, user_id, joined_at) VALUES (?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, upsert, chatID, userID, joinedAt); err != nil {
		return fmt.Errorf("recording join: %w", err)
	}

	return nil
}

// GetJoinTime returns the recorded join time for a user in a chat.
// The second return is false when no join was ever recorded; callers must
// treat that as "not a newbie", never as a join at time zero.
func (s *SQLiteStore) GetJoinTime(ctx context.Context, chatID, userID int64) (int64, bool, error) {
	query := `SELECT joined_at FROM joins WHERE chat_id = ? AND user_id = ?`

	var joinedAt int64
	err := s.db.QueryRowContext(ctx, query, chatID, userID).Scan(&joinedAt)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading join time: %w", err)
	}

	return joinedAt, true, nil
}
