// ABOUTME: Per-chat domain whitelist persistence with set semantics
// ABOUTME: Domains are normalized to lowercase before insert; duplicate adds are no-ops

package store

import (
	"context"
	"fmt"
	"strings"
)

// AddWhitelist inserts a domain into the chat's whitelist. The domain is
// trimmed and lowercased first. Adding a domain that is already present
// is a no-op, not an error.
func (s *SQLiteStore) AddWhitelist(ctx context.Context, chatID int64, domain string) error {
	normalized := strings.ToLower(strings.TrimSpace(domain))
	if normalized == "" {
		return fmt.Errorf("%w: empty domain", ErrInvalidSetting)
	}

	insert := `INSERT OR IGNORE INTO whitelist (chat_id, domain) VALUES (?, ?)`
	if _, err := s.db.ExecContext(ctx, insert, chatID, normalized); err != nil {
		return fmt.Errorf("adding whitelist domain: %w", err)
	}

	return nil
}

// ListWhitelist returns the chat's whitelisted domains sorted
// lexicographically for deterministic display.
func (s *SQLiteStore) ListWhitelist(ctx context.Context, chatID int64) ([]string, error) {
	query := `SELECT domain FROM whitelist WHERE chat_id = ? ORDER BY domain`

	rows, err := s.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("listing whitelist: %w", err)
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning whitelist row: %w", err)
		}
		domains = append(domains, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating whitelist rows: %w", err)
	}

	return domains, nil
}
