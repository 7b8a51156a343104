// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

type joinKey struct {
	chatID int64
	userID int64
}

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu        sync.RWMutex
	settings  map[int64]*ChatSettings   // keyed by chat ID
	whitelist map[int64]map[string]bool // chat ID -> domain set
	joins     map[joinKey]int64         // (chat, user) -> join time

	// FailReads makes every read return an error, for fail-closed tests.
	FailReads bool
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		settings:  make(map[int64]*ChatSettings),
		whitelist: make(map[int64]map[string]bool),
		joins:     make(map[joinKey]int64),
	}
}

// GetOrCreate returns the chat's settings, creating defaults if absent.
func (m *MockStore) GetOrCreate(ctx context.Context, chatID int64) (*ChatSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailReads {
		return nil, fmt.Errorf("mock store: read failure")
	}

	cs, ok := m.settings[chatID]
	if !ok {
		cs = DefaultSettings(chatID)
		m.settings[chatID] = cs
	}

	// Return a copy
	result := *cs
	return &result, nil
}

// SetField updates a single settings field using the same validation as
// the SQLite implementation.
func (m *MockStore) SetField(ctx context.Context, chatID int64, field string, value string) error {
	_, parsed, err := settingsColumn(field, value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cs, ok := m.settings[chatID]
	if !ok {
		cs = DefaultSettings(chatID)
		m.settings[chatID] = cs
	}

	switch field {
	case FieldAntiLinks:
		cs.AntiLinks = parsed.(int) != 0
	case FieldFloodN:
		cs.FloodN = parsed.(int)
	case FieldFloodWindowSec:
		cs.FloodWindowSec = parsed.(int)
	case FieldFloodMuteMin:
		cs.FloodMuteMin = parsed.(int)
	case FieldNewbieProtectMin:
		cs.NewbieProtectMin = parsed.(int)
	case FieldLogMode:
		cs.LogMode = parsed.(string)
	}

	return nil
}

// AddWhitelist adds a normalized domain to the chat's whitelist set.
func (m *MockStore) AddWhitelist(ctx context.Context, chatID int64, domain string) error {
	normalized := strings.ToLower(strings.TrimSpace(domain))
	if normalized == "" {
		return fmt.Errorf("%w: empty domain", ErrInvalidSetting)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.whitelist[chatID]
	if !ok {
		set = make(map[string]bool)
		m.whitelist[chatID] = set
	}
	set[normalized] = true

	return nil
}

// ListWhitelist returns the chat's whitelist sorted lexicographically.
func (m *MockStore) ListWhitelist(ctx context.Context, chatID int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailReads {
		return nil, fmt.Errorf("mock store: read failure")
	}

	var domains []string
	for d := range m.whitelist[chatID] {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	return domains, nil
}

// RecordJoin upserts the join time for a user in a chat.
func (m *MockStore) RecordJoin(ctx context.Context, chatID, userID, joinedAt int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.joins[joinKey{chatID, userID}] = joinedAt
	return nil
}

// GetJoinTime returns the recorded join time, if any.
func (m *MockStore) GetJoinTime(ctx context.Context, chatID, userID int64) (int64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailReads {
		return 0, false, fmt.Errorf("mock store: read failure")
	}

	t, ok := m.joins[joinKey{chatID, userID}]
	return t, ok, nil
}

// Close is a no-op for the mock store.
func (m *MockStore) Close() error {
	return nil
}
