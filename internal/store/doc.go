// Package store provides persistent storage for warden using SQLite.
//
// Three relations back the moderation engine:
//
//   - chat_settings: one row per chat, created lazily with defaults
//   - whitelist: set of allowed domains per chat
//   - joins: latest join time per (chat, user)
//
// SQLiteStore implements the Store interface; MockStore is an in-memory
// implementation for tests. The store uses WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// All mutations are durable before the call returns; there is no
// write-behind caching.
package store
