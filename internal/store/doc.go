// Package store persists user settings using SQLite.
//
// # Architecture
//
// Store is the interface the settings manager depends on. SQLiteStore is the
// production implementation; MockStore is an in-memory implementation for
// tests.
//
// # Data Model
//
// Settings are grouped key/value strings:
//
//	settings(group_name, key, value, updated_at)  PRIMARY KEY (group_name, key)
//
// Only configuration is persisted. Tracker counters and duplicate caches live
// for the process lifetime.
//
// # SQLite Configuration
//
// File databases use WAL mode:
//
//	PRAGMA journal_mode=WAL;
//
// Use NewSQLiteStore(":memory:") for an in-memory database.
//
// # Error Handling
//
// ErrNotFound is returned for missing settings. All methods accept
// context.Context for cancellation support.
package store
