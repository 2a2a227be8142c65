// ABOUTME: Store interface and data types for persisted user settings
// ABOUTME: Settings are grouped key/value strings; counters are never persisted

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// Setting is one persisted configuration value.
type Setting struct {
	Group     string
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Store persists settings between sessions.
type Store interface {
	// GetSetting returns the setting or ErrNotFound.
	GetSetting(ctx context.Context, group, key string) (*Setting, error)
	// SetSetting creates or replaces a setting.
	SetSetting(ctx context.Context, setting *Setting) error
	// ListSettings returns every setting in group ordered by key.
	ListSettings(ctx context.Context, group string) ([]*Setting, error)
	// DeleteSetting removes a setting. Deleting a missing key returns ErrNotFound.
	DeleteSetting(ctx context.Context, group, key string) error
	Close() error
}
