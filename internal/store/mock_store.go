// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu       sync.RWMutex
	settings map[string]*Setting // keyed by "group:key"

	// SetErr, when non-nil, is returned by SetSetting.
	SetErr error
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		settings: make(map[string]*Setting),
	}
}

func settingKey(group, key string) string {
	return group + ":" + key
}

// GetSetting retrieves a setting.
func (m *MockStore) GetSetting(ctx context.Context, group, key string) (*Setting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st, ok := m.settings[settingKey(group, key)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *st
	return &cp, nil
}

// SetSetting stores a setting.
func (m *MockStore) SetSetting(ctx context.Context, setting *Setting) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetErr != nil {
		return m.SetErr
	}
	if setting.UpdatedAt.IsZero() {
		setting.UpdatedAt = time.Now().UTC()
	}
	// Make a copy to avoid external modification
	cp := *setting
	m.settings[settingKey(setting.Group, setting.Key)] = &cp
	return nil
}

// ListSettings returns every setting in group ordered by key.
func (m *MockStore) ListSettings(ctx context.Context, group string) ([]*Setting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Setting
	for _, st := range m.settings {
		if st.Group == group {
			cp := *st
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// DeleteSetting removes a setting.
func (m *MockStore) DeleteSetting(ctx context.Context, group, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := settingKey(group, key)
	if _, ok := m.settings[k]; !ok {
		return ErrNotFound
	}
	delete(m.settings, k)
	return nil
}

// Close is a no-op.
func (m *MockStore) Close() error {
	return nil
}
