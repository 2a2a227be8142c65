// ABOUTME: Typed, persisted plugin settings with change notifications
// ABOUTME: Backs the classifier options and the Config tracker selection

package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/2389/chat-success-rates/internal/classify"
	"github.com/2389/chat-success-rates/internal/eventbus"
	"github.com/2389/chat-success-rates/internal/skill"
	"github.com/2389/chat-success-rates/internal/store"
)

// Group is the settings group every key lives in.
const Group = "chatsuccessrates"

// Setting keys.
const (
	KeyAddLevelPrefix  = "addLevelPrefix"
	KeyUseBoostedLevel = "useBoostedLevel"
	KeyLevelPrefix     = "levelPrefix"
	KeyMessageSuccess  = "messageSuccess"
	KeyMessageFailure  = "messageFailure"
	KeyCurrentSkill    = "currentSkill"
	KeyCurrentTracker  = "currentTracker"
)

// ErrUnknownKey is returned for keys outside the settings group.
var ErrUnknownKey = errors.New("unknown setting")

// Keys returns every setting key in display order.
func Keys() []string {
	return []string{
		KeyAddLevelPrefix,
		KeyUseBoostedLevel,
		KeyLevelPrefix,
		KeyMessageSuccess,
		KeyMessageFailure,
		KeyCurrentSkill,
		KeyCurrentTracker,
	}
}

// Values is a snapshot of every setting.
type Values struct {
	AddLevelPrefix  bool
	UseBoostedLevel bool
	LevelPrefix     skill.Skill
	MessageSuccess  string
	MessageFailure  string
	CurrentSkill    int
	CurrentTracker  int
}

// Defaults returns the settings used before anything is saved.
func Defaults() Values {
	return Values{
		AddLevelPrefix:  true,
		UseBoostedLevel: true,
		LevelPrefix:     skill.Overall,
	}
}

// Selection returns the classifier selection described by v.
func (v Values) Selection() classify.Selection {
	return classify.Selection{
		Skill:      v.LevelPrefix,
		UseBoosted: v.UseBoostedLevel,
		Success:    classify.ParsePatterns(v.MessageSuccess),
		Failure:    classify.ParsePatterns(v.MessageFailure),
	}
}

// ClassifierOptions returns the options the classifier reads.
func (v Values) ClassifierOptions() classify.Options {
	return classify.Options{
		AddLevelPrefix: v.AddLevelPrefix,
		Selection:      v.Selection(),
	}
}

// get returns the string form of key.
func (v Values) get(key string) (string, error) {
	switch key {
	case KeyAddLevelPrefix:
		return strconv.FormatBool(v.AddLevelPrefix), nil
	case KeyUseBoostedLevel:
		return strconv.FormatBool(v.UseBoostedLevel), nil
	case KeyLevelPrefix:
		return v.LevelPrefix.String(), nil
	case KeyMessageSuccess:
		return v.MessageSuccess, nil
	case KeyMessageFailure:
		return v.MessageFailure, nil
	case KeyCurrentSkill:
		return strconv.Itoa(v.CurrentSkill), nil
	case KeyCurrentTracker:
		return strconv.Itoa(v.CurrentTracker), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
}

// set parses value into key.
func (v *Values) set(key, value string) error {
	var err error
	switch key {
	case KeyAddLevelPrefix:
		v.AddLevelPrefix, err = strconv.ParseBool(value)
	case KeyUseBoostedLevel:
		v.UseBoostedLevel, err = strconv.ParseBool(value)
	case KeyLevelPrefix:
		v.LevelPrefix, err = skill.Parse(value)
	case KeyMessageSuccess:
		v.MessageSuccess = value
	case KeyMessageFailure:
		v.MessageFailure = value
	case KeyCurrentSkill:
		v.CurrentSkill, err = strconv.Atoi(value)
	case KeyCurrentTracker:
		v.CurrentTracker, err = strconv.Atoi(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

// Change describes one saved setting.
type Change struct {
	Group    string
	Key      string
	OldValue string
	NewValue string
}

// Manager holds the live settings and persists every change.
type Manager struct {
	store    store.Store
	defaults Values
	changes  *eventbus.Bus[Change]
	logger   *slog.Logger

	mu     sync.RWMutex
	values Values
}

// NewManager loads persisted settings over defaults. A persisted value that
// no longer parses is logged and the default is kept.
func NewManager(ctx context.Context, s store.Store, defaults Values, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		store:    s,
		defaults: defaults,
		changes:  eventbus.New[Change]("settings", logger),
		logger:   logger.With("component", "settings"),
		values:   defaults,
	}

	saved, err := s.ListSettings(ctx, Group)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	for _, st := range saved {
		if err := m.values.set(st.Key, st.Value); err != nil {
			m.logger.Warn("ignoring saved setting", "key", st.Key, "error", err)
		}
	}

	m.logger.Debug("settings loaded", "saved", len(saved))
	return m, nil
}

// Values returns a snapshot of the current settings.
func (m *Manager) Values() Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values
}

// Get returns the string form of key.
func (m *Manager) Get(key string) (string, error) {
	return m.Values().get(key)
}

// Set validates, persists and applies a setting, then publishes a Change.
// Setting a key to its current value publishes nothing.
func (m *Manager) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	next := m.values
	old, err := next.get(key)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if err := next.set(key, value); err != nil {
		m.mu.Unlock()
		return err
	}
	// Store the normalised form, e.g. "Thieving" as "thieving".
	normalised, _ := next.get(key)

	if err := m.store.SetSetting(ctx, &store.Setting{Group: Group, Key: key, Value: normalised}); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("saving %s: %w", key, err)
	}
	m.values = next
	m.mu.Unlock()

	if old == normalised {
		m.logger.Debug("setting unchanged", "key", key)
		return nil
	}
	m.logger.Info("setting changed", "key", key)
	m.changes.Publish(Change{Group: Group, Key: key, OldValue: old, NewValue: normalised})
	return nil
}

// Reset deletes a saved setting and restores the manager's default.
func (m *Manager) Reset(ctx context.Context, key string) error {
	def, err := m.defaults.get(key)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if err := m.store.DeleteSetting(ctx, Group, key); err != nil && !errors.Is(err, store.ErrNotFound) {
		m.mu.Unlock()
		return fmt.Errorf("resetting %s: %w", key, err)
	}
	old, _ := m.values.get(key)
	_ = m.values.set(key, def)
	m.mu.Unlock()

	if old == def {
		return nil
	}
	m.changes.Publish(Change{Group: Group, Key: key, OldValue: old, NewValue: def})
	return nil
}

// Changes returns the bus Change events are published on.
func (m *Manager) Changes() *eventbus.Bus[Change] {
	return m.changes
}
