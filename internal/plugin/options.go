// ABOUTME: Plugin options and their construction from the config file
// ABOUTME: Turns configured trackers into rules and defaults into settings values

package plugin

import (
	"fmt"
	"strings"

	"github.com/2389/chat-success-rates/internal/chat"
	"github.com/2389/chat-success-rates/internal/classify"
	"github.com/2389/chat-success-rates/internal/config"
	"github.com/2389/chat-success-rates/internal/settings"
	"github.com/2389/chat-success-rates/internal/skill"
	"github.com/2389/chat-success-rates/internal/tracker"
)

// Options configures a Plugin.
type Options struct {
	// Capacities overrides the per-category cache sizes.
	Capacities map[chat.Category]int
	// Rules are extra trackers with fixed patterns, added after Config.
	Rules []tracker.Rule
}

// OptionsFromConfig builds plugin options from a validated config.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	rules, err := RulesFromConfig(cfg.Trackers)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Capacities: cfg.CacheCapacities(),
		Rules:      rules,
	}, nil
}

// RulesFromConfig converts configured trackers to rules.
func RulesFromConfig(trackers []config.TrackerConfig) ([]tracker.Rule, error) {
	rules := make([]tracker.Rule, 0, len(trackers))
	for _, tc := range trackers {
		s, err := skill.Parse(tc.Skill)
		if err != nil {
			return nil, fmt.Errorf("tracker %q: %w", tc.Name, err)
		}
		sel := classify.Selection{
			Skill:      s,
			UseBoosted: tc.UseBoostedLevel,
			Success:    classify.NewPatterns(tc.Success...),
			Failure:    classify.NewPatterns(tc.Failure...),
		}
		rules = append(rules, tracker.Rule{
			Name:      tc.Name,
			Skill:     s,
			Selection: func() classify.Selection { return sel },
			Color:     tc.Color,
		})
	}
	return rules, nil
}

// SettingsDefaults overlays configured defaults on settings.Defaults.
func SettingsDefaults(d config.DefaultsConfig) (settings.Values, error) {
	v := settings.Defaults()
	if d.AddLevelPrefix != nil {
		v.AddLevelPrefix = *d.AddLevelPrefix
	}
	if d.UseBoostedLevel != nil {
		v.UseBoostedLevel = *d.UseBoostedLevel
	}
	if d.LevelPrefix != "" {
		s, err := skill.Parse(d.LevelPrefix)
		if err != nil {
			return settings.Values{}, fmt.Errorf("default level prefix: %w", err)
		}
		v.LevelPrefix = s
	}
	v.MessageSuccess = strings.Join(d.SuccessMessages, "\n")
	v.MessageFailure = strings.Join(d.FailureMessages, "\n")
	return v, nil
}
