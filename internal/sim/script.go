// ABOUTME: YAML replay scripts that drive the simulated chat box
// ABOUTME: Steps deliver messages, change levels, or change settings

package sim

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/2389/chat-success-rates/internal/chat"
	"github.com/2389/chat-success-rates/internal/skill"
)

// Script is a sequence of replay steps.
type Script struct {
	Levels map[string]Level `yaml:"levels"`
	Steps  []Step           `yaml:"steps"`
}

// Step is one replay action. Exactly one of Message, Set or Level is used.
type Step struct {
	Message  string        `yaml:"message"`
	Category chat.Category `yaml:"category"`
	Repeat   int           `yaml:"repeat"`
	Set      *SetStep      `yaml:"set"`
	Level    *LevelStep    `yaml:"level"`
}

// SetStep changes a setting.
type SetStep struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// LevelStep changes a skill level mid-replay.
type LevelStep struct {
	Skill   skill.Skill `yaml:"skill"`
	Base    int         `yaml:"base"`
	Boosted int         `yaml:"boosted"`
}

// SettingsWriter applies setting changes from a script.
type SettingsWriter interface {
	Set(ctx context.Context, key, value string) error
}

// LoadScript reads a YAML replay script.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes and validates a YAML replay script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	for i := range s.Steps {
		if err := s.Steps[i].validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &s, nil
}

func (st *Step) validate() error {
	kinds := 0
	if st.Message != "" {
		kinds++
	}
	if st.Set != nil {
		kinds++
	}
	if st.Level != nil {
		kinds++
	}
	if kinds != 1 {
		return fmt.Errorf("exactly one of message, set, level is required")
	}
	if st.Repeat < 0 {
		return fmt.Errorf("repeat must not be negative")
	}
	if st.Message != "" && st.Category == chat.CategoryUnknown {
		st.Category = chat.CategoryGame
	}
	if st.Level != nil && st.Level.Skill.UsesTotalLevel() {
		return fmt.Errorf("level of %s is derived and cannot be set", st.Level.Skill)
	}
	return nil
}

// Run applies the script to box. Setting steps go through settings.
func (s *Script) Run(ctx context.Context, box *Chatbox, settings SettingsWriter) error {
	for name, level := range s.Levels {
		sk, err := skill.Parse(name)
		if err != nil {
			return fmt.Errorf("levels: %w", err)
		}
		if level.Boosted == 0 {
			level.Boosted = level.Base
		}
		if !box.SetLevel(sk, level) {
			return fmt.Errorf("level of %s is derived and cannot be set", sk)
		}
	}

	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch {
		case st.Set != nil:
			if settings == nil {
				return fmt.Errorf("step %d: no settings to change", i+1)
			}
			if err := settings.Set(ctx, st.Set.Key, st.Set.Value); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		case st.Level != nil:
			boosted := st.Level.Boosted
			if boosted == 0 {
				boosted = st.Level.Base
			}
			box.SetLevel(st.Level.Skill, Level{Base: st.Level.Base, Boosted: boosted})
		default:
			n := st.Repeat
			if n == 0 {
				n = 1
			}
			for j := 0; j < n; j++ {
				box.Deliver(st.Category, st.Message)
			}
		}
	}
	return nil
}
