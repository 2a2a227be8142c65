// ABOUTME: Skill level table for the simulated host
// ABOUTME: Answers boosted, base, and total level queries

package sim

import "github.com/2389/chat-success-rates/internal/skill"

// Level is a skill's base and boosted level.
type Level struct {
	Base    int `yaml:"base"`
	Boosted int `yaml:"boosted"`
}

func defaultLevels() map[skill.Skill]Level {
	levels := make(map[skill.Skill]Level)
	for _, s := range skill.All() {
		if s.UsesTotalLevel() {
			continue
		}
		levels[s] = Level{Base: 1, Boosted: 1}
	}
	levels[skill.Hitpoints] = Level{Base: 10, Boosted: 10}
	return levels
}

// SetLevel sets a skill's levels. Overall and Custom are derived and
// cannot be set.
func (c *Chatbox) SetLevel(s skill.Skill, level Level) bool {
	if s.UsesTotalLevel() || !s.Valid() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.levels[s] = level
	return true
}

// BoostedLevel implements chat.Levels.
func (c *Chatbox) BoostedLevel(s skill.Skill) int {
	if s.UsesTotalLevel() {
		return c.TotalLevel()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.levels[s].Boosted
}

// BaseLevel implements chat.Levels.
func (c *Chatbox) BaseLevel(s skill.Skill) int {
	if s.UsesTotalLevel() {
		return c.TotalLevel()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.levels[s].Base
}

// TotalLevel implements chat.Levels as the sum of base levels.
func (c *Chatbox) TotalLevel() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, l := range c.levels {
		total += l.Base
	}
	return total
}
