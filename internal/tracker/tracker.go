// ABOUTME: Success/failure counters per tracked skill, broken down by level
// ABOUTME: Each tracker evaluates every chat event against its own selection

package tracker

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/2389/chat-success-rates/internal/chat"
	"github.com/2389/chat-success-rates/internal/classify"
	"github.com/2389/chat-success-rates/internal/eventbus"
	"github.com/2389/chat-success-rates/internal/skill"
)

// Counts holds success and failure totals.
type Counts struct {
	Success int
	Failure int
}

// Total returns Success+Failure.
func (c Counts) Total() int {
	return c.Success + c.Failure
}

// Rate returns Success/(Success+Failure). ok is false when there is no data.
func (c Counts) Rate() (rate float64, ok bool) {
	total := c.Total()
	if total == 0 {
		return 0, false
	}
	return float64(c.Success) / float64(total), true
}

// Rule parametrises a Tracker.
type Rule struct {
	// Name is shown in the tracker selector, e.g. "Config" or "Master Farmer".
	Name string
	// Skill groups the tracker in the registry.
	Skill skill.Skill
	// Selection returns the patterns and level source to use. It is called
	// for every event so live settings apply immediately.
	Selection func() classify.Selection
	// Color overrides the display colour; empty uses the selection's skill.
	Color string
}

// Tracker counts success and failure lines for one Rule.
type Tracker struct {
	rule   Rule
	levels chat.Levels
	logger *slog.Logger

	mu       sync.RWMutex
	byLevel  map[int]*Counts
	totals   Counts
	subID    string
	onUpdate func(*Tracker)
}

// New creates a tracker. Pass nil logger for default.
func New(rule Rule, levels chat.Levels, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		rule:    rule,
		levels:  levels,
		logger:  logger.With("component", "tracker", "tracker", rule.Name),
		byLevel: make(map[int]*Counts),
	}
}

// Name returns the tracker name.
func (t *Tracker) Name() string {
	return t.rule.Name
}

// Skill returns the skill the tracker is grouped under.
func (t *Tracker) Skill() skill.Skill {
	return t.rule.Skill
}

// Color returns the tracker's display colour.
func (t *Tracker) Color() string {
	if t.rule.Color != "" {
		return t.rule.Color
	}
	if t.rule.Selection != nil {
		return t.rule.Selection().Skill.Color()
	}
	return t.rule.Skill.Color()
}

// OnUpdate registers fn to run after counters change.
func (t *Tracker) OnUpdate(fn func(*Tracker)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onUpdate = fn
}

// Observe evaluates one chat event. A line listed in both the success and
// failure patterns counts once towards each.
func (t *Tracker) Observe(event chat.Event) {
	if t.rule.Selection == nil || !event.Category.IsCollapsible() {
		return
	}

	sel := t.rule.Selection()
	success := sel.Success.Match(event.Text)
	failure := sel.Failure.Match(event.Text)
	if !success && !failure {
		return
	}

	level := classify.Level(t.levels, sel)
	var delta Counts
	if success {
		delta.Success = 1
	}
	if failure {
		delta.Failure = 1
	}
	t.Update(level, delta)
}

// Update adds delta to the counters for level.
func (t *Tracker) Update(level int, delta Counts) {
	t.mu.Lock()
	c, ok := t.byLevel[level]
	if !ok {
		c = &Counts{}
		t.byLevel[level] = c
	}
	c.Success += delta.Success
	c.Failure += delta.Failure
	t.totals.Success += delta.Success
	t.totals.Failure += delta.Failure
	fn := t.onUpdate
	t.mu.Unlock()

	t.logger.Debug("tracker updated",
		"level", level,
		"success", delta.Success,
		"failure", delta.Failure)

	if fn != nil {
		fn(t)
	}
}

// Totals returns the counters summed over all levels.
func (t *Tracker) Totals() Counts {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.totals
}

// Rate returns the overall success rate; ok is false with no data.
func (t *Tracker) Rate() (float64, bool) {
	return t.Totals().Rate()
}

// Counts returns the counters recorded at level.
func (t *Tracker) Counts(level int) Counts {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if c, ok := t.byLevel[level]; ok {
		return *c
	}
	return Counts{}
}

// Levels returns the levels with data, ascending.
func (t *Tracker) Levels() []int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	levels := make([]int, 0, len(t.byLevel))
	for level := range t.byLevel {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	return levels
}

// Reset zeroes every counter.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.byLevel = make(map[int]*Counts)
	t.totals = Counts{}
	fn := t.onUpdate
	t.mu.Unlock()

	t.logger.Info("tracker reset")
	if fn != nil {
		fn(t)
	}
}

// Register subscribes the tracker to bus at default priority.
func (t *Tracker) Register(bus *eventbus.Bus[chat.Event]) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.subID != "" {
		return
	}
	t.subID = bus.Subscribe(0, t.Observe)
}

// Unregister removes the tracker's subscription from bus.
func (t *Tracker) Unregister(bus *eventbus.Bus[chat.Event]) {
	t.mu.Lock()
	id := t.subID
	t.subID = ""
	t.mu.Unlock()

	if id != "" {
		bus.Unsubscribe(id)
	}
}
