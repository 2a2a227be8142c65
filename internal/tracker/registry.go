// ABOUTME: Ordered collection of trackers grouped by skill
// ABOUTME: Registers and unregisters every tracker with the chat event bus

package tracker

import (
	"github.com/2389/chat-success-rates/internal/chat"
	"github.com/2389/chat-success-rates/internal/eventbus"
	"github.com/2389/chat-success-rates/internal/skill"
)

// Registry holds trackers in insertion order, grouped by skill.
type Registry struct {
	trackers []*Tracker
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends t.
func (r *Registry) Add(t *Tracker) {
	r.trackers = append(r.trackers, t)
}

// All returns every tracker in insertion order.
func (r *Registry) All() []*Tracker {
	out := make([]*Tracker, len(r.trackers))
	copy(out, r.trackers)
	return out
}

// Skills returns the skills that have trackers, in skill order.
func (r *Registry) Skills() []skill.Skill {
	var out []skill.Skill
	for _, s := range skill.All() {
		if len(r.ForSkill(s)) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// ForSkill returns the trackers grouped under s, in insertion order.
func (r *Registry) ForSkill(s skill.Skill) []*Tracker {
	var out []*Tracker
	for _, t := range r.trackers {
		if t.Skill() == s {
			out = append(out, t)
		}
	}
	return out
}

// Select returns the tracker at the given skill and tracker indices, as
// persisted by the UI. Out-of-range indices clamp to the first entry; ok
// is false when the registry is empty.
func (r *Registry) Select(skillIndex, trackerIndex int) (*Tracker, bool) {
	skills := r.Skills()
	if len(skills) == 0 {
		return nil, false
	}
	if skillIndex < 0 || skillIndex >= len(skills) {
		skillIndex = 0
	}
	trackers := r.ForSkill(skills[skillIndex])
	if trackerIndex < 0 || trackerIndex >= len(trackers) {
		trackerIndex = 0
	}
	return trackers[trackerIndex], true
}

// Register subscribes every tracker to bus.
func (r *Registry) Register(bus *eventbus.Bus[chat.Event]) {
	for _, t := range r.trackers {
		t.Register(bus)
	}
}

// Unregister removes every tracker's subscription.
func (r *Registry) Unregister(bus *eventbus.Bus[chat.Event]) {
	for _, t := range r.trackers {
		t.Unregister(bus)
	}
}
