// ABOUTME: Plugin lifecycle wiring the classifier, collapse coordinator, and trackers
// ABOUTME: Subscribes to chat and settings events and answers the host's filter checks

package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/2389/chat-success-rates/internal/chat"
	"github.com/2389/chat-success-rates/internal/classify"
	"github.com/2389/chat-success-rates/internal/collapse"
	"github.com/2389/chat-success-rates/internal/eventbus"
	"github.com/2389/chat-success-rates/internal/settings"
	"github.com/2389/chat-success-rates/internal/skill"
	"github.com/2389/chat-success-rates/internal/tracker"
)

// ConfigTrackerName is the tracker driven by the live settings.
const ConfigTrackerName = "Config"

// Chat events are ingested after every tracker has observed them.
const ingestPriority = -2

const (
	menuOption = "Copy"
	menuTarget = "Chat success rates"
)

// Host is everything the plugin needs from the game client.
type Host interface {
	chat.Host
	chat.Levels
	chat.UI
}

// MenuEntry is a right-click action offered on the chat box.
type MenuEntry struct {
	Option  string
	Target  string
	OnClick func() error
}

// Plugin collapses duplicate tracked lines and counts success rates.
type Plugin struct {
	host     Host
	settings *settings.Manager
	chat     *eventbus.Bus[chat.Event]
	opts     Options
	logger   *slog.Logger

	mu          sync.RWMutex
	running     bool
	coordinator *collapse.Coordinator
	classifier  *classify.Classifier
	registry    *tracker.Registry
	chatSub     string
	settingsSub string
}

// New creates a stopped plugin. Pass nil logger for default.
func New(host Host, mgr *settings.Manager, bus *eventbus.Bus[chat.Event], opts Options, logger *slog.Logger) *Plugin {
	if logger == nil {
		logger = slog.Default()
	}
	return &Plugin{
		host:     host,
		settings: mgr,
		chat:     bus,
		opts:     opts,
		logger:   logger.With("component", "plugin"),
	}
}

// Start builds the trackers and caches and subscribes to chat and setting
// events. Starting a running plugin is a no-op.
func (p *Plugin) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}

	p.coordinator = collapse.New(p.host, collapse.Options{Capacities: p.opts.Capacities}, p.logger)
	p.classifier = classify.New(func() classify.Options {
		return p.settings.Values().ClassifierOptions()
	}, p.host)

	p.registry = tracker.NewRegistry()
	p.registry.Add(tracker.New(p.configRule(), p.host, p.logger))
	for _, rule := range p.opts.Rules {
		p.registry.Add(tracker.New(rule, p.host, p.logger))
	}
	p.registry.Register(p.chat)

	p.chatSub = p.chat.Subscribe(ingestPriority, p.onChatMessage)
	p.settingsSub = p.settings.Changes().Subscribe(0, p.onSettingsChanged)
	p.running = true
	p.mu.Unlock()

	p.logger.Info("plugin started", "trackers", len(p.opts.Rules)+1)
	p.host.RefreshChat()
}

// Stop unsubscribes everything, clears the caches and re-renders the chat
// so collapsed lines reappear.
func (p *Plugin) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.registry.Unregister(p.chat)
	p.chat.Unsubscribe(p.chatSub)
	p.settings.Changes().Unsubscribe(p.settingsSub)
	p.coordinator.Close()
	p.chatSub, p.settingsSub = "", ""
	p.running = false
	p.mu.Unlock()

	p.logger.Info("plugin stopped")
	p.host.RefreshChat()
}

// Running reports whether the plugin is started.
func (p *Plugin) Running() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}

func (p *Plugin) configRule() tracker.Rule {
	return tracker.Rule{
		Name:  ConfigTrackerName,
		Skill: skill.Custom,
		Selection: func() classify.Selection {
			return p.settings.Values().Selection()
		},
	}
}

// FilterCheck implements chat.Filter. A stopped plugin passes every line
// through unchanged.
func (p *Plugin) FilterCheck(id chat.MessageID, text string) chat.Decision {
	p.mu.RLock()
	coordinator := p.coordinator
	running := p.running
	p.mu.RUnlock()

	if !running {
		return chat.Decision{Text: text}
	}
	return coordinator.FilterCheck(id, text)
}

func (p *Plugin) onChatMessage(event chat.Event) {
	p.mu.RLock()
	coordinator, classifier := p.coordinator, p.classifier
	running := p.running
	p.mu.RUnlock()

	if !running {
		return
	}
	verdict := classifier.Classify(event.Text, event.Category)
	if !verdict.Tracked() {
		return
	}
	coordinator.Ingest(event, verdict.Text)
}

func (p *Plugin) onSettingsChanged(change settings.Change) {
	if change.Group != settings.Group {
		return
	}
	p.logger.Debug("settings changed, refreshing chat", "key", change.Key)
	p.host.RefreshChat()
}

// Summary returns the collapsed game and spam lines for export.
func (p *Plugin) Summary() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.running {
		return ""
	}
	return p.coordinator.Summary()
}

// MenuEntries returns the actions to offer for a right-click. The copy
// action is only offered while the mouse is over the chat lines.
func (p *Plugin) MenuEntries() []MenuEntry {
	if !p.Running() {
		return nil
	}
	bounds, ok := p.host.ChatLinesBounds()
	if !ok || !bounds.Contains(p.host.MousePosition()) {
		return nil
	}
	return []MenuEntry{{
		Option: menuOption,
		Target: menuTarget,
		OnClick: func() error {
			if err := p.host.Clipboard().SetContents(p.Summary()); err != nil {
				return fmt.Errorf("copying chat summary: %w", err)
			}
			return nil
		},
	}}
}

// Trackers returns every tracker, Config first. It is empty while stopped.
func (p *Plugin) Trackers() []*tracker.Tracker {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.registry == nil {
		return nil
	}
	return p.registry.All()
}

// Registry returns the tracker registry, or nil before the first Start.
func (p *Plugin) Registry() *tracker.Registry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.registry
}

// SelectedTracker returns the tracker chosen by the saved skill and tracker
// indices.
func (p *Plugin) SelectedTracker() (*tracker.Tracker, bool) {
	registry := p.Registry()
	if registry == nil {
		return nil, false
	}
	v := p.settings.Values()
	return registry.Select(v.CurrentSkill, v.CurrentTracker)
}

// SelectTracker saves the selected skill and tracker indices.
func (p *Plugin) SelectTracker(ctx context.Context, skillIndex, trackerIndex int) error {
	if err := p.settings.Set(ctx, settings.KeyCurrentSkill, strconv.Itoa(skillIndex)); err != nil {
		return err
	}
	return p.settings.Set(ctx, settings.KeyCurrentTracker, strconv.Itoa(trackerIndex))
}
