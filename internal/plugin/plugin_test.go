// ABOUTME: End-to-end tests for the plugin against the simulated chat box
// ABOUTME: Covers collapsing, message-box promotion, trackers, settings, and the copy menu

package plugin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/chat-success-rates/internal/chat"
	"github.com/2389/chat-success-rates/internal/config"
	"github.com/2389/chat-success-rates/internal/eventbus"
	"github.com/2389/chat-success-rates/internal/settings"
	"github.com/2389/chat-success-rates/internal/sim"
	"github.com/2389/chat-success-rates/internal/skill"
	"github.com/2389/chat-success-rates/internal/store"
	"github.com/2389/chat-success-rates/internal/tracker"
)

const (
	cake    = "You steal a cake."
	caught  = "The baker catches you."
	greeted = "Hello there."
)

// countingHost records chat refreshes requested by the plugin.
type countingHost struct {
	*sim.Chatbox
	refreshes int
}

func (h *countingHost) RefreshChat() {
	h.refreshes++
	h.Chatbox.RefreshChat()
}

type fixture struct {
	host     *countingHost
	bus      *eventbus.Bus[chat.Event]
	settings *settings.Manager
	plugin   *Plugin
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	ctx := context.Background()

	bus := eventbus.New[chat.Event]("chat", nil)
	host := &countingHost{Chatbox: sim.New(bus, nil)}

	mgr, err := settings.NewManager(ctx, store.NewMockStore(), settings.Defaults(), nil)
	require.NoError(t, err)
	require.NoError(t, mgr.Set(ctx, settings.KeyMessageSuccess, cake))
	require.NoError(t, mgr.Set(ctx, settings.KeyMessageFailure, caught))

	p := New(host, mgr, bus, opts, nil)
	host.SetFilter(p)
	p.Start()
	t.Cleanup(p.Stop)

	return &fixture{host: host, bus: bus, settings: mgr, plugin: p}
}

func TestCollapsesTrackedDuplicates(t *testing.T) {
	f := newFixture(t, Options{})

	for i := 0; i < 3; i++ {
		f.host.Deliver(chat.CategoryGame, cake)
	}

	assert.Equal(t, []string{"32: You steal a cake. (3)"}, f.host.Visible())
}

func TestUntrackedLinesPassThrough(t *testing.T) {
	f := newFixture(t, Options{})

	f.host.Deliver(chat.CategoryGame, greeted)
	f.host.Deliver(chat.CategoryGame, greeted)
	f.host.Deliver(chat.CategoryPublic, cake)

	assert.Equal(t, []string{greeted, greeted, cake}, f.host.Visible())
}

func TestInterleavedLines(t *testing.T) {
	f := newFixture(t, Options{})

	f.host.Deliver(chat.CategoryGame, cake)
	f.host.Deliver(chat.CategoryGame, caught)
	f.host.Deliver(chat.CategoryGame, cake)

	assert.Equal(t, []string{
		"32: The baker catches you.",
		"32: You steal a cake. (2)",
	}, f.host.Visible())
}

func TestMessageBoxPromotion(t *testing.T) {
	f := newFixture(t, Options{})

	f.host.Deliver(chat.CategoryMessageBox, caught)
	f.host.Deliver(chat.CategoryMessageBox, caught)

	assert.Equal(t, []string{"32: The baker catches you. (2)"}, f.host.Visible())

	lines := f.host.Lines()
	require.Len(t, lines, 4, "each popup adds a transient line and a promoted chat line")
	assert.True(t, lines[0].Transient)
	assert.Equal(t, chat.CategoryGame, lines[1].Category)
	assert.True(t, lines[1].Suppressed)
}

func TestSpamCategoryCollapses(t *testing.T) {
	f := newFixture(t, Options{})

	f.host.Deliver(chat.CategorySpam, cake)
	f.host.Deliver(chat.CategorySpam, cake)

	assert.Equal(t, []string{"32: You steal a cake. (2)"}, f.host.Visible())
}

func TestConfigTrackerCounts(t *testing.T) {
	f := newFixture(t, Options{})

	f.host.Deliver(chat.CategoryGame, cake)
	f.host.Deliver(chat.CategoryGame, cake)
	f.host.Deliver(chat.CategoryGame, caught)
	f.host.Deliver(chat.CategoryPublic, cake)

	trackers := f.plugin.Trackers()
	require.Len(t, trackers, 1)
	configTracker := trackers[0]
	assert.Equal(t, ConfigTrackerName, configTracker.Name())
	assert.Equal(t, skill.Custom, configTracker.Skill())
	assert.Equal(t, skill.Overall.Color(), configTracker.Color())

	assert.Equal(t, tracker.Counts{Success: 2, Failure: 1}, configTracker.Totals())
	assert.Equal(t, tracker.Counts{Success: 2, Failure: 1}, configTracker.Counts(32))
	rate, ok := configTracker.Rate()
	require.True(t, ok)
	assert.InDelta(t, 2.0/3.0, rate, 1e-9)
}

func TestConfigTrackerColorFollowsLevelPrefix(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	configTracker := f.plugin.Trackers()[0]

	require.NoError(t, f.settings.Set(ctx, settings.KeyLevelPrefix, "thieving"))
	assert.Equal(t, skill.Thieving.Color(), configTracker.Color())

	require.NoError(t, f.settings.Set(ctx, settings.KeyLevelPrefix, "custom"))
	assert.Equal(t, "#FF0000", configTracker.Color())
}

func TestConfiguredTrackersUseTheirOwnLevels(t *testing.T) {
	rules, err := RulesFromConfig([]config.TrackerConfig{{
		Name:            "Cake stall",
		Skill:           "thieving",
		UseBoostedLevel: true,
		Success:         []string{cake},
		Failure:         []string{caught},
	}})
	require.NoError(t, err)

	f := newFixture(t, Options{Rules: rules})
	f.host.SetLevel(skill.Thieving, sim.Level{Base: 50, Boosted: 55})

	f.host.Deliver(chat.CategoryGame, cake)
	f.host.Deliver(chat.CategoryGame, caught)

	stall := f.plugin.Trackers()[1]
	assert.Equal(t, "Cake stall", stall.Name())
	assert.Equal(t, []int{55}, stall.Levels())
	assert.Equal(t, tracker.Counts{Success: 1, Failure: 1}, stall.Counts(55))
}

func TestSettingsChangeRefreshesChat(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	f.host.Deliver(chat.CategoryGame, cake)
	before := f.host.refreshes

	require.NoError(t, f.settings.Set(ctx, settings.KeyAddLevelPrefix, "false"))
	assert.Equal(t, before+1, f.host.refreshes)

	f.host.Deliver(chat.CategoryGame, cake)
	assert.Equal(t, []string{"32: You steal a cake.", cake}, f.host.Visible(),
		"new lines use the new prefix setting and collapse under a new key")
}

func TestSettingsChangeKeepsCaches(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	f.host.Deliver(chat.CategoryGame, cake)
	f.host.Deliver(chat.CategoryGame, cake)
	require.NoError(t, f.settings.Set(ctx, settings.KeyUseBoostedLevel, "false"))

	assert.Equal(t, []string{"32: You steal a cake. (2)"}, f.host.Visible())
}

func TestStopRestoresLines(t *testing.T) {
	f := newFixture(t, Options{})

	f.host.Deliver(chat.CategoryGame, cake)
	f.host.Deliver(chat.CategoryGame, cake)
	f.plugin.Stop()

	assert.False(t, f.plugin.Running())
	assert.Equal(t, 0, f.bus.Len())
	assert.Equal(t, []string{"32: You steal a cake.", "32: You steal a cake."}, f.host.Visible())
	assert.Empty(t, f.plugin.Summary())
	assert.Nil(t, f.plugin.MenuEntries())

	f.host.Deliver(chat.CategoryGame, cake)
	assert.Len(t, f.host.Visible(), 3, "a stopped plugin ignores chat")
}

func TestStartIsIdempotent(t *testing.T) {
	f := newFixture(t, Options{})
	subscribers := f.bus.Len()

	f.plugin.Start()

	assert.Equal(t, subscribers, f.bus.Len())
	assert.Equal(t, 2, subscribers, "Config tracker plus ingest")
}

func TestRestartBuildsFreshState(t *testing.T) {
	f := newFixture(t, Options{})

	f.host.Deliver(chat.CategoryGame, cake)
	f.plugin.Stop()
	f.plugin.Start()

	assert.Equal(t, tracker.Counts{}, f.plugin.Trackers()[0].Totals())
	assert.Empty(t, f.plugin.Summary())
}

func TestCopyMenuEntry(t *testing.T) {
	f := newFixture(t, Options{})

	f.host.Deliver(chat.CategoryGame, cake)
	f.host.Deliver(chat.CategoryGame, cake)
	f.host.Deliver(chat.CategorySpam, caught)

	f.host.MoveMouse(chat.Point{X: 10, Y: 10})
	entries := f.plugin.MenuEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Copy", entries[0].Option)
	assert.Equal(t, "Chat success rates", entries[0].Target)

	require.NoError(t, entries[0].OnClick())
	assert.Equal(t, "32: You steal a cake. (2)\n32: The baker catches you.", f.host.ClipboardContents())
}

func TestCopyMenuEntryNeedsChatUnderMouse(t *testing.T) {
	f := newFixture(t, Options{})

	f.host.MoveMouse(chat.Point{X: 900, Y: 900})
	assert.Empty(t, f.plugin.MenuEntries())

	f.host.MoveMouse(chat.Point{X: 10, Y: 10})
	f.host.SetChatVisible(false)
	assert.Empty(t, f.plugin.MenuEntries())
}

func TestSelectTracker(t *testing.T) {
	rules, err := RulesFromConfig([]config.TrackerConfig{
		{Name: "Cake stall", Skill: "thieving", Success: []string{cake}},
	})
	require.NoError(t, err)
	f := newFixture(t, Options{Rules: rules})
	ctx := context.Background()

	selected, ok := f.plugin.SelectedTracker()
	require.True(t, ok)
	assert.Equal(t, "Cake stall", selected.Name(), "thieving sorts before custom")

	require.NoError(t, f.plugin.SelectTracker(ctx, 1, 0))
	selected, ok = f.plugin.SelectedTracker()
	require.True(t, ok)
	assert.Equal(t, ConfigTrackerName, selected.Name())

	v := f.settings.Values()
	assert.Equal(t, 1, v.CurrentSkill)
	assert.Equal(t, 0, v.CurrentTracker)
}

func TestFilterCheckWhenStopped(t *testing.T) {
	p := New(&countingHost{Chatbox: sim.New(eventbus.New[chat.Event]("chat", nil), nil)}, nil, nil, Options{}, nil)
	assert.Equal(t, chat.Decision{Text: cake}, p.FilterCheck(1, cake))
	_, ok := p.SelectedTracker()
	assert.False(t, ok)
}
