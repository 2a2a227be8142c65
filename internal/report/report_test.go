// ABOUTME: Tests for success rate reports
// ABOUTME: Covers section snapshots, Markdown tables, and HTML rendering

package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/chat-success-rates/internal/skill"
	"github.com/2389/chat-success-rates/internal/tracker"
)

func newTracker(name string, s skill.Skill) *tracker.Tracker {
	return tracker.New(tracker.Rule{Name: name, Skill: s, Color: s.Color()}, nil, nil)
}

func sampleTrackers() []*tracker.Tracker {
	stall := newTracker("Cake stall", skill.Thieving)
	stall.Update(55, tracker.Counts{Success: 7, Failure: 3})
	stall.Update(54, tracker.Counts{Success: 1})
	return []*tracker.Tracker{stall, newTracker("Config", skill.Custom)}
}

func TestBuild(t *testing.T) {
	sections := Build(sampleTrackers())
	require.Len(t, sections, 2)

	stall := sections[0]
	assert.Equal(t, "Cake stall", stall.Name)
	assert.Equal(t, skill.Thieving, stall.Skill)
	assert.Equal(t, skill.Thieving.Color(), stall.Color)
	assert.Equal(t, []Row{
		{Level: 54, Counts: tracker.Counts{Success: 1}},
		{Level: 55, Counts: tracker.Counts{Success: 7, Failure: 3}},
	}, stall.Rows)
	assert.Equal(t, tracker.Counts{Success: 8, Failure: 3}, stall.Totals)

	assert.Empty(t, sections[1].Rows)
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "70.0%", FormatRate(tracker.Counts{Success: 7, Failure: 3}))
	assert.Equal(t, "100.0%", FormatRate(tracker.Counts{Success: 1}))
	assert.Equal(t, NoData, FormatRate(tracker.Counts{}))
}

func TestMarkdown(t *testing.T) {
	md := Markdown(Build(sampleTrackers()))

	assert.True(t, strings.HasPrefix(md, "# Chat success rates\n"))
	assert.Contains(t, md, "## Cake stall (Thieving)\n")
	assert.Contains(t, md, "| 55 | 7 | 3 | 10 | 70.0% |\n")
	assert.Contains(t, md, "| **All** | 8 | 3 | 11 | 72.7% |\n")
	assert.Contains(t, md, "## Config (Custom)\n\n_No data yet._\n")
	assert.Less(t, strings.Index(md, "| 54 |"), strings.Index(md, "| 55 |"), "levels ascend")
}

func TestMarkdown_EscapesNames(t *testing.T) {
	md := Markdown(Build([]*tracker.Tracker{newTracker("a|b", skill.Mining)}))
	assert.Contains(t, md, `## a\|b (Mining)`)
}

func TestHTML(t *testing.T) {
	html, err := HTML(Build(sampleTrackers()))
	require.NoError(t, err)

	assert.Contains(t, html, "<h1>Chat success rates</h1>")
	assert.Contains(t, html, "<h2>Cake stall (Thieving)</h2>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, ">70.0%</td>")
	assert.Contains(t, html, "<strong>All</strong>")
	assert.Contains(t, html, "<em>No data yet.</em>")
}
