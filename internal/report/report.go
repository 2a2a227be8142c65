// ABOUTME: Success rate report per tracker and level
// ABOUTME: Renders Markdown tables and converts them to HTML with goldmark

package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/2389/chat-success-rates/internal/skill"
	"github.com/2389/chat-success-rates/internal/tracker"
)

// NoData is shown in place of a rate when nothing has been counted.
const NoData = "-"

// Row is one level's counters.
type Row struct {
	Level  int
	Counts tracker.Counts
}

// Section is one tracker's breakdown.
type Section struct {
	Name   string
	Skill  skill.Skill
	Color  string
	Rows   []Row
	Totals tracker.Counts
}

// Build snapshots trackers into report sections, keeping their order.
func Build(trackers []*tracker.Tracker) []Section {
	sections := make([]Section, 0, len(trackers))
	for _, t := range trackers {
		s := Section{
			Name:   t.Name(),
			Skill:  t.Skill(),
			Color:  t.Color(),
			Totals: t.Totals(),
		}
		for _, level := range t.Levels() {
			s.Rows = append(s.Rows, Row{Level: level, Counts: t.Counts(level)})
		}
		sections = append(sections, s)
	}
	return sections
}

// FormatRate renders c's rate as a percentage with one decimal.
func FormatRate(c tracker.Counts) string {
	rate, ok := c.Rate()
	if !ok {
		return NoData
	}
	return strconv.FormatFloat(rate*100, 'f', 1, 64) + "%"
}

// Markdown renders sections as GitHub-flavoured Markdown tables.
func Markdown(sections []Section) string {
	var b strings.Builder
	b.WriteString("# Chat success rates\n")
	for _, s := range sections {
		fmt.Fprintf(&b, "\n## %s (%s)\n\n", escape(s.Name), s.Skill.DisplayName())
		if s.Totals.Total() == 0 {
			b.WriteString("_No data yet._\n")
			continue
		}
		b.WriteString("| Level | Success | Failure | Total | Rate |\n")
		b.WriteString("| ---: | ---: | ---: | ---: | ---: |\n")
		for _, r := range s.Rows {
			writeRow(&b, strconv.Itoa(r.Level), r.Counts)
		}
		writeRow(&b, "**All**", s.Totals)
	}
	return b.String()
}

func writeRow(b *strings.Builder, label string, c tracker.Counts) {
	fmt.Fprintf(b, "| %s | %d | %d | %d | %s |\n", label, c.Success, c.Failure, c.Total(), FormatRate(c))
}

// escape keeps tracker names from breaking headings and tables.
func escape(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ", "#", `\#`).Replace(s)
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTML renders sections as an HTML fragment.
func HTML(sections []Section) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(sections)), &buf); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return buf.String(), nil
}
