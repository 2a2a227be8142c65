// ABOUTME: Exact-match classification of chat lines into success/failure verdicts
// ABOUTME: Computes the level-prefixed display text for tracked lines

package classify

import (
	"strconv"
	"strings"

	"github.com/2389/chat-success-rates/internal/chat"
	"github.com/2389/chat-success-rates/internal/skill"
)

const (
	// PatternDelimiter separates configured message patterns.
	PatternDelimiter = "\n"
	// LevelDelimiter separates the level prefix from the message text.
	LevelDelimiter = ": "
)

// Patterns is a set of exact message texts.
type Patterns struct {
	lines map[string]struct{}
}

// ParsePatterns splits a newline-delimited pattern list. Lines are kept
// verbatim; empty lines are dropped so an empty list matches nothing.
func ParsePatterns(raw string) Patterns {
	p := Patterns{lines: make(map[string]struct{})}
	for _, line := range strings.Split(raw, PatternDelimiter) {
		if line == "" {
			continue
		}
		p.lines[line] = struct{}{}
	}
	return p
}

// NewPatterns builds a pattern set from individual lines.
func NewPatterns(lines ...string) Patterns {
	return ParsePatterns(strings.Join(lines, PatternDelimiter))
}

// Match reports whether text equals one of the patterns exactly.
func (p Patterns) Match(text string) bool {
	_, ok := p.lines[text]
	return ok
}

// Len returns the number of distinct patterns.
func (p Patterns) Len() int {
	return len(p.lines)
}

// Selection is the pattern and level source a classifier or tracker uses.
type Selection struct {
	Skill      skill.Skill
	UseBoosted bool
	Success    Patterns
	Failure    Patterns
}

// Level reads the level the selection refers to.
func Level(levels chat.Levels, sel Selection) int {
	if levels == nil {
		return 0
	}
	if sel.Skill.UsesTotalLevel() {
		return levels.TotalLevel()
	}
	if sel.UseBoosted {
		return levels.BoostedLevel(sel.Skill)
	}
	return levels.BaseLevel(sel.Skill)
}

// Kind is the classification outcome.
type Kind int

const (
	NotTracked Kind = iota
	Success
	Failure
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "not_tracked"
	}
}

// Verdict is the result of classifying one chat line.
type Verdict struct {
	Kind  Kind
	Text  string
	Level int
}

// Tracked reports whether the verdict is a success or failure.
func (v Verdict) Tracked() bool {
	return v.Kind != NotTracked
}

// Options supplies the live settings a Classifier reads on every call.
type Options struct {
	AddLevelPrefix bool
	Selection      Selection
}

// Classifier matches chat lines against the configured selection.
type Classifier struct {
	options func() Options
	levels  chat.Levels
}

// New creates a classifier. options is called on every Classify so setting
// changes apply immediately.
func New(options func() Options, levels chat.Levels) *Classifier {
	return &Classifier{options: options, levels: levels}
}

// Classify decides whether text in category is tracked and computes the
// text to display for it.
func (c *Classifier) Classify(text string, category chat.Category) Verdict {
	if !category.IsCollapsible() {
		return Verdict{Kind: NotTracked, Text: text}
	}

	opts := c.options()
	kind := Match(opts.Selection, text)
	if kind == NotTracked {
		return Verdict{Kind: NotTracked, Text: text}
	}

	level := Level(c.levels, opts.Selection)
	return Verdict{
		Kind:  kind,
		Text:  FormatText(text, level, opts.AddLevelPrefix),
		Level: level,
	}
}

// Match returns Success or Failure when text is in the selection's lists.
// A line configured in both lists is a success.
func Match(sel Selection, text string) Kind {
	switch {
	case sel.Success.Match(text):
		return Success
	case sel.Failure.Match(text):
		return Failure
	default:
		return NotTracked
	}
}

// FormatText prepends "<level>: " when prefix is set.
func FormatText(text string, level int, prefix bool) string {
	if !prefix {
		return text
	}
	return strconv.Itoa(level) + LevelDelimiter + text
}
