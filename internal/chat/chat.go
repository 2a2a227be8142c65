// ABOUTME: Chat message categories, events, and host interfaces
// ABOUTME: Shared by the classifier, collapse coordinator, trackers, and simulated host

package chat

import (
	"fmt"
	"strings"

	"github.com/2389/chat-success-rates/internal/skill"
)

// Category tags a class of render-collapsible chat messages.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryGame
	CategorySpam
	CategoryMessageBox
	CategoryPublic
)

// Collapsible lists the categories whose duplicates are collapsed, in the
// fixed order caches are scanned.
var Collapsible = []Category{CategoryGame, CategorySpam, CategoryMessageBox}

var categoryNames = map[Category]string{
	CategoryUnknown:    "unknown",
	CategoryGame:       "game",
	CategorySpam:       "spam",
	CategoryMessageBox: "mesbox",
	CategoryPublic:     "public",
}

// String returns the short category name.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// IsCollapsible reports whether c belongs to the collapsible set.
func (c Category) IsCollapsible() bool {
	for _, candidate := range Collapsible {
		if c == candidate {
			return true
		}
	}
	return false
}

// ParseCategory converts a category name such as "game" or "mesbox".
func ParseCategory(name string) (Category, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "messagebox", "message_box":
		return CategoryMessageBox, nil
	}
	for c, candidate := range categoryNames {
		if candidate == n && c != CategoryUnknown {
			return c, nil
		}
	}
	return CategoryUnknown, fmt.Errorf("unknown chat category %q", name)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// MessageID identifies a rendered chat entry. Ids increase strictly with
// every entry the host adds, and double as the entry's node handle.
type MessageID int

// Event is a chat message delivered by the host.
type Event struct {
	Text      string
	Category  Category
	MessageID MessageID
}

// Host is the rendering substrate the coordinator and plugin act upon.
type Host interface {
	// RewriteDisplayText replaces the displayed text of an existing entry.
	RewriteDisplayText(id MessageID, text string)
	// PromoteToChatLine adds text as a persistent game chat line and returns
	// its id.
	PromoteToChatLine(text string) MessageID
	// RefreshChat re-renders every line, running the filter check again.
	RefreshChat()
}

// Levels answers numeric level queries.
type Levels interface {
	BoostedLevel(s skill.Skill) int
	BaseLevel(s skill.Skill) int
	TotalLevel() int
}

// Decision is the outcome of a pre-render filter check.
type Decision struct {
	Suppress bool
	Text     string
}

// Filter is consulted by the host before each line renders.
type Filter interface {
	FilterCheck(id MessageID, text string) Decision
}
