// ABOUTME: In-process chat box host used by the replay command and tests
// ABOUTME: Assigns message ids, runs the pre-render filter, and delivers chat events

package sim

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/2389/chat-success-rates/internal/chat"
	"github.com/2389/chat-success-rates/internal/eventbus"
	"github.com/2389/chat-success-rates/internal/skill"
)

// Line is one entry in the chat box.
type Line struct {
	ID       chat.MessageID
	Category chat.Category
	// Value is the entry's text as stored by the host.
	Value string
	// Rendered is the text the last render produced.
	Rendered string
	// Suppressed is set when the last render blocked the line.
	Suppressed bool
	// Transient lines (message boxes) never render in the chat log.
	Transient bool
}

// Chatbox is a single-threaded host: it implements chat.Host, chat.Levels
// and chat.UI on top of an in-memory chat log.
type Chatbox struct {
	mu      sync.Mutex
	nextID  chat.MessageID
	lines   []*Line
	byID    map[chat.MessageID]*Line
	filter  chat.Filter
	events  *eventbus.Bus[chat.Event]
	levels  map[skill.Skill]Level
	widget  *chat.Rect
	mouse   chat.Point
	clip    *MemoryClipboard
	session string
	logger  *slog.Logger
}

// New creates an empty chat box publishing events on bus. Pass nil logger for default.
func New(bus *eventbus.Bus[chat.Event], logger *slog.Logger) *Chatbox {
	if logger == nil {
		logger = slog.Default()
	}
	session := uuid.New().String()
	return &Chatbox{
		byID:    make(map[chat.MessageID]*Line),
		events:  bus,
		levels:  defaultLevels(),
		widget:  &chat.Rect{X: 0, Y: 0, Width: 519, Height: 142},
		clip:    &MemoryClipboard{},
		session: session,
		logger:  logger.With("component", "chatbox", "session", session),
	}
}

// Session returns the chat box's session id.
func (c *Chatbox) Session() string {
	return c.session
}

// SetFilter installs the pre-render filter.
func (c *Chatbox) SetFilter(f chat.Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
}

// Deliver adds a message the way the game client does: the new line is
// render-checked, the chat event is published to subscribers, then the
// chat box is rebuilt.
func (c *Chatbox) Deliver(category chat.Category, text string) chat.MessageID {
	c.mu.Lock()
	line := c.appendLocked(category, text, category == chat.CategoryMessageBox)
	c.renderLocked(line)
	c.mu.Unlock()

	c.logger.Debug("message delivered",
		"message_id", int(line.ID),
		"category", category.String())

	c.events.Publish(chat.Event{Text: text, Category: category, MessageID: line.ID})
	c.RefreshChat()
	return line.ID
}

// appendLocked adds a line. Must be called with mu held.
func (c *Chatbox) appendLocked(category chat.Category, text string, transient bool) *Line {
	c.nextID++
	line := &Line{
		ID:        c.nextID,
		Category:  category,
		Value:     text,
		Rendered:  text,
		Transient: transient,
	}
	c.lines = append(c.lines, line)
	c.byID[line.ID] = line
	return line
}

// renderLocked runs the filter check for one line. Must be called with mu held.
func (c *Chatbox) renderLocked(line *Line) {
	if line.Transient {
		return
	}
	if c.filter == nil {
		line.Rendered, line.Suppressed = line.Value, false
		return
	}
	d := c.filter.FilterCheck(line.ID, line.Value)
	line.Rendered, line.Suppressed = d.Text, d.Suppress
}

// RewriteDisplayText implements chat.Host.
func (c *Chatbox) RewriteDisplayText(id chat.MessageID, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if line, ok := c.byID[id]; ok {
		line.Value = text
	}
}

// PromoteToChatLine implements chat.Host.
func (c *Chatbox) PromoteToChatLine(text string) chat.MessageID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.appendLocked(chat.CategoryGame, text, false).ID
}

// RefreshChat implements chat.Host by re-rendering every line.
func (c *Chatbox) RefreshChat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range c.lines {
		c.renderLocked(line)
	}
}

// Lines returns a copy of every line, including suppressed and transient ones.
func (c *Chatbox) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	for i, line := range c.lines {
		out[i] = *line
	}
	return out
}

// Visible returns the rendered text of each line that currently shows.
func (c *Chatbox) Visible() []string {
	var out []string
	for _, line := range c.Lines() {
		if line.Transient || line.Suppressed {
			continue
		}
		out = append(out, line.Rendered)
	}
	return out
}

// Print writes the visible chat log to w, coloured by category.
func (c *Chatbox) Print(w io.Writer) error {
	for _, line := range c.Lines() {
		if line.Transient || line.Suppressed {
			continue
		}
		if _, err := categoryColor(line.Category).Fprintf(w, "[%5d] %s\n", int(line.ID), line.Rendered); err != nil {
			return fmt.Errorf("printing chat line: %w", err)
		}
	}
	return nil
}

func categoryColor(category chat.Category) *color.Color {
	switch category {
	case chat.CategorySpam:
		return color.New(color.FgHiBlack)
	case chat.CategoryPublic:
		return color.New(color.FgBlue)
	default:
		return color.New(color.FgWhite)
	}
}

// SetChatVisible shows or hides the chat lines widget.
func (c *Chatbox) SetChatVisible(visible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if visible {
		c.widget = &chat.Rect{X: 0, Y: 0, Width: 519, Height: 142}
	} else {
		c.widget = nil
	}
}

// MoveMouse sets the mouse canvas position.
func (c *Chatbox) MoveMouse(p chat.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mouse = p
}

// ChatLinesBounds implements chat.UI.
func (c *Chatbox) ChatLinesBounds() (chat.Rect, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.widget == nil {
		return chat.Rect{}, false
	}
	return *c.widget, true
}

// MousePosition implements chat.UI.
func (c *Chatbox) MousePosition() chat.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mouse
}

// Clipboard implements chat.UI.
func (c *Chatbox) Clipboard() chat.Clipboard {
	return c.clip
}

// ClipboardContents returns the last text copied.
func (c *Chatbox) ClipboardContents() string {
	return c.clip.Contents()
}

// MemoryClipboard keeps copied text in memory.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

// SetContents implements chat.Clipboard.
func (m *MemoryClipboard) SetContents(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

// Contents returns the stored text.
func (m *MemoryClipboard) Contents() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}
