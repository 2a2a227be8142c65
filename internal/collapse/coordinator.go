// ABOUTME: Coordinates duplicate chat line collapsing across per-category caches
// ABOUTME: Answers pre-render filter checks and ingests classified lines

package collapse

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/2389/chat-success-rates/internal/chat"
	"github.com/2389/chat-success-rates/internal/dedupe"
)

const (
	duplicatePrefix = " ("
	duplicateSuffix = ")"
)

// MessageBoxMaxSize is the default capacity of the message-box cache, which
// sees bursts of popups.
const MessageBoxMaxSize = 300

// Options configures cache capacities per category. Categories without an
// entry use dedupe.DefaultMaxSize, except the message box which defaults to
// MessageBoxMaxSize.
type Options struct {
	Capacities map[chat.Category]int
}

// Coordinator owns one dedupe cache per collapsible category.
type Coordinator struct {
	host   chat.Host
	caches map[chat.Category]*dedupe.Cache
	logger *slog.Logger
}

// New creates a coordinator driving host. Pass nil logger for default.
func New(host chat.Host, opts Options, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}

	caches := make(map[chat.Category]*dedupe.Cache, len(chat.Collapsible))
	for _, category := range chat.Collapsible {
		size := dedupe.DefaultMaxSize
		if category == chat.CategoryMessageBox {
			size = MessageBoxMaxSize
		}
		if n, ok := opts.Capacities[category]; ok && n > 0 {
			size = n
		}
		caches[category] = dedupe.New(size)
	}

	return &Coordinator{
		host:   host,
		caches: caches,
		logger: logger.With("component", "collapse"),
	}
}

// FilterCheck decides how a line should render. Every category cache is
// scanned in chat.Collapsible order and the first hit wins, so a duplicate
// in one category also affects identical text in another. It never mutates
// the caches.
func (c *Coordinator) FilterCheck(id chat.MessageID, text string) chat.Decision {
	var (
		record dedupe.Record
		found  bool
	)
	for _, category := range chat.Collapsible {
		if record, found = c.caches[category].Get(text); found {
			break
		}
	}
	if !found {
		return chat.Decision{Text: text}
	}

	if chat.MessageID(record.LastMessageID) > id {
		return chat.Decision{Suppress: true, Text: text}
	}
	if record.Count > 1 {
		return chat.Decision{Text: Annotate(text, record.Count)}
	}
	return chat.Decision{Text: text}
}

// Ingest records a tracked line. displayText is the classifier's formatted
// text; it replaces the line's displayed text and is the cache key.
// Message-box lines are first promoted to a persistent chat line.
func (c *Coordinator) Ingest(event chat.Event, displayText string) dedupe.Record {
	cache, ok := c.caches[event.Category]
	if !ok {
		return dedupe.Record{}
	}

	id := event.MessageID
	if event.Category == chat.CategoryMessageBox {
		id = c.host.PromoteToChatLine(event.Text)
	}
	c.host.RewriteDisplayText(id, displayText)

	record := cache.Update(displayText, func(r dedupe.Record) dedupe.Record {
		r.Count++
		r.LastMessageID = int(id)
		return r
	})

	c.logger.Debug("ingested chat line",
		"category", event.Category.String(),
		"message_id", int(id),
		"count", record.Count)
	return record
}

// Lookup returns the record for text in category's cache.
func (c *Coordinator) Lookup(category chat.Category, text string) (dedupe.Record, bool) {
	cache, ok := c.caches[category]
	if !ok {
		return dedupe.Record{}, false
	}
	return cache.Get(text)
}

// Len returns the number of cached lines for category.
func (c *Coordinator) Len(category chat.Category) int {
	cache, ok := c.caches[category]
	if !ok {
		return 0
	}
	return cache.Len()
}

// Summary renders the game and spam caches for export, oldest line first,
// one line per cached text with its duplicate count when above one.
func (c *Coordinator) Summary() string {
	var lines []string
	for _, category := range []chat.Category{chat.CategoryGame, chat.CategorySpam} {
		cache := c.caches[category]
		for _, key := range cache.Keys() {
			record, ok := cache.Get(key)
			if !ok {
				continue
			}
			lines = append(lines, Annotate(key, record.Count))
		}
	}
	return strings.Join(lines, "\n")
}

// Close clears every cache.
func (c *Coordinator) Close() {
	for _, cache := range c.caches {
		cache.Clear()
	}
	c.logger.Debug("caches cleared")
}

// Annotate appends " (count)" when count is above one.
func Annotate(text string, count int) string {
	if count <= 1 {
		return text
	}
	return text + duplicatePrefix + strconv.Itoa(count) + duplicateSuffix
}
