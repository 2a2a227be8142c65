// ABOUTME: Tests for the collapse coordinator
// ABOUTME: Covers filter suppression, annotation, ingest counting, promotion, and teardown

package collapse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/chat-success-rates/internal/chat"
)

// fakeHost records the calls the coordinator makes.
type fakeHost struct {
	nextID    chat.MessageID
	rewrites  map[chat.MessageID]string
	promoted  []string
	refreshes int
}

func newFakeHost() *fakeHost {
	return &fakeHost{nextID: 1000, rewrites: make(map[chat.MessageID]string)}
}

func (h *fakeHost) RewriteDisplayText(id chat.MessageID, text string) { h.rewrites[id] = text }
func (h *fakeHost) RefreshChat()                                     { h.refreshes++ }
func (h *fakeHost) PromoteToChatLine(text string) chat.MessageID {
	h.nextID++
	h.promoted = append(h.promoted, text)
	return h.nextID
}

func TestIngest_CountsDuplicates(t *testing.T) {
	host := newFakeHost()
	c := New(host, Options{}, nil)

	for id := 1; id <= 4; id++ {
		c.Ingest(chat.Event{Text: "raw", Category: chat.CategoryGame, MessageID: chat.MessageID(id)}, "99: raw")
	}

	record, ok := c.Lookup(chat.CategoryGame, "99: raw")
	require.True(t, ok)
	assert.Equal(t, 4, record.Count)
	assert.Equal(t, 4, record.LastMessageID)
	assert.Equal(t, "99: raw", host.rewrites[4], "display text rewritten on every ingest")
	assert.Len(t, host.rewrites, 4)
}

func TestFilterCheck_NoMatchPassesThrough(t *testing.T) {
	c := New(newFakeHost(), Options{}, nil)

	d := c.FilterCheck(5, "hello")
	assert.False(t, d.Suppress)
	assert.Equal(t, "hello", d.Text)
}

func TestFilterCheck_SuppressesStaleDuplicates(t *testing.T) {
	c := New(newFakeHost(), Options{}, nil)
	c.Ingest(chat.Event{Text: "x", Category: chat.CategoryGame, MessageID: 10}, "x")
	c.Ingest(chat.Event{Text: "x", Category: chat.CategoryGame, MessageID: 20}, "x")

	for _, id := range []chat.MessageID{1, 10, 19} {
		assert.True(t, c.FilterCheck(id, "x").Suppress, "id %d", id)
	}
	for _, id := range []chat.MessageID{20, 21, 500} {
		d := c.FilterCheck(id, "x")
		assert.False(t, d.Suppress, "id %d", id)
		assert.Equal(t, "x (2)", d.Text)
	}
}

func TestFilterCheck_Annotation(t *testing.T) {
	c := New(newFakeHost(), Options{}, nil)
	c.Ingest(chat.Event{Text: "once", Category: chat.CategoryGame, MessageID: 1}, "once")
	for id := 2; id <= 4; id++ {
		c.Ingest(chat.Event{Text: "thrice", Category: chat.CategoryGame, MessageID: chat.MessageID(id)}, "thrice")
	}

	assert.Equal(t, "once", c.FilterCheck(1, "once").Text)
	assert.Equal(t, "thrice (3)", c.FilterCheck(4, "thrice").Text)
}

func TestFilterCheck_DoesNotMutate(t *testing.T) {
	c := New(newFakeHost(), Options{}, nil)
	c.Ingest(chat.Event{Text: "x", Category: chat.CategorySpam, MessageID: 3}, "x")

	for i := 0; i < 5; i++ {
		c.FilterCheck(chat.MessageID(i), "x")
	}

	record, _ := c.Lookup(chat.CategorySpam, "x")
	assert.Equal(t, 1, record.Count)
	assert.Equal(t, 3, record.LastMessageID)
}

func TestFilterCheck_CrossCategory(t *testing.T) {
	c := New(newFakeHost(), Options{}, nil)
	c.Ingest(chat.Event{Text: "same", Category: chat.CategorySpam, MessageID: 8}, "same")
	c.Ingest(chat.Event{Text: "same", Category: chat.CategorySpam, MessageID: 9}, "same")

	// Identical text in any category is affected by the spam record.
	assert.True(t, c.FilterCheck(2, "same").Suppress)
	assert.Equal(t, "same (2)", c.FilterCheck(12, "same").Text)
}

func TestFilterCheck_FirstCategoryWins(t *testing.T) {
	c := New(newFakeHost(), Options{}, nil)
	c.Ingest(chat.Event{Text: "t", Category: chat.CategorySpam, MessageID: 50}, "t")
	c.Ingest(chat.Event{Text: "t", Category: chat.CategoryGame, MessageID: 5}, "t")

	// Game is scanned before spam, so its record (id 5) decides.
	assert.False(t, c.FilterCheck(6, "t").Suppress)
}

func TestIngest_MessageBoxPromotes(t *testing.T) {
	host := newFakeHost()
	c := New(host, Options{}, nil)

	record := c.Ingest(chat.Event{Text: "You catch a fish.", Category: chat.CategoryMessageBox, MessageID: 7}, "50: You catch a fish.")

	require.Equal(t, []string{"You catch a fish."}, host.promoted)
	assert.Equal(t, 1001, record.LastMessageID, "record points at the persistent line")
	assert.Equal(t, "50: You catch a fish.", host.rewrites[1001])
	_, rewroteBox := host.rewrites[7]
	assert.False(t, rewroteBox)

	_, ok := c.Lookup(chat.CategoryMessageBox, "50: You catch a fish.")
	assert.True(t, ok)
}

func TestIngest_UnknownCategoryIgnored(t *testing.T) {
	host := newFakeHost()
	c := New(host, Options{}, nil)

	record := c.Ingest(chat.Event{Text: "hi", Category: chat.CategoryPublic, MessageID: 1}, "hi")

	assert.Equal(t, 0, record.Count)
	assert.Empty(t, host.rewrites)
}

func TestCapacities(t *testing.T) {
	c := New(newFakeHost(), Options{Capacities: map[chat.Category]int{chat.CategoryGame: 2}}, nil)

	for i, text := range []string{"A", "B", "C"} {
		c.Ingest(chat.Event{Text: text, Category: chat.CategoryGame, MessageID: chat.MessageID(i + 1)}, text)
	}

	assert.Equal(t, 2, c.Len(chat.CategoryGame))
	_, ok := c.Lookup(chat.CategoryGame, "A")
	assert.False(t, ok)
	assert.Equal(t, MessageBoxMaxSize, c.caches[chat.CategoryMessageBox].Capacity())
	assert.Equal(t, 100, c.caches[chat.CategorySpam].Capacity())
}

func TestSummary(t *testing.T) {
	c := New(newFakeHost(), Options{}, nil)
	ingest := func(category chat.Category, id int, text string) {
		c.Ingest(chat.Event{Text: text, Category: category, MessageID: chat.MessageID(id)}, text)
	}
	ingest(chat.CategorySpam, 1, "spam line")
	ingest(chat.CategoryGame, 2, "first")
	ingest(chat.CategoryGame, 3, "second")
	ingest(chat.CategoryGame, 4, "first")
	ingest(chat.CategoryMessageBox, 5, "box line")

	assert.Equal(t, "second\nfirst (2)\nspam line", c.Summary())
}

func TestClose_ClearsCaches(t *testing.T) {
	c := New(newFakeHost(), Options{}, nil)
	c.Ingest(chat.Event{Text: "x", Category: chat.CategoryGame, MessageID: 1}, "x")

	c.Close()

	_, ok := c.Lookup(chat.CategoryGame, "x")
	assert.False(t, ok)
	assert.Equal(t, "x", c.FilterCheck(0, "x").Text)
	assert.False(t, c.FilterCheck(0, "x").Suppress)
	assert.Empty(t, c.Summary())
}

func TestAnnotate(t *testing.T) {
	assert.Equal(t, "a", Annotate("a", 0))
	assert.Equal(t, "a", Annotate("a", 1))
	assert.Equal(t, "a (3)", Annotate("a", 3))
}
