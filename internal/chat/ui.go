// ABOUTME: Minimal UI surface the plugin needs to offer its copy menu action
// ABOUTME: Widget bounds, mouse position, and a clipboard sink

package chat

// Point is a canvas position.
type Point struct {
	X, Y int
}

// Rect is a widget's canvas bounds.
type Rect struct {
	X, Y, Width, Height int
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Clipboard receives exported text.
type Clipboard interface {
	SetContents(text string) error
}

// UI exposes the pieces of the host interface the menu action depends on.
type UI interface {
	// ChatLinesBounds returns the chat message widget bounds; ok is false
	// when the widget is not loaded.
	ChatLinesBounds() (Rect, bool)
	MousePosition() Point
	Clipboard() Clipboard
}
