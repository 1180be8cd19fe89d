package plugin

import "sync"

// Editor is the host's live document buffer.
type Editor interface {
	// Value returns the current document text.
	Value() string

	// SetValue replaces the whole document text.
	SetValue(text string)
}

// Host is the application embedding the plugin.
type Host interface {
	// ActiveEditor returns the focused document buffer, if any.
	ActiveEditor() (Editor, bool)

	// Notify shows a short message to the user.
	Notify(message string)
}

// BufferEditor is an in-memory Editor.
type BufferEditor struct {
	mu     sync.Mutex
	text   string
	writes int
}

// NewBufferEditor returns an editor holding text.
func NewBufferEditor(text string) *BufferEditor {
	return &BufferEditor{text: text}
}

// Value implements Editor.
func (b *BufferEditor) Value() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// SetValue implements Editor.
func (b *BufferEditor) SetValue(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
	b.writes++
}

// Writes returns how many times SetValue was called.
func (b *BufferEditor) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes
}

// StaticHost is a Host with a fixed active editor that records notices.
// A nil editor means no document is open.
type StaticHost struct {
	editor Editor

	mu      sync.Mutex
	notices []string
}

// NewStaticHost returns a host whose active editor is editor.
func NewStaticHost(editor Editor) *StaticHost {
	return &StaticHost{editor: editor}
}

// ActiveEditor implements Host.
func (h *StaticHost) ActiveEditor() (Editor, bool) {
	if h.editor == nil {
		return nil, false
	}
	return h.editor, true
}

// Notify implements Host.
func (h *StaticHost) Notify(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notices = append(h.notices, message)
}

// Notices returns the messages shown so far.
func (h *StaticHost) Notices() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.notices))
	copy(out, h.notices)
	return out
}
