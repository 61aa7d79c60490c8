package widgets

import (
	"github.com/go-drift/uisync/pkg/component"
	"github.com/go-drift/uisync/pkg/paint"
)

// ContentMode tells the client how to render a label value.
type ContentMode int

const (
	// ContentText renders the value as plain text.
	ContentText ContentMode = iota
	// ContentPreformatted renders the value as plain text keeping whitespace.
	ContentPreformatted
	// ContentHTML renders the value as markup. Never use it with untrusted input.
	ContentHTML
)

func (m ContentMode) String() string {
	switch m {
	case ContentPreformatted:
		return "preformatted"
	case ContentHTML:
		return "html"
	default:
		return "text"
	}
}

// Label shows a read-only value.
type Label struct {
	node  *component.Node
	value string
	mode  ContentMode
}

// NewLabel creates a plain-text label.
func NewLabel(value string, opts ...component.Option) *Label {
	l := &Label{value: value}
	l.node = component.New(l, opts...)
	return l
}

// LabelOf creates a label with the given content mode.
func LabelOf(value string, mode ContentMode) *Label {
	l := NewLabel(value)
	l.mode = mode
	return l
}

// Node returns the node the label is painted as.
func (l *Label) Node() *component.Node {
	return l.node
}

// Tag returns "label".
func (l *Label) Tag() string { return "label" }

// Value returns the shown value.
func (l *Label) Value() string {
	return l.value
}

// SetValue replaces the shown value.
func (l *Label) SetValue(value string) {
	if l.value == value {
		return
	}
	l.value = value
	l.node.RequestRepaint()
}

// ContentMode returns how the value is rendered.
func (l *Label) ContentMode() ContentMode {
	return l.mode
}

// SetContentMode changes how the value is rendered.
func (l *Label) SetContentMode(mode ContentMode) {
	if l.mode == mode {
		return
	}
	l.mode = mode
	l.node.RequestRepaint()
}

// ExtendState adds the value and content mode to the shared state.
func (l *Label) ExtendState(_ *component.Node, s *component.State) {
	s.Set("text", l.value)
	if l.mode != ContentText {
		s.Set("contentMode", l.mode.String())
	}
}

// PaintContent has nothing to add; the value travels in the state.
func (l *Label) PaintContent(*component.Node, paint.Target) error {
	return nil
}
