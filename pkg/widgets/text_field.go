package widgets

import (
	"fmt"
	"unicode/utf8"

	"github.com/go-drift/uisync/pkg/component"
	"github.com/go-drift/uisync/pkg/paint"
)

// Event kinds fired by text fields.
const (
	// EventValueChange is fired with a [ValueChangeEvent] when the value
	// changes, on the server or from the client.
	EventValueChange component.EventKind = "valueChange"
	// EventTextChange is fired with a [TextChangeEvent] while the user types.
	// The client only sends text changes once a listener is registered.
	EventTextChange component.EventKind = "textChange"
)

// ValueChangeEvent describes a committed value change.
type ValueChangeEvent struct {
	Field    *TextField
	Old, New string
	// FromClient is set when the user typed the value.
	FromClient bool
}

// TextChangeEvent carries the text while the user is still editing.
type TextChangeEvent struct {
	Field *TextField
	Text  string
}

// TextField is a single-line text input.
//
// The client sends the committed text in the "text" variable and, when a
// text change listener exists, the in-progress text in "textChange".
//
// Example:
//
//	name := widgets.NewTextField("Name")
//	name.SetMaxLength(40)
//	name.SetInputPrompt("Jane Doe")
//	name.AddValueChangeListener(func(e widgets.ValueChangeEvent) {
//	    greeting.SetValue("Hello " + e.New)
//	})
type TextField struct {
	node        *component.Node
	value       string
	maxLength   int
	inputPrompt string
	tabIndex    int
}

// NewTextField creates an empty text field with the given caption.
func NewTextField(caption string, opts ...component.Option) *TextField {
	f := &TextField{maxLength: -1}
	f.node = component.New(f, opts...)
	if caption != "" {
		f.node.SetCaption(caption)
	}
	return f
}

// Node returns the node the field is painted as.
func (f *TextField) Node() *component.Node {
	return f.node
}

// Tag returns "textfield".
func (f *TextField) Tag() string { return "textfield" }

// Value returns the current text.
func (f *TextField) Value() string {
	return f.value
}

// SetValue replaces the text and fires a value change when it differs.
func (f *TextField) SetValue(value string) {
	if f.setValue(value, false) {
		f.node.RequestRepaint()
	}
}

// MaxLength returns the maximum number of characters, or -1 for no limit.
func (f *TextField) MaxLength() int {
	return f.maxLength
}

// SetMaxLength limits the text length. Negative values remove the limit.
func (f *TextField) SetMaxLength(n int) {
	f.maxLength = max(n, -1)
	f.node.RequestRepaint()
}

// InputPrompt returns the hint shown while the field is empty.
func (f *TextField) InputPrompt() string {
	return f.inputPrompt
}

// SetInputPrompt sets the hint shown while the field is empty.
func (f *TextField) SetInputPrompt(prompt string) {
	f.inputPrompt = prompt
	f.node.RequestRepaint()
}

// TabIndex returns the tab order position.
func (f *TextField) TabIndex() int {
	return f.tabIndex
}

// SetTabIndex sets the tab order position.
func (f *TextField) SetTabIndex(index int) {
	f.tabIndex = index
	f.node.RequestRepaint()
}

// AddValueChangeListener registers fn for committed value changes.
func (f *TextField) AddValueChangeListener(fn func(ValueChangeEvent)) component.Registration {
	return component.On(f.node, EventValueChange, func(_ *component.Node, e ValueChangeEvent) {
		fn(e)
	})
}

// AddTextChangeListener registers fn for in-progress text. The first
// listener makes the client start sending text changes.
func (f *TextField) AddTextChangeListener(fn func(TextChangeEvent)) component.Registration {
	return f.node.AddClientListener(string(EventTextChange), EventTextChange, func(e component.Event) {
		if tc, ok := e.Data.(TextChangeEvent); ok {
			fn(tc)
		}
	})
}

// ExtendState adds the limits and prompt to the shared state.
func (f *TextField) ExtendState(_ *component.Node, s *component.State) {
	if f.maxLength >= 0 {
		s.Set("maxLength", f.maxLength)
	}
	if f.inputPrompt != "" {
		s.Set("inputPrompt", f.inputPrompt)
	}
	if f.tabIndex != 0 {
		s.Set("tabIndex", f.tabIndex)
	}
}

// PaintContent writes the current text.
func (f *TextField) PaintContent(_ *component.Node, t paint.Target) error {
	t.AddAttribute("text", f.value)
	return nil
}

// ChangeVariables applies the text typed on the client. Text longer than
// the maximum length is rejected with an error message shown on the field;
// a valid text clears it again.
func (f *TextField) ChangeVariables(n *component.Node, vars map[string]any) error {
	if v, ok := vars["text"]; ok {
		text, err := stringVariable("text", v)
		if err != nil {
			return err
		}
		if f.maxLength >= 0 && utf8.RuneCountInString(text) > f.maxLength {
			return component.NewErrorMessage(component.LevelError,
				fmt.Sprintf("text is longer than %d characters", f.maxLength))
		}
		if n.ComponentError() != nil {
			n.SetComponentError(nil)
		}
		f.setValue(text, true)
	}
	if v, ok := vars["textChange"]; ok {
		text, err := stringVariable("textChange", v)
		if err != nil {
			return err
		}
		n.FireEvent(EventTextChange, TextChangeEvent{Field: f, Text: text})
	}
	return nil
}

// setValue stores value and fires a value change. It reports whether the
// value changed.
func (f *TextField) setValue(value string, fromClient bool) bool {
	if f.value == value {
		return false
	}
	old := f.value
	f.value = value
	f.node.FireEvent(EventValueChange, ValueChangeEvent{Field: f, Old: old, New: value, FromClient: fromClient})
	return true
}
