package component

import "strings"

// ErrorLevel is the severity of an ErrorMessage.
type ErrorLevel int

const (
	LevelInformation ErrorLevel = iota
	LevelWarning
	LevelError
	LevelCritical
	LevelSystem
)

func (l ErrorLevel) String() string {
	switch l {
	case LevelInformation:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelCritical:
		return "critical"
	case LevelSystem:
		return "system"
	default:
		return "unknown"
	}
}

// ErrorMessage is an application error attached to a node and shown by the
// client next to it.
type ErrorMessage struct {
	Level   ErrorLevel
	Message string
	Causes  []*ErrorMessage
}

// NewErrorMessage creates an error message without causes.
func NewErrorMessage(level ErrorLevel, message string) *ErrorMessage {
	return &ErrorMessage{Level: level, Message: message}
}

// SystemError wraps an unexpected error from application code.
func SystemError(err error) *ErrorMessage {
	return &ErrorMessage{Level: LevelSystem, Message: err.Error()}
}

func (m *ErrorMessage) Error() string {
	return m.text()
}

// EffectiveLevel returns the highest level of the message and its causes.
func (m *ErrorMessage) EffectiveLevel() ErrorLevel {
	level := m.Level
	for _, c := range m.Causes {
		if l := c.EffectiveLevel(); l > level {
			level = l
		}
	}
	return level
}

func (m *ErrorMessage) text() string {
	if len(m.Causes) == 0 {
		return m.Message
	}
	parts := make([]string, 0, len(m.Causes)+1)
	if m.Message != "" {
		parts = append(parts, m.Message)
	}
	for _, c := range m.Causes {
		parts = append(parts, c.text())
	}
	return strings.Join(parts, "\n")
}

func (m *ErrorMessage) payload() map[string]any {
	return map[string]any{
		"level":   m.EffectiveLevel().String(),
		"message": m.text(),
	}
}

// ErrorEvent describes an error raised while processing client input for a node.
type ErrorEvent struct {
	Node *Node
	// Op is the operation that failed (e.g., "ButtonServerRpc.click").
	Op  string
	Err error
}

// ErrorHandler intercepts errors raised for a node. Returning true consumes
// the error; otherwise it is escalated to the session.
type ErrorHandler func(e *ErrorEvent) bool

// ComponentError returns the error message set on the node, or nil.
func (n *Node) ComponentError() *ErrorMessage {
	return n.componentError
}

// ErrorMessage returns the error to show for the node. It is the component
// error unless content reports a different one.
func (n *Node) ErrorMessage() *ErrorMessage {
	if src, ok := n.content.(interface{ ErrorMessage(*Node) *ErrorMessage }); ok {
		if msg := src.ErrorMessage(n); msg != nil {
			return msg
		}
	}
	return n.componentError
}

// SetComponentError sets or clears (nil) the node's error message, fires
// EventComponentError and requests a repaint.
func (n *Node) SetComponentError(msg *ErrorMessage) {
	n.componentError = msg
	n.FireEvent(EventComponentError, msg)
	n.RequestRepaint()
}

// SetErrorHandler sets the node's error handler.
func (n *Node) SetErrorHandler(h ErrorHandler) {
	n.errorHandler = h
}

// ErrorHandler returns the node's error handler, or nil.
func (n *Node) ErrorHandler() ErrorHandler {
	return n.errorHandler
}

// HandleError offers e to the node's error handler and reports whether it
// was consumed.
func (n *Node) HandleError(e *ErrorEvent) bool {
	if n.errorHandler == nil {
		return false
	}
	return n.errorHandler(e)
}
