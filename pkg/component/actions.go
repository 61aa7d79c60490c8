package component

import (
	"slices"
	"strconv"
)

// Modifier is a shortcut modifier key, using the client key codes.
type Modifier int

const (
	ModifierShift Modifier = 16
	ModifierCtrl  Modifier = 17
	ModifierAlt   Modifier = 18
	ModifierMeta  Modifier = 91
)

// Key codes commonly bound to shortcuts.
const (
	KeyEnter  = 13
	KeyEscape = 27
	KeyDelete = 46
)

// Shortcut describes a key combination.
type Shortcut struct {
	Caption   string
	KeyCode   int
	Modifiers []Modifier
}

// ShortcutListener runs Handler when the client reports its shortcut.
type ShortcutListener struct {
	Shortcut
	Handler func(owner *Node)

	key string
}

// NewShortcutListener creates a listener for keyCode with the given modifiers.
func NewShortcutListener(caption string, keyCode int, handler func(owner *Node), modifiers ...Modifier) *ShortcutListener {
	return &ShortcutListener{
		Shortcut: Shortcut{Caption: caption, KeyCode: keyCode, Modifiers: modifiers},
		Handler:  handler,
	}
}

// Key returns the id the client uses to trigger the listener. It is empty
// until the listener is added to a node.
func (l *ShortcutListener) Key() string {
	return l.key
}

// ActionManager holds the shortcut listeners of one node. While the node is
// attached its viewer is the session root, which receives the triggers.
type ActionManager struct {
	owner     *Node
	viewer    *Node
	listeners []*ShortcutListener
	nextKey   int
}

func (m *ActionManager) setViewer(viewer *Node) {
	if m.viewer == viewer {
		return
	}
	m.viewer = viewer
	m.owner.RequestRepaint()
}

// Viewer returns the root currently serving the shortcuts, or nil.
func (m *ActionManager) Viewer() *Node {
	return m.viewer
}

func (m *ActionManager) describe() []map[string]any {
	if len(m.listeners) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(m.listeners))
	for _, l := range m.listeners {
		entry := map[string]any{
			"key":     l.key,
			"keyCode": l.KeyCode,
		}
		if l.Caption != "" {
			entry["caption"] = l.Caption
		}
		if len(l.Modifiers) > 0 {
			mods := make([]int, len(l.Modifiers))
			for i, mod := range l.Modifiers {
				mods[i] = int(mod)
			}
			entry["modifiers"] = mods
		}
		out = append(out, entry)
	}
	return out
}

func (n *Node) actionManager() *ActionManager {
	if n.actions == nil {
		n.actions = &ActionManager{owner: n}
		if n.attached {
			n.actions.viewer = n.Root()
		}
	}
	return n.actions
}

// AddShortcutListener registers l on the node. Adding the same listener
// twice is a no-op.
func (n *Node) AddShortcutListener(l *ShortcutListener) {
	m := n.actionManager()
	if slices.Contains(m.listeners, l) {
		return
	}
	m.nextKey++
	l.key = strconv.Itoa(m.nextKey)
	m.listeners = append(m.listeners, l)
	n.RequestRepaint()
}

// RemoveShortcutListener unregisters l.
func (n *Node) RemoveShortcutListener(l *ShortcutListener) {
	if n.actions == nil {
		return
	}
	idx := slices.Index(n.actions.listeners, l)
	if idx < 0 {
		return
	}
	n.actions.listeners = slices.Delete(n.actions.listeners, idx, idx+1)
	n.RequestRepaint()
}

// HandleShortcut runs the listener registered under key. It reports false
// when the key is unknown or the node is not attached.
func (n *Node) HandleShortcut(key string) bool {
	if n.actions == nil || n.actions.viewer == nil {
		return false
	}
	for _, l := range n.actions.listeners {
		if l.key == key {
			if l.Handler != nil {
				l.Handler(n)
			}
			return true
		}
	}
	return false
}
