package component

import (
	"slices"

	"golang.org/x/text/language"

	"github.com/go-drift/uisync/pkg/errors"
)

// Host is the live session a tree is attached to. Only roots carry a host.
type Host interface {
	// Locale returns the session default locale.
	Locale() language.Tag
	// Register is called when n becomes attached.
	Register(n *Node)
	// Unregister is called when n is detached.
	Unregister(n *Node)
	// SetFocused moves keyboard focus to n.
	SetFocused(n *Node)
}

// NewRoot creates the root of a session tree. The root is attached to host
// immediately.
func NewRoot(host Host, content Content, opts ...Option) *Node {
	n := New(content, opts...)
	n.host = host
	n.attach()
	return n
}

// Root returns the top of the tree n belongs to.
func (n *Node) Root() *Node {
	root := n
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// Host returns the session the node is attached to, or nil.
func (n *Node) Host() Host {
	if !n.attached {
		return nil
	}
	return n.Root().host
}

// IsAttached reports whether the node is reachable from a live session root.
func (n *Node) IsAttached() bool {
	return n.attached
}

// IsDestroyed reports whether Destroy was called.
func (n *Node) IsDestroyed() bool {
	return n.destroyed
}

// AddChild appends child. See AddChildAt.
func (n *Node) AddChild(child *Node) error {
	return n.AddChildAt(child, len(n.children))
}

// AddChildAt inserts child at index, clamped to the valid range. A child
// that already has a parent, is a session root, or is an ancestor of n is
// rejected with a StateError and the tree is left unchanged.
func (n *Node) AddChildAt(child *Node, index int) error {
	const op = "component.AddChild"
	if child.parent != nil || child.host != nil {
		return &errors.StateError{Op: op, Reason: errors.ErrAlreadyParented}
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return &errors.StateError{Op: op, Reason: errors.ErrTreeCycle}
		}
	}
	index = max(0, min(index, len(n.children)))
	n.children = slices.Insert(n.children, index, child)
	child.parent = n
	if n.attached {
		child.attach()
	}
	n.RequestRepaint()
	return nil
}

// RemoveChild detaches and unlinks child. Nodes that are not children of n
// are ignored.
func (n *Node) RemoveChild(child *Node) {
	idx := slices.Index(n.children, child)
	if idx < 0 {
		return
	}
	if child.attached {
		child.detach()
	}
	n.children = slices.Delete(n.children, idx, idx+1)
	child.parent = nil
	n.RequestRepaint()
}

// RemoveFromParent removes n from its parent, if any.
func (n *Node) RemoveFromParent() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// attach runs when n becomes reachable from a live root. The repaint request
// is forced for invisible nodes, since a moved node must always be resent.
func (n *Node) attach() {
	n.attached = true
	if h := n.Host(); h != nil {
		h.Register(n)
	}
	if a, ok := n.content.(Attacher); ok {
		a.Attach(n)
	}
	n.RequestRepaint()
	if !n.visible {
		n.fireRepaint(nil, true)
	}
	if n.delayedFocus {
		n.Focus()
	}
	if n.actions != nil {
		n.actions.setViewer(n.Root())
	}
	n.FireEvent(EventAttach, nil)
	for _, child := range n.children {
		child.attach()
	}
}

// detach runs before n is unlinked from a live tree. Repaint notifications
// are re-armed so the node reports again once it is attached somewhere else.
func (n *Node) detach() {
	for _, child := range n.children {
		child.detach()
	}
	n.FireEvent(EventDetach, nil)
	if d, ok := n.content.(Detacher); ok {
		d.Detach(n)
	}
	if n.actions != nil {
		n.actions.setViewer(nil)
	}
	if h := n.Host(); h != nil {
		h.Unregister(n)
	}
	n.attached = false
	n.listenersNotified = false
}

// Focus moves keyboard focus to n. Nodes whose content is not Focusable are
// ignored. A detached node remembers the request and takes focus on attach.
func (n *Node) Focus() {
	if _, ok := n.content.(Focusable); !ok {
		return
	}
	h := n.Host()
	if h == nil {
		n.delayedFocus = true
		return
	}
	n.delayedFocus = false
	h.SetFocused(n)
}

// Destroy removes n from the tree and releases everything it owns: children,
// RPC managers, queued outbound calls and listeners. A destroyed node must
// not be reused.
func (n *Node) Destroy() {
	if n.destroyed {
		return
	}
	if n.parent != nil {
		n.parent.RemoveChild(n)
	} else if n.attached {
		n.detach()
	}
	for _, child := range n.children {
		child.parent = nil
		child.Destroy()
	}
	n.children = nil
	n.host = nil
	n.rpc.Clear()
	n.calls.Clear()
	n.events = nil
	n.actions = nil
	n.repaintListeners = nil
	n.destroyed = true
}
