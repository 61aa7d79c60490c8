package component

import "slices"

// RepaintRequestEvent tells a listener that Source needs to be sent again.
type RepaintRequestEvent struct {
	Source *Node
}

// RepaintListener is notified when a node, or one of its descendants,
// requests a repaint. Implementations must be comparable; the same listener
// registered on several nodes is notified once per propagation wave.
type RepaintListener interface {
	RepaintRequested(e RepaintRequestEvent)
}

type repaintFunc struct {
	fn func(RepaintRequestEvent)
}

func (l *repaintFunc) RepaintRequested(e RepaintRequestEvent) {
	l.fn(e)
}

// RepaintListenerFunc wraps fn in a comparable RepaintListener. Each call
// returns a distinct listener.
func RepaintListenerFunc(fn func(RepaintRequestEvent)) RepaintListener {
	return &repaintFunc{fn: fn}
}

// notifiedSet holds the listeners already notified in one propagation wave.
// It is created by the first notification and dropped when the wave returns.
type notifiedSet map[RepaintListener]struct{}

// AddRepaintListener registers l on n. Registering the same listener twice
// is a no-op.
func (n *Node) AddRepaintListener(l RepaintListener) {
	if l == nil || slices.Contains(n.repaintListeners, l) {
		return
	}
	n.repaintListeners = append(n.repaintListeners, l)
}

// RemoveRepaintListener unregisters l from n.
func (n *Node) RemoveRepaintListener(l RepaintListener) {
	n.repaintListeners = slices.DeleteFunc(n.repaintListeners, func(x RepaintListener) bool {
		return x == l
	})
	if len(n.repaintListeners) == 0 {
		n.repaintListeners = nil
	}
}

// HasRepaintListener reports whether l is registered on n.
func (n *Node) HasRepaintListener(l RepaintListener) bool {
	return slices.Contains(n.repaintListeners, l)
}

// RequestRepaint marks the node as changed and notifies repaint listeners on
// the node and its ancestors. Nodes whose own visible flag is false are never
// worth repainting and are skipped.
func (n *Node) RequestRepaint() {
	n.childRequestedRepaint(nil)
}

// ListenersNotified reports whether the node's repaint listeners were
// notified since the node was last painted.
func (n *Node) ListenersNotified() bool {
	return n.listenersNotified
}

// RequestRepaintRequests re-arms repaint notifications for the node: the
// next RequestRepaint notifies listeners again.
func (n *Node) RequestRepaintRequests() {
	n.listenersNotified = false
}

// childRequestedRepaint is the upward step of a propagation wave.
func (n *Node) childRequestedRepaint(notified notifiedSet) {
	if !n.visible {
		return
	}
	n.fireRepaint(notified, false)
}

// fireRepaint notifies listeners of n that are not in notified yet and moves
// up to the parent. Once n has notified its listeners it stays quiet until it
// is painted or re-armed by the host's render cycle, unless force is set. A
// nil parent ends the wave.
func (n *Node) fireRepaint(notified notifiedSet, force bool) {
	if n.listenersNotified && !force {
		return
	}
	if len(n.repaintListeners) > 0 {
		listeners := slices.Clone(n.repaintListeners)
		event := RepaintRequestEvent{Source: n}
		for _, l := range listeners {
			if notified == nil {
				notified = make(notifiedSet)
			}
			if _, done := notified[l]; done {
				continue
			}
			l.RepaintRequested(event)
			notified[l] = struct{}{}
			n.listenersNotified = true
		}
	}
	if n.parent != nil {
		n.parent.childRequestedRepaint(notified)
	}
}
