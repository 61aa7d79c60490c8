package engine

import "github.com/go-drift/uisync/pkg/component"

// DirtyTracker is the repaint listener a session registers on every attached
// node. It records the nodes that asked to be sent again, and the deferred
// nodes that wait for Resume.
type DirtyTracker struct {
	dirty    map[*component.Node]struct{}
	deferred map[*component.Node]struct{}
}

func newDirtyTracker() *DirtyTracker {
	return &DirtyTracker{
		dirty:    make(map[*component.Node]struct{}),
		deferred: make(map[*component.Node]struct{}),
	}
}

// RepaintRequested implements component.RepaintListener.
func (t *DirtyTracker) RepaintRequested(e component.RepaintRequestEvent) {
	t.dirty[e.Source] = struct{}{}
}

// IsDirty reports whether n changed since it was last painted.
func (t *DirtyTracker) IsDirty(n *component.Node) bool {
	_, ok := t.dirty[n]
	return ok
}

// IsDeferred reports whether n is parked until Resume.
func (t *DirtyTracker) IsDeferred(n *component.Node) bool {
	_, ok := t.deferred[n]
	return ok
}

// Len returns the number of dirty nodes.
func (t *DirtyTracker) Len() int {
	return len(t.dirty)
}

func (t *DirtyTracker) mark(n *component.Node) {
	t.dirty[n] = struct{}{}
}

func (t *DirtyTracker) clean(n *component.Node) {
	delete(t.dirty, n)
}

func (t *DirtyTracker) park(n *component.Node) {
	t.deferred[n] = struct{}{}
}

func (t *DirtyTracker) unpark(n *component.Node) bool {
	if _, ok := t.deferred[n]; !ok {
		return false
	}
	delete(t.deferred, n)
	return true
}

func (t *DirtyTracker) forget(n *component.Node) {
	delete(t.dirty, n)
	delete(t.deferred, n)
}

func (t *DirtyTracker) reset() {
	clear(t.dirty)
	clear(t.deferred)
}
