package component

import (
	"sort"
	"time"

	"github.com/go-drift/uisync/pkg/errors"
	"github.com/go-drift/uisync/pkg/paint"
)

// Paint writes the node to t. The status returned by the target decides how
// much is written:
//
//   - deferred: a deferred marker only;
//   - cached: a cached marker;
//   - otherwise, for an invisible node: an invisible marker only, and the
//     client's copy of the state is dropped;
//   - otherwise: shared state, then icon, event listener identifiers,
//     content, error, and finally the queued outbound calls.
//
// The attribute order is part of the wire contract. After painting, repaint
// notifications are re-armed.
func (n *Node) Paint(t paint.Target) (err error) {
	status := t.StartPaintable(n, n.Tag())
	defer func() {
		t.EndPaintable(n)
		n.listenersNotified = false
	}()

	switch {
	case status == paint.StatusDeferred:
		t.AddAttribute(paint.AttrDeferred, true)
	case status == paint.StatusCached:
		t.AddAttribute(paint.AttrCached, true)
	case !n.IsVisible():
		t.AddAttribute(paint.AttrInvisible, true)
		t.ClearState()
	default:
		if s := n.State(); s != nil {
			t.AddState(s.Map())
		}
		if n.debugID != "" {
			t.AddAttribute(paint.AttrDebugID, n.debugID)
		}
		if n.icon != nil {
			t.AddAttribute(paint.AttrIcon, n.icon.URI())
		}
		if ids := n.EventIdentifiers(); len(ids) > 0 {
			t.AddAttribute(paint.AttrEventListeners, ids)
		}
		if n.content != nil {
			err = n.paintContent(t)
		}
		if msg := n.ErrorMessage(); msg != nil {
			t.AddAttribute(paint.AttrError, msg.payload())
		}
		t.AddCalls(n.calls.Flush())
	}
	return err
}

// Stale implements paint.Stale: a node whose listeners were notified, or that
// has queued outbound calls, is never sent as cached.
func (n *Node) Stale() bool {
	return n.listenersNotified || n.calls.Pending() > 0
}

// paintContent turns a panic in the content painter into a *errors.PanicError
// so siblings still get painted.
func (n *Node) paintContent(t paint.Target) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &errors.PanicError{
				Op:         "component.Paint",
				Connector:  n.id,
				Value:      r,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			}
		}
	}()
	return n.content.PaintContent(n, t)
}

// PaintChildren paints every child in order. It is the PaintContent body of
// plain containers. The first error is returned after all children painted.
func (n *Node) PaintChildren(t paint.Target) error {
	var first error
	for _, child := range n.children {
		if err := child.Paint(t); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// EventIdentifiers returns the client event identifiers the node listens
// to, sorted.
func (n *Node) EventIdentifiers() []string {
	if n.events == nil || len(n.events.identifiers) == 0 {
		return nil
	}
	ids := make([]string, 0, len(n.events.identifiers))
	for _, id := range n.events.identifiers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
