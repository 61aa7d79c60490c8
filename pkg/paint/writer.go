package paint

import (
	"github.com/go-drift/uisync/pkg/rpc"
)

// WriterOptions configures the status decision of a Writer.
type WriterOptions struct {
	// IsDirty reports whether p changed since it was last sent.
	// A nil func treats every node as dirty.
	IsDirty func(p Paintable) bool
	// ShouldDefer reports whether painting p is postponed.
	// A nil func never defers.
	ShouldDefer func(p Paintable) bool
}

// Writer is a Target that builds Payload trees for one render cycle.
type Writer struct {
	cache    *ClientCache
	opts     WriterOptions
	stack    []*Payload
	changes  []*Payload
	painted  map[string]Status
	deferred []Paintable
}

// NewWriter creates a writer for one cycle on top of cache.
func NewWriter(cache *ClientCache, opts WriterOptions) *Writer {
	if cache == nil {
		cache = NewClientCache()
	}
	return &Writer{
		cache:   cache,
		opts:    opts,
		painted: make(map[string]Status),
	}
}

// StartPaintable opens a payload for p. Deferral is checked first, then the
// cache, and fresh is the default. A Stale paintable is never cached.
func (w *Writer) StartPaintable(p Paintable, tag string) Status {
	id := p.ConnectorID()
	var status Status
	switch {
	case w.opts.ShouldDefer != nil && w.opts.ShouldDefer(p):
		status = StatusDeferred
		w.deferred = append(w.deferred, p)
	case w.cache.Sent(id) && !w.changed(p):
		status = StatusCached
	default:
		status = StatusFresh
		w.cache.markSent(id)
	}

	payload := &Payload{ID: id, Tag: tag, status: status}
	if n := len(w.stack); n > 0 {
		parent := w.stack[n-1]
		parent.Children = append(parent.Children, payload)
	} else {
		w.changes = append(w.changes, payload)
	}
	w.stack = append(w.stack, payload)
	w.painted[id] = status
	return status
}

func (w *Writer) changed(p Paintable) bool {
	if st, ok := p.(Stale); ok && st.Stale() {
		return true
	}
	return w.opts.IsDirty == nil || w.opts.IsDirty(p)
}

// EndPaintable closes the payload opened for p.
func (w *Writer) EndPaintable(p Paintable) {
	n := len(w.stack)
	if n == 0 {
		return
	}
	// Unwind to p in case a nested paintable failed to close itself.
	for i := n - 1; i >= 0; i-- {
		if w.stack[i].ID == p.ConnectorID() {
			w.stack = w.stack[:i]
			return
		}
	}
}

func (w *Writer) current() *Payload {
	if len(w.stack) == 0 {
		return nil
	}
	return w.stack[len(w.stack)-1]
}

// AddAttribute appends an attribute to the open payload.
func (w *Writer) AddAttribute(name string, value any) {
	p := w.current()
	if p == nil {
		return
	}
	if p.Attributes == nil {
		p.Attributes = &Attributes{}
	}
	p.Attributes.Set(name, value)
}

// AddState transmits the keys of state that the client does not hold yet.
func (w *Writer) AddState(state map[string]any) {
	p := w.current()
	if p == nil {
		return
	}
	if diff := w.cache.diffState(p.ID, state); len(diff) > 0 {
		p.State = diff
	}
}

// ClearState forgets the state the client holds for the open payload.
func (w *Writer) ClearState() {
	if p := w.current(); p != nil {
		w.cache.clearState(p.ID)
	}
}

// AddCalls attaches outbound calls to the open payload.
func (w *Writer) AddCalls(calls []rpc.MethodInvocation) {
	p := w.current()
	if p == nil || len(calls) == 0 {
		return
	}
	p.Calls = append(p.Calls, calls...)
}

// Painted reports whether p was painted in this cycle and with which status.
func (w *Writer) Painted(p Paintable) (Status, bool) {
	status, ok := w.painted[p.ConnectorID()]
	return status, ok
}

// Deferred returns the paintables deferred in this cycle.
func (w *Writer) Deferred() []Paintable {
	return w.deferred
}

// Changes returns the top-level payloads written in this cycle.
func (w *Writer) Changes() []*Payload {
	return w.changes
}
