package component

import "slices"

// EventKind identifies a kind of node event.
type EventKind string

// Event kinds fired by the node itself.
const (
	EventAttach         EventKind = "attach"
	EventDetach         EventKind = "detach"
	EventComponentError EventKind = "componentError"
)

// Event is delivered to listeners of its kind.
type Event struct {
	Kind   EventKind
	Source *Node
	// Data carries kind-specific detail, e.g. *ErrorMessage for
	// EventComponentError.
	Data any
}

// Listener receives events of one kind.
type Listener func(Event)

type listenerEntry struct {
	id uint64
	fn Listener
}

type eventRouter struct {
	listeners   map[EventKind][]listenerEntry
	identifiers map[EventKind]string
	nextID      uint64
}

// Registration removes a listener added with AddListener or AddClientListener.
type Registration struct {
	node *Node
	kind EventKind
	id   uint64
}

// Remove unregisters the listener. Removing twice is a no-op.
func (r Registration) Remove() {
	if r.node != nil {
		r.node.removeListener(r.kind, r.id)
	}
}

func (n *Node) router() *eventRouter {
	if n.events == nil {
		n.events = &eventRouter{listeners: make(map[EventKind][]listenerEntry)}
	}
	return n.events
}

// AddListener registers fn for events of kind. Listeners run in
// registration order.
func (n *Node) AddListener(kind EventKind, fn Listener) Registration {
	r := n.router()
	r.nextID++
	r.listeners[kind] = append(r.listeners[kind], listenerEntry{id: r.nextID, fn: fn})
	return Registration{node: n, kind: kind, id: r.nextID}
}

// AddClientListener registers fn for events of kind that originate on the
// client. The first listener of a kind adds identifier to the node's
// eventListeners attribute so the client starts forwarding the event.
func (n *Node) AddClientListener(identifier string, kind EventKind, fn Listener) Registration {
	needRepaint := !n.HasListeners(kind)
	reg := n.AddListener(kind, fn)
	if needRepaint {
		r := n.router()
		if r.identifiers == nil {
			r.identifiers = make(map[EventKind]string)
		}
		r.identifiers[kind] = identifier
		n.RequestRepaint()
	}
	return reg
}

// On registers a listener that receives the event data as D. Events whose
// data is not a D are ignored.
func On[D any](n *Node, kind EventKind, fn func(source *Node, data D)) Registration {
	return n.AddListener(kind, func(e Event) {
		if d, ok := e.Data.(D); ok {
			fn(e.Source, d)
		}
	})
}

func (n *Node) removeListener(kind EventKind, id uint64) {
	if n.events == nil {
		return
	}
	entries := n.events.listeners[kind]
	idx := slices.IndexFunc(entries, func(e listenerEntry) bool { return e.id == id })
	if idx < 0 {
		return
	}
	entries = slices.Delete(entries, idx, idx+1)
	if len(entries) > 0 {
		n.events.listeners[kind] = entries
		return
	}
	delete(n.events.listeners, kind)
	if _, ok := n.events.identifiers[kind]; ok {
		delete(n.events.identifiers, kind)
		n.RequestRepaint()
	}
}

// HasListeners reports whether any listener is registered for kind.
func (n *Node) HasListeners(kind EventKind) bool {
	return n.events != nil && len(n.events.listeners[kind]) > 0
}

// FireEvent delivers an event of kind to the node's listeners.
func (n *Node) FireEvent(kind EventKind, data any) {
	if n.events == nil {
		return
	}
	entries := slices.Clone(n.events.listeners[kind])
	if len(entries) == 0 {
		return
	}
	e := Event{Kind: kind, Source: n, Data: data}
	for _, entry := range entries {
		entry.fn(e)
	}
}
