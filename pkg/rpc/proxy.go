package rpc

import (
	"fmt"
	"slices"

	"github.com/go-drift/uisync/pkg/errors"
)

// Queue holds outbound calls of one node until they are flushed into a
// render cycle. Calls are never dropped by the queue itself.
type Queue struct {
	calls []MethodInvocation
}

// Enqueue appends a call.
func (q *Queue) Enqueue(inv MethodInvocation) {
	q.calls = append(q.calls, inv)
}

// Pending returns the number of queued calls.
func (q *Queue) Pending() int {
	return len(q.calls)
}

// Flush returns the queued calls in order and empties the queue.
func (q *Queue) Flush() []MethodInvocation {
	calls := q.calls
	q.calls = nil
	return calls
}

// Clear drops all queued calls.
func (q *Queue) Clear() {
	q.calls = nil
}

// ClientInterface describes an interface implemented by the client.
type ClientInterface struct {
	Name    string
	Methods []string
}

// NewClientInterface creates a client interface description.
func NewClientInterface(name string, methods ...string) ClientInterface {
	return ClientInterface{Name: name, Methods: methods}
}

// Proxy is the server-side stub of a client interface. Each call is encoded
// and queued; notify is invoked after every successful enqueue so the owner
// can schedule a render.
type Proxy struct {
	iface  ClientInterface
	queue  *Queue
	notify func()
}

// NewProxy creates a proxy that queues calls on q.
func NewProxy(iface ClientInterface, q *Queue, notify func()) *Proxy {
	return &Proxy{iface: iface, queue: q, notify: notify}
}

// Interface returns the client interface description.
func (p *Proxy) Interface() ClientInterface {
	return p.iface
}

// Call queues method with args for delivery on the next render cycle.
func (p *Proxy) Call(method string, args ...any) error {
	if len(p.iface.Methods) > 0 && !slices.Contains(p.iface.Methods, method) {
		return fmt.Errorf("%s.%s: %w", p.iface.Name, method, errors.ErrUnknownMethod)
	}
	encoded, err := EncodeArgs(args...)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", p.iface.Name, method, err)
	}
	p.queue.Enqueue(MethodInvocation{
		Interface: p.iface.Name,
		Method:    method,
		Args:      encoded,
	})
	if p.notify != nil {
		p.notify()
	}
	return nil
}
