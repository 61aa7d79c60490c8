package paint

import "github.com/go-drift/uisync/pkg/rpc"

// Paintable is anything the client addresses by connector id.
type Paintable interface {
	ConnectorID() string
}

// Stale is implemented by paintables that must be sent again even when the
// writer's dirty check reports them clean.
type Stale interface {
	Stale() bool
}

// Target receives the serialization of a node tree. Calls for one node are
// bracketed by StartPaintable and EndPaintable; StartPaintable calls made in
// between open nested children.
type Target interface {
	// StartPaintable opens the payload for p and returns its paint status.
	StartPaintable(p Paintable, tag string) Status
	// EndPaintable closes the payload opened for p.
	EndPaintable(p Paintable)
	// AddAttribute appends an attribute to the open payload. Attributes keep
	// their insertion order on the wire.
	AddAttribute(name string, value any)
	// AddState records the full shared state of the open payload; the target
	// transmits the part that differs from what the client holds.
	AddState(state map[string]any)
	// ClearState drops the shared state the client holds for the open
	// payload, so the next AddState for it transmits every key.
	ClearState()
	// AddCalls attaches outbound calls to the open payload.
	AddCalls(calls []rpc.MethodInvocation)
}
