// Package paint serializes a node tree into the wire payload sent to the
// client on each render cycle.
//
// Every node being painted asks the [Target] for its [Status] before writing
// anything. The target decides, in order:
//
//  1. Deferred: the host has postponed the node; only a marker is written and
//     the node stays dirty for a later cycle.
//  2. Cached: the client already holds the node and nothing changed; only a
//     marker is written and the client reuses its copy.
//  3. Fresh: everything else; the node writes its attributes, shared state,
//     children and queued calls.
//
// [Writer] is the JSON target. It keeps a [ClientCache] across cycles that
// records which connectors the client holds and the last shared state sent for
// each, so only changed state keys are transmitted.
package paint

// Status is the paint decision for one node in one render cycle.
type Status int

const (
	// StatusFresh means the node must be fully serialized.
	StatusFresh Status = iota
	// StatusCached means the client may reuse its last representation.
	StatusCached
	// StatusDeferred means serialization is postponed.
	StatusDeferred
)

func (s Status) String() string {
	switch s {
	case StatusFresh:
		return "fresh"
	case StatusCached:
		return "cached"
	case StatusDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// Attribute keys written by the engine itself. Content may add its own keys.
const (
	AttrIcon           = "icon"
	AttrEventListeners = "eventListeners"
	AttrInvisible      = "invisible"
	AttrCached         = "cached"
	AttrDeferred       = "deferred"
	AttrError          = "error"
	AttrDebugID        = "debugId"
)
