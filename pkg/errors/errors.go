// Package errors provides structured error handling for the synchronization engine.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfiguration indicates an invalid registration or setup call.
	KindConfiguration
	// KindParsing indicates malformed input such as a size string or payload.
	KindParsing
	// KindRouting indicates an inbound call that could not be delivered.
	KindRouting
	// KindComponent indicates an application error attached to a node.
	KindComponent
	// KindState indicates a structural tree violation.
	KindState
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindTransport indicates a failure reading or writing a client connection.
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindParsing:
		return "parsing"
	case KindRouting:
		return "routing"
	case KindComponent:
		return "component"
	case KindState:
		return "state"
	case KindPanic:
		return "panic"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Sentinel errors. The typed errors below unwrap to one of these so callers
// can use errors.Is without inspecting fields.
var (
	// ErrUnknownConnector indicates that no attached node has the given id.
	ErrUnknownConnector = errors.New("unknown connector")

	// ErrUnknownInterface indicates that the node has no manager for the interface.
	ErrUnknownInterface = errors.New("unknown rpc interface")

	// ErrUnknownMethod indicates that the interface does not declare the method.
	ErrUnknownMethod = errors.New("unknown rpc method")

	// ErrNotEndpoint indicates an RPC registration on a node that is not an RPC endpoint.
	ErrNotEndpoint = errors.New("node is not an rpc endpoint")

	// ErrAlreadyParented indicates an attempt to give a node a second parent.
	ErrAlreadyParented = errors.New("node already has a parent")

	// ErrTreeCycle indicates an attempt to make a node its own ancestor.
	ErrTreeCycle = errors.New("node would become its own ancestor")

	// ErrSessionClosed indicates an operation on a session that has been closed.
	ErrSessionClosed = errors.New("session closed")

	// ErrInvalidSize indicates a size string that does not match the size grammar.
	ErrInvalidSize = errors.New("invalid size")
)

// SyncError represents a structured error reported by a session.
type SyncError struct {
	// Op is the operation that failed (e.g., "engine.HandleCalls").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Connector is the id of the node involved, if any.
	Connector string
	// Interface is the RPC interface name, if applicable.
	Interface string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *SyncError) Error() string {
	if e.Connector != "" {
		return fmt.Sprintf("%s [%s] connector=%s: %v", e.Op, e.Kind, e.Connector, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "rpc.Dispatch").
	Op string
	// Connector is the node whose code panicked, if known.
	Connector string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ParseError represents a string that does not match an expected grammar.
type ParseError struct {
	// Input is the offending string.
	Input string
	// Pattern describes the accepted grammar.
	Pattern string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid size argument: %q (should match %s)", e.Input, e.Pattern)
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidSize
}

// RoutingError represents an inbound call that could not be delivered.
type RoutingError struct {
	Connector string
	Interface string
	Method    string
	// Reason is one of the sentinel errors above.
	Reason error
}

func (e *RoutingError) Error() string {
	target := e.Interface
	if e.Method != "" {
		target += "." + e.Method
	}
	return fmt.Sprintf("cannot route %s to connector %s: %v", target, e.Connector, e.Reason)
}

func (e *RoutingError) Unwrap() error {
	return e.Reason
}

// ConfigurationError represents an invalid RPC registration.
type ConfigurationError struct {
	Interface string
	Reason    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("cannot register %s: %v", e.Interface, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Reason
}

// StateError represents a mutation that would break tree consistency.
// The tree is left unchanged when it is returned.
type StateError struct {
	Op     string
	Reason error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Reason)
}

func (e *StateError) Unwrap() error {
	return e.Reason
}

// ErrorHandler receives errors reported by a session.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *SyncError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
