// Package rpc routes remote procedure calls between a node tree and its client.
//
// Server RPC interfaces are declared once with [NewInterface] and a table of
// typed methods; a node that is an RPC endpoint registers one implementation
// per interface in its [Registry]. Inbound [MethodInvocation] values are
// demultiplexed onto the implementation by interface and method name without
// runtime method lookup.
//
// Client RPC calls go the other way: a [Proxy] encodes the call and appends it
// to the owning node's [Queue], which the paint engine flushes into the node's
// payload on the next render cycle.
package rpc

import "encoding/json"

// ArgCodec turns call arguments into their wire form and back.
type ArgCodec interface {
	Encode(value any) ([]byte, error)
	Decode(data []byte, v any) error
}

// JSONCodec encodes arguments as JSON values.
type JSONCodec struct{}

func (JSONCodec) Encode(value any) ([]byte, error) { return json.Marshal(value) }

func (JSONCodec) Decode(data []byte, v any) error { return json.Unmarshal(data, v) }

// DefaultCodec is the codec of Args and EncodeArgs.
var DefaultCodec ArgCodec = JSONCodec{}
