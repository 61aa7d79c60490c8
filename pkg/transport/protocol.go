// Package transport connects sessions to clients.
//
// Two transports are provided. [Handler] serves sessions over websockets:
// every text message from the client is an [engine.Batch], and every batch is
// answered with the changes of one render cycle. [ServeJSONRPC] serves the
// same operations as JSON-RPC 2.0 methods over any byte stream.
//
// With a [TokenIssuer], clients get a signed token with their session id and
// may present it when reconnecting to get their live session back.
package transport

import "github.com/go-drift/uisync/pkg/paint"

// Server message types.
const (
	// MessageHello opens a connection and names the session.
	MessageHello = "hello"
	// MessageChanges carries the response of one render cycle.
	MessageChanges = "changes"
	// MessageError reports a message the server could not handle.
	MessageError = "error"
)

// ServerMessage is one message written to a client.
type ServerMessage struct {
	Type     string          `json:"type"`
	Session  string          `json:"session,omitempty"`
	Token    string          `json:"token,omitempty"`
	Response *paint.Response `json:"response,omitempty"`
	Error    string          `json:"error,omitempty"`
}
