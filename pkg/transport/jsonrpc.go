package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/golang/glog"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/go-drift/uisync/pkg/engine"
	synerrors "github.com/go-drift/uisync/pkg/errors"
	"github.com/go-drift/uisync/pkg/paint"
)

// JSON-RPC methods.
const (
	// MethodOpen binds the connection to a session and returns a hello
	// message. Params: OpenParams, optional.
	MethodOpen = "open"
	// MethodSync applies an engine.Batch and returns the render response.
	MethodSync = "sync"
	// MethodVariables applies one engine.VariableChange and returns the
	// render response.
	MethodVariables = "variables"
	// MethodRepaintAll forgets what the client holds and returns a response
	// with the whole tree.
	MethodRepaintAll = "repaintAll"
)

// OpenParams are the params of MethodOpen.
type OpenParams struct {
	Token string `json:"token,omitempty"`
}

// ServeJSONRPC serves one session over rwc, framed with Content-Length
// headers. It returns when the peer disconnects or ctx is done; the session
// is then released like a closed websocket.
func (h *Handler) ServeJSONRPC(ctx context.Context, rwc io.ReadWriteCloser) error {
	c := &rpcConn{handler: h}
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(c.handle))
	var err error
	select {
	case <-conn.DisconnectNotify():
	case <-ctx.Done():
		err = ctx.Err()
		conn.Close()
	}
	c.close()
	return err
}

// rpcConn is the state of one JSON-RPC connection.
type rpcConn struct {
	handler *Handler

	mu      sync.Mutex
	session *engine.Session
}

// handle runs on the connection's read loop. A panic fails the request
// instead of the process.
func (c *rpcConn) handle(ctx context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (result any, err error) {
	defer synerrors.RecoverWithCallback("transport.jsonrpc."+req.Method, func(r any) {
		result = nil
		err = &jsonrpc2.Error{Code: jsonrpc2.CodeInternalError, Message: fmt.Sprintf("internal error: %v", r)}
	})
	switch req.Method {
	case MethodOpen:
		var p OpenParams
		if err := decodeParams(req, &p, false); err != nil {
			return nil, err
		}
		return c.open(ctx, p.Token)
	case MethodSync:
		var b engine.Batch
		if err := decodeParams(req, &b, false); err != nil {
			return nil, err
		}
		return c.sync(ctx, b)
	case MethodVariables:
		var v engine.VariableChange
		if err := decodeParams(req, &v, true); err != nil {
			return nil, err
		}
		return c.sync(ctx, engine.Batch{Variables: []engine.VariableChange{v}})
	case MethodRepaintAll:
		s, err := c.current()
		if err != nil {
			return nil, err
		}
		s.RepaintAll()
		return c.render(ctx, s)
	default:
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "method not found: " + req.Method}
	}
}

func (c *rpcConn) open(ctx context.Context, token string) (*ServerMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidRequest, Message: "session already open"}
	}
	s, resumed, err := c.handler.binder.acquire(ctx, token)
	if err != nil {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInternalError, Message: err.Error()}
	}
	if resumed {
		s.RepaintAll()
	}
	hello, err := c.handler.binder.hello(s)
	if err != nil {
		c.handler.binder.release(s)
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInternalError, Message: err.Error()}
	}
	c.session = s
	glog.Infof("[rpc]connection opened session %s (resumed=%t)", s.ID(), resumed)
	return &hello, nil
}

func (c *rpcConn) sync(ctx context.Context, b engine.Batch) (*paint.Response, error) {
	s, err := c.current()
	if err != nil {
		return nil, err
	}
	if err := s.Handle(ctx, b); err != nil {
		return nil, sessionError(err)
	}
	return c.render(ctx, s)
}

func (c *rpcConn) render(ctx context.Context, s *engine.Session) (*paint.Response, error) {
	resp, err := s.Render(ctx)
	if err != nil {
		return nil, sessionError(err)
	}
	return resp, nil
}

func (c *rpcConn) current() (*engine.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidRequest, Message: "no session, call " + MethodOpen + " first"}
	}
	return c.session, nil
}

func (c *rpcConn) close() {
	c.mu.Lock()
	s := c.session
	c.session = nil
	c.mu.Unlock()
	if s != nil {
		glog.Infof("[rpc]connection of session %s closed", s.ID())
		c.handler.binder.release(s)
	}
}

func decodeParams(req *jsonrpc2.Request, v any, required bool) error {
	if req.Params == nil {
		if required {
			return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "missing params"}
		}
		return nil
	}
	if err := json.Unmarshal(*req.Params, v); err != nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
	}
	return nil
}

func sessionError(err error) error {
	if errors.Is(err, synerrors.ErrSessionClosed) {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidRequest, Message: err.Error()}
	}
	return &jsonrpc2.Error{Code: jsonrpc2.CodeInternalError, Message: err.Error()}
}
