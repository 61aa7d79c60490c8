package transport

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/go-drift/uisync/pkg/engine"
	synerrors "github.com/go-drift/uisync/pkg/errors"
	"github.com/go-drift/uisync/pkg/paint"
	synctest "github.com/go-drift/uisync/pkg/testing"
)

type rpcClient struct {
	conn *jsonrpc2.Conn
	done chan error
}

func newRPCClient(t *testing.T, h *Handler) *rpcClient {
	t.Helper()
	serverSide, clientSide := net.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	c := &rpcClient{done: make(chan error, 1)}
	go func() { c.done <- h.ServeJSONRPC(ctx, serverSide) }()
	noop := jsonrpc2.HandlerWithError(func(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) (any, error) {
		return nil, nil
	})
	c.conn = jsonrpc2.NewConn(ctx, jsonrpc2.NewBufferedStream(clientSide, jsonrpc2.VSCodeObjectCodec{}), noop)
	t.Cleanup(func() { c.conn.Close() })
	return c
}

func (c *rpcClient) call(t *testing.T, method string, params, result any) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.conn.Call(ctx, method, params, result)
}

func rpcCode(err error) int64 {
	var rpcErr *jsonrpc2.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.Code
	}
	return 0
}

func TestJSONRPCSync(t *testing.T) {
	m := newTestManager(t)
	h := NewHandler(m)
	c := newRPCClient(t, h)

	var resp paint.Response
	err := c.call(t, MethodSync, engine.Batch{}, &resp)
	assert.Equal(t, rpcCode(err), int64(jsonrpc2.CodeInvalidRequest))

	var hello ServerMessage
	if err := c.call(t, MethodOpen, OpenParams{}, &hello); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, hello.Type, MessageHello)
	assert.Equal(t, m.Len(), 1)

	if err := c.call(t, MethodSync, engine.Batch{}, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Find("ok") == nil {
		t.Fatal("first sync should return the whole tree")
	}

	var next paint.Response
	if err := c.call(t, MethodSync, clickBatch(t), &next); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, next.Find("count").State["text"], "1")

	var full paint.Response
	if err := c.call(t, MethodRepaintAll, nil, &full); err != nil {
		t.Fatal(err)
	}
	if full.Find("ok") == nil || full.Find("count") == nil {
		t.Error("repaintAll should return the whole tree")
	}
}

func TestJSONRPCErrors(t *testing.T) {
	m := newTestManager(t)
	c := newRPCClient(t, NewHandler(m))

	var hello ServerMessage
	if err := c.call(t, MethodOpen, nil, &hello); err != nil {
		t.Fatal(err)
	}
	err := c.call(t, MethodOpen, nil, &hello)
	assert.Equal(t, rpcCode(err), int64(jsonrpc2.CodeInvalidRequest))

	err = c.call(t, "explode", nil, nil)
	assert.Equal(t, rpcCode(err), int64(jsonrpc2.CodeMethodNotFound))

	var resp paint.Response
	err = c.call(t, MethodVariables, []int{1, 2}, &resp)
	assert.Equal(t, rpcCode(err), int64(jsonrpc2.CodeInvalidParams))
}

func TestJSONRPCVariables(t *testing.T) {
	m := newTestManager(t)
	c := newRPCClient(t, NewHandler(m))

	var hello ServerMessage
	if err := c.call(t, MethodOpen, nil, &hello); err != nil {
		t.Fatal(err)
	}
	var resp paint.Response
	if err := c.call(t, MethodSync, nil, &resp); err != nil {
		t.Fatal(err)
	}
	// Labels take no variables: the change is reported and the cycle still runs.
	change := engine.VariableChange{Connector: "count", Values: map[string]any{"text": "x"}}
	if err := c.call(t, MethodVariables, change, &resp); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(resp.Changes), 0)
}

func TestJSONRPCDisconnectReleasesSession(t *testing.T) {
	m := newTestManager(t)
	c := newRPCClient(t, NewHandler(m))

	var hello ServerMessage
	if err := c.call(t, MethodOpen, nil, &hello); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, m.Len(), 1)

	c.conn.Close()
	select {
	case err := <-c.done:
		if err != nil {
			t.Errorf("ServeJSONRPC() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not notice the disconnect")
	}
	assert.Equal(t, m.Len(), 0)
}

func TestJSONRPCPanicFailsRequest(t *testing.T) {
	rec := &synctest.Recorder{}
	synerrors.SetHandler(rec)
	defer synerrors.SetHandler(nil)

	// A handler without a binder panics on open.
	c := &rpcConn{handler: &Handler{}}
	result, err := c.handle(context.Background(), nil, &jsonrpc2.Request{Method: MethodOpen})

	if result != nil {
		t.Errorf("result = %v, want nil", result)
	}
	assert.Equal(t, rpcCode(err), int64(jsonrpc2.CodeInternalError))
	panics := rec.Panics()
	if len(panics) != 1 {
		t.Fatalf("recorded %d panics, want 1", len(panics))
	}
	assert.Equal(t, panics[0].Op, "transport.jsonrpc.open")
}
