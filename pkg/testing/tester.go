package testing

import (
	"context"
	"sync"
	"testing"

	"github.com/go-drift/uisync/pkg/component"
	"github.com/go-drift/uisync/pkg/engine"
	synerrors "github.com/go-drift/uisync/pkg/errors"
	"github.com/go-drift/uisync/pkg/paint"
	"github.com/go-drift/uisync/pkg/rpc"
)

// DefaultSessionID is the id of sessions created by a tester unless an
// option sets another.
const DefaultSessionID = "test"

// TestingT is the subset of *testing.T the tester reports through, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Recorder is an error handler that keeps everything it is given.
type Recorder struct {
	mu     sync.Mutex
	errs   []*synerrors.SyncError
	panics []*synerrors.PanicError
}

func (r *Recorder) HandleError(err *synerrors.SyncError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *Recorder) HandlePanic(err *synerrors.PanicError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panics = append(r.panics, err)
}

// Errors returns the recorded errors in report order.
func (r *Recorder) Errors() []*synerrors.SyncError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*synerrors.SyncError(nil), r.errs...)
}

// Panics returns the recorded panics in report order.
func (r *Recorder) Panics() []*synerrors.PanicError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*synerrors.PanicError(nil), r.panics...)
}

// Kinds returns the kinds of the recorded errors in report order.
func (r *Recorder) Kinds() []synerrors.ErrorKind {
	errs := r.Errors()
	kinds := make([]synerrors.ErrorKind, len(errs))
	for i, e := range errs {
		kinds[i] = e.Kind
	}
	return kinds
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs, r.panics = nil, nil
}

// SessionTester drives one session without a client connection. It builds
// the tree, runs render cycles, and sends inbound calls and variables the
// way a transport would, failing the test on anything unexpected.
type SessionTester struct {
	t        TestingT
	session  *engine.Session
	recorder *Recorder
	last     *paint.Response
}

// NewSessionTester creates a session, builds its tree with build and runs
// the first render cycle. The session is closed when the test ends.
func NewSessionTester(t *testing.T, build engine.BuildFunc, opts ...engine.Option) *SessionTester {
	t.Helper()
	tester := NewSessionTesterT(t, build, opts...)
	t.Cleanup(tester.Close)
	return tester
}

// NewSessionTesterT is NewSessionTester for a TestingT. The caller closes
// the session.
func NewSessionTesterT(t TestingT, build engine.BuildFunc, opts ...engine.Option) *SessionTester {
	t.Helper()
	rec := &Recorder{}
	base := []engine.Option{engine.WithErrorHandler(rec), engine.WithSessionID(DefaultSessionID)}
	s := engine.NewSession(append(base, opts...)...)
	tester := &SessionTester{t: t, session: s, recorder: rec}
	if build != nil {
		if err := s.Access(build); err != nil {
			t.Fatalf("building session tree: %v", err)
		}
	}
	tester.Render()
	return tester
}

// Session returns the session under test.
func (st *SessionTester) Session() *engine.Session {
	return st.session
}

// Recorder returns the error handler of the session.
func (st *SessionTester) Recorder() *Recorder {
	return st.recorder
}

// Close closes the session.
func (st *SessionTester) Close() {
	st.session.Close()
}

// Render runs one render cycle and returns its response.
func (st *SessionTester) Render() *paint.Response {
	st.t.Helper()
	resp, err := st.session.Render(context.Background())
	if err != nil {
		st.t.Fatalf("Render: %v", err)
		return nil
	}
	st.last = resp
	return resp
}

// Last returns the response of the latest render cycle.
func (st *SessionTester) Last() *paint.Response {
	return st.last
}

// Payload returns the payload of connector in the latest response, or nil
// when the node was not part of it.
func (st *SessionTester) Payload(connector string) *paint.Payload {
	return st.last.Find(connector)
}

// Access runs fn with the session lock held, failing the test on error.
func (st *SessionTester) Access(fn func(root *component.Node)) {
	st.t.Helper()
	err := st.session.Access(func(root *component.Node) error {
		fn(root)
		return nil
	})
	if err != nil {
		st.t.Fatalf("Access: %v", err)
	}
}

// Call sends one inbound call to connector. Arguments are encoded the way
// the client encodes them.
func (st *SessionTester) Call(connector, iface, method string, args ...any) {
	st.t.Helper()
	encoded, err := rpc.EncodeArgs(args...)
	if err != nil {
		st.t.Fatalf("encoding arguments of %s.%s: %v", iface, method, err)
		return
	}
	inv := rpc.MethodInvocation{Connector: connector, Interface: iface, Method: method, Args: encoded}
	if err := st.session.HandleCalls(context.Background(), inv); err != nil {
		st.t.Fatalf("HandleCalls(%s): %v", inv, err)
	}
}

// SetVariables sends client variable changes to connector.
func (st *SessionTester) SetVariables(connector string, values map[string]any) {
	st.t.Helper()
	if err := st.session.ChangeVariables(context.Background(), connector, values); err != nil {
		st.t.Fatalf("ChangeVariables(%s): %v", connector, err)
	}
}

// Find evaluates f against the session tree.
func (st *SessionTester) Find(f Finder) FinderResult {
	var nodes []*component.Node
	st.Access(func(root *component.Node) {
		nodes = f.Evaluate(root)
	})
	return FinderResult{nodes: nodes, finder: f}
}

// Errors returns the errors the session reported.
func (st *SessionTester) Errors() []*synerrors.SyncError {
	return st.recorder.Errors()
}

// Panics returns the panics the session recovered.
func (st *SessionTester) Panics() []*synerrors.PanicError {
	return st.recorder.Panics()
}

// ExpectNoErrors fails the test if the session reported an error or a panic.
func (st *SessionTester) ExpectNoErrors() {
	st.t.Helper()
	for _, err := range st.recorder.Errors() {
		st.t.Errorf("unexpected session error: %v", err)
	}
	for _, p := range st.recorder.Panics() {
		st.t.Errorf("unexpected panic: %v", p)
	}
}
