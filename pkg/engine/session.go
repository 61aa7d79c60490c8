// Package engine runs server-side UI sessions: it owns one component tree per
// client, tracks which nodes changed, routes inbound client calls and
// serializes the changes once per render cycle.
package engine

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/golang/glog"
	"golang.org/x/text/language"

	"github.com/go-drift/uisync/pkg/component"
	synerrors "github.com/go-drift/uisync/pkg/errors"
	"github.com/go-drift/uisync/pkg/paint"
	"github.com/go-drift/uisync/pkg/rpc"
)

// RootTag is the client tag of every session root.
const RootTag = "root"

// FocusRPC is the client interface the root uses to move keyboard focus.
var FocusRPC = rpc.NewClientInterface("FocusRpc", "focus")

// DeferPolicy decides whether a node is sent as a deferred placeholder.
type DeferPolicy func(n *component.Node) bool

// Option configures a Session.
type Option func(*Session)

// WithLocale sets the default locale of the session tree.
func WithLocale(tag language.Tag) Option {
	return func(s *Session) { s.locale = tag }
}

// WithErrorHandler sets the handler receiving the session's errors.
// Without one, errors go to the fallback handler of the errors package.
func WithErrorHandler(h synerrors.ErrorHandler) Option {
	return func(s *Session) { s.handler = h }
}

// WithDeferPolicy sets the policy consulted before each node is painted.
func WithDeferPolicy(p DeferPolicy) Option {
	return func(s *Session) { s.deferPolicy = p }
}

// WithSessionID sets the session id instead of generating one.
func WithSessionID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithCycleTrace records a sample per render cycle into buf.
func WithCycleTrace(buf *CycleTraceBuffer) Option {
	return func(s *Session) { s.trace = buf }
}

// Session is one client's UI: a component tree, the record of what the client
// holds, and the set of nodes that changed since the last cycle.
//
// All methods are safe for concurrent use. Render and inbound dispatch are
// serialized by one lock, so a node is never painted while it is mutated.
// Application code that changes the tree outside of an RPC or variable
// handler must do so inside Access.
type Session struct {
	mu sync.Mutex

	id          string
	locale      language.Tag
	handler     synerrors.ErrorHandler
	deferPolicy DeferPolicy
	trace       *CycleTraceBuffer
	created     time.Time

	root    *component.Node
	nodes   map[string]*component.Node
	tracker *DirtyTracker
	cache   *paint.ClientCache
	resumed map[*component.Node]struct{}
	focused *component.Node
	focus   *rpc.Proxy

	cycle  uint64
	closed bool
}

// NewSession creates a session with an empty root.
func NewSession(opts ...Option) *Session {
	s := &Session{
		locale:  language.AmericanEnglish,
		created: time.Now(),
		nodes:   make(map[string]*component.Node),
		tracker: newDirtyTracker(),
		cache:   paint.NewClientCache(),
		resumed: make(map[*component.Node]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = component.NewConnectorID()
	}
	s.root = component.NewRoot(s, rootContent{}, component.WithRPCEndpoint())
	s.focus = s.root.ClientRPC(FocusRPC)
	glog.Infof("session %s created (locale %s)", s.id, s.locale)
	return s
}

type rootContent struct{}

func (rootContent) Tag() string { return RootTag }

func (rootContent) PaintContent(n *component.Node, t paint.Target) error {
	return n.PaintChildren(t)
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Root returns the root node.
func (s *Session) Root() *component.Node {
	return s.root
}

// Created returns the creation time.
func (s *Session) Created() time.Time {
	return s.created
}

// Locale implements component.Host.
func (s *Session) Locale() language.Tag {
	return s.locale
}

// Register implements component.Host.
func (s *Session) Register(n *component.Node) {
	s.nodes[n.ConnectorID()] = n
	n.AddRepaintListener(s.tracker)
}

// Unregister implements component.Host. The client representation of n is
// forgotten, so a node attached again later is sent in full.
func (s *Session) Unregister(n *component.Node) {
	delete(s.nodes, n.ConnectorID())
	n.RemoveRepaintListener(s.tracker)
	s.tracker.forget(n)
	s.cache.Forget(n.ConnectorID())
	delete(s.resumed, n)
	if s.focused == n {
		s.focused = nil
	}
}

// SetFocused implements component.Host. The focus change is sent as a call
// on the root.
func (s *Session) SetFocused(n *component.Node) {
	s.focused = n
	if s.focus == nil {
		return
	}
	if err := s.focus.Call("focus", n.ConnectorID()); err != nil {
		s.report("engine.SetFocused", synerrors.KindUnknown, n.ConnectorID(), "", err)
	}
}

// Focused returns the node holding keyboard focus, or nil.
func (s *Session) Focused() *component.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focused
}

// Find returns the attached node with the given connector id.
func (s *Session) Find(connector string) (*component.Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[connector]
	return n, ok
}

// Len returns the number of attached nodes, the root included.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

// Cycle returns the number of completed render cycles.
func (s *Session) Cycle() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycle
}

// Dirty returns the number of nodes waiting for the next cycle.
func (s *Session) Dirty() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.Len()
}

// Access runs fn with the session locked. Panics in fn are recovered and
// reported.
func (s *Session) Access(fn func(root *component.Node) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return synerrors.ErrSessionClosed
	}
	defer s.recover("engine.Access", "", &err)
	return fn(s.root)
}

// Defer parks n: it is sent as a deferred placeholder, and its changes are
// held back, until Resume.
func (s *Session) Defer(n *component.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker.park(n)
}

// Resume releases a deferred node. It is painted fresh on the next cycle,
// with any calls queued in the meantime.
func (s *Session) Resume(n *component.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker.unpark(n)
	if !n.IsAttached() {
		return
	}
	s.resumed[n] = struct{}{}
	s.tracker.mark(n)
}

// RepaintAll drops the record of what the client holds, so the next cycle
// sends the whole tree fresh. Used after the client lost its state.
func (s *Session) RepaintAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Reset()
	s.tracker.mark(s.root)
}

// Render runs one render cycle and returns the changes since the previous
// one. Each dirty node is painted once: nodes below a dirty ancestor are
// painted as part of it, and clean nodes inside a painted subtree are sent as
// cached markers.
func (s *Session) Render(ctx context.Context) (*paint.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, synerrors.ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	s.cycle++
	dirty := s.tracker.Len()
	w := paint.NewWriter(s.cache, paint.WriterOptions{
		IsDirty:     s.isDirty,
		ShouldDefer: s.shouldDefer,
	})
	for _, n := range s.paintRoots() {
		s.paintNode(n, w)
	}

	var sample CycleSample
	for n := range s.tracker.dirty {
		status, ok := w.Painted(n)
		if !ok {
			continue
		}
		if status != paint.StatusDeferred {
			s.tracker.clean(n)
		}
	}
	for _, p := range w.Deferred() {
		n := p.(*component.Node)
		s.tracker.clean(n)
		s.tracker.park(n)
	}
	for n := range s.resumed {
		if _, ok := w.Painted(n); ok {
			delete(s.resumed, n)
		}
	}
	s.rearm()

	changes := w.Changes()
	if changes == nil {
		changes = []*paint.Payload{}
	}
	resp := &paint.Response{Session: s.id, Cycle: s.cycle, Changes: changes}

	elapsed := time.Since(start)
	sample.Timestamp = start.UnixMilli()
	sample.Session = s.id
	sample.Cycle = s.cycle
	sample.RenderMs = durationToMillis(elapsed)
	sample.Dirty = dirty
	countPayloads(changes, &sample)
	if s.trace != nil {
		s.trace.Add(sample, elapsed)
	}
	if glog.V(2) {
		glog.Infof("session %s cycle %d: %d dirty, %d fresh, %d cached, %d deferred, %d calls in %s",
			s.id, s.cycle, dirty, sample.Fresh, sample.Cached, sample.Deferred, sample.Calls, elapsed)
	}
	return resp, nil
}

// paintRoots returns the dirty nodes without a dirty ancestor in tree order.
// Deferred subtrees are skipped, and so are hidden subtrees unless the
// hidden node itself changed.
func (s *Session) paintRoots() []*component.Node {
	var roots []*component.Node
	var walk func(n *component.Node)
	walk = func(n *component.Node) {
		if s.tracker.IsDeferred(n) {
			return
		}
		if s.needsPaint(n) {
			roots = append(roots, n)
			return
		}
		if !n.VisibleFlag() {
			return
		}
		for _, child := range n.Children() {
			walk(child)
		}
	}
	walk(s.root)
	return roots
}

func (s *Session) paintNode(n *component.Node, w *paint.Writer) {
	err := s.safePaint(n, w)
	if err == nil {
		return
	}
	var pe *synerrors.PanicError
	if errors.As(err, &pe) {
		// safePaint reports its own recoveries; content panics come back as errors.
		if pe.Op != "engine.Render" {
			synerrors.ReportPanicTo(s.handler, pe)
		}
		return
	}
	s.report("engine.Render", synerrors.KindComponent, n.ConnectorID(), "", err)
}

func (s *Session) safePaint(n *component.Node, w *paint.Writer) (err error) {
	defer s.recover("engine.Render", n.ConnectorID(), &err)
	return n.Paint(w)
}

func (s *Session) isDirty(p paint.Paintable) bool {
	n, ok := p.(*component.Node)
	return !ok || s.needsPaint(n)
}

// needsPaint reports whether n has to be sent this cycle. Besides the nodes
// the tracker heard from, that includes nodes whose listeners were notified
// by a descendant: their own later requests were swallowed by coalescing.
func (s *Session) needsPaint(n *component.Node) bool {
	return s.tracker.IsDirty(n) || n.ListenersNotified()
}

// rearm ends the propagation wave of this cycle. Nodes still flagged were not
// painted, because they sit in a deferred or hidden subtree; they are kept
// dirty so the change is sent once they are painted again.
func (s *Session) rearm() {
	for _, n := range s.nodes {
		if n.ListenersNotified() {
			s.tracker.mark(n)
			n.RequestRepaintRequests()
		}
	}
}

func (s *Session) shouldDefer(p paint.Paintable) bool {
	n, ok := p.(*component.Node)
	if !ok {
		return false
	}
	if s.tracker.IsDeferred(n) {
		return true
	}
	if _, ok := s.resumed[n]; ok {
		return false
	}
	return s.deferPolicy != nil && s.deferPolicy(n)
}

// Close destroys the tree. Further calls fail with ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.root.Destroy()
	s.tracker.reset()
	s.cache.Reset()
	glog.Infof("session %s closed after %d cycles", s.id, s.cycle)
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Connectors returns the ids of all attached nodes, sorted.
func (s *Session) Connectors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ReportTransport hands a failure of the client connection to the session's
// error handler.
func (s *Session) ReportTransport(op string, err error) {
	s.report(op, synerrors.KindTransport, "", "", err)
}

func (s *Session) report(op string, kind synerrors.ErrorKind, connector, iface string, err error) {
	synerrors.ReportTo(s.handler, &synerrors.SyncError{
		Op:        op,
		Kind:      kind,
		Err:       err,
		Connector: connector,
		Interface: iface,
	})
}

// recover reports a panic raised by application code and turns it into an
// error for the caller.
func (s *Session) recover(op, connector string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	pe := &synerrors.PanicError{
		Op:         op,
		Connector:  connector,
		Value:      r,
		StackTrace: synerrors.CaptureStack(),
		Timestamp:  time.Now(),
	}
	synerrors.ReportPanicTo(s.handler, pe)
	if err != nil {
		*err = pe
	}
}
