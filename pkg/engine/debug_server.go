package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/go-drift/uisync/pkg/component"
)

// DebugServer serves read-only JSON views of a manager's sessions.
type DebugServer struct {
	manager  *Manager
	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// NewDebugServer creates a debug server for m. It does not listen until Start.
func NewDebugServer(m *Manager) *DebugServer {
	return &DebugServer{manager: m}
}

// SessionInfo summarizes one session.
type SessionInfo struct {
	ID      string `json:"id"`
	Created int64  `json:"created"`
	Cycle   uint64 `json:"cycle"`
	Nodes   int    `json:"nodes"`
	Dirty   int    `json:"dirty"`
}

// TreeNode is the serialized form of one node of a session tree.
type TreeNode struct {
	ID       string     `json:"id"`
	Tag      string     `json:"tag"`
	DebugID  string     `json:"debugId,omitempty"`
	Caption  string     `json:"caption,omitempty"`
	Depth    int        `json:"depth"`
	Visible  bool       `json:"visible"`
	Enabled  bool       `json:"enabled"`
	Dirty    bool       `json:"dirty"`
	Deferred bool       `json:"deferred,omitempty"`
	Calls    int        `json:"pendingCalls,omitempty"`
	RPC      []string   `json:"rpc,omitempty"`
	Children []TreeNode `json:"children,omitempty"`
}

// maxTreeDepth limits recursion depth on malformed trees.
const maxTreeDepth = 500

// Handler returns the debug routes.
func (d *DebugServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", d.handleHealth)
	mux.HandleFunc("/sessions", d.handleSessions)
	mux.HandleFunc("/tree", d.handleTree)
	mux.HandleFunc("/cycles", d.handleCycles)
	return mux
}

// Start listens on addr and serves in the background. It returns the bound
// address, which differs from addr when addr asks for an ephemeral port.
func (d *DebugServer) Start(addr string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.server != nil {
		return d.listener.Addr().String(), nil
	}

	// Bind first to fail fast on port conflicts.
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("debug server listen: %w", err)
	}
	server := &http.Server{Handler: d.Handler(), ReadHeaderTimeout: 5 * time.Second}
	d.server = server
	d.listener = listener

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			d.mu.Lock()
			d.server = nil
			d.listener = nil
			d.mu.Unlock()
			glog.Errorf("debug server error: %v", err)
		}
	}()
	glog.Infof("debug server listening on %s", listener.Addr())
	return listener.Addr().String(), nil
}

// Stop shuts the server down gracefully.
func (d *DebugServer) Stop() {
	d.mu.Lock()
	server := d.server
	d.server = nil
	d.listener = nil
	d.mu.Unlock()

	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}

func (d *DebugServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]any{"status": "ok", "sessions": d.manager.Len()})
}

func (d *DebugServer) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sessions := d.manager.Sessions()
	infos := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, SessionInfo{
			ID:      s.ID(),
			Created: s.Created().UnixMilli(),
			Cycle:   s.Cycle(),
			Nodes:   s.Len(),
			Dirty:   s.Dirty(),
		})
	}
	writeJSON(w, infos)
}

// handleTree returns the tree of the session named by the "session" query
// parameter. The tree is read with the session locked.
func (d *DebugServer) handleTree(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s, ok := d.manager.Get(r.URL.Query().Get("session"))
	if !ok {
		http.Error(w, "no such session", http.StatusNotFound)
		return
	}
	var tree TreeNode
	err := s.Access(func(root *component.Node) error {
		tree = s.serializeTree(root, 0)
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, tree)
}

func (d *DebugServer) handleCycles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	resp := d.manager.Trace().Snapshot()
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 && limit < len(resp.Samples) {
		resp.Samples = resp.Samples[len(resp.Samples)-limit:]
	}
	writeJSON(w, resp)
}

func (s *Session) serializeTree(n *component.Node, depth int) TreeNode {
	node := TreeNode{
		ID:       n.ConnectorID(),
		Tag:      n.Tag(),
		DebugID:  n.DebugID(),
		Caption:  n.Caption(),
		Depth:    depth,
		Visible:  n.IsVisible(),
		Enabled:  n.IsEnabled(),
		Dirty:    s.tracker.IsDirty(n),
		Deferred: s.tracker.IsDeferred(n),
		Calls:    n.PendingCalls(),
		RPC:      n.RPC().Interfaces(),
	}
	if depth >= maxTreeDepth {
		return node
	}
	for _, child := range n.Children() {
		node.Children = append(node.Children, s.serializeTree(child, depth+1))
	}
	return node
}

// writeJSON encodes to a buffer first so encoding errors become a 500.
func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
