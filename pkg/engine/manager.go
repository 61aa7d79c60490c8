package engine

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/golang/glog"

	"github.com/go-drift/uisync/pkg/component"
)

// ErrTooManySessions is returned by Manager.Create when the session limit is
// reached.
var ErrTooManySessions = errors.New("session limit reached")

// BuildFunc populates the root of a new session.
type BuildFunc func(root *component.Node) error

// Manager owns the live sessions of one application. Sessions share nothing
// but the manager's options and cycle trace.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	build       BuildFunc
	opts        []Option
	maxSessions int
	trace       *CycleTraceBuffer
}

// NewManager creates a manager that builds every new session with build.
// A maxSessions of zero means no limit.
func NewManager(build BuildFunc, maxSessions int, opts ...Option) *Manager {
	m := &Manager{
		sessions:    make(map[string]*Session),
		build:       build,
		maxSessions: maxSessions,
		trace:       NewCycleTraceBuffer(0, 0),
	}
	m.opts = append([]Option{WithCycleTrace(m.trace)}, opts...)
	return m
}

// Trace returns the cycle trace shared by the manager's sessions.
func (m *Manager) Trace() *CycleTraceBuffer {
	return m.trace
}

// Create starts a new session and builds its tree.
func (m *Manager) Create(ctx context.Context, opts ...Option) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		m.mu.Unlock()
		return nil, ErrTooManySessions
	}
	s := NewSession(append(append([]Option(nil), m.opts...), opts...)...)
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	if m.build != nil {
		if err := s.Access(m.build); err != nil {
			m.Close(s.ID())
			return nil, err
		}
	}
	return s, nil
}

// Get returns the live session with the given id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Sessions returns the live sessions ordered by id.
func (m *Manager) Sessions() []*Session {
	m.mu.RLock()
	list := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		list = append(list, s)
	}
	m.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].ID() < list[j].ID() })
	return list
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close closes and forgets the session with the given id.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}

// CloseAll closes every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
	glog.Infof("closed %d sessions", len(sessions))
}
