package transport

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/go-drift/uisync/pkg/engine"
	synerrors "github.com/go-drift/uisync/pkg/errors"
)

// binder hands sessions to connections. A session is bound to at most one
// connection at a time. When its connection ends, the session is closed, or,
// with tokens enabled, kept for the reconnect grace period.
type binder struct {
	manager *engine.Manager
	tokens  *TokenIssuer
	grace   time.Duration

	mu     sync.Mutex
	bound  map[string]bool
	expiry map[string]*time.Timer
}

func newBinder(m *engine.Manager, tokens *TokenIssuer, grace time.Duration) *binder {
	return &binder{
		manager: m,
		tokens:  tokens,
		grace:   grace,
		bound:   make(map[string]bool),
		expiry:  make(map[string]*time.Timer),
	}
}

// acquire returns the live session named by token when it is free, and a
// new session otherwise. resumed reports which one it was.
func (b *binder) acquire(ctx context.Context, token string) (s *engine.Session, resumed bool, err error) {
	if s := b.resume(token); s != nil {
		return s, true, nil
	}
	s, err = b.manager.Create(ctx)
	if err != nil {
		return nil, false, err
	}
	b.mu.Lock()
	b.bound[s.ID()] = true
	b.mu.Unlock()
	return s, false, nil
}

func (b *binder) resume(token string) *engine.Session {
	if token == "" || b.tokens == nil {
		return nil
	}
	id, err := b.tokens.Verify(token)
	if err != nil {
		glog.V(1).Infof("[t]rejecting token: %v", err)
		return nil
	}
	s, ok := b.manager.Get(id)
	if !ok || s.Closed() {
		glog.V(1).Infof("[t]session %s is gone", id)
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bound[id] {
		glog.V(1).Infof("[t]session %s is bound to another connection", id)
		return nil
	}
	b.bound[id] = true
	if t := b.expiry[id]; t != nil {
		t.Stop()
		delete(b.expiry, id)
	}
	return s
}

// release unbinds s from its connection.
func (b *binder) release(s *engine.Session) {
	id := s.ID()
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.bound, id)
	if b.tokens == nil || b.grace <= 0 {
		b.manager.Close(id)
		return
	}
	var timer *time.Timer
	timer = time.AfterFunc(b.grace, func() {
		defer synerrors.Recover("transport.expire")
		b.mu.Lock()
		if b.expiry[id] != timer {
			b.mu.Unlock()
			return
		}
		delete(b.expiry, id)
		b.mu.Unlock()
		glog.Infof("[t]session %s not resumed within %s", id, b.grace)
		b.manager.Close(id)
	})
	b.expiry[id] = timer
}

// stop cancels pending expiries and closes their sessions.
func (b *binder) stop() {
	b.mu.Lock()
	ids := make([]string, 0, len(b.expiry))
	for id, t := range b.expiry {
		t.Stop()
		ids = append(ids, id)
	}
	b.expiry = make(map[string]*time.Timer)
	b.mu.Unlock()
	for _, id := range ids {
		b.manager.Close(id)
	}
}

// hello names s to its client, with a fresh token when tokens are enabled.
func (b *binder) hello(s *engine.Session) (ServerMessage, error) {
	msg := ServerMessage{Type: MessageHello, Session: s.ID()}
	if b.tokens != nil {
		token, err := b.tokens.Issue(s.ID())
		if err != nil {
			return ServerMessage{}, err
		}
		msg.Token = token
	}
	return msg, nil
}
