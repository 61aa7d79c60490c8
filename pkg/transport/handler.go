package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/websocket"

	"github.com/go-drift/uisync/pkg/engine"
	synerrors "github.com/go-drift/uisync/pkg/errors"
)

// Defaults for websocket connections.
const (
	DefaultWriteTimeout = 10 * time.Second
	DefaultPongWait     = 60 * time.Second
	DefaultReadLimit    = 1 << 20
)

// Option configures a Handler.
type Option func(*Handler)

// WithTokens enables session tokens and reconnects.
func WithTokens(tokens *TokenIssuer) Option {
	return func(h *Handler) { h.tokens = tokens }
}

// WithReconnectGrace sets how long a session outlives its connection while
// waiting for the client to come back. It only applies with tokens.
func WithReconnectGrace(d time.Duration) Option {
	return func(h *Handler) { h.grace = d }
}

// WithCheckOrigin sets the websocket origin check. The default accepts
// same-origin requests only.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(h *Handler) { h.upgrader.CheckOrigin = fn }
}

// WithWriteTimeout bounds every websocket write.
func WithWriteTimeout(d time.Duration) Option {
	return func(h *Handler) { h.writeTimeout = d }
}

// WithPongWait sets how long a websocket may stay silent before it is
// considered dead. Pings are sent at nine tenths of it.
func WithPongWait(d time.Duration) Option {
	return func(h *Handler) { h.pongWait = d }
}

// Handler serves sessions of one manager to clients.
type Handler struct {
	manager      *engine.Manager
	tokens       *TokenIssuer
	grace        time.Duration
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
	pongWait     time.Duration
	readLimit    int64

	binder *binder
}

// NewHandler creates a handler for m.
func NewHandler(m *engine.Manager, opts ...Option) *Handler {
	h := &Handler{
		manager:      m,
		grace:        30 * time.Second,
		upgrader:     websocket.Upgrader{ReadBufferSize: 4096, WriteBufferSize: 4096},
		writeTimeout: DefaultWriteTimeout,
		pongWait:     DefaultPongWait,
		readLimit:    DefaultReadLimit,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.binder = newBinder(m, h.tokens, h.grace)
	return h
}

// Close closes the sessions still waiting for a reconnect.
func (h *Handler) Close() {
	h.binder.stop()
}

// ServeHTTP upgrades the request to a websocket and serves one session over
// it. The optional token query parameter resumes a live session.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		glog.V(1).Infof("[ws]upgrade from %s failed: %v", r.RemoteAddr, err)
		return
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	s, resumed, err := h.binder.acquire(ctx, r.URL.Query().Get("token"))
	if err != nil {
		synerrors.Report(&synerrors.SyncError{
			Op:   "transport.ServeHTTP",
			Kind: synerrors.KindTransport,
			Err:  fmt.Errorf("no session for %s: %w", r.RemoteAddr, err),
		})
		h.write(ws, ServerMessage{Type: MessageError, Error: err.Error()})
		return
	}
	defer h.binder.release(s)
	glog.Infof("[ws]%s connected to session %s (resumed=%t)", r.RemoteAddr, s.ID(), resumed)
	if resumed {
		s.RepaintAll()
	}

	hello, err := h.binder.hello(s)
	if err != nil {
		s.ReportTransport("transport.ServeHTTP", err)
		h.write(ws, ServerMessage{Type: MessageError, Error: err.Error()})
		return
	}
	if err := h.write(ws, hello); err != nil {
		return
	}

	go h.keepAlive(ctx, ws)
	err = h.serve(ctx, ws, s)
	switch {
	case err == nil, websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
	case errors.Is(err, context.Canceled):
	default:
		s.ReportTransport("transport.ServeHTTP", err)
	}
	glog.Infof("[ws]%s disconnected from session %s", r.RemoteAddr, s.ID())
}

// serve answers every batch the client sends with one render cycle. The
// first cycle is sent before anything is read.
func (h *Handler) serve(ctx context.Context, ws *websocket.Conn, s *engine.Session) error {
	ws.SetReadLimit(h.readLimit)
	ws.SetReadDeadline(time.Now().Add(h.pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(h.pongWait))
	})

	if err := h.push(ctx, ws, s); err != nil {
		return err
	}
	for {
		_, message, err := ws.ReadMessage()
		if err != nil {
			return err
		}
		ws.SetReadDeadline(time.Now().Add(h.pongWait))

		var batch engine.Batch
		if err := json.Unmarshal(message, &batch); err != nil {
			err = fmt.Errorf("decoding batch: %w", err)
			s.ReportTransport("transport.ServeHTTP", err)
			if err := h.write(ws, ServerMessage{Type: MessageError, Error: err.Error()}); err != nil {
				return err
			}
			continue
		}
		if err := s.Handle(ctx, batch); err != nil {
			return err
		}
		if err := h.push(ctx, ws, s); err != nil {
			return err
		}
	}
}

func (h *Handler) push(ctx context.Context, ws *websocket.Conn, s *engine.Session) error {
	resp, err := s.Render(ctx)
	if err != nil {
		return err
	}
	return h.write(ws, ServerMessage{Type: MessageChanges, Session: s.ID(), Response: resp})
}

func (h *Handler) write(ws *websocket.Conn, msg ServerMessage) error {
	ws.SetWriteDeadline(time.Now().Add(h.writeTimeout))
	return ws.WriteJSON(msg)
}

func (h *Handler) keepAlive(ctx context.Context, ws *websocket.Conn) {
	defer synerrors.Recover("transport.keepAlive")
	ticker := time.NewTicker(h.pongWait * 9 / 10)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.writeTimeout)); err != nil {
				return
			}
		}
	}
}
