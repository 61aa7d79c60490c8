package paint

import (
	"maps"
	"reflect"
)

// ClientCache records what the client currently holds. It lives as long as
// the client connection and is shared by the writers of successive cycles.
type ClientCache struct {
	sent  map[string]bool
	state map[string]map[string]any
}

// NewClientCache creates an empty cache.
func NewClientCache() *ClientCache {
	return &ClientCache{
		sent:  make(map[string]bool),
		state: make(map[string]map[string]any),
	}
}

// Sent reports whether the client holds a representation of id.
func (c *ClientCache) Sent(id string) bool {
	return c.sent[id]
}

func (c *ClientCache) markSent(id string) {
	c.sent[id] = true
}

// Forget drops id, so its next paint is fresh with full state.
func (c *ClientCache) Forget(id string) {
	delete(c.sent, id)
	delete(c.state, id)
}

func (c *ClientCache) clearState(id string) {
	delete(c.state, id)
}

// Reset drops everything; used when the client lost its state.
func (c *ClientCache) Reset() {
	clear(c.sent)
	clear(c.state)
}

// Len returns the number of connectors the client holds.
func (c *ClientCache) Len() int {
	return len(c.sent)
}

// diffState records next as the state held by the client for id and returns
// the keys that changed. Keys that disappeared are returned with a nil value.
func (c *ClientCache) diffState(id string, next map[string]any) map[string]any {
	prev := c.state[id]
	diff := make(map[string]any)
	for k, v := range next {
		if pv, ok := prev[k]; !ok || !reflect.DeepEqual(pv, v) {
			diff[k] = v
		}
	}
	for k := range prev {
		if _, ok := next[k]; !ok {
			diff[k] = nil
		}
	}
	c.state[id] = maps.Clone(next)
	return diff
}
