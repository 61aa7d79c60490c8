package paint

import "github.com/go-drift/uisync/pkg/rpc"

// Payload is the serialized form of one node.
type Payload struct {
	ID         string                 `json:"id"`
	Tag        string                 `json:"tag"`
	Attributes *Attributes            `json:"attributes,omitempty"`
	State      map[string]any         `json:"state,omitempty"`
	Children   []*Payload             `json:"children,omitempty"`
	Calls      []rpc.MethodInvocation `json:"calls,omitempty"`

	status Status
}

// Status returns the paint status the payload was written with.
func (p *Payload) Status() Status {
	return p.status
}

// Attr returns the attribute stored under name.
func (p *Payload) Attr(name string) (any, bool) {
	return p.Attributes.Get(name)
}

// Find returns the payload with the given id in p's subtree, or nil.
func (p *Payload) Find(id string) *Payload {
	if p == nil {
		return nil
	}
	if p.ID == id {
		return p
	}
	for _, child := range p.Children {
		if found := child.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Response is the output of one render cycle.
type Response struct {
	Session string     `json:"session"`
	Cycle   uint64     `json:"cycle"`
	Changes []*Payload `json:"changes"`
}

// Find returns the payload with the given id anywhere in the response, or nil.
func (r *Response) Find(id string) *Payload {
	if r == nil {
		return nil
	}
	for _, change := range r.Changes {
		if found := change.Find(id); found != nil {
			return found
		}
	}
	return nil
}
