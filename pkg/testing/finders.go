package testing

import (
	"fmt"
	"reflect"

	"github.com/go-drift/uisync/pkg/component"
)

// Finder locates nodes in a session tree.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	Evaluate(root *component.Node) []*component.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*component.Node
	finder Finder
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *component.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.description()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *component.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *component.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.description()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*component.Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

// ConnectorIDs returns the connector ids of all matches.
func (r FinderResult) ConnectorIDs() []string {
	ids := make([]string, len(r.nodes))
	for i, n := range r.nodes {
		ids[i] = n.ConnectorID()
	}
	return ids
}

type predicateFinder struct {
	desc  string
	match func(*component.Node) bool
}

func (f predicateFinder) Evaluate(root *component.Node) []*component.Node {
	var out []*component.Node
	var walk func(n *component.Node)
	walk = func(n *component.Node) {
		if f.match(n) {
			out = append(out, n)
		}
		for _, child := range n.Children() {
			walk(child)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

func (f predicateFinder) Description() string {
	return f.desc
}

// ByDebugID finds nodes with the given debug id.
func ByDebugID(id string) Finder {
	return predicateFinder{
		desc:  fmt.Sprintf("debug id %q", id),
		match: func(n *component.Node) bool { return n.DebugID() == id },
	}
}

// ByConnector finds the node with the given connector id.
func ByConnector(id string) Finder {
	return predicateFinder{
		desc:  fmt.Sprintf("connector %q", id),
		match: func(n *component.Node) bool { return n.ConnectorID() == id },
	}
}

// ByTag finds nodes painted with the given client tag.
func ByTag(tag string) Finder {
	return predicateFinder{
		desc:  fmt.Sprintf("tag %q", tag),
		match: func(n *component.Node) bool { return n.Tag() == tag },
	}
}

// ByCaption finds nodes with the given caption.
func ByCaption(caption string) Finder {
	return predicateFinder{
		desc:  fmt.Sprintf("caption %q", caption),
		match: func(n *component.Node) bool { return n.Caption() == caption },
	}
}

// ByContent finds nodes whose content has the dynamic type of sample.
func ByContent(sample component.Content) Finder {
	want := reflect.TypeOf(sample)
	return predicateFinder{
		desc: fmt.Sprintf("content %v", want),
		match: func(n *component.Node) bool {
			return n.Content() != nil && reflect.TypeOf(n.Content()) == want
		},
	}
}

// ByPredicate finds nodes for which match returns true.
func ByPredicate(desc string, match func(*component.Node) bool) Finder {
	return predicateFinder{desc: desc, match: match}
}
