package component

import (
	"golang.org/x/text/language"

	"github.com/go-drift/uisync/pkg/paint"
)

type testHost struct {
	locale     language.Tag
	registered map[*Node]bool
	focused    *Node
	listener   RepaintListener
	dirty      []*Node
}

func newTestHost() *testHost {
	h := &testHost{locale: language.AmericanEnglish, registered: make(map[*Node]bool)}
	h.listener = RepaintListenerFunc(func(e RepaintRequestEvent) {
		h.dirty = append(h.dirty, e.Source)
	})
	return h
}

func (h *testHost) Locale() language.Tag { return h.locale }

func (h *testHost) Register(n *Node) {
	h.registered[n] = true
	n.AddRepaintListener(h.listener)
}

func (h *testHost) Unregister(n *Node) {
	delete(h.registered, n)
	n.RemoveRepaintListener(h.listener)
}

func (h *testHost) SetFocused(n *Node) { h.focused = n }

func (h *testHost) takeDirty() []*Node {
	d := h.dirty
	h.dirty = nil
	return d
}

type container struct{}

func (container) Tag() string { return "panel" }

func (container) PaintContent(n *Node, t paint.Target) error {
	return n.PaintChildren(t)
}

type leaf struct {
	tag string
}

func (l leaf) Tag() string {
	if l.tag == "" {
		return "label"
	}
	return l.tag
}

func (leaf) PaintContent(*Node, paint.Target) error { return nil }

type focusLeaf struct{ leaf }

func (focusLeaf) TabIndex() int { return 0 }

// paintAll paints the tree with every node fresh, re-arming notifications.
func paintAll(n *Node) *paint.Payload {
	w := paint.NewWriter(nil, paint.WriterOptions{})
	_ = n.Paint(w)
	return w.Changes()[0]
}

// tree builds root -> panel -> button attached to a test host.
func tree(h *testHost) (root, panel, button *Node) {
	root = NewRoot(h, container{}, WithID("root"))
	panel = New(container{}, WithID("panel"))
	button = New(leaf{tag: "button"}, WithID("button"))
	_ = panel.AddChild(button)
	_ = root.AddChild(panel)
	paintAll(root)
	h.takeDirty()
	return root, panel, button
}

func ids(nodes []*Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ConnectorID())
	}
	return out
}
