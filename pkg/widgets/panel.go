package widgets

import (
	"github.com/go-drift/uisync/pkg/component"
	"github.com/go-drift/uisync/pkg/paint"
)

// Panel is a container that paints its children in order.
//
// A scrollable panel lets the client scroll its content. The client reports
// the scroll position back through the scrollTop variable so a repaint does
// not jump to the top.
//
// Example:
//
//	panel := widgets.NewPanel("Details")
//	panel.SetScrollable(true)
//	panel.Node().AddChild(widgets.NewLabel("Hello").Node())
type Panel struct {
	node       *component.Node
	scrollable bool
	scrollTop  int
}

// NewPanel creates a panel with the given caption.
func NewPanel(caption string, opts ...component.Option) *Panel {
	p := &Panel{}
	p.node = component.New(p, opts...)
	if caption != "" {
		p.node.SetCaption(caption)
	}
	return p
}

// PanelOf creates a panel without caption holding children.
func PanelOf(children ...*component.Node) (*Panel, error) {
	p := NewPanel("")
	for _, child := range children {
		if err := p.node.AddChild(child); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Node returns the node the panel is painted as.
func (p *Panel) Node() *component.Node {
	return p.node
}

// Tag returns "panel".
func (p *Panel) Tag() string { return "panel" }

// IsScrollable reports whether the client may scroll the content.
func (p *Panel) IsScrollable() bool {
	return p.scrollable
}

// SetScrollable enables client-side scrolling.
func (p *Panel) SetScrollable(scrollable bool) {
	if p.scrollable == scrollable {
		return
	}
	p.scrollable = scrollable
	p.node.RequestRepaint()
}

// ScrollTop returns the last scroll position, in pixels.
func (p *Panel) ScrollTop() int {
	return p.scrollTop
}

// SetScrollTop scrolls the client to top. Negative values become 0.
func (p *Panel) SetScrollTop(top int) {
	p.scrollTop = max(top, 0)
	p.node.RequestRepaint()
}

// PaintContent writes the scroll attributes and the children.
func (p *Panel) PaintContent(n *component.Node, t paint.Target) error {
	if p.scrollable {
		t.AddAttribute("scrollable", true)
		t.AddAttribute("scrollTop", p.scrollTop)
	}
	return n.PaintChildren(t)
}

// ChangeVariables records the scroll position the client reports.
func (p *Panel) ChangeVariables(_ *component.Node, vars map[string]any) error {
	if v, ok := vars["scrollTop"]; ok {
		top, err := intVariable("scrollTop", v)
		if err != nil {
			return err
		}
		p.scrollTop = max(top, 0)
	}
	return nil
}
