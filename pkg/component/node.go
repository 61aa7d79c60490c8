package component

import (
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/go-drift/uisync/pkg/paint"
	"github.com/go-drift/uisync/pkg/rpc"
)

// Content is the widget-specific part of a node. The node owns the generic
// attributes; content serializes whatever else the client widget needs.
type Content interface {
	// Tag returns the client widget tag.
	Tag() string
	// PaintContent writes widget-specific attributes and children. It is only
	// called for fresh, visible nodes, after the icon and event listeners and
	// before the error payload.
	PaintContent(n *Node, t paint.Target) error
}

// StateExtender is implemented by content that adds keys to the shared state.
type StateExtender interface {
	ExtendState(n *Node, s *State)
}

// VariableReceiver is implemented by content that accepts variable changes
// sent by the client.
type VariableReceiver interface {
	ChangeVariables(n *Node, vars map[string]any) error
}

// Focusable is implemented by content that can take keyboard focus.
type Focusable interface {
	TabIndex() int
}

// Attacher is implemented by content that needs to know when its node
// becomes reachable from a live session.
type Attacher interface {
	Attach(n *Node)
}

// Detacher is implemented by content that needs to know when its node is
// removed from a live session.
type Detacher interface {
	Detach(n *Node)
}

// Option configures a node at construction.
type Option func(*Node)

// WithID sets the connector id instead of generating one.
func WithID(id string) Option {
	return func(n *Node) { n.id = id }
}

// WithRPCEndpoint marks the node as able to own server RPC implementations.
func WithRPCEndpoint() Option {
	return func(n *Node) { n.rpcEndpoint = true }
}

// Node is one entry of the server-side component tree.
//
// A node is not safe for concurrent use. All mutation of one tree happens on
// the goroutine that owns its session, outside of render cycles.
type Node struct {
	id      string
	content Content
	debugID string
	data    any

	parent   *Node
	children []*Node
	host     Host // set on session roots only

	caption     string
	description string
	icon        Resource
	enabled     bool
	visible     bool
	readOnly    bool
	immediate   bool
	styles      []string
	locale      *language.Tag
	width       Size
	height      Size

	componentError *ErrorMessage
	errorHandler   ErrorHandler

	state *State

	repaintListeners  []RepaintListener
	listenersNotified bool

	events  *eventRouter
	actions *ActionManager

	delayedFocus bool
	attached     bool
	destroyed    bool

	rpcEndpoint bool
	rpc         *rpc.Registry
	calls       rpc.Queue
}

// New creates a detached node around content.
func New(content Content, opts ...Option) *Node {
	n := &Node{
		content: content,
		enabled: true,
		visible: true,
		width:   SizeUndefined,
		height:  SizeUndefined,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.id == "" {
		n.id = NewConnectorID()
	}
	n.rpc = rpc.NewRegistry(n)
	return n
}

// ConnectorID returns the id the client uses to address the node.
func (n *Node) ConnectorID() string {
	return n.id
}

// Content returns the node's widget content.
func (n *Node) Content() Content {
	return n.content
}

// Tag returns the client widget tag.
func (n *Node) Tag() string {
	if n.content == nil {
		return "component"
	}
	return n.content.Tag()
}

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Depth returns the distance from the top of the tree (the top is 0).
func (n *Node) Depth() int {
	depth := 0
	for p := n.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// SetDebugID sets an id used by tests and tooling to find the node.
func (n *Node) SetDebugID(id string) {
	n.debugID = id
	n.RequestRepaint()
}

// DebugID returns the debug id.
func (n *Node) DebugID() string {
	return n.debugID
}

// SetData stores application data. The node never reads or sends it.
func (n *Node) SetData(data any) {
	n.data = data
}

// Data returns the application data.
func (n *Node) Data() any {
	return n.data
}

// Caption returns the visible name of the node.
func (n *Node) Caption() string {
	return n.caption
}

// SetCaption sets the visible name of the node.
func (n *Node) SetCaption(caption string) {
	n.caption = caption
	n.RequestRepaint()
}

// Description returns the rich-text tooltip of the node.
func (n *Node) Description() string {
	return n.description
}

// SetDescription sets the rich-text tooltip. The client renders it as markup,
// so it must not contain untrusted input.
func (n *Node) SetDescription(description string) {
	n.description = description
	n.RequestRepaint()
}

// Icon returns the icon resource, or nil.
func (n *Node) Icon() Resource {
	return n.icon
}

// SetIcon sets the icon resource shown next to the caption.
func (n *Node) SetIcon(icon Resource) {
	n.icon = icon
	n.RequestRepaint()
}

// IsReadOnly reports whether the user may not change the node's value.
func (n *Node) IsReadOnly() bool {
	return n.readOnly
}

// SetReadOnly sets the read-only flag.
func (n *Node) SetReadOnly(readOnly bool) {
	n.readOnly = readOnly
	n.RequestRepaint()
}

// IsImmediate reports whether the client reports every change without batching.
func (n *Node) IsImmediate() bool {
	return n.immediate
}

// SetImmediate sets the immediate flag.
func (n *Node) SetImmediate(immediate bool) {
	n.immediate = immediate
	n.RequestRepaint()
}

// IsVisible reports the effective visibility: the own flag and the
// effective visibility of the parent.
func (n *Node) IsVisible() bool {
	return n.visible && (n.parent == nil || n.parent.IsVisible())
}

// VisibleFlag returns the node's own visibility flag.
func (n *Node) VisibleFlag() bool {
	return n.visible
}

// SetVisible sets the own visibility flag. A change is always propagated,
// even though the node may now be invisible, so the client learns about it.
func (n *Node) SetVisible(visible bool) {
	if n.visible == visible {
		return
	}
	n.visible = visible
	n.fireRepaint(nil, true)
}

// IsEnabled reports the effective enabled state: the own flag, the effective
// enabled state of the parent, and the node's effective visibility.
func (n *Node) IsEnabled() bool {
	return n.enabled && (n.parent == nil || n.parent.IsEnabled()) && n.IsVisible()
}

// EnabledFlag returns the node's own enabled flag.
func (n *Node) EnabledFlag() bool {
	return n.enabled
}

// SetEnabled sets the own enabled flag. A repaint is requested when the
// effective state changes, or when the own flag changes while the parent is
// missing or invisible, so the client is correct once the parent shows again.
func (n *Node) SetEnabled(enabled bool) {
	if n.enabled == enabled {
		return
	}
	wasEnabled := n.enabled
	wasEnabledInContext := n.IsEnabled()

	n.enabled = enabled

	isEnabledInContext := n.IsEnabled()
	needRepaint := wasEnabledInContext != isEnabledInContext ||
		(wasEnabled != enabled && (n.parent == nil || !n.parent.IsVisible()))
	if needRepaint {
		n.RequestRepaint()
	}
}

// StyleName returns the style names joined by single spaces.
func (n *Node) StyleName() string {
	return strings.Join(n.styles, " ")
}

// StyleNames returns a copy of the style names.
func (n *Node) StyleNames() []string {
	return slices.Clone(n.styles)
}

// SetStyleName replaces all style names with the space separated names in style.
func (n *Node) SetStyleName(style string) {
	n.styles = nil
	for _, part := range strings.Fields(style) {
		if !slices.Contains(n.styles, part) {
			n.styles = append(n.styles, part)
		}
	}
	n.RequestRepaint()
}

// AddStyleName adds one style name. Adding a present name is a no-op.
func (n *Node) AddStyleName(style string) {
	if style == "" || slices.Contains(n.styles, style) {
		return
	}
	n.styles = append(n.styles, style)
	n.RequestRepaint()
}

// RemoveStyleName removes the space separated names in style.
func (n *Node) RemoveStyleName(style string) {
	if n.styles == nil {
		return
	}
	for _, part := range strings.Fields(style) {
		n.styles = slices.DeleteFunc(n.styles, func(s string) bool { return s == part })
	}
	n.RequestRepaint()
}

// HasStyleName reports whether style is set.
func (n *Node) HasStyleName(style string) bool {
	return slices.Contains(n.styles, style)
}

// Locale returns the node's locale, falling back to the parent and then to
// the session default. A detached tree without any locale returns language.Und.
func (n *Node) Locale() language.Tag {
	if n.locale != nil {
		return *n.locale
	}
	if n.parent != nil {
		return n.parent.Locale()
	}
	if n.host != nil {
		return n.host.Locale()
	}
	return language.Und
}

// SetLocale sets the node's own locale.
func (n *Node) SetLocale(tag language.Tag) {
	n.locale = &tag
	n.RequestRepaint()
}

// ClearLocale removes the node's own locale so it inherits again.
func (n *Node) ClearLocale() {
	n.locale = nil
	n.RequestRepaint()
}

// Width returns the width.
func (n *Node) Width() Size {
	return n.width
}

// Height returns the height.
func (n *Node) Height() Size {
	return n.height
}

// SetWidth sets the width. Negative magnitudes become SizeUndefined.
func (n *Node) SetWidth(size Size) {
	n.width = normalizeSize(size)
	n.RequestRepaint()
}

// SetHeight sets the height. Negative magnitudes become SizeUndefined.
func (n *Node) SetHeight(size Size) {
	n.height = normalizeSize(size)
	n.RequestRepaint()
}

// SetWidthString parses and sets the width. On a parse error the node is unchanged.
func (n *Node) SetWidthString(width string) error {
	size, err := ParseSize(width)
	if err != nil {
		return err
	}
	n.SetWidth(size)
	return nil
}

// SetHeightString parses and sets the height. On a parse error the node is unchanged.
func (n *Node) SetHeightString(height string) error {
	size, err := ParseSize(height)
	if err != nil {
		return err
	}
	n.SetHeight(size)
	return nil
}

// SetSizeFull sets width and height to 100%.
func (n *Node) SetSizeFull() {
	n.SetWidth(SizeFull)
	n.SetHeight(SizeFull)
}

// SetSizeUndefined sets width and height to SizeUndefined.
func (n *Node) SetSizeUndefined() {
	n.SetWidth(SizeUndefined)
	n.SetHeight(SizeUndefined)
}
