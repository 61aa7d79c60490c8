package widgets

import (
	"fmt"

	"github.com/go-drift/uisync/pkg/component"
	"github.com/go-drift/uisync/pkg/paint"
	"github.com/go-drift/uisync/pkg/rpc"
)

// MouseEventDetails describes the pointer state of a client click.
type MouseEventDetails struct {
	Button   string `json:"button,omitempty"`
	ClientX  int    `json:"clientX"`
	ClientY  int    `json:"clientY"`
	AltKey   bool   `json:"altKey,omitempty"`
	CtrlKey  bool   `json:"ctrlKey,omitempty"`
	MetaKey  bool   `json:"metaKey,omitempty"`
	ShiftKey bool   `json:"shiftKey,omitempty"`
}

// ButtonServer is the server side of a button: the calls the client makes.
type ButtonServer interface {
	// Click reports a click on the button.
	Click(details MouseEventDetails)
	// DisableOnClick tells the server the client already disabled the
	// button after a click.
	DisableOnClick()
}

// ButtonServerRPC is the interface clients call on buttons.
var ButtonServerRPC = rpc.NewInterface[ButtonServer]("ButtonServerRpc").
	Method("click", rpc.Method1(ButtonServer.Click)).
	Method("disableOnClick", rpc.Method0(ButtonServer.DisableOnClick))

// ButtonClientRPC is the interface the server calls on client buttons.
var ButtonClientRPC = rpc.NewClientInterface("ButtonClientRpc", "click")

// EventClick is fired with a [ClickEvent] when a button is clicked.
const EventClick component.EventKind = "click"

// ClickEvent describes one click.
type ClickEvent struct {
	Button  *Button
	Details MouseEventDetails
}

// Button is a clickable button.
//
// Clicks arrive from the client through [ButtonServerRPC] and are delivered
// to click listeners. A disabled or invisible button never receives them.
//
// Example:
//
//	save := widgets.NewButton("Save")
//	save.SetDisableOnClick(true)
//	save.AddClickListener(func(e widgets.ClickEvent) {
//	    store(form)
//	    e.Button.Node().SetEnabled(true)
//	})
type Button struct {
	node           *component.Node
	client         *rpc.Proxy
	disableOnClick bool
	tabIndex       int
}

// NewButton creates a button with the given caption.
func NewButton(caption string, opts ...component.Option) *Button {
	b := &Button{}
	b.node = component.New(b, append(opts, component.WithRPCEndpoint())...)
	if err := component.RegisterRPC[ButtonServer](b.node, ButtonServerRPC, buttonServer{b}); err != nil {
		panic(fmt.Sprintf("widgets: registering %s: %v", ButtonServerRPC.Name(), err))
	}
	b.client = b.node.ClientRPC(ButtonClientRPC)
	if caption != "" {
		b.node.SetCaption(caption)
	}
	return b
}

// ButtonOf creates a button with a click handler.
func ButtonOf(caption string, onClick func()) *Button {
	b := NewButton(caption)
	b.AddClickListener(func(ClickEvent) { onClick() })
	return b
}

// Node returns the node the button is painted as.
func (b *Button) Node() *component.Node {
	return b.node
}

// Tag returns "button".
func (b *Button) Tag() string { return "button" }

// PaintContent has nothing to add; the caption travels in the state.
func (b *Button) PaintContent(*component.Node, paint.Target) error {
	return nil
}

// ExtendState adds the button keys to the shared state.
func (b *Button) ExtendState(_ *component.Node, s *component.State) {
	if b.disableOnClick {
		s.Set("disableOnClick", true)
	}
	if b.tabIndex != 0 {
		s.Set("tabIndex", b.tabIndex)
	}
}

// TabIndex returns the tab order position.
func (b *Button) TabIndex() int {
	return b.tabIndex
}

// SetTabIndex sets the tab order position.
func (b *Button) SetTabIndex(index int) {
	b.tabIndex = index
	b.node.RequestRepaint()
}

// IsDisableOnClick reports whether the client disables the button as soon
// as it is clicked.
func (b *Button) IsDisableOnClick() bool {
	return b.disableOnClick
}

// SetDisableOnClick makes the client disable the button on click, before
// the server answers. Useful against double submits.
func (b *Button) SetDisableOnClick(disable bool) {
	b.disableOnClick = disable
	b.node.RequestRepaint()
}

// AddClickListener registers fn for clicks.
func (b *Button) AddClickListener(fn func(ClickEvent)) component.Registration {
	return component.On(b.node, EventClick, func(_ *component.Node, e ClickEvent) {
		fn(e)
	})
}

// Click simulates a click on the server. Nothing happens while the button is
// disabled or read-only.
func (b *Button) Click() {
	if !b.node.IsEnabled() || b.node.IsReadOnly() {
		return
	}
	b.fireClick(MouseEventDetails{})
}

// ClickOnClient asks the client to click the button, running client-side
// behavior such as disable-on-click before the click comes back.
func (b *Button) ClickOnClient() error {
	return b.client.Call("click")
}

func (b *Button) fireClick(details MouseEventDetails) {
	b.node.FireEvent(EventClick, ClickEvent{Button: b, Details: details})
}

// buttonServer keeps the RPC methods off the Button method set.
type buttonServer struct {
	b *Button
}

func (s buttonServer) Click(details MouseEventDetails) {
	if s.b.node.IsReadOnly() {
		return
	}
	s.b.fireClick(details)
}

func (s buttonServer) DisableOnClick() {
	s.b.node.SetEnabled(false)
}
