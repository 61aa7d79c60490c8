package component

import (
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/google/go-cmp/cmp"

	synerrors "github.com/go-drift/uisync/pkg/errors"
	"github.com/go-drift/uisync/pkg/rpc"
)

type hookContent struct {
	leaf
	log *[]string
}

func (c hookContent) Attach(n *Node) { *c.log = append(*c.log, "attach:"+n.ConnectorID()) }
func (c hookContent) Detach(n *Node) { *c.log = append(*c.log, "detach:"+n.ConnectorID()) }

func TestAttachRegistersSubtree(t *testing.T) {
	h := newTestHost()
	root, panel, button := tree(h)

	for _, n := range []*Node{root, panel, button} {
		if !n.IsAttached() || !h.registered[n] {
			t.Errorf("%s should be attached and registered", n.ConnectorID())
		}
		if n.Host() != h {
			t.Errorf("%s should see the session host", n.ConnectorID())
		}
	}
	assert.Equal(t, button.Root(), root)

	root.RemoveChild(panel)
	if panel.IsAttached() || button.IsAttached() {
		t.Error("removed subtree should be detached")
	}
	if h.registered[panel] || h.registered[button] {
		t.Error("removed subtree should be unregistered")
	}
	if button.Host() != nil {
		t.Error("detached node must not see a host")
	}
	if diff := cmp.Diff([]string{"root"}, ids(h.takeDirty())); diff != "" {
		t.Errorf("removal should repaint the parent (-want +got):\n%s", diff)
	}
}

func TestAttachHooksAndEvents(t *testing.T) {
	var log []string
	h := newTestHost()
	root := NewRoot(h, container{}, WithID("root"))
	n := New(hookContent{log: &log}, WithID("n"))
	n.AddListener(EventAttach, func(e Event) { log = append(log, "event:attach") })
	n.AddListener(EventDetach, func(e Event) { log = append(log, "event:detach") })

	_ = root.AddChild(n)
	n.RemoveFromParent()

	want := []string{"attach:n", "event:attach", "event:detach", "detach:n"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("hook order (-want +got):\n%s", diff)
	}
}

func TestAttachRepaintsInvisibleNode(t *testing.T) {
	h := newTestHost()
	root, _, _ := tree(h)
	hidden := New(leaf{}, WithID("hidden"))
	hidden.SetVisible(false)

	_ = root.AddChild(hidden)
	got := ids(h.takeDirty())
	if diff := cmp.Diff([]string{"hidden", "root"}, got); diff != "" {
		t.Errorf("attach of an invisible node must still be sent (-want +got):\n%s", diff)
	}
}

func TestReattachAfterDetachNotifiesAgain(t *testing.T) {
	h := newTestHost()
	root, panel, button := tree(h)
	button.SetCaption("x")
	panel.RemoveChild(button)
	h.takeDirty()

	_ = root.AddChild(button)
	got := ids(h.takeDirty())
	if len(got) == 0 || got[0] != "button" {
		t.Errorf("reattached node should notify, got %v", got)
	}
}

func TestDelayedFocus(t *testing.T) {
	h := newTestHost()
	root := NewRoot(h, container{})
	field := New(focusLeaf{}, WithID("field"))
	field.Focus()
	assert.Equal(t, h.focused == nil, true)

	_ = root.AddChild(field)
	assert.Equal(t, h.focused, field)

	label := New(leaf{})
	_ = root.AddChild(label)
	label.Focus()
	assert.Equal(t, h.focused, field)
}

type echo interface{ Echo(s string) }

type echoImpl struct{ got []string }

func (e *echoImpl) Echo(s string) { e.got = append(e.got, s) }

var echoRPC = rpc.NewInterface[echo]("EchoRpc").Method("echo", rpc.Method1(echo.Echo))

func TestRPCRegistrationRequiresEndpoint(t *testing.T) {
	plain := New(leaf{})
	err := RegisterRPC[echo](plain, echoRPC, &echoImpl{})
	if !errors.Is(err, synerrors.ErrNotEndpoint) {
		t.Fatalf("expected ErrNotEndpoint, got %v", err)
	}

	h := newTestHost()
	root := NewRoot(h, container{})
	n := New(leaf{}, WithID("e1"), WithRPCEndpoint())
	impl := &echoImpl{}
	if err := RegisterRPC[echo](n, echoRPC, impl); err != nil {
		t.Fatal(err)
	}
	_ = root.AddChild(n)

	args, _ := rpc.EncodeArgs("hi")
	if err := n.RPC().Dispatch(rpc.MethodInvocation{Connector: "e1", Interface: "EchoRpc", Method: "echo", Args: args}); err != nil {
		t.Fatal(err)
	}

	// Detaching keeps the managers; only Destroy removes them.
	n.RemoveFromParent()
	if n.RPC().Manager("EchoRpc") == nil {
		t.Fatal("detach must not remove rpc managers")
	}
	_ = root.AddChild(n)
	n.Destroy()
	if n.RPC().Manager("EchoRpc") != nil {
		t.Error("destroy must remove rpc managers")
	}
	assert.Equal(t, n.IsDestroyed(), true)
	assert.Equal(t, n.Parent() == nil, true)
	assert.Equal(t, root.ChildCount(), 0)
	if diff := cmp.Diff([]string{"hi"}, impl.got); diff != "" {
		t.Errorf("echo calls (-want +got):\n%s", diff)
	}
}

func TestDestroyReleasesSubtree(t *testing.T) {
	h := newTestHost()
	root, panel, button := tree(h)
	if err := button.ClientRPC(focusRPC).Call("focus"); err != nil {
		t.Fatal(err)
	}
	root.Destroy()

	for _, n := range []*Node{root, panel, button} {
		if n.IsAttached() || !n.IsDestroyed() {
			t.Errorf("%s should be detached and destroyed", n.ConnectorID())
		}
	}
	assert.Equal(t, len(h.registered), 0)
	assert.Equal(t, button.PendingCalls(), 0)
}
