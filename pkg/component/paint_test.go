package component

import (
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/uisync/pkg/paint"
	"github.com/go-drift/uisync/pkg/rpc"
)

var focusRPC = rpc.NewClientInterface("FocusRpc", "focus")

func TestPaintFreshAttributeOrder(t *testing.T) {
	n := New(leaf{tag: "button"}, WithID("b1"))
	n.SetCaption("OK")
	n.SetWidth(Px(120.7))
	n.SetDebugID("ok-button")
	n.SetIcon(ThemeResource{Path: "icons/ok.png"})
	n.AddClientListener("focus", "focus", func(Event) {})
	n.SetComponentError(NewErrorMessage(LevelWarning, "check input"))

	p := paintAll(n)
	assert.Equal(t, p.Status(), paint.StatusFresh)
	assert.Equal(t, p.Tag, "button")
	want := []string{paint.AttrDebugID, paint.AttrIcon, paint.AttrEventListeners, paint.AttrError}
	if diff := cmp.Diff(want, p.Attributes.Keys()); diff != "" {
		t.Errorf("attribute order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"caption": "OK", "width": "120px"}, p.State); diff != "" {
		t.Errorf("state (-want +got):\n%s", diff)
	}
	icon, _ := p.Attr(paint.AttrIcon)
	assert.Equal(t, icon, "theme://icons/ok.png")
	errPayload, _ := p.Attr(paint.AttrError)
	if diff := cmp.Diff(map[string]any{"level": "warning", "message": "check input"}, errPayload); diff != "" {
		t.Errorf("error payload (-want +got):\n%s", diff)
	}
	assert.Equal(t, n.ListenersNotified(), false)
}

func TestPaintInvisibleEmitsMarkerOnly(t *testing.T) {
	n := New(leaf{}, WithID("hidden"))
	n.SetCaption("secret")
	n.SetVisible(false)

	p := paintAll(n)
	if diff := cmp.Diff([]string{paint.AttrInvisible}, p.Attributes.Keys()); diff != "" {
		t.Errorf("attributes (-want +got):\n%s", diff)
	}
	if p.State != nil {
		t.Errorf("invisible node must not carry state, got %v", p.State)
	}
	if n.State() != nil {
		t.Error("State() of an invisible node should be nil")
	}
}

func TestPaintCachedAndDeferred(t *testing.T) {
	n := New(leaf{}, WithID("c1"))
	cache := paint.NewClientCache()
	clean := paint.WriterOptions{IsDirty: func(paint.Paintable) bool { return false }}

	w := paint.NewWriter(cache, clean)
	_ = n.Paint(w)
	assert.Equal(t, w.Changes()[0].Status(), paint.StatusFresh)

	w = paint.NewWriter(cache, clean)
	_ = n.Paint(w)
	p := w.Changes()[0]
	if diff := cmp.Diff([]string{paint.AttrCached}, p.Attributes.Keys()); diff != "" {
		t.Errorf("cached attributes (-want +got):\n%s", diff)
	}

	w = paint.NewWriter(cache, paint.WriterOptions{ShouldDefer: func(paint.Paintable) bool { return true }})
	_ = n.Paint(w)
	p = w.Changes()[0]
	if diff := cmp.Diff([]string{paint.AttrDeferred}, p.Attributes.Keys()); diff != "" {
		t.Errorf("deferred attributes (-want +got):\n%s", diff)
	}
}

func TestPendingCallsBlockCachedStatus(t *testing.T) {
	n := New(focusLeaf{}, WithID("f1"))
	cache := paint.NewClientCache()
	clean := paint.WriterOptions{IsDirty: func(paint.Paintable) bool { return false }}
	_ = n.Paint(paint.NewWriter(cache, clean))

	if err := n.ClientRPC(focusRPC).Call("focus"); err != nil {
		t.Fatal(err)
	}
	w := paint.NewWriter(cache, clean)
	_ = n.Paint(w)
	p := w.Changes()[0]
	if p.Attributes.Has(paint.AttrCached) {
		t.Fatal("a node with queued calls must not be painted as cached")
	}
	assert.Equal(t, p.Status(), paint.StatusFresh)
	want := []rpc.MethodInvocation{{Interface: "FocusRpc", Method: "focus"}}
	if diff := cmp.Diff(want, p.Calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
	assert.Equal(t, n.PendingCalls(), 0)
}

func TestCallsOnHiddenNodeStayQueued(t *testing.T) {
	n := New(focusLeaf{}, WithID("f2"))
	n.SetVisible(false)
	if err := n.ClientRPC(focusRPC).Call("focus"); err != nil {
		t.Fatal(err)
	}
	p := paintAll(n)
	assert.Equal(t, len(p.Calls), 0)
	assert.Equal(t, n.PendingCalls(), 1)

	n.SetVisible(true)
	p = paintAll(n)
	assert.Equal(t, len(p.Calls), 1)
	assert.Equal(t, n.PendingCalls(), 0)
}

func TestPaintChildrenNests(t *testing.T) {
	h := newTestHost()
	root, _, _ := tree(h)
	p := paintAll(root)
	if p.Find("button") == nil {
		t.Fatal("button missing from root payload")
	}
	assert.Equal(t, p.Find("panel").Children[0].ID, "button")
}

func TestNotifiedNodeIsNotCached(t *testing.T) {
	n := New(leaf{}, WithID("n1"))
	cache := paint.NewClientCache()
	clean := paint.WriterOptions{IsDirty: func(paint.Paintable) bool { return false }}
	_ = n.Paint(paint.NewWriter(cache, clean))

	n.AddRepaintListener(&countingListener{})
	n.SetCaption("changed")
	w := paint.NewWriter(cache, clean)
	_ = n.Paint(w)
	p := w.Changes()[0]
	assert.Equal(t, p.Status(), paint.StatusFresh)
	if diff := cmp.Diff(map[string]any{"caption": "changed"}, p.State); diff != "" {
		t.Errorf("state (-want +got):\n%s", diff)
	}
	assert.Equal(t, n.Stale(), false)
}

func TestHidingDropsClientState(t *testing.T) {
	n := New(leaf{tag: "button"}, WithID("b2"))
	n.SetCaption("OK")
	n.SetDescription("press me")
	cache := paint.NewClientCache()
	paintWith := func() *paint.Payload {
		w := paint.NewWriter(cache, paint.WriterOptions{})
		_ = n.Paint(w)
		return w.Changes()[0]
	}
	paintWith()

	n.SetVisible(false)
	paintWith()
	n.SetVisible(true)
	p := paintWith()
	want := map[string]any{"caption": "OK", "description": "press me"}
	if diff := cmp.Diff(want, p.State); diff != "" {
		t.Errorf("state after showing again (-want +got):\n%s", diff)
	}
}
