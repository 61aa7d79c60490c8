package component

import (
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	synerrors "github.com/go-drift/uisync/pkg/errors"
)

func TestEffectiveVisibleAndEnabled(t *testing.T) {
	parent := New(container{})
	child := New(leaf{})
	if err := parent.AddChild(child); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name                     string
		parentVisible, parentOn  bool
		childVisible, childOn    bool
		wantVisible, wantEnabled bool
	}{
		{"all on", true, true, true, true, true, true},
		{"parent disabled", true, false, true, true, true, false},
		{"parent hidden", false, true, true, true, false, false},
		{"child hidden", true, true, false, true, false, false},
		{"child disabled", true, true, true, false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent.SetVisible(tt.parentVisible)
			parent.SetEnabled(tt.parentOn)
			child.SetVisible(tt.childVisible)
			child.SetEnabled(tt.childOn)
			assert.Equal(t, child.IsVisible(), tt.wantVisible)
			assert.Equal(t, child.IsEnabled(), tt.wantEnabled)
			assert.Equal(t, child.VisibleFlag(), tt.childVisible)
			assert.Equal(t, child.EnabledFlag(), tt.childOn)
		})
	}
}

func TestRepaintCoalescesUntilPainted(t *testing.T) {
	h := newTestHost()
	root, panel, button := tree(h)

	button.SetCaption("OK")
	if diff := cmp.Diff([]string{"button"}, ids(h.takeDirty())); diff != "" {
		t.Errorf("first request (-want +got):\n%s", diff)
	}
	if !button.ListenersNotified() {
		t.Error("button should be marked as notified")
	}
	if panel.ListenersNotified() || root.ListenersNotified() {
		t.Error("ancestors must not be marked when their listeners were already notified")
	}

	button.SetCaption("Cancel")
	button.SetDescription("tooltip")
	if got := h.takeDirty(); len(got) != 0 {
		t.Errorf("repeated requests should coalesce, got %d notifications", len(got))
	}

	paintAll(root)
	button.SetCaption("Retry")
	if got := h.takeDirty(); len(got) != 1 || got[0] != button {
		t.Errorf("request after paint should notify again, got %v", got)
	}
}

func TestRequestRepaintIsIdempotentOnClean(t *testing.T) {
	h := newTestHost()
	_, _, button := tree(h)
	button.RequestRepaint()
	button.RequestRepaint()
	assert.Equal(t, len(h.takeDirty()), 1)
}

func TestVisibilityChangeForcesPropagation(t *testing.T) {
	h := newTestHost()
	root, _, button := tree(h)

	button.SetCaption("OK")
	h.takeDirty()
	button.SetVisible(false)
	if got := h.takeDirty(); len(got) != 1 || got[0] != button {
		t.Fatalf("hiding a notified node must propagate again, got %v", got)
	}

	paintAll(root)
	button.SetCaption("hidden change")
	if got := h.takeDirty(); len(got) != 0 {
		t.Errorf("own-invisible node must not propagate, got %v", got)
	}

	button.SetVisible(true)
	if got := h.takeDirty(); len(got) != 1 {
		t.Errorf("showing the node must propagate, got %v", got)
	}
}

func TestSetEnabledRepaintRule(t *testing.T) {
	h := newTestHost()
	_, panel, button := tree(h)
	count := 0
	button.AddRepaintListener(RepaintListenerFunc(func(RepaintRequestEvent) { count++ }))

	panel.SetEnabled(false)
	button.RequestRepaintRequests()
	count = 0

	// Effective state stays disabled and the parent is visible.
	button.SetEnabled(false)
	assert.Equal(t, count, 0)

	// Parent hidden: the own flag change is still sent.
	panel.SetVisible(false)
	button.RequestRepaintRequests()
	button.SetEnabled(true)
	assert.Equal(t, count, 1)
}

func TestAddChildRejectsSecondParent(t *testing.T) {
	a := New(container{}, WithID("a"))
	b := New(container{}, WithID("b"))
	child := New(leaf{}, WithID("c"))
	if err := a.AddChild(child); err != nil {
		t.Fatal(err)
	}

	err := b.AddChild(child)
	var stateErr *synerrors.StateError
	if !errors.As(err, &stateErr) || !errors.Is(err, synerrors.ErrAlreadyParented) {
		t.Fatalf("expected StateError(ErrAlreadyParented), got %v", err)
	}
	assert.Equal(t, child.Parent(), a)
	assert.Equal(t, b.ChildCount(), 0)

	child.RemoveFromParent()
	if err := b.AddChild(child); err != nil {
		t.Fatalf("detach then attach should succeed: %v", err)
	}
	assert.Equal(t, child.Parent(), b)
}

func TestAddChildRejectsCycleAndRoot(t *testing.T) {
	a := New(container{})
	b := New(container{})
	if err := a.AddChild(b); err != nil {
		t.Fatal(err)
	}
	if err := b.AddChild(a); !errors.Is(err, synerrors.ErrTreeCycle) {
		t.Errorf("expected ErrTreeCycle, got %v", err)
	}
	if err := a.AddChild(a); !errors.Is(err, synerrors.ErrTreeCycle) {
		t.Errorf("expected ErrTreeCycle for self, got %v", err)
	}

	root := NewRoot(newTestHost(), container{})
	if err := a.AddChild(root); !errors.Is(err, synerrors.ErrAlreadyParented) {
		t.Errorf("a session root cannot become a child, got %v", err)
	}
}

func TestAddChildAtClampsIndex(t *testing.T) {
	p := New(container{})
	first := New(leaf{}, WithID("first"))
	last := New(leaf{}, WithID("last"))
	mid := New(leaf{}, WithID("mid"))
	_ = p.AddChildAt(last, 10)
	_ = p.AddChildAt(first, -3)
	_ = p.AddChildAt(mid, 1)

	if diff := cmp.Diff([]string{"first", "mid", "last"}, ids(p.Children())); diff != "" {
		t.Errorf("child order (-want +got):\n%s", diff)
	}
	assert.Equal(t, mid.Depth(), 1)
}

func TestLocaleInheritance(t *testing.T) {
	h := newTestHost()
	root, panel, button := tree(h)

	assert.Equal(t, button.Locale(), language.AmericanEnglish)
	panel.SetLocale(language.German)
	assert.Equal(t, button.Locale(), language.German)
	button.SetLocale(language.French)
	assert.Equal(t, button.Locale(), language.French)
	button.ClearLocale()
	assert.Equal(t, button.Locale(), language.German)
	assert.Equal(t, root.Locale(), language.AmericanEnglish)

	assert.Equal(t, New(leaf{}).Locale(), language.Und)
}

func TestStyleNames(t *testing.T) {
	n := New(leaf{})
	n.SetStyleName("  primary  large primary ")
	assert.Equal(t, n.StyleName(), "primary large")
	n.AddStyleName("wide")
	n.AddStyleName("large")
	assert.Equal(t, n.StyleName(), "primary large wide")
	n.RemoveStyleName("primary wide")
	assert.Equal(t, n.StyleName(), "large")
	assert.Equal(t, n.HasStyleName("large"), true)
	assert.Equal(t, n.HasStyleName("primary"), false)
}

func TestSizeSetters(t *testing.T) {
	n := New(leaf{})
	if err := n.SetWidthString("50%"); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, n.Width(), Percent(50))

	err := n.SetWidthString("wide")
	if !errors.Is(err, synerrors.ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
	assert.Equal(t, n.Width(), Percent(50))

	n.SetHeight(Px(-4))
	assert.Equal(t, n.Height(), SizeUndefined)
	n.SetSizeFull()
	assert.Equal(t, n.Width(), SizeFull)
	assert.Equal(t, n.Height(), SizeFull)
	n.SetSizeUndefined()
	assert.Equal(t, n.Width().IsUndefined(), true)
}

func TestNewConnectorIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := New(nil).ConnectorID()
		if seen[id] {
			t.Fatalf("duplicate connector id %s", id)
		}
		seen[id] = true
	}
	assert.Equal(t, New(nil).Tag(), "component")
}

type countingListener struct {
	sources []string
}

func (l *countingListener) RepaintRequested(e RepaintRequestEvent) {
	l.sources = append(l.sources, e.Source.ConnectorID())
}

func TestAncestorListenersFireOncePerWave(t *testing.T) {
	h := newTestHost()
	root, panel, button := tree(h)
	second := New(leaf{tag: "button"}, WithID("second"))
	if err := panel.AddChild(second); err != nil {
		t.Fatal(err)
	}
	paintAll(root)
	h.takeDirty()

	onPanel, onRoot := &countingListener{}, &countingListener{}
	panel.AddRepaintListener(onPanel)
	root.AddRepaintListener(onRoot)

	button.SetCaption("OK")
	second.SetCaption("Cancel")
	button.SetDescription("tooltip")

	if diff := cmp.Diff([]string{"panel"}, onPanel.sources); diff != "" {
		t.Errorf("panel listener (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"root"}, onRoot.sources); diff != "" {
		t.Errorf("root listener (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"button", "second"}, ids(h.takeDirty())); diff != "" {
		t.Errorf("host listener (-want +got):\n%s", diff)
	}
	assert.Equal(t, panel.ListenersNotified(), true)
	assert.Equal(t, root.ListenersNotified(), true)

	// A new wave starts once the ancestors are re-armed.
	panel.RequestRepaintRequests()
	root.RequestRepaintRequests()
	paintAll(button)
	button.SetCaption("Retry")
	assert.Equal(t, len(onPanel.sources), 2)
	assert.Equal(t, len(onRoot.sources), 2)
}

func TestSharedListenerFiresOncePerWave(t *testing.T) {
	h := newTestHost()
	root, panel, button := tree(h)
	shared := &countingListener{}
	panel.AddRepaintListener(shared)
	root.AddRepaintListener(shared)

	button.SetCaption("OK")
	if diff := cmp.Diff([]string{"panel"}, shared.sources); diff != "" {
		t.Errorf("shared listener (-want +got):\n%s", diff)
	}
	if root.ListenersNotified() {
		t.Error("root notified nobody and must not be flagged")
	}
}
