package component

import (
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/google/go-cmp/cmp"
)

func TestShortcutListeners(t *testing.T) {
	n := New(leaf{tag: "button"}, WithID("save"))
	fired := 0
	save := NewShortcutListener("Save", 'S', func(*Node) { fired++ }, ModifierCtrl)
	n.AddShortcutListener(save)
	n.AddShortcutListener(save)
	assert.Equal(t, save.Key(), "1")

	want := []map[string]any{{"key": "1", "keyCode": int('S'), "caption": "Save", "modifiers": []int{17}}}
	if diff := cmp.Diff(want, n.State().Extra["shortcuts"]); diff != "" {
		t.Errorf("shortcut state (-want +got):\n%s", diff)
	}

	if n.HandleShortcut("1") {
		t.Error("a detached node must not handle shortcuts")
	}

	h := newTestHost()
	root := NewRoot(h, container{})
	_ = root.AddChild(n)
	assert.Equal(t, n.actions.Viewer(), root)
	assert.Equal(t, n.HandleShortcut("1"), true)
	assert.Equal(t, n.HandleShortcut("2"), false)
	assert.Equal(t, fired, 1)

	n.RemoveFromParent()
	assert.Equal(t, n.actions.Viewer() == nil, true)

	n.RemoveShortcutListener(save)
	if _, ok := n.State().Extra["shortcuts"]; ok {
		t.Error("removed shortcut should leave the state")
	}
}
