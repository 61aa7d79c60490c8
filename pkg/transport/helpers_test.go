package transport

import (
	"strconv"
	"testing"
	"time"

	"github.com/go-drift/uisync/pkg/component"
	"github.com/go-drift/uisync/pkg/engine"
	"github.com/go-drift/uisync/pkg/rpc"
	"github.com/go-drift/uisync/pkg/widgets"
)

// buildCounter builds root -> {label "count", button "ok"}; each click
// increments the label.
func buildCounter(root *component.Node) error {
	count := widgets.NewLabel("0", component.WithID("count"))
	clicks := 0
	ok := widgets.NewButton("OK", component.WithID("ok"))
	ok.AddClickListener(func(widgets.ClickEvent) {
		clicks++
		count.SetValue(strconv.Itoa(clicks))
	})
	if err := root.AddChild(count.Node()); err != nil {
		return err
	}
	return root.AddChild(ok.Node())
}

func newTestManager(t *testing.T) *engine.Manager {
	t.Helper()
	m := engine.NewManager(buildCounter, 0)
	t.Cleanup(m.CloseAll)
	return m
}

func clickBatch(t *testing.T) engine.Batch {
	t.Helper()
	args, err := rpc.EncodeArgs(widgets.MouseEventDetails{})
	if err != nil {
		t.Fatal(err)
	}
	return engine.Batch{Calls: []rpc.MethodInvocation{{
		Connector: "ok",
		Interface: widgets.ButtonServerRPC.Name(),
		Method:    "click",
		Args:      args,
	}}}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (b *binder) isBound(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bound[id]
}
