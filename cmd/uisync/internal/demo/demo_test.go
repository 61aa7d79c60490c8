package demo

import (
	"testing"

	"github.com/go-playground/assert/v2"

	synctest "github.com/go-drift/uisync/pkg/testing"
	"github.com/go-drift/uisync/pkg/widgets"
)

func TestGreeting(t *testing.T) {
	tester := synctest.NewSessionTester(t, Build)

	if tester.Payload("name") == nil || tester.Payload("greet") == nil {
		t.Fatal("first render should contain the form")
	}
	root := tester.Last().Changes[0]
	if len(root.Calls) != 1 || root.Calls[0].Method != "focus" {
		t.Errorf("root calls = %v, want one focus call", root.Calls)
	}

	tester.SetVariables("name", map[string]any{"text": "Ada"})
	tester.Call("greet", widgets.ButtonServerRPC.Name(), "click", widgets.MouseEventDetails{})
	resp := tester.Render()

	assert.Equal(t, resp.Find("greeting").State["text"], "Hello, Ada")
	tester.ExpectNoErrors()
}

func TestEnterGreets(t *testing.T) {
	tester := synctest.NewSessionTester(t, Build)
	form := tester.Find(synctest.ByDebugID("form")).First()

	tester.Call(form.ConnectorID(), "ActionRpc", "fire", "1")
	resp := tester.Render()

	assert.Equal(t, resp.Find("greeting").State["text"], "Hello, stranger")
	tester.ExpectNoErrors()
}
