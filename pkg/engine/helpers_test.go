package engine

import (
	"context"
	"testing"

	"github.com/go-drift/uisync/pkg/component"
	synerrors "github.com/go-drift/uisync/pkg/errors"
	"github.com/go-drift/uisync/pkg/paint"
	"github.com/go-drift/uisync/pkg/rpc"
)

type recorder struct {
	errs   []*synerrors.SyncError
	panics []*synerrors.PanicError
}

func (r *recorder) HandleError(err *synerrors.SyncError)  { r.errs = append(r.errs, err) }
func (r *recorder) HandlePanic(err *synerrors.PanicError) { r.panics = append(r.panics, err) }

func (r *recorder) kinds() []synerrors.ErrorKind {
	kinds := make([]synerrors.ErrorKind, 0, len(r.errs))
	for _, e := range r.errs {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

type testPanel struct{}

func (testPanel) Tag() string { return "panel" }

func (testPanel) PaintContent(n *component.Node, t paint.Target) error {
	return n.PaintChildren(t)
}

type buttonRPC interface {
	Click()
	Submit(value string) error
	Explode()
}

var testButtonRPC = rpc.NewInterface[buttonRPC]("ButtonRpc").
	Method("click", rpc.Method0(buttonRPC.Click)).
	Method("submit", rpc.MethodErr(buttonRPC.Submit)).
	Method("explode", rpc.Method0(buttonRPC.Explode))

type testButton struct {
	clicks    int
	submitted []string
	onClick   func()
}

func (b *testButton) Tag() string { return "button" }

func (b *testButton) PaintContent(*component.Node, paint.Target) error { return nil }

func (b *testButton) Click() {
	b.clicks++
	if b.onClick != nil {
		b.onClick()
	}
}

func (b *testButton) Submit(value string) error {
	if value == "" {
		return component.NewErrorMessage(component.LevelError, "value required")
	}
	b.submitted = append(b.submitted, value)
	return nil
}

func (b *testButton) Explode() { panic("boom") }

type testField struct {
	value string
}

func (f *testField) Tag() string { return "field" }

func (f *testField) PaintContent(_ *component.Node, t paint.Target) error {
	t.AddAttribute("value", f.value)
	return nil
}

func (f *testField) ChangeVariables(_ *component.Node, vars map[string]any) error {
	if v, ok := vars["value"].(string); ok {
		f.value = v
	}
	return nil
}

func (f *testField) TabIndex() int { return 0 }

type fixture struct {
	session *Session
	rec     *recorder
	panel   *component.Node
	button  *component.Node
	field   *component.Node
	btn     *testButton
	fld     *testField
}

// newFixture builds root -> panel -> {button, field} and runs the first cycle.
func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{rec: &recorder{}, btn: &testButton{}, fld: &testField{}}
	opts = append([]Option{WithErrorHandler(f.rec), WithSessionID("s1")}, opts...)
	f.session = NewSession(opts...)
	err := f.session.Access(func(root *component.Node) error {
		f.panel = component.New(testPanel{}, component.WithID("panel"))
		f.button = component.New(f.btn, component.WithID("button"), component.WithRPCEndpoint())
		if err := component.RegisterRPC[buttonRPC](f.button, testButtonRPC, f.btn); err != nil {
			return err
		}
		f.field = component.New(f.fld, component.WithID("field"))
		if err := f.panel.AddChild(f.button); err != nil {
			return err
		}
		if err := f.panel.AddChild(f.field); err != nil {
			return err
		}
		return root.AddChild(f.panel)
	})
	if err != nil {
		t.Fatalf("building tree: %v", err)
	}
	f.render(t)
	t.Cleanup(f.session.Close)
	return f
}

func (f *fixture) render(t *testing.T) *paint.Response {
	t.Helper()
	resp, err := f.session.Render(context.Background())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return resp
}

func (f *fixture) access(t *testing.T, fn func()) {
	t.Helper()
	err := f.session.Access(func(*component.Node) error {
		fn()
		return nil
	})
	if err != nil {
		t.Fatalf("Access: %v", err)
	}
}

func call(t *testing.T, connector, iface, method string, args ...any) rpc.MethodInvocation {
	t.Helper()
	encoded, err := rpc.EncodeArgs(args...)
	if err != nil {
		t.Fatal(err)
	}
	return rpc.MethodInvocation{Connector: connector, Interface: iface, Method: method, Args: encoded}
}

func changeIDs(resp *paint.Response) []string {
	ids := make([]string, 0, len(resp.Changes))
	for _, c := range resp.Changes {
		ids = append(ids, c.ID)
	}
	return ids
}
