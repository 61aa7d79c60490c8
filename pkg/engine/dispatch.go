package engine

import (
	"context"
	"errors"

	"github.com/golang/glog"

	"github.com/go-drift/uisync/pkg/component"
	synerrors "github.com/go-drift/uisync/pkg/errors"
	"github.com/go-drift/uisync/pkg/rpc"
)

// Built-in interface the client uses to trigger shortcut listeners. The call
// is addressed to the node owning the listener and carries the listener key.
const (
	ActionInterface = "ActionRpc"
	ActionMethod    = "fire"
)

// VariableChange carries client-side value changes for one node.
type VariableChange struct {
	Connector string         `json:"nodeId"`
	Values    map[string]any `json:"values"`
}

// Batch is one inbound client message. Variables are applied before calls.
type Batch struct {
	Calls     []rpc.MethodInvocation `json:"calls,omitempty"`
	Variables []VariableChange       `json:"variables,omitempty"`
}

// Empty reports whether the batch carries nothing.
func (b Batch) Empty() bool {
	return len(b.Calls) == 0 && len(b.Variables) == 0
}

// Handle applies an inbound batch. Each entry is handled on its own: an entry
// that cannot be delivered is reported and dropped, and the rest of the batch
// still runs. Only a closed session or a done context fail the whole batch.
func (s *Session) Handle(ctx context.Context, b Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return synerrors.ErrSessionClosed
	}
	for _, v := range b.Variables {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.changeVariables(v.Connector, v.Values)
	}
	for _, inv := range b.Calls {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.invoke(inv)
	}
	return nil
}

// HandleCalls routes inbound calls to the implementations registered on their
// target nodes.
func (s *Session) HandleCalls(ctx context.Context, calls ...rpc.MethodInvocation) error {
	return s.Handle(ctx, Batch{Calls: calls})
}

// ChangeVariables hands client value changes to the content of the node.
// Changes for a disabled or read-only node are ignored.
func (s *Session) ChangeVariables(ctx context.Context, connector string, values map[string]any) error {
	return s.Handle(ctx, Batch{Variables: []VariableChange{{Connector: connector, Values: values}}})
}

func (s *Session) invoke(inv rpc.MethodInvocation) {
	const op = "engine.HandleCalls"
	n := s.nodes[inv.Connector]
	if n == nil {
		s.report(op, synerrors.KindRouting, inv.Connector, inv.Interface, &synerrors.RoutingError{
			Connector: inv.Connector,
			Interface: inv.Interface,
			Method:    inv.Method,
			Reason:    synerrors.ErrUnknownConnector,
		})
		return
	}
	if !n.IsEnabled() {
		glog.V(2).Infof("session %s: ignoring %s, node is disabled", s.id, inv)
		return
	}
	glog.V(2).Infof("session %s: dispatching %s", s.id, inv)

	var err error
	if inv.Interface == ActionInterface {
		err = s.fireAction(n, inv)
	} else {
		err = s.safeDispatch(n, inv)
	}
	if err == nil {
		return
	}

	var routeErr *synerrors.RoutingError
	var pe *synerrors.PanicError
	switch {
	case errors.As(err, &pe):
		// Already reported.
	case errors.As(err, &routeErr):
		s.report(op, synerrors.KindRouting, n.ConnectorID(), inv.Interface, err)
	case errors.Is(err, rpc.ErrInvalidArguments):
		s.report(op, synerrors.KindParsing, n.ConnectorID(), inv.Interface, err)
	default:
		s.componentError(n, inv.Interface+"."+inv.Method, err)
	}
}

func (s *Session) safeDispatch(n *component.Node, inv rpc.MethodInvocation) (err error) {
	defer s.recover("engine.HandleCalls", n.ConnectorID(), &err)
	return n.RPC().Dispatch(inv)
}

func (s *Session) fireAction(n *component.Node, inv rpc.MethodInvocation) (err error) {
	defer s.recover("engine.HandleCalls", n.ConnectorID(), &err)
	var key string
	if inv.Method != ActionMethod {
		return &synerrors.RoutingError{
			Connector: n.ConnectorID(),
			Interface: inv.Interface,
			Method:    inv.Method,
			Reason:    synerrors.ErrUnknownMethod,
		}
	}
	if err := inv.Args.Decode(0, &key); err != nil {
		return err
	}
	if !n.HandleShortcut(key) {
		return &synerrors.RoutingError{
			Connector: n.ConnectorID(),
			Interface: inv.Interface,
			Method:    inv.Method + "(" + key + ")",
			Reason:    synerrors.ErrUnknownMethod,
		}
	}
	return nil
}

func (s *Session) changeVariables(connector string, values map[string]any) {
	const op = "engine.ChangeVariables"
	n := s.nodes[connector]
	if n == nil {
		s.report(op, synerrors.KindRouting, connector, "", &synerrors.RoutingError{
			Connector: connector,
			Interface: "variables",
			Reason:    synerrors.ErrUnknownConnector,
		})
		return
	}
	if !n.IsEnabled() || n.IsReadOnly() {
		glog.V(2).Infof("session %s: ignoring variables for %s, node is disabled or read-only", s.id, connector)
		return
	}
	recv, ok := n.Content().(component.VariableReceiver)
	if !ok {
		s.report(op, synerrors.KindRouting, connector, "", &synerrors.RoutingError{
			Connector: connector,
			Interface: "variables",
			Reason:    synerrors.ErrUnknownInterface,
		})
		return
	}
	err := s.safeChange(n, recv, values)
	var pe *synerrors.PanicError
	if err != nil && !errors.As(err, &pe) {
		s.componentError(n, "variables", err)
	}
}

func (s *Session) safeChange(n *component.Node, recv component.VariableReceiver, values map[string]any) (err error) {
	defer s.recover("engine.ChangeVariables", n.ConnectorID(), &err)
	return recv.ChangeVariables(n, values)
}

// componentError offers err to the node's handler first. Errors the node does
// not consume are shown on the node and escalated to the session handler.
func (s *Session) componentError(n *component.Node, op string, err error) {
	if n.HandleError(&component.ErrorEvent{Node: n, Op: op, Err: err}) {
		return
	}
	var msg *component.ErrorMessage
	if !errors.As(err, &msg) {
		msg = component.SystemError(err)
	}
	n.SetComponentError(msg)
	s.report(op, synerrors.KindComponent, n.ConnectorID(), "", err)
}
