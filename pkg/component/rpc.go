package component

import "github.com/go-drift/uisync/pkg/rpc"

// IsRPCEndpoint reports whether server RPC implementations may be registered
// on the node.
func (n *Node) IsRPCEndpoint() bool {
	return n.rpcEndpoint
}

// RPC returns the node's server RPC registry.
func (n *Node) RPC() *rpc.Registry {
	return n.rpc
}

// RegisterRPC binds impl as the node's implementation of iface.
func RegisterRPC[T any](n *Node, iface *rpc.Interface[T], impl T) error {
	return rpc.Register(n.rpc, iface, impl)
}

// ClientRPC returns a proxy for a client interface of the node. Calls made
// through it are queued on the node and sent with its next fresh paint.
func (n *Node) ClientRPC(iface rpc.ClientInterface) *rpc.Proxy {
	return rpc.NewProxy(iface, &n.calls, n.RequestRepaint)
}

// PendingCalls returns the number of queued outbound calls.
func (n *Node) PendingCalls() int {
	return n.calls.Pending()
}
