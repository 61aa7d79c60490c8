package rpc

import (
	"sort"

	"github.com/go-drift/uisync/pkg/errors"
)

// Endpoint is the owner of a Registry.
type Endpoint interface {
	// ConnectorID returns the id the client uses to address the owner.
	ConnectorID() string
	// IsRPCEndpoint reports whether the owner may register implementations.
	IsRPCEndpoint() bool
}

// Manager binds one implementation of one interface to its owner.
type Manager struct {
	iface   string
	owner   Endpoint
	methods []string
	invoke  func(method string, args Args) (bool, error)
}

// Interface returns the interface name handled by the manager.
func (m *Manager) Interface() string {
	return m.iface
}

// Owner returns the endpoint the implementation was registered on.
func (m *Manager) Owner() Endpoint {
	return m.owner
}

// Methods returns the method names the manager accepts.
func (m *Manager) Methods() []string {
	return m.methods
}

// Invoke calls the implementation method named by inv. An undeclared method
// fails with a RoutingError; errors returned by the implementation are
// returned unchanged.
func (m *Manager) Invoke(inv MethodInvocation) error {
	found, err := m.invoke(inv.Method, inv.Args)
	if !found {
		return &errors.RoutingError{
			Connector: m.owner.ConnectorID(),
			Interface: m.iface,
			Method:    inv.Method,
			Reason:    errors.ErrUnknownMethod,
		}
	}
	return err
}

// Registry maps interface names to managers for one endpoint. Entries live as
// long as the endpoint; detaching the endpoint does not clear them.
type Registry struct {
	owner    Endpoint
	managers map[string]*Manager
}

// NewRegistry creates an empty registry owned by owner.
func NewRegistry(owner Endpoint) *Registry {
	return &Registry{owner: owner}
}

// Register binds impl as the implementation of iface. A second registration
// for the same interface replaces the first. Owners that are not RPC
// endpoints fail with a ConfigurationError and the registry is unchanged.
func Register[T any](r *Registry, iface *Interface[T], impl T) error {
	if r.owner == nil || !r.owner.IsRPCEndpoint() {
		return &errors.ConfigurationError{
			Interface: iface.Name(),
			Reason:    errors.ErrNotEndpoint,
		}
	}
	if r.managers == nil {
		r.managers = make(map[string]*Manager)
	}
	r.managers[iface.Name()] = &Manager{
		iface:   iface.Name(),
		owner:   r.owner,
		methods: iface.Methods(),
		invoke: func(method string, args Args) (bool, error) {
			fn, ok := iface.lookup(method)
			if !ok {
				return false, nil
			}
			return true, fn(impl, args)
		},
	}
	return nil
}

// Manager returns the manager registered for the interface name, or nil.
func (r *Registry) Manager(iface string) *Manager {
	return r.managers[iface]
}

// Interfaces returns the registered interface names in sorted order.
func (r *Registry) Interfaces() []string {
	names := make([]string, 0, len(r.managers))
	for name := range r.managers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch routes inv to the manager for its interface.
func (r *Registry) Dispatch(inv MethodInvocation) error {
	m := r.managers[inv.Interface]
	if m == nil {
		connector := inv.Connector
		if connector == "" && r.owner != nil {
			connector = r.owner.ConnectorID()
		}
		return &errors.RoutingError{
			Connector: connector,
			Interface: inv.Interface,
			Method:    inv.Method,
			Reason:    errors.ErrUnknownInterface,
		}
	}
	return m.Invoke(inv)
}

// Unregister removes the manager for the interface name.
func (r *Registry) Unregister(iface string) {
	delete(r.managers, iface)
}

// Clear removes all managers.
func (r *Registry) Clear() {
	r.managers = nil
}
