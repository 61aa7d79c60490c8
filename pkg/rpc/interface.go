package rpc

import "sort"

// Method invokes one method of an implementation with encoded arguments.
type Method[T any] func(impl T, args Args) error

// Interface describes a server RPC interface: a name shared with the client
// and the table of methods the client may call.
//
//	var ButtonServerRPC = rpc.NewInterface[ButtonHandler]("ButtonServerRpc").
//	    Method("click", rpc.Method1(ButtonHandler.Click)).
//	    Method("disableOnClick", rpc.Method0(ButtonHandler.DisableOnClick))
type Interface[T any] struct {
	name    string
	methods map[string]Method[T]
}

// NewInterface creates an empty interface description.
func NewInterface[T any](name string) *Interface[T] {
	return &Interface[T]{
		name:    name,
		methods: make(map[string]Method[T]),
	}
}

// Method declares a method and returns the interface for chaining.
func (i *Interface[T]) Method(name string, fn Method[T]) *Interface[T] {
	i.methods[name] = fn
	return i
}

// Name returns the interface name used on the wire.
func (i *Interface[T]) Name() string {
	return i.name
}

// Methods returns the declared method names in sorted order.
func (i *Interface[T]) Methods() []string {
	names := make([]string, 0, len(i.methods))
	for name := range i.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (i *Interface[T]) lookup(method string) (Method[T], bool) {
	fn, ok := i.methods[method]
	return fn, ok
}

// Method0 adapts a method without arguments.
func Method0[T any](fn func(T)) Method[T] {
	return func(impl T, _ Args) error {
		fn(impl)
		return nil
	}
}

// Method1 adapts a method with one decoded argument.
func Method1[T, A any](fn func(T, A)) Method[T] {
	return func(impl T, args Args) error {
		var a A
		if err := args.Decode(0, &a); err != nil {
			return err
		}
		fn(impl, a)
		return nil
	}
}

// Method2 adapts a method with two decoded arguments.
func Method2[T, A, B any](fn func(T, A, B)) Method[T] {
	return func(impl T, args Args) error {
		var a A
		var b B
		if err := args.Decode(0, &a); err != nil {
			return err
		}
		if err := args.Decode(1, &b); err != nil {
			return err
		}
		fn(impl, a, b)
		return nil
	}
}

// MethodErr adapts a method with one decoded argument that can fail.
func MethodErr[T, A any](fn func(T, A) error) Method[T] {
	return func(impl T, args Args) error {
		var a A
		if err := args.Decode(0, &a); err != nil {
			return err
		}
		return fn(impl, a)
	}
}
