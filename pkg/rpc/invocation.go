package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidArguments indicates the arguments of a call could not be decoded.
var ErrInvalidArguments = errors.New("invalid arguments")

// Args holds the still-encoded arguments of a call.
type Args []json.RawMessage

// Len returns the number of arguments.
func (a Args) Len() int {
	return len(a)
}

// Decode decodes argument i into v.
func (a Args) Decode(i int, v any) error {
	if i < 0 || i >= len(a) {
		return fmt.Errorf("%w: argument %d missing (got %d)", ErrInvalidArguments, i, len(a))
	}
	if err := DefaultCodec.Decode(a[i], v); err != nil {
		return fmt.Errorf("%w: argument %d: %v", ErrInvalidArguments, i, err)
	}
	return nil
}

// EncodeArgs encodes values into Args.
func EncodeArgs(values ...any) (Args, error) {
	if len(values) == 0 {
		return nil, nil
	}
	args := make(Args, len(values))
	for i, v := range values {
		data, err := DefaultCodec.Encode(v)
		if err != nil {
			return nil, fmt.Errorf("%w: argument %d: %v", ErrInvalidArguments, i, err)
		}
		args[i] = data
	}
	return args, nil
}

// MethodInvocation is a single call in either direction. Inbound calls carry
// the target node id; outbound calls are attached to their node's payload and
// leave it empty.
type MethodInvocation struct {
	Connector string `json:"nodeId,omitempty"`
	Interface string `json:"interface"`
	Method    string `json:"method"`
	Args      Args   `json:"args,omitempty"`
}

func (m MethodInvocation) String() string {
	if m.Connector != "" {
		return fmt.Sprintf("%s.%s@%s", m.Interface, m.Method, m.Connector)
	}
	return m.Interface + "." + m.Method
}
