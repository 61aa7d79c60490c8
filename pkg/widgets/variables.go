package widgets

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-drift/uisync/pkg/rpc"
)

// intVariable converts a decoded JSON number to an int.
func intVariable(name string, v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("%w: %s: %v is not an integer", rpc.ErrInvalidArguments, name, x)
		}
		return int(x), nil
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", rpc.ErrInvalidArguments, name, err)
		}
		return int(i), nil
	default:
		return 0, fmt.Errorf("%w: %s: want a number, got %T", rpc.ErrInvalidArguments, name, v)
	}
}

func stringVariable(name string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s: want a string, got %T", rpc.ErrInvalidArguments, name, v)
	}
	return s, nil
}
