package jackdbus

import (
	"fmt"
	"math"

	"github.com/godbus/dbus/v5"
)

// toVariant wraps a parameter value for SetParameterValue. Only the wire
// types jackdbus declares for parameters are accepted.
func toVariant(value any) (dbus.Variant, error) {
	switch value.(type) {
	case bool, int32, uint32, byte, string:
		return dbus.MakeVariant(value), nil
	default:
		return dbus.Variant{}, fmt.Errorf("unsupported parameter type %T", value)
	}
}

func toUint32(v any) (uint32, error) {
	switch n := v.(type) {
	case uint32:
		return n, nil
	case int32:
		if n < 0 {
			return 0, fmt.Errorf("negative value %d", n)
		}
		return uint32(n), nil
	case uint64:
		if n > math.MaxUint32 {
			return 0, fmt.Errorf("value %d out of range", n)
		}
		return uint32(n), nil
	case int64:
		if n < 0 || n > math.MaxUint32 {
			return 0, fmt.Errorf("value %d out of range", n)
		}
		return uint32(n), nil
	case float64:
		return uint32(n), nil
	default:
		return 0, fmt.Errorf("unexpected reply type %T", v)
	}
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case uint32:
		return float64(n), nil
	case int32:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("unexpected reply type %T", v)
	}
}

// ValuesEqual compares two parameter values as the server would: integers of
// different widths or signedness compare by numeric value, everything else
// with ==.
func ValuesEqual(a, b any) bool {
	ai, aInt := asInt64(a)
	bi, bInt := asInt64(b)

	if aInt || bInt {
		return aInt && bInt && ai == bi
	}

	return a == b
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int32:
		return int64(n), true
	case uint32:
		return int64(n), true
	case byte:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
