package jackcfg

import (
	"fmt"
	"math"
	"strconv"

	"github.com/germanamz/jackselect/pkg/preset"
)

// Coerce converts a preset value into the wire value written for slot. Slots
// with a declared type are converted to it; other slots take their type from
// the value: booleans stay boolean, non-negative integers become uint32,
// negative integers int32, and strings stay strings.
func Coerce(slot preset.Slot, v preset.Value) (any, error) {
	if v.IsNull() {
		return nil, fmt.Errorf("jackcfg: %s: null value", slot.Name)
	}

	switch slot.Type {
	case preset.TypeBool:
		return toBool(slot.Name, v)
	case preset.TypeInt32:
		return toInt32(slot.Name, v)
	}

	switch v.Kind() {
	case preset.KindBool:
		b, _ := v.AsBool()
		return b, nil
	case preset.KindInt:
		i, _ := v.AsInt()
		switch {
		case i >= 0 && i <= math.MaxUint32:
			return uint32(i), nil
		case i < 0 && i >= math.MinInt32:
			return int32(i), nil
		default:
			return nil, fmt.Errorf("jackcfg: %s: integer %d out of range", slot.Name, i)
		}
	case preset.KindString:
		s, _ := v.AsString()
		return s, nil
	default:
		return nil, fmt.Errorf("jackcfg: %s: unsupported value kind %s", slot.Name, v.Kind())
	}
}

func toBool(name string, v preset.Value) (bool, error) {
	switch v.Kind() {
	case preset.KindBool:
		b, _ := v.AsBool()
		return b, nil
	case preset.KindInt:
		i, _ := v.AsInt()
		return i != 0, nil
	case preset.KindString:
		s, _ := v.AsString()
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false, fmt.Errorf("jackcfg: %s: %q is not a boolean", name, s)
		}
		return b, nil
	default:
		return false, fmt.Errorf("jackcfg: %s: unsupported value kind %s", name, v.Kind())
	}
}

func toInt32(name string, v preset.Value) (int32, error) {
	switch v.Kind() {
	case preset.KindBool:
		if b, _ := v.AsBool(); b {
			return 1, nil
		}
		return 0, nil
	case preset.KindInt:
		i, _ := v.AsInt()
		if i < math.MinInt32 || i > math.MaxInt32 {
			return 0, fmt.Errorf("jackcfg: %s: integer %d out of int32 range", name, i)
		}
		return int32(i), nil
	case preset.KindString:
		s, _ := v.AsString()
		i, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("jackcfg: %s: %q is not an int32", name, s)
		}
		return int32(i), nil
	default:
		return 0, fmt.Errorf("jackcfg: %s: unsupported value kind %s", name, v.Kind())
	}
}
