package preset

import (
	"strconv"
	"strings"
)

// Kind identifies the runtime type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a typed parameter value. The zero value is null, meaning "reset the
// parameter to the server default". Values are comparable with ==.
type Value struct {
	kind Kind
	b    bool
	i    int64
	s    string
}

// Null returns the null value.
func Null() Value { return Value{} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// IntValue wraps a signed integer.
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// ParseValue coerces a raw configuration string. The literals "true" and
// "false" (case-sensitive) become booleans, the empty string becomes null, and
// anything else is tried as a base-10 integer before falling back to the
// string itself.
func ParseValue(raw string) Value {
	switch raw {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	case "":
		return Null()
	}

	if i, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
		return IntValue(i)
	}

	return StringValue(raw)
}

// Kind returns the runtime type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v carries no explicit value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// Interface returns v as a plain Go value: nil, bool, int64 or string.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindString:
		return v.s
	default:
		return nil
	}
}

// String renders v for logs and listings. Strings are quoted so that "42" and
// 42 stay distinguishable.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindString:
		return strconv.Quote(v.s)
	default:
		return "null"
	}
}
