package preset

// Type is the wire type a schema slot is coerced to before it is written.
type Type int

const (
	// TypeAuto infers the wire type from the runtime kind of the value.
	TypeAuto Type = iota
	TypeBool
	TypeInt32
)

func (t Type) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt32:
		return "int32"
	default:
		return "auto"
	}
}

// Slot is one settable parameter of the schema.
type Slot struct {
	Name string
	Type Type
}

var schema = map[Component][]Slot{
	Engine: {
		{Name: "realtime", Type: TypeBool},
		{Name: "realtime-priority", Type: TypeInt32},
		{Name: "port-max"},
		{Name: "verbose"},
		{Name: "client-timeout", Type: TypeInt32},
	},
	Driver: {
		{Name: "driver"},
		{Name: "capture"},
		{Name: "playback"},
		{Name: "device"},
		{Name: "rate"},
		{Name: "period"},
		{Name: "nperiods"},
		{Name: "outchannels"},
		{Name: "inchannels"},
		{Name: "channels", Type: TypeInt32},
		{Name: "midi"},
		{Name: "hwmon"},
		{Name: "hwmeter"},
		{Name: "shorts"},
		{Name: "softmode"},
	},
}

// Schema returns the slots of component c in application order. The returned
// slice is a copy.
func Schema(c Component) []Slot {
	slots := schema[c]
	cp := make([]Slot, len(slots))
	copy(cp, slots)

	return cp
}

// SlotFor returns the schema slot named name in component c.
func SlotFor(c Component, name string) (Slot, bool) {
	for _, s := range schema[c] {
		if s.Name == name {
			return s, true
		}
	}

	return Slot{}, false
}
