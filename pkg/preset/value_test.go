package preset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw  string
		want Value
	}{
		{"true", BoolValue(true)},
		{"false", BoolValue(false)},
		{"", Null()},
		{"42", IntValue(42)},
		{"-7", IntValue(-7)},
		{"alsa", StringValue("alsa")},
		{"True", StringValue("True")},
		{"hw:0,0", StringValue("hw:0,0")},
		{"4.5", StringValue("4.5")},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseValue(tt.raw))
		})
	}
}

func TestValue_Accessors(t *testing.T) {
	b, ok := BoolValue(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = IntValue(1).AsBool()
	assert.False(t, ok)

	i, ok := IntValue(48000).AsInt()
	assert.True(t, ok)
	assert.Equal(t, int64(48000), i)

	s, ok := StringValue("alsa").AsString()
	assert.True(t, ok)
	assert.Equal(t, "alsa", s)

	assert.True(t, Null().IsNull())
	assert.Nil(t, Null().Interface())
	assert.Equal(t, int64(3), IntValue(3).Interface())
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "null", Null().String())
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, "256", IntValue(256).String())
	assert.Equal(t, `"hw:USB"`, StringValue("hw:USB").String())
}
