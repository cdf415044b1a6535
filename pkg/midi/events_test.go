package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want []byte
	}{
		{"NoteOn", NoteOn(3, 0, 60, 100), []byte{0x90, 60, 100}},
		{"NoteOff", NoteOff(3, 15, 60, 64), []byte{0x8F, 60, 64}},
		{"PolyPressure", PolyPressure(3, 1, 60, 20), []byte{0xA1, 60, 20}},
		{"ControlChange", ControlChange(3, 0, 74, 127), []byte{0xB0, 74, 127}},
		{"ProgramChange", ProgramChange(3, 2, 5), []byte{0xC2, 5}},
		{"ChannelPressure", ChannelPressure(3, 0, 90), []byte{0xD0, 90}},
		{"PitchBendCentre", PitchBend(3, 0, 0), []byte{0xE0, 0x00, 0x40}},
		{"PitchBendLow", PitchBend(3, 0, -8192), []byte{0xE0, 0x00, 0x00}},
		{"PitchBendHigh", PitchBend(3, 0, 8191), []byte{0xE0, 0x7F, 0x7F}},
		{"Masked", ControlChange(3, 0x13, 0x81, 0xFF), []byte{0xB3, 0x01, 0x7F}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.msg.Data)
			assert.Equal(t, float64(3), tt.msg.Timestamp)
		})
	}
}

func TestConstructorsDecode(t *testing.T) {
	u := Decode(NoteOn(7, 9, 36, 127))
	assert.Equal(t, Unpacked{Count: 3, Timestamp: 7, Type: 0x90, Channel: 10, Data1: 36, Data2: 127}, u)

	u = Decode(ProgramChange(0, 0, 12))
	assert.Equal(t, 2, u.Count)
	assert.Equal(t, 12, u.Data1)
	assert.Equal(t, NoData, u.Data2)
}
