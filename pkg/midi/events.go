// Package midi converts host MIDI events into the raw messages and decoded
// tuples a DSP engine consumes.
package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// Constructors for channel voice messages at a sample offset. Channels are
// zero based and every data byte is masked to seven bits.

func NoteOn(offset int32, channel, key, velocity uint8) Message {
	return stamp(offset, gomidi.NoteOn(channel&0x0F, key&0x7F, velocity&0x7F))
}

func NoteOff(offset int32, channel, key, velocity uint8) Message {
	return stamp(offset, gomidi.NoteOffVelocity(channel&0x0F, key&0x7F, velocity&0x7F))
}

func PolyPressure(offset int32, channel, key, pressure uint8) Message {
	return stamp(offset, gomidi.PolyAfterTouch(channel&0x0F, key&0x7F, pressure&0x7F))
}

func ControlChange(offset int32, channel, controller, value uint8) Message {
	return stamp(offset, gomidi.ControlChange(channel&0x0F, controller&0x7F, value&0x7F))
}

func ProgramChange(offset int32, channel, program uint8) Message {
	return stamp(offset, gomidi.ProgramChange(channel&0x0F, program&0x7F))
}

func ChannelPressure(offset int32, channel, pressure uint8) Message {
	return stamp(offset, gomidi.AfterTouch(channel&0x0F, pressure&0x7F))
}

// PitchBend takes a signed bend, -8192..8191 with 0 at the centre.
func PitchBend(offset int32, channel uint8, value int16) Message {
	return stamp(offset, gomidi.Pitchbend(channel&0x0F, min(max(value, -8192), 8191)))
}

func stamp(offset int32, m gomidi.Message) Message {
	return Message{Data: m.Bytes(), Timestamp: float64(offset)}
}
