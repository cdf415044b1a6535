package plugin

import (
	"github.com/justyntemme/faustvst3/pkg/midi"
	"github.com/justyntemme/faustvst3/pkg/vst3"
)

// toMIDI converts one host event into a raw MIDI message. Velocities and
// pressures arrive normalized and are scaled to seven bits. Legacy CC events
// also carry aftertouch, pitch bend and program change in controller numbers
// above 127. Events with no MIDI form return false.
func toMIDI(ev vst3.Event) (midi.Message, bool) {
	ch, at := uint8(ev.Channel), ev.SampleOffset

	switch ev.Type {
	case vst3.EventNoteOn:
		vel := sevenBit(ev.Velocity)
		if vel == 0 && ev.Velocity > 0 {
			vel = 1
		}
		return midi.NoteOn(at, ch, uint8(ev.Pitch), vel), true
	case vst3.EventNoteOff:
		return midi.NoteOff(at, ch, uint8(ev.Pitch), sevenBit(ev.Velocity)), true
	case vst3.EventPolyPressure:
		return midi.PolyPressure(at, ch, uint8(ev.Pitch), sevenBit(ev.Pressure)), true
	case vst3.EventLegacyMIDICCOut:
		return legacyCC(ev)
	case vst3.EventData:
		if ev.DataType != vst3.DataTypeMIDISysEx || len(ev.Data) == 0 {
			return midi.Message{}, false
		}
		return midi.NewMessage(float64(at), ev.Data...), true
	default:
		return midi.Message{}, false
	}
}

func legacyCC(ev vst3.Event) (midi.Message, bool) {
	ch, at := uint8(ev.Channel), ev.SampleOffset
	v := uint8(ev.Value)
	switch {
	case ev.ControlNumber < 128:
		return midi.ControlChange(at, ch, ev.ControlNumber, v), true
	case ev.ControlNumber == vst3.ControllerAfterTouch:
		return midi.ChannelPressure(at, ch, v), true
	case ev.ControlNumber == vst3.ControllerPitchBend:
		// value holds the LSB and value2 the MSB
		raw := int16(uint16(uint8(ev.Value2)&0x7F)<<7|uint16(v&0x7F)) - 8192
		return midi.PitchBend(at, ch, raw), true
	case ev.ControlNumber == vst3.ControllerProgramChange:
		return midi.ProgramChange(at, ch, v), true
	case ev.ControlNumber == vst3.ControllerPolyPressure:
		return midi.PolyPressure(at, ch, v, uint8(ev.Value2)), true
	default:
		return midi.Message{}, false
	}
}

func sevenBit(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 127
	default:
		return uint8(v*127 + 0.5)
	}
}
