package bus

import "math/bits"

// ChannelSet is a VST3 speaker arrangement: one bit per speaker.
type ChannelSet uint64

const (
	SpeakerL ChannelSet = 1 << 0
	SpeakerR ChannelSet = 1 << 1
	SpeakerM ChannelSet = 1 << 19

	// Disabled is the empty arrangement used for absent or inactive buses.
	Disabled ChannelSet = 0
	Mono                = SpeakerM
	Stereo              = SpeakerL | SpeakerR
)

// Channels returns the number of speakers in the set.
func (s ChannelSet) Channels() int32 {
	return int32(bits.OnesCount64(uint64(s)))
}

// ChannelSetFor returns the default arrangement for a channel count.
func ChannelSetFor(channels int32) ChannelSet {
	switch channels {
	case 0:
		return Disabled
	case 1:
		return Mono
	case 2:
		return Stereo
	default:
		return ChannelSet(1)<<uint(channels) - 1
	}
}

// Layout is the main bus arrangement a host proposes.
type Layout struct {
	MainInput  ChannelSet
	MainOutput ChannelSet
}

// LayoutFrom reads the proposed main arrangements from per-bus lists as a
// host passes them. Missing buses read as Disabled.
func LayoutFrom(inputs, outputs []ChannelSet) Layout {
	var l Layout
	if len(inputs) > 0 {
		l.MainInput = inputs[0]
	}
	if len(outputs) > 0 {
		l.MainOutput = outputs[0]
	}
	return l
}

// Supported reports whether a plugin with the given role accepts the layout.
// MIDI effects take anything. Otherwise the main output must be mono or
// stereo and, unless the plugin is a synth, the main input must match it.
func Supported(l Layout, role Role) bool {
	if role.MIDIEffect {
		return true
	}
	if l.MainOutput != Mono && l.MainOutput != Stereo {
		return false
	}
	if !role.Synth && l.MainInput != l.MainOutput {
		return false
	}
	return true
}
