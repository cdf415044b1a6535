package bus

// Role describes what kind of plugin a configuration is built for.
type Role struct {
	Synth        bool
	MIDIEffect   bool
	AcceptsMIDI  bool
	ProducesMIDI bool
}

// ForRole builds the default configuration for a plugin with the given role
// and main channel count (1 or 2, anything else is stereo). Synths get no
// audio input and MIDI effects get no audio at all. Synths and MIDI effects
// always take MIDI in; MIDI effects always send MIDI out.
func ForRole(role Role, channels int32) *Configuration {
	if channels != 1 {
		channels = 2
	}

	c := &Configuration{}
	if !role.MIDIEffect {
		if !role.Synth {
			c.addAudio(DirectionInput, channelName(channels, DirectionInput), channels)
		}
		c.addAudio(DirectionOutput, channelName(channels, DirectionOutput), channels)
	}
	if role.AcceptsMIDI || role.Synth || role.MIDIEffect {
		c.addEvent(DirectionInput, "MIDI In")
	}
	if role.ProducesMIDI || role.MIDIEffect {
		c.addEvent(DirectionOutput, "MIDI Out")
	}
	return c
}

// NewEffectStereo is a stereo in, stereo out effect without MIDI.
func NewEffectStereo() *Configuration { return ForRole(Role{}, 2) }

// NewEffectMono is a mono in, mono out effect without MIDI.
func NewEffectMono() *Configuration { return ForRole(Role{}, 1) }

func channelName(channels int32, direction Direction) string {
	dir := "In"
	if direction == DirectionOutput {
		dir = "Out"
	}
	switch channels {
	case 1:
		return "Mono " + dir
	case 2:
		return "Stereo " + dir
	default:
		return dir
	}
}
