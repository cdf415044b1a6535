package bus

import (
	"testing"
)

func TestChannelSet(t *testing.T) {
	tests := []struct {
		set      ChannelSet
		channels int32
	}{
		{Disabled, 0},
		{Mono, 1},
		{Stereo, 2},
		{ChannelSetFor(6), 6},
	}

	for _, tt := range tests {
		if got := tt.set.Channels(); got != tt.channels {
			t.Errorf("Expected %d channels for %#x, got %d", tt.channels, uint64(tt.set), got)
		}
	}

	if ChannelSetFor(1) != Mono || ChannelSetFor(2) != Stereo || ChannelSetFor(0) != Disabled {
		t.Error("Unexpected default arrangement")
	}
}

func TestSupported(t *testing.T) {
	effect := Role{}
	synth := Role{Synth: true}
	midiFX := Role{MIDIEffect: true}
	quad := ChannelSetFor(4)

	tests := []struct {
		name   string
		layout Layout
		role   Role
		want   bool
	}{
		{"EffectStereo", Layout{Stereo, Stereo}, effect, true},
		{"EffectMono", Layout{Mono, Mono}, effect, true},
		{"EffectMismatch", Layout{Mono, Stereo}, effect, false},
		{"EffectQuad", Layout{quad, quad}, effect, false},
		{"EffectNoInput", Layout{Disabled, Stereo}, effect, false},
		{"SynthIgnoresInput", Layout{Disabled, Stereo}, synth, true},
		{"SynthMismatchOK", Layout{Mono, Stereo}, synth, true},
		{"SynthQuad", Layout{Disabled, quad}, synth, false},
		{"MIDIEffectAnything", Layout{quad, Disabled}, midiFX, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Supported(tt.layout, tt.role); got != tt.want {
				t.Errorf("Supported(%+v) = %v, want %v", tt.layout, got, tt.want)
			}
		})
	}
}

func TestLayoutFrom(t *testing.T) {
	l := LayoutFrom(nil, []ChannelSet{Stereo, Mono})
	if l.MainInput != Disabled || l.MainOutput != Stereo {
		t.Errorf("Unexpected layout %+v", l)
	}
}
