package adapter

import (
	"github.com/justyntemme/faustvst3/pkg/framework/bus"
)

// AcceptsMIDI reports whether the plugin takes MIDI input.
func (a *Adapter) AcceptsMIDI() bool { return a.cfg.AcceptsMIDI || a.cfg.Synth }

// ProducesMIDI reports whether the plugin emits MIDI.
func (a *Adapter) ProducesMIDI() bool { return a.cfg.ProducesMIDI }

// IsMIDIEffect reports whether the plugin is a pure MIDI effect.
func (a *Adapter) IsMIDIEffect() bool { return a.cfg.MIDIEffect }

// IsSynth reports whether the plugin is an instrument without audio input.
func (a *Adapter) IsSynth() bool { return a.cfg.Synth }

// IsBusesLayoutSupported reports whether the host may use layout.
func (a *Adapter) IsBusesLayoutSupported(layout bus.Layout) bool {
	return bus.Supported(layout, a.cfg.role())
}

// ApplyLayout switches the main buses to an accepted layout.
func (a *Adapter) ApplyLayout(layout bus.Layout) bool {
	if !a.IsBusesLayoutSupported(layout) {
		return false
	}
	buses := a.GetBuses()
	if !a.cfg.Synth {
		buses.SetMainChannels(bus.DirectionInput, layout.MainInput.Channels())
	}
	buses.SetMainChannels(bus.DirectionOutput, layout.MainOutput.Channels())
	return true
}

// The adapter has a single unnamed program.

// NumPrograms always returns 1.
func (a *Adapter) NumPrograms() int { return 1 }

// CurrentProgram always returns 0.
func (a *Adapter) CurrentProgram() int { return 0 }

// SetCurrentProgram is ignored.
func (a *Adapter) SetCurrentProgram(int) {}

// ProgramName returns the empty name of the only program.
func (a *Adapter) ProgramName(int) string { return "" }

// ChangeProgramName is ignored.
func (a *Adapter) ChangeProgramName(int, string) {}

// TailLengthSeconds is 0: output stops when input stops.
func (a *Adapter) TailLengthSeconds() float64 { return 0 }

// GetTailSamples is 0.
func (a *Adapter) GetTailSamples() int32 { return 0 }

// HasEditor is false; hosts show their generic parameter view.
func (a *Adapter) HasEditor() bool { return false }
