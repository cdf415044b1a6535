// Package plugin provides base processor functionality shared by the host
// wrapper and the processors it drives.
package plugin

import (
	"io"

	"github.com/justyntemme/faustvst3/pkg/framework/bus"
	"github.com/justyntemme/faustvst3/pkg/framework/param"
	"github.com/justyntemme/faustvst3/pkg/framework/state"
)

// BaseProcessor owns a processor's parameters, buses and state blob.
// Embedders customize it through the On* hooks.
type BaseProcessor struct {
	params     *param.Registry
	buses      *bus.Configuration
	state      *state.Manager
	sampleRate float64

	onInitialize func(sampleRate float64, maxBlockSize int32) error
	onSetActive  func(active bool) error
	onReset      func()
}

// NewBaseProcessor uses buses, or a stereo effect layout when nil.
func NewBaseProcessor(buses *bus.Configuration) *BaseProcessor {
	if buses == nil {
		buses = bus.NewEffectStereo()
	}

	params := param.NewRegistry()
	return &BaseProcessor{
		params: params,
		buses:  buses,
		state:  state.NewManager(params),
	}
}

// Initialize records the sample rate and runs the initialize callback.
func (b *BaseProcessor) Initialize(sampleRate float64, maxBlockSize int32) error {
	b.sampleRate = sampleRate

	if b.onInitialize != nil {
		return b.onInitialize(sampleRate, maxBlockSize)
	}

	return nil
}

// GetParameters returns the parameter registry.
func (b *BaseProcessor) GetParameters() *param.Registry {
	return b.params
}

// GetBuses returns the bus configuration.
func (b *BaseProcessor) GetBuses() *bus.Configuration {
	return b.buses
}

// SetActive runs the reset callback on deactivation, then the activation
// callback.
func (b *BaseProcessor) SetActive(active bool) error {
	if !active && b.onReset != nil {
		b.onReset()
	}

	if b.onSetActive != nil {
		return b.onSetActive(active)
	}

	return nil
}

// GetLatencySamples reports no latency.
func (b *BaseProcessor) GetLatencySamples() int32 {
	return 0
}

// GetTailSamples reports no tail.
func (b *BaseProcessor) GetTailSamples() int32 {
	return 0
}

// SampleRate is the rate passed to the last Initialize.
func (b *BaseProcessor) SampleRate() float64 {
	return b.sampleRate
}

// SaveState writes every parameter value to w.
func (b *BaseProcessor) SaveState(w io.Writer) error {
	return b.state.Save(w)
}

// LoadState restores parameter values written by SaveState.
func (b *BaseProcessor) LoadState(r io.Reader) error {
	return b.state.Load(r)
}

// OnInitialize replaces the hook run by Initialize.
func (b *BaseProcessor) OnInitialize(fn func(sampleRate float64, maxBlockSize int32) error) {
	b.onInitialize = fn
}

// OnSetActive replaces the hook run by SetActive.
func (b *BaseProcessor) OnSetActive(fn func(active bool) error) {
	b.onSetActive = fn
}

// OnReset replaces the hook run on deactivation, before OnSetActive.
func (b *BaseProcessor) OnReset(fn func()) {
	b.onReset = fn
}
