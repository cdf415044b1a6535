// Package engine describes the call surface of a compiled DSP engine.
//
// Engines are generated outside this repository (for example by faust2api) and
// are driven by the plugin adapter only through the methods below. Everything
// behind them, including the audio algorithm and any internal threads, is
// opaque to the adapter.
package engine

import "io"

// Engine is the subset of a generated DSP engine the adapter drives.
type Engine interface {
	// Start begins engine processing. It is called exactly once, after
	// all parameters have been registered with the host.
	Start() bool

	// Stop ends engine processing. It is called exactly once, and only
	// after Start. Engines that hold resources beyond a stopped run also
	// implement io.Closer; see Release.
	Stop()

	ParamsCount() int
	ParamAddress(index int) string
	ParamMin(index int) float32
	ParamMax(index int) float32
	ParamInit(index int) float32

	SetParamValue(address string, value float32)
	ParamValue(address string) float32

	// JSONMeta returns the engine's metadata document, e.g.
	// {"meta":[{"latency_samples":"256"}]}.
	JSONMeta() string

	// PropagateMidi hands one decoded MIDI message to the engine.
	PropagateMidi(count int, time float64, status, channel, data1, data2 int)
}

// BlockProcessor is implemented by engines whose audio is computed by the
// caller rather than by an engine-owned audio driver.
type BlockProcessor interface {
	NumInputs() int
	NumOutputs() int

	// Compute processes count frames. len(inputs) == NumInputs() and
	// len(outputs) == NumOutputs(); every buffer holds at least count samples.
	Compute(count int, inputs, outputs [][]float32)
}

// IndexedSetter is implemented by engines that can set a parameter by index,
// avoiding an address lookup per edit.
type IndexedSetter interface {
	SetParamValueByIndex(index int, value float32)
}

// RateAware is implemented by engines that need the host sample rate. It is
// called on every prepare and must not reset engine state.
type RateAware interface {
	SetSampleRate(rate float64)
}

// Config carries construction settings shared by engine implementations.
type Config struct {
	Name           string
	SampleRate     float64
	BlockSize      int
	Channels       int
	LatencySamples int
}

// DefaultConfig returns the settings used when a host has not yet reported its
// stream format.
func DefaultConfig() Config {
	return Config{
		Name:       "faustvst3",
		SampleRate: 44100,
		BlockSize:  512,
		Channels:   2,
	}
}

// ParamDescriptor is the engine-reported description of one parameter.
type ParamDescriptor struct {
	Index   int
	Address string
	Min     float32
	Max     float32
	Init    float32
}

// Describe reads the descriptor of parameter i from e.
func Describe(e Engine, i int) ParamDescriptor {
	return ParamDescriptor{
		Index:   i,
		Address: e.ParamAddress(i),
		Min:     e.ParamMin(i),
		Max:     e.ParamMax(i),
		Init:    e.ParamInit(i),
	}
}

// DescribeAll reads every parameter descriptor in engine order.
func DescribeAll(e Engine) []ParamDescriptor {
	n := e.ParamsCount()
	out := make([]ParamDescriptor, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Describe(e, i))
	}
	return out
}

// Release frees eng. It is called once, after Stop, or instead of Start and
// Stop when the engine was never started. Engines that are not io.Closers
// have nothing to free.
func Release(eng Engine) error {
	if c, ok := eng.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
