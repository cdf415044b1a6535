// Package plugin provides the VST3 plugin framework: the interfaces a plugin
// implements and the component that drives them on behalf of the host.
package plugin

import (
	"io"

	"github.com/justyntemme/faustvst3/pkg/framework/bus"
	"github.com/justyntemme/faustvst3/pkg/framework/param"
	"github.com/justyntemme/faustvst3/pkg/framework/plugin"
	"github.com/justyntemme/faustvst3/pkg/framework/process"
)

// Plugin is the main interface that users implement
type Plugin interface {
	// GetInfo returns plugin metadata
	GetInfo() plugin.Info

	// CreateProcessor creates a new instance of the audio processor
	CreateProcessor() (Processor, error)
}

// Processor handles the actual audio processing
type Processor interface {
	// Initialize is called when the host sets up processing
	Initialize(sampleRate float64, maxBlockSize int32) error

	// ProcessAudio processes one block. It runs on the audio thread.
	ProcessAudio(ctx *process.Context)

	// GetParameters returns the parameter registry
	GetParameters() *param.Registry

	// GetBuses returns the bus configuration
	GetBuses() *bus.Configuration

	// SetActive is called when processing starts/stops
	SetActive(active bool) error

	// GetLatencySamples returns the plugin's latency in samples
	GetLatencySamples() int32

	// GetTailSamples returns the tail length in samples
	GetTailSamples() int32
}

// Optional processor capabilities, discovered by type assertion.
type (
	// StatefulProcessor saves and restores its parameters.
	StatefulProcessor interface {
		SaveState(w io.Writer) error
		LoadState(r io.Reader) error
	}

	// LatencyReporter notifies when its latency changes.
	LatencyReporter interface {
		OnLatencyChange(fn func(samples int32))
	}

	// LayoutNegotiator decides which bus layouts it accepts.
	LayoutNegotiator interface {
		IsBusesLayoutSupported(layout bus.Layout) bool
		ApplyLayout(layout bus.Layout) bool
	}
)
