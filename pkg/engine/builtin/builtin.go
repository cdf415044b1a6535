// Package builtin selects the engine linked into a binary: the native Go
// program by default, or a faust2api engine when built with -tags faust.
package builtin

import "github.com/justyntemme/faustvst3/pkg/engine"

// Name reports which engine New returns.
func Name() string { return name }

// New creates the linked engine.
func New(cfg engine.Config) engine.Engine {
	return newEngine(cfg)
}
