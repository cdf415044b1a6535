// Package cli holds the flags and setup shared by the command line hosts.
package cli

import (
	"flag"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/justyntemme/faustvst3/pkg/adapter"
	"github.com/justyntemme/faustvst3/pkg/engine"
	"github.com/justyntemme/faustvst3/pkg/engine/builtin"
	"github.com/justyntemme/faustvst3/pkg/framework/debug"
)

// EngineName is the name the linked engine is built with. Parameter
// addresses start with it.
const EngineName = "faustvst3"

// Flags are the engine and adapter settings every host accepts.
type Flags struct {
	Variant   string
	Channels  int
	Latency   int
	BlockSize int
	Synth     bool
	Verbose   bool
	Params    ParamFlag
}

// Register adds the flags to fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Variant, "variant", "full", "adapter variant: full or skeleton")
	fs.IntVar(&f.Channels, "channels", 2, "main bus width, 1 or 2")
	fs.IntVar(&f.Latency, "latency", 0, "latency the native engine declares, in samples")
	fs.IntVar(&f.BlockSize, "block", 512, "frames per processing block")
	fs.BoolVar(&f.Synth, "synth", false, "present the engine as an instrument")
	fs.BoolVar(&f.Verbose, "v", false, "debug logging")
	fs.Var(&f.Params, "param", "set a parameter before processing, as address=value (repeatable)")
}

// Logger builds the process logger from the environment, switched to debug
// by -v, and installs it as the default.
func (f *Flags) Logger() (*zap.Logger, error) {
	cfg := debug.ConfigFromEnv()
	if f.Verbose {
		cfg.Level = zapcore.DebugLevel
		cfg.Development = true
	}
	logger, err := debug.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	debug.SetDefault(logger)
	return logger, nil
}

// NewAdapterFunc returns a constructor for adapters around fresh engines,
// with the -param settings applied.
func (f *Flags) NewAdapterFunc(name string, logger *zap.Logger) (func() (*adapter.Adapter, error), error) {
	if f.Channels != 1 && f.Channels != 2 {
		return nil, fmt.Errorf("channels must be 1 or 2, got %d", f.Channels)
	}
	v, err := adapter.ParseVariant(f.Variant)
	if err != nil {
		return nil, err
	}
	cfg := adapter.ConfigFromEnv(adapter.Config{
		Name:        name,
		Variant:     v,
		Channels:    int32(f.Channels),
		Synth:       f.Synth,
		AcceptsMIDI: true,
	}, logger)
	ecfg := engine.Config{
		Name:           EngineName,
		BlockSize:      f.BlockSize,
		Channels:       f.Channels,
		LatencySamples: f.Latency,
	}

	return func() (*adapter.Adapter, error) {
		eng := builtin.New(ecfg)
		a, err := adapter.New(eng, cfg, logger)
		if err != nil {
			return nil, multierr.Append(err, engine.Release(eng))
		}
		if err := f.Params.Apply(a); err != nil {
			return nil, fmt.Errorf("%w (close: %v)", err, a.Close())
		}
		return a, nil
	}, nil
}
