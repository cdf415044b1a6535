// Package adapter hosts a compiled DSP engine behind the plugin processor
// contract. It registers one host parameter per engine parameter, relays MIDI
// and audio blocks into the engine and reports the engine's declared latency
// back to the host. It does no signal processing of its own.
package adapter

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/justyntemme/faustvst3/pkg/engine"
	"github.com/justyntemme/faustvst3/pkg/framework/bus"
	"github.com/justyntemme/faustvst3/pkg/framework/debug"
	"github.com/justyntemme/faustvst3/pkg/framework/plugin"
)

// Variant selects how much of the engine an adapter drives.
type Variant int

const (
	// Full relays MIDI, parameters, audio and latency.
	Full Variant = iota
	// Skeleton relays MIDI and parameters only. It never calls the engine's
	// audio path, writes silence and reports no latency.
	Skeleton
)

func (v Variant) String() string {
	switch v {
	case Full:
		return "full"
	case Skeleton:
		return "skeleton"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// ParseVariant reads a variant name as printed by Variant.String. The empty
// string selects Full.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full":
		return Full, nil
	case "skeleton":
		return Skeleton, nil
	default:
		return Full, fmt.Errorf("unknown adapter variant %q", s)
	}
}

// Config describes the plugin an adapter presents to the host.
type Config struct {
	Name    string
	Variant Variant

	// Channels is the main bus width, 1 or 2. Zero follows the engine's
	// output count where it is known and falls back to stereo.
	Channels int32

	Synth        bool
	AcceptsMIDI  bool
	ProducesMIDI bool
	MIDIEffect   bool

	// LogMIDI logs every relayed MIDI message at debug level.
	LogMIDI bool
}

func (c Config) role() bus.Role {
	return bus.Role{
		Synth:        c.Synth,
		MIDIEffect:   c.MIDIEffect,
		AcceptsMIDI:  c.AcceptsMIDI,
		ProducesMIDI: c.ProducesMIDI,
	}
}

// Adapter owns one engine and exposes it as a plugin processor.
type Adapter struct {
	*plugin.BaseProcessor

	cfg    Config
	eng    engine.Engine
	block  engine.BlockProcessor // nil when the audio path is not driven
	id     xid.ID
	logger *zap.Logger

	state   atomic.Int32
	latency atomic.Int32

	mu        sync.Mutex
	onLatency func(samples int32)

	maxBlock int
	scratch  scratch

	closeOnce sync.Once
	closeErr  error
}

// New registers the engine's parameters with the host and starts the engine.
// The adapter owns eng from then on and stops it in Close. If New fails the
// engine has not been started. A nil logger selects debug.Default.
func New(eng engine.Engine, cfg Config, logger *zap.Logger) (*Adapter, error) {
	if logger == nil {
		logger = debug.Default()
	}
	if cfg.Name == "" {
		cfg.Name = "faustvst3"
	}

	a := &Adapter{
		cfg: cfg,
		eng: eng,
		id:  xid.New(),
	}
	if bp, ok := eng.(engine.BlockProcessor); ok && cfg.Variant == Full {
		a.block = bp
	}
	a.logger = logger.Named("adapter").With(
		zap.Stringer("instance", a.id),
		zap.String("plugin", cfg.Name),
		zap.Stringer("variant", cfg.Variant),
	)

	a.BaseProcessor = plugin.NewBaseProcessor(bus.ForRole(cfg.role(), a.mainChannels()))
	if err := a.registerParameters(); err != nil {
		return nil, fmt.Errorf("register parameters: %w", err)
	}

	a.BaseProcessor.OnInitialize(a.initialize)
	a.BaseProcessor.OnSetActive(a.setActive)

	if !eng.Start() {
		a.logger.Warn("engine did not start")
	}
	a.state.Store(int32(StateConstructed))
	a.logParameters()
	a.logger.Debug("adapter constructed", zap.Int32("parameters", a.GetParameters().Count()))
	return a, nil
}

func (a *Adapter) mainChannels() int32 {
	switch a.cfg.Channels {
	case 1, 2:
		return a.cfg.Channels
	}
	if a.block != nil && a.block.NumOutputs() == 1 {
		return 1
	}
	return 2
}

// ID identifies this adapter instance in logs.
func (a *Adapter) ID() xid.ID { return a.id }

// Name returns the plugin name shown to the host.
func (a *Adapter) Name() string { return a.cfg.Name }

// Variant returns the configured variant.
func (a *Adapter) Variant() Variant { return a.cfg.Variant }

// Logger returns the adapter's named logger.
func (a *Adapter) Logger() *zap.Logger { return a.logger }
