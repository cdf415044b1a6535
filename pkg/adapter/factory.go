package adapter

import (
	"os"
	"strconv"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/justyntemme/faustvst3/pkg/engine"
	fwplugin "github.com/justyntemme/faustvst3/pkg/framework/plugin"
	"github.com/justyntemme/faustvst3/pkg/plugin"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvVariant = "FAUSTVST_VARIANT"
	EnvLogMIDI = "FAUSTVST_LOG_MIDI"
)

// ConfigFromEnv overrides the variant and MIDI logging of base from the
// environment. Unset or malformed values keep base.
func ConfigFromEnv(base Config, logger *zap.Logger) Config {
	if logger == nil {
		logger = zap.NewNop()
	}
	if s, ok := os.LookupEnv(EnvVariant); ok {
		v, err := ParseVariant(s)
		if err != nil {
			logger.Warn("ignoring variant", zap.String("env", EnvVariant), zap.Error(err))
		} else {
			base.Variant = v
		}
	}
	if s, ok := os.LookupEnv(EnvLogMIDI); ok {
		on, err := strconv.ParseBool(s)
		if err != nil {
			logger.Warn("ignoring midi logging switch", zap.String("env", EnvLogMIDI), zap.Error(err))
		} else {
			base.LogMIDI = on
		}
	}
	return base
}

// Plugin exposes adapters to the plugin factory. Each processor gets its own
// engine from NewEngine.
type Plugin struct {
	Info      fwplugin.Info
	Config    Config
	Engine    engine.Config
	NewEngine func(engine.Config) engine.Engine
	Logger    *zap.Logger
}

var (
	_ plugin.Plugin            = (*Plugin)(nil)
	_ plugin.Processor         = (*Adapter)(nil)
	_ plugin.StatefulProcessor = (*Adapter)(nil)
	_ plugin.LatencyReporter   = (*Adapter)(nil)
	_ plugin.LayoutNegotiator  = (*Adapter)(nil)
)

func (p *Plugin) GetInfo() fwplugin.Info {
	return p.Info
}

// CreateProcessor builds an engine and an adapter around it. A plugin whose
// category names an instrument is laid out as a synth. If the adapter cannot
// be built the engine is released without having been started.
func (p *Plugin) CreateProcessor() (plugin.Processor, error) {
	cfg := p.Config
	if cfg.Name == "" {
		cfg.Name = p.Info.Name
	}
	if p.Info.IsInstrument() {
		cfg.Synth = true
	}
	ecfg := p.Engine
	if ecfg.Name == "" {
		ecfg.Name = cfg.Name
	}

	eng := p.NewEngine(ecfg)
	a, err := New(eng, cfg, p.Logger)
	if err != nil {
		return nil, multierr.Append(err, engine.Release(eng))
	}
	return a, nil
}
