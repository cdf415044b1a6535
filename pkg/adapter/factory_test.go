package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/justyntemme/faustvst3/pkg/engine"
	"github.com/justyntemme/faustvst3/pkg/engine/enginetest"
	"github.com/justyntemme/faustvst3/pkg/framework/bus"
	fwplugin "github.com/justyntemme/faustvst3/pkg/framework/plugin"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvVariant, "skeleton")
	t.Setenv(EnvLogMIDI, "true")

	cfg := ConfigFromEnv(Config{Name: "fx"}, zap.NewNop())
	assert.Equal(t, Skeleton, cfg.Variant)
	assert.True(t, cfg.LogMIDI)
	assert.Equal(t, "fx", cfg.Name)

	t.Setenv(EnvVariant, "bogus")
	t.Setenv(EnvLogMIDI, "maybe")
	cfg = ConfigFromEnv(Config{Variant: Skeleton}, nil)
	assert.Equal(t, Skeleton, cfg.Variant)
	assert.False(t, cfg.LogMIDI)
}

func TestPluginCreatesOneEnginePerProcessor(t *testing.T) {
	var engines []*enginetest.Recorder
	var names []string
	p := &Plugin{
		Info:   fwplugin.Info{ID: "com.faustvst3.test", Name: "Test FX"},
		Logger: zap.NewNop(),
		NewEngine: func(cfg engine.Config) engine.Engine {
			names = append(names, cfg.Name)
			rec := newRecorder(`{}`)
			engines = append(engines, rec)
			return rec
		},
	}

	assert.Equal(t, "Test FX", p.GetInfo().Name)

	first, err := p.CreateProcessor()
	require.NoError(t, err)
	second, err := p.CreateProcessor()
	require.NoError(t, err)

	require.Len(t, engines, 2)
	assert.Equal(t, []string{"Test FX", "Test FX"}, names)
	assert.Equal(t, "Test FX", first.(*Adapter).Name())

	require.NoError(t, first.(*Adapter).Close())
	require.NoError(t, second.(*Adapter).Close())
	assert.Len(t, engines[0].CallsOf(enginetest.OpStop), 1)
	assert.Len(t, engines[1].CallsOf(enginetest.OpStop), 1)
}

func TestPluginReleasesEngineOnFailure(t *testing.T) {
	var rec *enginetest.Recorder
	p := &Plugin{
		Info:   fwplugin.Info{ID: "com.faustvst3.test", Name: "Broken"},
		Logger: zap.NewNop(),
		NewEngine: func(engine.Config) engine.Engine {
			rec = enginetest.NewRecorder(`{}`,
				enginetest.Param("/x/a", 0, 1, 0),
				enginetest.Param("/x/a", 0, 1, 0),
			)
			return rec
		},
	}

	_, err := p.CreateProcessor()
	require.Error(t, err)
	assert.Equal(t, []enginetest.Op{enginetest.OpRelease}, ops(rec.Calls()))
}

func TestPluginInstrumentCategory(t *testing.T) {
	p := &Plugin{
		Info:      fwplugin.Info{ID: "com.faustvst3.synth", Name: "Synth", Category: "Instrument|Synth"},
		Logger:    zap.NewNop(),
		NewEngine: func(engine.Config) engine.Engine { return newRecorder(`{}`) },
	}

	proc, err := p.CreateProcessor()
	require.NoError(t, err)
	a := proc.(*Adapter)
	defer a.Close()

	assert.True(t, a.IsSynth())
	assert.True(t, a.AcceptsMIDI())
	assert.Zero(t, a.GetBuses().MainChannels(bus.DirectionInput))
}
