package adapter

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/justyntemme/faustvst3/pkg/engine"
	"github.com/justyntemme/faustvst3/pkg/engine/enginetest"
	"github.com/justyntemme/faustvst3/pkg/framework/bus"
	"github.com/justyntemme/faustvst3/pkg/framework/debug"
	"github.com/justyntemme/faustvst3/pkg/framework/param"
	"github.com/justyntemme/faustvst3/pkg/framework/process"
	"github.com/justyntemme/faustvst3/pkg/midi"
)

func newRecorder(meta string) *enginetest.Recorder {
	return enginetest.NewRecorder(meta,
		enginetest.Param("/fx/cutoff", 20, 20020, 1000),
		enginetest.Param("/fx/resonance", 0.5, 10, 0.75),
		enginetest.Param("/fx/gain", -60, 12, 0),
	)
}

func newAdapter(t *testing.T, eng engine.Engine, cfg Config) *Adapter {
	t.Helper()
	a, err := New(eng, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func newContext(a *Adapter, in, out [][]float32) *process.Context {
	ctx := process.NewContext(16, a.GetParameters())
	ctx.Input = in
	ctx.Output = out
	return ctx
}

func TestParametersMirrorEngine(t *testing.T) {
	rec := newRecorder(`{}`)
	a := newAdapter(t, rec, Config{Name: "fx"})

	reg := a.GetParameters()
	require.Equal(t, int32(len(rec.Params)), reg.Count())

	for i, d := range rec.Params {
		p := reg.GetByIndex(int32(i))
		require.NotNil(t, p)
		assert.Equal(t, d.Address, p.Name)
		assert.Equal(t, float64(d.Min), p.Min)
		assert.Equal(t, float64(d.Max), p.Max)
		assert.Equal(t, float64(d.Init), p.DefaultPlain)
		assert.Equal(t, float64(d.Init), p.GetPlainValue())
		assert.Equal(t, param.IDFromName(d.Address), p.ID)
		assert.NotZero(t, p.Flags&param.CanAutomate)
	}
	assert.Equal(t, "gain", reg.ByName("/fx/gain").ShortName)

	assert.Empty(t, rec.CallsOf(enginetest.OpSetParam), "registration must not write to the engine")
}

func TestHostEditReachesEngineOnce(t *testing.T) {
	rec := newRecorder(`{}`)
	a := newAdapter(t, rec, Config{})
	rec.Reset()

	require.NoError(t, a.SetParameter("/fx/gain", -6))
	calls := rec.CallsOf(enginetest.OpSetParam)
	require.Len(t, calls, 1)
	assert.Equal(t, "/fx/gain", calls[0].Address)
	assert.Equal(t, float32(-6), calls[0].Value)
	assert.Equal(t, float32(-6), rec.ParamValue("/fx/gain"))

	// out of range values are forwarded as they are
	require.NoError(t, a.SetParameter("/fx/gain", 40))
	calls = rec.CallsOf(enginetest.OpSetParam)
	require.Len(t, calls, 2)
	assert.Equal(t, float32(40), calls[1].Value)

	// normalized host edits arrive in the engine's range
	a.GetParameters().ByName("/fx/cutoff").SetValue(1)
	calls = rec.CallsOf(enginetest.OpSetParam)
	require.Len(t, calls, 3)
	assert.Equal(t, enginetest.Call{Op: enginetest.OpSetParam, Address: "/fx/cutoff", Value: 20020}, calls[2])

	assert.Error(t, a.SetParameter("/fx/missing", 1))
	v, ok := a.Parameter("/fx/gain")
	assert.True(t, ok)
	assert.Equal(t, 40.0, v)
}

func TestIndexedEngineSetsByIndex(t *testing.T) {
	rec := newRecorder(`{}`)
	a := newAdapter(t, enginetest.Indexed{Recorder: rec}, Config{})

	require.NoError(t, a.SetParameter("/fx/resonance", 2))
	assert.Empty(t, rec.CallsOf(enginetest.OpSetParam))
	calls := rec.CallsOf(enginetest.OpSetParamIdx)
	require.Len(t, calls, 1)
	assert.Equal(t, 1, calls[0].Index)
	assert.Equal(t, float32(2), calls[0].Value)
}

func TestDuplicateEngineNamesFail(t *testing.T) {
	rec := enginetest.NewRecorder(`{}`,
		enginetest.Param("/fx/gain", 0, 1, 0),
		enginetest.Param("/fx/gain", 0, 2, 0),
	)

	a, err := New(rec, Config{}, zap.NewNop())
	require.Error(t, err)
	assert.Nil(t, a)
	assert.True(t, errors.Is(err, param.ErrDuplicateName))
	assert.Empty(t, rec.CallsOf(enginetest.OpStart))
}

func TestStartAndStopOnce(t *testing.T) {
	rec := newRecorder(`{}`)
	a, err := New(rec, Config{}, zap.NewNop())
	require.NoError(t, err)

	require.Equal(t, []enginetest.Call{{Op: enginetest.OpStart}}, rec.Calls())

	require.NoError(t, a.Close())
	require.NoError(t, a.Close())

	assert.Equal(t, []enginetest.Op{enginetest.OpStart, enginetest.OpStop, enginetest.OpRelease}, ops(rec.Calls()))
}

func ops(calls []enginetest.Call) []enginetest.Op {
	out := make([]enginetest.Op, len(calls))
	for i, c := range calls {
		out[i] = c.Op
	}
	return out
}

func TestLifecycle(t *testing.T) {
	rec := newRecorder(`{}`)
	a, err := New(rec, Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, StateConstructed, a.State())

	require.NoError(t, a.PrepareToPlay(48000, 256))
	assert.Equal(t, StatePrepared, a.State())

	a.ProcessAudio(newContext(a, nil, [][]float32{make([]float32, 8)}))
	assert.Equal(t, StateProcessing, a.State())

	require.NoError(t, a.ReleaseResources())
	assert.Equal(t, StateReleased, a.State())

	require.NoError(t, a.PrepareToPlay(44100, 256))
	assert.Equal(t, StatePrepared, a.State())

	require.NoError(t, a.Close())
	assert.Equal(t, StateDestroyed, a.State())
	assert.True(t, errors.Is(a.PrepareToPlay(48000, 256), ErrClosed))
	assert.True(t, errors.Is(a.ReleaseResources(), ErrClosed))

	out := []float32{1, 1, 1}
	a.ProcessAudio(newContext(a, nil, [][]float32{out}))
	assert.Equal(t, []float32{0, 0, 0}, out)
	assert.Len(t, rec.CallsOf(enginetest.OpStop), 1)
}

func TestEditsAfterCloseNeverReachEngine(t *testing.T) {
	rec := newRecorder(`{}`)
	a, err := New(rec, Config{}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, a.SetParameter("/fx/gain", -3))

	var saved bytes.Buffer
	require.NoError(t, a.SaveState(&saved))
	require.NoError(t, a.Close())
	rec.Reset()

	assert.True(t, errors.Is(a.SetParameter("/fx/gain", -6), ErrClosed))
	a.GetParameters().ByName("/fx/cutoff").SetValue(0.1)
	assert.True(t, errors.Is(a.LoadState(&saved), ErrClosed))

	assert.Empty(t, rec.Calls())
}

func TestSetActiveDrivesPrepare(t *testing.T) {
	rec := newRecorder(`{"meta":[{"latency_sec":"0.01"}]}`)
	proc := &enginetest.Processor{Recorder: rec, Inputs: 2, Outputs: 2}
	a := newAdapter(t, proc, Config{})

	require.NoError(t, a.Initialize(48000, 512))
	require.NoError(t, a.SetActive(true))
	assert.Equal(t, StatePrepared, a.State())
	assert.Equal(t, int32(480), a.GetLatencySamples())

	rates := rec.CallsOf(enginetest.OpSampleRate)
	require.Len(t, rates, 1)
	assert.Equal(t, 48000.0, rates[0].Rate)

	require.NoError(t, a.SetActive(false))
	assert.Equal(t, StateReleased, a.State())
}

func TestMIDIRelayedInOrder(t *testing.T) {
	rec := newRecorder(`{}`)
	a := newAdapter(t, rec, Config{AcceptsMIDI: true})
	require.NoError(t, a.PrepareToPlay(48000, 64))
	rec.Reset()

	ctx := newContext(a, nil, [][]float32{make([]float32, 64)})
	ctx.AddMIDI(midi.NewMessage(0, 0x90, 0x40, 0x7F))
	ctx.AddMIDI(midi.NewMessage(3, 0xC5, 0x07))
	ctx.AddMIDI(midi.NewMessage(3, 0xB0, 0x4A, 0x10))
	ctx.AddMIDI(midi.NewMessage(10, 0xF8))
	ctx.AddMIDI(midi.NewMessage(12))
	a.ProcessAudio(ctx)

	want := []enginetest.MidiCall{
		{Count: 3, Time: 0, Status: 0x90, Channel: 1, Data1: 64, Data2: 127},
		{Count: 2, Time: 3, Status: 0xC0, Channel: 6, Data1: 7, Data2: midi.NoData},
		{Count: 3, Time: 3, Status: 0xB0, Channel: 1, Data1: 0x4A, Data2: 0x10},
		{Count: 1, Time: 10, Status: 0xF0, Channel: 0, Data1: midi.NoData, Data2: midi.NoData},
	}
	var got []enginetest.MidiCall
	for _, c := range rec.CallsOf(enginetest.OpMidi) {
		got = append(got, c.Midi)
	}
	assert.Equal(t, want, got)
}

func TestMIDILogging(t *testing.T) {
	var buf bytes.Buffer
	rec := newRecorder(`{}`)
	a, err := New(rec, Config{Name: "fx", LogMIDI: true}, debug.NewWriterLogger(&buf, zapcore.DebugLevel))
	require.NoError(t, err)
	defer a.Close()

	ctx := newContext(a, nil, [][]float32{make([]float32, 16)})
	ctx.AddMIDI(midi.NewMessage(5, 0x90, 0x40, 0x7F))
	a.ProcessAudio(ctx)

	out := buf.String()
	assert.Contains(t, out, "adapter")
	assert.Contains(t, out, "midi")
	assert.Contains(t, out, "@5")
	assert.Contains(t, out, a.ID().String())
}

func TestFullComputeMapsChannels(t *testing.T) {
	t.Run("MonoEngineStereoHost", func(t *testing.T) {
		rec := newRecorder(`{}`)
		a := newAdapter(t, &enginetest.Processor{Recorder: rec, Inputs: 1, Outputs: 1}, Config{Channels: 2})
		require.NoError(t, a.PrepareToPlay(48000, 4))

		in := [][]float32{{1, 2, 3}, {4, 5, 6}}
		out := [][]float32{{9, 9, 9}, {9, 9, 9}}
		a.ProcessAudio(newContext(a, in, out))

		assert.Equal(t, []float32{1, 2, 3}, out[0])
		assert.Equal(t, []float32{0, 0, 0}, out[1])
		computes := rec.CallsOf(enginetest.OpCompute)
		require.Len(t, computes, 1)
		assert.Equal(t, 3, computes[0].Frames)
	})

	t.Run("StereoEngineMonoInput", func(t *testing.T) {
		rec := newRecorder(`{}`)
		a := newAdapter(t, &enginetest.Processor{Recorder: rec, Inputs: 2, Outputs: 2}, Config{})
		require.NoError(t, a.PrepareToPlay(48000, 4))

		in := [][]float32{{1, 2, 3, 4}}
		out := [][]float32{{9, 9, 9, 9}, {9, 9, 9, 9}}
		a.ProcessAudio(newContext(a, in, out))

		assert.Equal(t, []float32{1, 2, 3, 4}, out[0])
		assert.Equal(t, []float32{0, 0, 0, 0}, out[1])
	})

	t.Run("BlockLargerThanPrepared", func(t *testing.T) {
		rec := newRecorder(`{}`)
		a := newAdapter(t, &enginetest.Processor{Recorder: rec, Inputs: 1, Outputs: 2}, Config{})
		require.NoError(t, a.PrepareToPlay(48000, 2))

		out := [][]float32{{9, 9, 9, 9, 9, 9}}
		a.ProcessAudio(newContext(a, nil, out))
		assert.Equal(t, []float32{0, 0, 0, 0, 0, 0}, out[0])
	})
}

func TestSkeletonVariant(t *testing.T) {
	rec := newRecorder(`{"meta":[{"latency_samples":"256"}]}`)
	a := newAdapter(t, &enginetest.Processor{Recorder: rec, Inputs: 2, Outputs: 2}, Config{Variant: Skeleton})

	var notified []int32
	a.OnLatencyChange(func(n int32) { notified = append(notified, n) })
	require.NoError(t, a.PrepareToPlay(48000, 4))
	assert.Zero(t, a.GetLatencySamples())
	assert.Empty(t, notified)

	in := [][]float32{{1, 2}, {3, 4}}
	out := [][]float32{{9, 9}, {9, 9}}
	ctx := newContext(a, in, out)
	ctx.AddMIDI(midi.NewMessage(0, 0x80, 0x40, 0x00))
	a.ProcessAudio(ctx)

	assert.Equal(t, [][]float32{{0, 0}, {0, 0}}, out)
	assert.Empty(t, rec.CallsOf(enginetest.OpCompute))
	assert.Len(t, rec.CallsOf(enginetest.OpMidi), 1)

	require.NoError(t, a.SetParameter("/fx/gain", -3))
	assert.Len(t, rec.CallsOf(enginetest.OpSetParam), 1)
}

func TestLatencyNotification(t *testing.T) {
	rec := newRecorder(`{"meta":[{"name":"fx"},{"latency_samples":256}]}`)
	a := newAdapter(t, &enginetest.Processor{Recorder: rec, Inputs: 2, Outputs: 2}, Config{})

	var notified []int32
	a.OnLatencyChange(func(n int32) { notified = append(notified, n) })

	require.NoError(t, a.PrepareToPlay(48000, 64))
	require.NoError(t, a.PrepareToPlay(96000, 64))
	assert.Equal(t, int32(256), a.GetLatencySamples())
	assert.Equal(t, []int32{256}, notified)

	rec.Meta = `not json`
	require.NoError(t, a.PrepareToPlay(48000, 64))
	assert.Zero(t, a.GetLatencySamples())
	assert.Equal(t, []int32{256, 0}, notified)
}

func TestStateRoundTripReachesEngine(t *testing.T) {
	rec := newRecorder(`{}`)
	a := newAdapter(t, rec, Config{})
	require.NoError(t, a.SetParameter("/fx/gain", -12))
	require.NoError(t, a.SetParameter("/fx/cutoff", 440))

	var buf bytes.Buffer
	require.NoError(t, a.SaveState(&buf))

	other := newRecorder(`{}`)
	b := newAdapter(t, other, Config{})
	other.Reset()
	require.NoError(t, b.LoadState(&buf))

	v, _ := b.Parameter("/fx/gain")
	assert.Equal(t, -12.0, v)
	assert.Equal(t, float32(-12), other.ParamValue("/fx/gain"))
	assert.Equal(t, float32(440), other.ParamValue("/fx/cutoff"))
	assert.Len(t, other.CallsOf(enginetest.OpSetParam), 2)
}

func TestUnitsFromEngineUI(t *testing.T) {
	meta := `{"ui":[{"type":"vgroup","label":"fx","items":[
		{"type":"hslider","label":"cutoff","address":"/fx/cutoff","meta":[{"unit":"Hz"},{"midi":"ctrl 74"}]},
		{"type":"hgroup","label":"out","items":[
			{"type":"vslider","label":"gain","address":"/fx/gain","meta":[{"unit":"dB"}]}
		]},
		{"type":"checkbox","label":"bypass","address":"/fx/bypass"},
		{"type":"hbargraph","label":"level","address":"/fx/level","meta":[{"unit":"dB"}]},
		{"type":"hslider","label":"trim","address":"/fx/trim","meta":[{"hidden":"1"}]}
	]}]}`
	rec := enginetest.NewRecorder(meta,
		enginetest.Param("/fx/cutoff", 20, 20020, 1000),
		enginetest.Param("/fx/gain", -60, 12, 0),
		enginetest.Param("/fx/bypass", 0, 1, 0),
		enginetest.Param("/fx/mix", 0, 1, 1),
		enginetest.Param("/fx/level", -70, 6, -70),
		enginetest.Param("/fx/trim", -1, 1, 0),
	)
	a := newAdapter(t, rec, Config{})
	reg := a.GetParameters()

	cutoff := reg.ByName("/fx/cutoff")
	assert.Equal(t, "Hz", cutoff.Unit)
	assert.Equal(t, "1.02 kHz", cutoff.FormatValue(0.05))

	gain := reg.ByName("/fx/gain")
	assert.Equal(t, "dB", gain.Unit)

	bypass := reg.ByName("/fx/bypass")
	assert.Equal(t, int32(1), bypass.StepCount)
	assert.Equal(t, "On", bypass.FormatValue(1))

	assert.Equal(t, param.CanAutomate|param.IsList, bypass.Flags)

	level := reg.ByName("/fx/level")
	assert.Equal(t, param.IsReadOnly, level.Flags)
	assert.Equal(t, "dB", level.Unit)

	assert.Equal(t, param.CanAutomate|param.IsHidden, reg.ByName("/fx/trim").Flags)

	mix := reg.ByName("/fx/mix")
	assert.Empty(t, mix.Unit)
	assert.Equal(t, param.CanAutomate, mix.Flags)
}

func TestHostContract(t *testing.T) {
	fx := newAdapter(t, newRecorder(`{}`), Config{Name: "fx"})
	assert.Equal(t, "fx", fx.Name())
	assert.False(t, fx.AcceptsMIDI())
	assert.False(t, fx.ProducesMIDI())
	assert.False(t, fx.IsMIDIEffect())
	assert.False(t, fx.HasEditor())
	assert.Equal(t, 1, fx.NumPrograms())
	assert.Equal(t, 0, fx.CurrentProgram())
	fx.SetCurrentProgram(3)
	assert.Equal(t, 0, fx.CurrentProgram())
	assert.Equal(t, "", fx.ProgramName(0))
	assert.Zero(t, fx.TailLengthSeconds())
	assert.Zero(t, fx.GetTailSamples())

	stereo := bus.Layout{MainInput: bus.Stereo, MainOutput: bus.Stereo}
	mono := bus.Layout{MainInput: bus.Mono, MainOutput: bus.Mono}
	mixed := bus.Layout{MainInput: bus.Mono, MainOutput: bus.Stereo}
	assert.True(t, fx.IsBusesLayoutSupported(stereo))
	assert.True(t, fx.IsBusesLayoutSupported(mono))
	assert.False(t, fx.IsBusesLayoutSupported(mixed))

	require.True(t, fx.ApplyLayout(mono))
	assert.Equal(t, int32(1), fx.GetBuses().MainChannels(bus.DirectionInput))
	assert.Equal(t, int32(1), fx.GetBuses().MainChannels(bus.DirectionOutput))
	assert.False(t, fx.ApplyLayout(mixed))

	synth := newAdapter(t, newRecorder(`{}`), Config{Synth: true})
	assert.True(t, synth.AcceptsMIDI())
	assert.True(t, synth.IsSynth())
	assert.True(t, synth.IsBusesLayoutSupported(bus.Layout{MainOutput: bus.Stereo}))
	assert.Zero(t, synth.GetBuses().GetBusCount(bus.MediaTypeAudio, bus.DirectionInput))
	assert.Equal(t, int32(1), synth.GetBuses().GetBusCount(bus.MediaTypeEvent, bus.DirectionInput))

	midiFx := newAdapter(t, newRecorder(`{}`), Config{MIDIEffect: true, AcceptsMIDI: true, ProducesMIDI: true})
	assert.True(t, midiFx.IsMIDIEffect())
	assert.True(t, midiFx.IsBusesLayoutSupported(bus.Layout{MainInput: bus.ChannelSetFor(6), MainOutput: bus.Disabled}))
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in      string
		want    Variant
		wantErr bool
	}{
		{"", Full, false},
		{"full", Full, false},
		{" Skeleton ", Skeleton, false},
		{"partial", Full, true},
	}
	for _, tt := range tests {
		got, err := ParseVariant(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
	assert.Equal(t, "skeleton", Skeleton.String())
}
