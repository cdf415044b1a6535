package render

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/justyntemme/faustvst3/pkg/adapter"
	"github.com/justyntemme/faustvst3/pkg/engine"
	"github.com/justyntemme/faustvst3/pkg/engine/enginetest"
)

// delayEngine delays every channel by a fixed number of frames and declares
// that delay as its latency.
type delayEngine struct {
	*enginetest.Recorder
	history [][]float32
}

var _ engine.BlockProcessor = (*delayEngine)(nil)

func newDelayEngine(delay int) *delayEngine {
	meta := fmt.Sprintf(`{"meta":[{"name":"delay"},{"latency_samples":"%d"}]}`, delay)
	return &delayEngine{
		Recorder: enginetest.NewRecorder(meta, enginetest.Param("/delay/mix", 0, 1, 1)),
		history:  [][]float32{make([]float32, delay), make([]float32, delay)},
	}
}

func (d *delayEngine) NumInputs() int  { return 2 }
func (d *delayEngine) NumOutputs() int { return 2 }

func (d *delayEngine) Compute(count int, inputs, outputs [][]float32) {
	d.Record(enginetest.Call{Op: enginetest.OpCompute, Frames: count})
	for ch, out := range outputs {
		h := append(d.history[ch], inputs[ch][:count]...)
		copy(out[:count], h[:count])
		d.history[ch] = append(d.history[ch][:0], h[count:]...)
	}
}

func newDelayAdapter(t *testing.T, delay int) (*adapter.Adapter, *delayEngine) {
	t.Helper()
	eng := newDelayEngine(delay)
	a, err := adapter.New(eng, adapter.Config{Name: "delay", AcceptsMIDI: true}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, eng
}

// ramp holds multiples of 1/1024, which 24 bit files store exactly.
func ramp(frames int) *Buffer {
	b := NewBuffer(48000, 24, 2, frames)
	for f := 0; f < frames; f++ {
		b.Channels[0][f] = float32(f+1) / 1024
		b.Channels[1][f] = -float32(f+1) / 1024
	}
	return b
}

func TestProcessCompensatesLatency(t *testing.T) {
	a, _ := newDelayAdapter(t, 37)
	in := ramp(1000)

	res, err := Process(context.Background(), a, in, nil, Options{BlockSize: 64, CompensateLatency: true, Logger: zap.NewNop()})
	require.NoError(t, err)

	assert.Equal(t, 37, res.Latency)
	assert.Equal(t, 17, res.Blocks, "1037 frames in blocks of 64")
	assert.Equal(t, in.Channels, res.Output.Channels)
	assert.Equal(t, adapter.StateReleased, a.State())
}

func TestProcessWithoutCompensation(t *testing.T) {
	a, _ := newDelayAdapter(t, 10)
	in := ramp(100)

	res, err := Process(context.Background(), a, in, nil, Options{BlockSize: 32, Logger: zap.NewNop()})
	require.NoError(t, err)

	assert.Zero(t, res.Latency)
	assert.Equal(t, 4, res.Blocks)
	for c := range in.Channels {
		assert.Equal(t, make([]float32, 10), res.Output.Channels[c][:10])
		assert.Equal(t, in.Channels[c][:90], res.Output.Channels[c][10:])
	}
}

func TestProcessDeliversMIDIInItsBlock(t *testing.T) {
	a, eng := newDelayAdapter(t, 0)
	events := []Event{
		{Frame: 0, Data: []byte{0x90, 60, 100}},
		{Frame: 70, Data: []byte{0xB0, 1, 64}},
		{Frame: 130, Data: []byte{0x80, 60, 0}},
	}

	_, err := Process(context.Background(), a, ramp(200), events, Options{BlockSize: 64, Logger: zap.NewNop()})
	require.NoError(t, err)

	var got []enginetest.MidiCall
	for _, c := range eng.CallsOf(enginetest.OpMidi) {
		got = append(got, c.Midi)
	}
	assert.Equal(t, []enginetest.MidiCall{
		{Count: 3, Time: 0, Status: 0x90, Channel: 1, Data1: 60, Data2: 100},
		{Count: 3, Time: 6, Status: 0xB0, Channel: 1, Data1: 1, Data2: 64},
		{Count: 3, Time: 2, Status: 0x80, Channel: 1, Data1: 60, Data2: 0},
	}, got)
	assert.Len(t, eng.CallsOf(enginetest.OpCompute), 4)
}

func TestProcessStopsWhenCancelled(t *testing.T) {
	a, eng := newDelayAdapter(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Process(ctx, a, ramp(100), nil, Options{Logger: zap.NewNop()})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, eng.CallsOf(enginetest.OpCompute))
	assert.Equal(t, adapter.StateReleased, a.State())
}

func TestRenderAll(t *testing.T) {
	dir := t.TempDir()
	var jobs []Job
	for i := 0; i < 3; i++ {
		in := filepath.Join(dir, fmt.Sprintf("in%d.wav", i))
		require.NoError(t, WriteWAVFile(in, ramp(300+i*50)))
		jobs = append(jobs, Job{Input: in, Output: filepath.Join(dir, fmt.Sprintf("out%d.wav", i))})
	}

	newAdapter := func() (*adapter.Adapter, error) {
		return adapter.New(newDelayEngine(5), adapter.Config{Name: "delay"}, zap.NewNop())
	}
	opts := Options{BlockSize: 128, CompensateLatency: true, Parallel: 2, Logger: zap.NewNop()}
	require.NoError(t, RenderAll(context.Background(), newAdapter, jobs, opts))

	for i, job := range jobs {
		out, err := ReadWAVFile(job.Output)
		require.NoError(t, err)
		assert.Equal(t, ramp(300+i*50), out, job.Output)
	}

	jobs = append(jobs, Job{Input: filepath.Join(dir, "missing.wav"), Output: filepath.Join(dir, "never.wav")})
	assert.Error(t, RenderAll(context.Background(), newAdapter, jobs, opts))
}
